package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"mbench/internal/logging"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML configuration file on top of the defaults. Values of the
// form ${NAME} are expanded from the environment before parsing.
func Load(filepath string) (*Config, error) {
	logger := logging.GetLogger()

	data, err := os.ReadFile(filepath)
	if err != nil {
		logger.WithField("config_file", filepath).WithError(err).Error("Failed to read config file")
		return nil, err
	}

	expanded := expandEnvVars(string(data))

	config := Default()
	if err := yaml.Unmarshal([]byte(expanded), config); err != nil {
		logger.WithField("config_file", filepath).WithError(err).Error("Failed to parse config file")
		return nil, fmt.Errorf("invalid config file %s: %w", filepath, err)
	}

	return config, nil
}

func expandEnvVars(content string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		envVar := strings.Trim(match, "${}")
		if value := os.Getenv(envVar); value != "" {
			return value
		}
		return match
	})
}
