package config

import (
	"errors"
	"fmt"
)

// Config carries every knob of a benchmark session. Values come from the
// built-in defaults, then an optional YAML file, then command-line flags.
type Config struct {
	// Runs is the number of measured executions per target command.
	Runs int `yaml:"runs"`
	// Loops repeats the target inside one measured run. Statistics are
	// computed on the aggregate; time- and count-valued items are divided
	// by Loops at display time.
	Loops int `yaml:"loops"`

	// Shell and ShellArg form the outer invocation:
	// <shell> <shell_arg> "<time command> <target>".
	Shell    string `yaml:"shell"`
	ShellArg string `yaml:"shell_arg"`

	// UseBuiltin restricts measurement to the shell builtin time keyword.
	UseBuiltin bool `yaml:"use_builtin"`
	NoBSD      bool `yaml:"no_bsd"`
	NoGNU      bool `yaml:"no_gnu"`

	BSDCommand     string `yaml:"bsd_command"`
	GNUCommand     string `yaml:"gnu_command"`
	BuiltinCommand string `yaml:"builtin_command"`

	LogLevel string `yaml:"log_level"`
	NoColor  bool   `yaml:"no_color"`

	// Commands holds the raw trailing CLI arguments; see NormalizedCommands.
	Commands []string `yaml:"-"`
}

func Default() *Config {
	return &Config{
		Runs:           10,
		Loops:          1,
		Shell:          "sh",
		ShellArg:       "-c",
		BSDCommand:     "/usr/bin/env time -l",
		GNUCommand:     "/usr/bin/env gtime -v",
		BuiltinCommand: "time",
		LogLevel:       "warn",
	}
}

func (c *Config) Validate() error {
	if c.Runs < 1 {
		return fmt.Errorf("runs must be at least 1, got %d", c.Runs)
	}
	if c.Loops < 1 {
		return fmt.Errorf("loops must be at least 1, got %d", c.Loops)
	}
	if c.Shell == "" {
		return errors.New("shell must not be empty")
	}
	if len(c.NormalizedCommands()) == 0 {
		return errors.New("no command to benchmark")
	}
	return nil
}
