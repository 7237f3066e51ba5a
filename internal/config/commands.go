package config

import "strings"

// NormalizedCommands splits the trailing CLI arguments into one command line
// per benchmark target. Targets are separated by "--"; an argument that
// already contains a space is taken as one complete, pre-quoted command.
// Arguments following a command token are single-quoted unless they start
// with "-" or carry their own quotes.
func (c *Config) NormalizedCommands() []string {
	var commands []string
	var current []string
	for _, arg := range c.Commands {
		switch {
		case len(current) == 0:
			if arg == delimiter {
				// leading or doubled separator
			} else if strings.Contains(arg, " ") {
				commands = append(commands, arg)
			} else {
				current = append(current, arg)
			}
		case arg == delimiter:
			commands = append(commands, strings.Join(current, " "))
			current = current[:0]
		default:
			current = append(current, quoteArg(arg))
		}
	}
	if len(current) > 0 {
		commands = append(commands, strings.Join(current, " "))
	}
	return commands
}

const delimiter = "--"

func isQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}
	return s[0] == '"' && s[len(s)-1] == '"' || s[0] == '\'' && s[len(s)-1] == '\''
}

func quoteArg(s string) string {
	if isQuoted(s) || strings.HasPrefix(s, "-") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}
