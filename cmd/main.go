package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"mbench/internal/config"
	"mbench/internal/display"
	"mbench/internal/logging"
	"mbench/internal/scheduler"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const Version = "1.0.0"

func loadEnvironment() {
	logger := logging.GetLogger()

	// Try to load .env file from current directory
	envFile := ".env"
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			logger.WithField("file", envFile).WithError(err).Warn("Error loading .env file")
		} else {
			logger.WithField("file", envFile).Debug("Loaded environment variables")
		}
	} else {
		// Try to load from the application directory
		if execPath, err := os.Executable(); err == nil {
			appDir := filepath.Dir(execPath)
			envFile = filepath.Join(appDir, ".env")
			if _, err := os.Stat(envFile); err == nil {
				if err := godotenv.Load(envFile); err != nil {
					logger.WithField("file", envFile).WithError(err).Warn("Error loading .env file")
				} else {
					logger.WithField("file", envFile).Debug("Loaded environment variables")
				}
			}
		}
	}
}

func main() {
	logger := logging.GetLogger()

	loadEnvironment()

	cfg := config.Default()
	var configFile string

	rootCmd := &cobra.Command{
		Use:     "mbench [flags] -- <command> [<command2> ...]",
		Short:   "Benchmark commands using the time command",
		Long:    "Runs each command repeatedly under the BSD and GNU time commands and summarizes the measured samples with outlier-aware statistics.",
		Args:    cobra.ArbitraryArgs,
		Version: Version,
		Example: `  mbench -r 20 'sleep 1'
  mbench md5 -q /dev/null -- 'md5sum /dev/null'`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				fileCfg, err := config.Load(configFile)
				if err != nil {
					return err
				}
				applyConfigFile(cmd, cfg, fileCfg)
			}
			if err := logging.SetLogLevel(cfg.LogLevel); err != nil {
				return fmt.Errorf("invalid log level: %w", err)
			}
			if cfg.NoColor {
				color.NoColor = true
			}
			cfg.Commands = args
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runBenchmark(cfg)
		},
	}

	// Flags after the first command token belong to the benchmarked
	// command, not to mbench.
	rootCmd.Flags().SetInterspersed(false)

	rootCmd.Flags().IntVarP(&cfg.Runs, "runs", "r", cfg.Runs, "Number of measured runs per command")
	rootCmd.Flags().IntVar(&cfg.Loops, "loops", cfg.Loops, "Inner loop count per run; time and count items are divided by this for display")
	rootCmd.Flags().StringVarP(&cfg.Shell, "shell", "S", cfg.Shell, "Shell used to invoke the time command")
	rootCmd.Flags().StringVar(&cfg.ShellArg, "shell-arg", cfg.ShellArg, "Shell flag that takes the command string")
	rootCmd.Flags().BoolVar(&cfg.UseBuiltin, "use-builtin", cfg.UseBuiltin, "Measure with the shell builtin time keyword only")
	rootCmd.Flags().BoolVar(&cfg.NoBSD, "no-bsd", cfg.NoBSD, "Skip the BSD time command")
	rootCmd.Flags().BoolVar(&cfg.NoGNU, "no-gnu", cfg.NoGNU, "Skip the GNU time command")
	rootCmd.Flags().StringVar(&cfg.BSDCommand, "bsd", cfg.BSDCommand, "BSD time invocation")
	rootCmd.Flags().StringVar(&cfg.GNUCommand, "gnu", cfg.GNUCommand, "GNU time invocation")
	rootCmd.Flags().StringVar(&cfg.BuiltinCommand, "builtin", cfg.BuiltinCommand, "Builtin time keyword")
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to a YAML configuration file")
	rootCmd.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Set log level (trace, debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "Disable colored output")

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, scheduler.ErrCanceled) {
			fmt.Fprintln(os.Stderr, "Canceled.")
			os.Exit(130)
		}
		logger.WithError(err).Fatal("Benchmark failed")
	}
}

// applyConfigFile fills in file values for every flag the user did not set
// on the command line, so flags always win over the file.
func applyConfigFile(cmd *cobra.Command, cfg, file *config.Config) {
	changed := cmd.Flags().Changed
	if !changed("runs") {
		cfg.Runs = file.Runs
	}
	if !changed("loops") {
		cfg.Loops = file.Loops
	}
	if !changed("shell") {
		cfg.Shell = file.Shell
	}
	if !changed("shell-arg") {
		cfg.ShellArg = file.ShellArg
	}
	if !changed("use-builtin") {
		cfg.UseBuiltin = file.UseBuiltin
	}
	if !changed("no-bsd") {
		cfg.NoBSD = file.NoBSD
	}
	if !changed("no-gnu") {
		cfg.NoGNU = file.NoGNU
	}
	if !changed("bsd") {
		cfg.BSDCommand = file.BSDCommand
	}
	if !changed("gnu") {
		cfg.GNUCommand = file.GNUCommand
	}
	if !changed("builtin") {
		cfg.BuiltinCommand = file.BuiltinCommand
	}
	if !changed("log-level") {
		cfg.LogLevel = file.LogLevel
	}
	if !changed("no-color") {
		cfg.NoColor = file.NoColor
	}
}

func runBenchmark(cfg *config.Config) error {
	logger := logging.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			logger.Debug("Received interrupt signal, shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()

	restore, rawMode := watchKeyboard(cancel)
	defer restore()

	view := &scheduler.ViewModel{}
	events := make(chan scheduler.Event, 64)
	renderer := display.NewRenderer(display.NewFormatter(cfg.Loops), rawMode)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		renderer.Run(events, view)
	}()

	err := scheduler.New(cfg, view, events).Run(ctx)
	close(events)
	wg.Wait()
	return err
}

// watchKeyboard switches stdin to raw mode and cancels the session on
// 'q' or Ctrl-C. Without a terminal it does nothing.
func watchKeyboard(cancel context.CancelFunc) (restore func(), rawMode bool) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return func() {}, false
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return func() {}, false
	}

	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if n == 1 {
				switch buf[0] {
				case 'q', 'Q', 0x03:
					cancel()
					return
				}
			}
		}
	}()

	return func() {
		_ = term.Restore(fd, oldState)
		// raw mode left the cursor mid-line
		fmt.Println()
	}, true
}
