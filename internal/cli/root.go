// Package cli defines the command-line interface for mergebot.
package cli

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codex-k8s/mergebot/internal/config"
	"github.com/codex-k8s/mergebot/internal/env"
	"github.com/codex-k8s/mergebot/internal/logging"
)

// Options stores global CLI options shared between commands.
type Options struct {
	ConfigPath string
	EnvFiles   []string
}

// Execute builds the root command, runs it with the provided args and logger, and returns any error.
func Execute(args []string, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewLogger(os.Stderr, logging.LevelInfo)
	}

	rootOpts := &Options{ConfigPath: config.DefaultPath}

	rootCmd := newRootCommand(rootOpts, logger)
	rootCmd.SetArgs(args)

	return rootCmd.Execute()
}

// newRootCommand constructs the root cobra.Command with global flags and subcommands.
func newRootCommand(opts *Options, logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "mergebot",
		Short:         "mergebot reports finished merge builds on their pull requests",
		Long:          "mergebot is a CI helper that finds the pull request a merge commit belongs to and posts a build summary comment on it.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			base := baseEnv{}
			if err := parseEnv(&base, env.FromOS()); err != nil {
				return err
			}
			configExplicit := cmd.Flags().Changed("config")
			if !configExplicit && strings.TrimSpace(base.ConfigPath) != "" {
				opts.ConfigPath = base.ConfigPath
				configExplicit = true
			}

			cfg, vars, err := config.Load(opts.ConfigPath, config.LoadOptions{
				Optional: !configExplicit,
				EnvFiles: opts.EnvFiles,
			})
			if err != nil {
				return err
			}

			levelName := cfg.LogLevel
			if vars.Present("MERGEBOT_LOG_LEVEL") {
				levelName = vars["MERGEBOT_LOG_LEVEL"]
			}
			if cmd.Flags().Changed("log-level") {
				levelName = cmd.Flag("log-level").Value.String()
			}
			level := logging.ParseLevel(levelName)
			logger = logging.NewLogger(cmd.ErrOrStderr(), level)

			ctx := context.WithValue(cmd.Context(), loggerKey{}, logger)
			ctx = context.WithValue(ctx, runtimeKey{}, &runtime{cfg: cfg, vars: vars})
			cmd.SetContext(ctx)
			logger.Debug("logger initialized", "level", level, "config", opts.ConfigPath)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", config.DefaultPath, "Path to mergebot.yaml configuration file")
	cmd.PersistentFlags().StringArrayVar(&opts.EnvFiles, "env-file", nil, "Additional .env file to load (repeatable)")
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newPRCommand(),
		newVersionCommand(),
	)

	return cmd
}

// runtime carries what PersistentPreRunE resolved for subcommands.
type runtime struct {
	cfg  *config.Config
	vars env.Vars
}

type runtimeKey struct{}

func runtimeFromContext(ctx context.Context) *runtime {
	if ctx != nil {
		if rt, ok := ctx.Value(runtimeKey{}).(*runtime); ok && rt != nil {
			return rt
		}
	}
	return &runtime{cfg: &config.Config{}, vars: env.FromOS()}
}

// loggerKey is a private context key used to store a logger in command contexts.
type loggerKey struct{}

// LoggerFromContext extracts a logger from the context or falls back to a default logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return logging.NewLogger(os.Stderr, logging.LevelInfo)
	}
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return logging.NewLogger(os.Stderr, logging.LevelInfo)
}
