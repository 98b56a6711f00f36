package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/recipe-genie/server/internal/core"
	logx "github.com/recipe-genie/server/pkg/logger"
)

var (
	envFile string
	verbose bool
)

type configKey struct{}

// NewRootCommand wires every subcommand under the recipe-genie binary.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "recipe-genie",
		Short: "Smart kitchen assistant: find recipes, get instructions, analyze nutrition",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(envFile)
			if err != nil {
				return err
			}
			logx.Init(logx.LoggerOpts{
				Environment: core.ParseEnvironment(cfg.Environment),
				Quiet:       !verbose && cmd.Name() != "serve",
			})
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file to load")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(
		newAskCommand(),
		newChatCommand(),
		newHistoryCommand(),
		newServeCommand(),
	)
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func configFrom(cmd *cobra.Command) *AppConfig {
	if cfg, ok := cmd.Context().Value(configKey{}).(*AppConfig); ok {
		return cfg
	}
	return &AppConfig{}
}

// withApp builds the app for the duration of fn.
func withApp(cmd *cobra.Command, fn func(a *app) error) error {
	a, err := newApp(cmd.Context(), configFrom(cmd))
	if err != nil {
		return err
	}
	defer a.close()
	return fn(a)
}
