// Package cli thingctl commands over the blog models
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version thingctl version, set at build time
var Version = "dev"

type configKey struct{}

// NewRootCmd thingctl root command
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:     "thingctl",
		Short:   "Inspect and manage thing models",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "generate" {
				return nil
			}

			cfg, err := LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./"+DefaultConfigFile+")")
	flags.String("driver", "", "database driver: sqlite, postgres, pq or mysql")
	flags.String("dsn", "", "data source name")
	flags.StringP("output", "o", "", "output format: table or json")
	flags.String("log-format", "", "log format: text, zap, logrus or zerolog")
	flags.String("log-level", "", "log level: silent, error, warn or info")
	flags.Duration("log-slow-threshold", 0, "log queries slower than this")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{OutputTable, OutputJSON}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newModelsCmd())
	rootCmd.AddCommand(newFindCmd())
	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newGenerateCmd())
	return rootCmd
}

// Execute run thingctl
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig config loaded by the root command
func GetConfig(ctx context.Context) (*Config, error) {
	if cfg, ok := ctx.Value(configKey{}).(*Config); ok {
		return cfg, nil
	}
	return LoadConfig("", nil)
}

// withApp open the configured database for the duration of fn
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *App) error) error {
	ctx := cmd.Context()
	cfg, err := GetConfig(ctx)
	if err != nil {
		return err
	}

	app, err := Open(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer app.Close()

	return fn(ctx, app)
}
