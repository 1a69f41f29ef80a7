package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thingorm/thing/internal/blog"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the blog schema migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, app *App) error {
				if err := app.Migrate(ctx); err != nil {
					return err
				}
				return printVersion(cmd, app)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, app *App) error {
				if err := blog.Rollback(app.DB.DB(), app.Dialect(), app.Logger); err != nil {
					return err
				}
				return printVersion(cmd, app)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current migration version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, app *App) error {
				return printVersion(cmd, app)
			})
		},
	})

	return cmd
}

func printVersion(cmd *cobra.Command, app *App) error {
	version, err := blog.Version(app.DB.DB(), app.Dialect(), app.Logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "version: %d\n", version)
	return nil
}

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List registered models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, app *App) error {
				for _, name := range app.Registry.Models() {
					model, err := app.Model(name)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, model.Table())
				}
				return nil
			})
		},
	}
}
