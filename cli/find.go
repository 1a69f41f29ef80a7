package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/thingorm/thing"
)

func newFindCmd() *cobra.Command {
	var (
		limit   int
		offset  int
		with    []string
		noRel   bool
		columns []string
	)

	cmd := &cobra.Command{
		Use:   "find <Model> [key=value...]",
		Short: "Find instances of a model",
		Example: `  thingctl find User email=ann@example.com
  thingctl find Post published=true --with author --limit 5 -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *App) error {
				model, err := app.Model(args[0])
				if err != nil {
					return err
				}

				conds, err := parseAssignments(model, args[1:])
				if err != nil {
					return err
				}

				opts := []thing.CallOption{thing.Limit(limit), thing.Offset(offset)}
				if len(columns) > 0 {
					opts = append(opts, thing.Select(columns...))
				}
				switch {
				case noRel:
					opts = append(opts, thing.WithoutRelated())
				case len(with) > 0:
					opts = append(opts, thing.WithRelated(with...))
				}

				instances, err := model.FindMany(ctx, thing.Where(conds), opts...)
				if err != nil {
					return err
				}
				return Render(cmd.OutOrStdout(), app.Config.Output, model.PrimaryKey(), instances)
			})
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&limit, "limit", 20, "maximum number of instances, negative for no limit")
	flags.IntVar(&offset, "offset", 0, "number of instances to skip")
	flags.StringSliceVar(&with, "with", nil, "relations to load instead of the eager ones")
	flags.BoolVar(&noRel, "no-related", false, "load no relations")
	flags.StringSliceVar(&columns, "select", nil, "columns to select")
	return cmd
}

func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "create <Model> key=value...",
		Short:   "Create an instance of a model",
		Example: `  thingctl create User name=Ann email=ann@example.com`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *App) error {
				model, err := app.Model(args[0])
				if err != nil {
					return err
				}

				data, err := parseAssignments(model, args[1:])
				if err != nil {
					return err
				}

				inst, err := model.ForgeContext(ctx, data)
				if err != nil {
					return err
				}
				if inst, err = inst.Save(ctx); err != nil {
					return err
				}
				return Render(cmd.OutOrStdout(), app.Config.Output, model.PrimaryKey(), []*thing.Instance{inst})
			})
		},
	}
}
