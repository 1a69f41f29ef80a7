package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var (
		g          = Generator{}
		attributes string
		relations  string
	)

	cmd := &cobra.Command{
		Use:     "generate",
		Short:   "Generate a model declaration and its migration",
		Example: `  thingctl generate --name Comment --attributes body:string,score:int --relations post:Post:belongsTo`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if g.Fields, err = parseFields(attributes); err != nil {
				return err
			}
			if g.Relations, err = parseRelations(relations); err != nil {
				return err
			}

			files, err := g.Generate()
			if err != nil {
				return err
			}
			for _, file := range files {
				fmt.Fprintln(cmd.OutOrStdout(), "Create file:", file)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&g.ModelName, "name", "", "model name, e.g. User")
	flags.StringVar(&attributes, "attributes", "", "model attributes, e.g. name:string,age:int")
	flags.StringVar(&relations, "relations", "", "relations, e.g. posts:Post:hasMany,author:User:belongsTo")
	flags.StringVar(&g.Package, "package", "models", "package of the generated declaration")
	flags.StringVar(&g.ModelsDir, "models-dir", "internal/models", "directory of the generated declaration")
	flags.StringVar(&g.MigrationsDir, "migrations-dir", "internal/migrations", "directory of the generated migration")
	flags.StringVar(&g.Dialect, "dialect", "sqlite", "migration dialect: sqlite, postgres or mysql")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("attributes")
	return cmd
}
