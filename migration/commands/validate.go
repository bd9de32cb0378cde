package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/myleasing/migration"
	"github.com/beesaferoot/myleasing/migration/parser"
)

func ValidateCmd(open DBOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate all migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := migration.ValidateMigrations(migration.GetRegisteredMigrations()); err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			db, err := open()
			if err != nil {
				return err
			}
			p, err := parser.NewModelParser(db)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			schemas, err := p.Parse()
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			if checkSchema, _ := cmd.Flags().GetBool("schema"); checkSchema {
				drift, err := p.Drift()
				if err != nil {
					return fmt.Errorf("validation failed: %w", err)
				}
				for _, d := range drift {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", d)
				}
				if len(drift) > 0 {
					return fmt.Errorf("database schema is behind the models (%d differences)", len(drift))
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "All migrations are valid (%d models checked)\n", len(schemas))
			return nil
		},
	}
	cmd.Flags().Bool("schema", false, "Also compare the models with the connected database")
	return cmd
}
