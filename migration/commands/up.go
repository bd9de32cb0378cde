package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/myleasing/migration"
)

func UpCmd(open DBOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			out := cmd.OutOrStdout()

			db, err := open()
			if err != nil {
				return err
			}
			m := migration.NewMigrator(db, nil)

			pending, err := m.Pending()
			if err != nil {
				return fmt.Errorf("failed to load migrations: %w", err)
			}

			if len(pending) == 0 {
				fmt.Fprintln(out, "No pending migrations.")
				return nil
			}

			if dryRun {
				fmt.Fprintln(out, "Pending migrations:")
				for _, mr := range pending {
					fmt.Fprintf(out, "- %s (%s)\n", mr.Name, mr.Version)
				}
				return nil
			}

			applied, err := m.Up()
			for _, mr := range applied {
				fmt.Fprintf(out, "Successfully applied migration: %s (%s)\n", mr.Name, mr.Version)
			}
			return err
		},
	}

	cmd.Flags().Bool("dry-run", false, "Show pending migrations without executing them")

	return cmd
}
