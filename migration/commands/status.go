package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/myleasing/migration"
)

func StatusCmd(open DBOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show status of all migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open()
			if err != nil {
				return err
			}

			statuses, err := migration.NewMigrator(db, nil).Status()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-16s  %-30s  %-8s\n", "Version", "Name", "Status")
			for _, s := range statuses {
				state := "Pending"
				if s.Applied {
					state = "Applied"
				}
				fmt.Fprintf(out, "%-16s  %-30s  %-8s\n", s.Version, s.Name, state)
			}
			return nil
		},
	}
}
