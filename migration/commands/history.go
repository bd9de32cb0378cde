package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/myleasing/migration"
)

func HistoryCmd(open DBOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show migration history",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open()
			if err != nil {
				return err
			}

			records, err := migration.NewMigrator(db, nil).History()
			if err != nil {
				return fmt.Errorf("failed to get migration history: %w", err)
			}

			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No migrations have been applied yet.")
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-16s  %-30s  %-24s\n", "Version", "Name", "Applied At")
			for _, record := range records {
				fmt.Fprintf(out, "%-16s  %-30s  %-24s\n", record.Version, record.Name, record.AppliedAt.Format(time.RFC3339))
			}
			return nil
		},
	}
}
