package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/myleasing/migration"
)

func DownCmd(open DBOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Revert the last migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open()
			if err != nil {
				return err
			}

			reverted, err := migration.NewMigrator(db, nil).Down()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Successfully reverted migration: %s (%s)\n", reverted.Name, reverted.Version)
			return nil
		},
	}
}
