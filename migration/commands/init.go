package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/myleasing/migration"
)

func InitCmd(open DBOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize migration tracking table in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open()
			if err != nil {
				return err
			}

			if err := migration.NewMigrator(db, nil).Init(); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Migration system initialized successfully")
			return nil
		},
	}
}
