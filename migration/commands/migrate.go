package commands

import "github.com/spf13/cobra"

// MigrateCmd groups the migration subcommands under "migrate".
func MigrateCmd(open DBOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(
		InitCmd(open),
		CreateCmd(),
		UpCmd(open),
		DownCmd(open),
		StatusCmd(open),
		HistoryCmd(open),
		ValidateCmd(open),
	)
	return cmd
}
