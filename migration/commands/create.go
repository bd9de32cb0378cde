package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/myleasing/migration/file"
)

// DefaultVersionsDir is where the versions package lives in this repository.
const DefaultVersionsDir = "migration/versions"

func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a new migration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			f, err := file.NewGenerator(dir).Create(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created migration: %s\n", f.Path)
			return nil
		},
	}
	cmd.Flags().String("dir", DefaultVersionsDir, "Directory of the versions package")
	return cmd
}
