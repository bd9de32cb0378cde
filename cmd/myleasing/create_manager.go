package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/myleasing/internal/database"
	"github.com/beesaferoot/myleasing/internal/services"
	"github.com/beesaferoot/myleasing/migration/commands"
)

// createManagerCmd bootstraps the first back-office account.
func createManagerCmd(open commands.DBOpener) *cobra.Command {
	var in services.NewUser

	cmd := &cobra.Command{
		Use:   "create-manager",
		Short: "Create a manager account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(in.Password) < 6 {
				return fmt.Errorf("password must have at least 6 characters")
			}
			db, err := open()
			if err != nil {
				return err
			}
			defer database.Close(db)

			manager, err := services.NewManagerService(db).Create(context.Background(), in)
			if err != nil {
				return fmt.Errorf("failed to create manager: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created manager %d (%s)\n", manager.ID, manager.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Email, "email", "", "Login email")
	cmd.Flags().StringVar(&in.Password, "password", "", "Login password")
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&in.Document, "document", "", "Identity document")
	cmd.Flags().StringVar(&in.PhoneNumber, "phone", "", "Phone number")
	for _, name := range []string{"email", "password", "first-name", "last-name"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
