package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/beesaferoot/myleasing/internal/app"
	"github.com/beesaferoot/myleasing/internal/config"
	"github.com/beesaferoot/myleasing/internal/models"
	"github.com/beesaferoot/myleasing/migration"
	"github.com/beesaferoot/myleasing/migration/commands"
	_ "github.com/beesaferoot/myleasing/migration/versions"
)

type leasingModelRegistry struct{}

func (r *leasingModelRegistry) GetModels() map[string]interface{} {
	return models.ModelTypeRegistry
}

func init() {
	migration.GlobalModelRegistry = &leasingModelRegistry{}
}

func main() {
	_ = godotenv.Load()

	var debug bool
	openDB := func() (*gorm.DB, error) {
		return commands.EnvDBOpener(debug)()
	}

	rootCmd := &cobra.Command{
		Use:           "myleasing",
		Short:         "MyLeasing property leasing back-office",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log every SQL statement")

	rootCmd.AddCommand(
		serveCmd(),
		commands.MigrateCmd(openDB),
		createManagerCmd(openDB),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web back-office",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("error loading application configuration: %w", err)
			}
			application, err := app.NewApp(cfg)
			if err != nil {
				return err
			}
			return application.Run()
		},
	}
}
