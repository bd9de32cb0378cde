package commands

import (
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/beesaferoot/myleasing/internal/database"
)

// DBOpener hands the commands a database connection.
type DBOpener func() (*gorm.DB, error)

// EnvDBOpener connects using DATABASE_URL and DB_DRIVER.
func EnvDBOpener(debug bool) DBOpener {
	return func() (*gorm.DB, error) {
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return nil, fmt.Errorf("DATABASE_URL not set in environment or .env file")
		}
		return database.Open(database.Options{
			Driver: os.Getenv("DB_DRIVER"),
			DSN:    dsn,
			Debug:  debug,
		})
	}
}
