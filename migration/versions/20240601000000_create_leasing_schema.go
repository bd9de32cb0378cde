package versions

import (
	"gorm.io/gorm"

	"github.com/beesaferoot/myleasing/internal/models"
	"github.com/beesaferoot/myleasing/migration"
)

func init() {
	migration.RegisterMigration(&migration.Migration{
		Version: "20240601000000",
		Name:    "create_leasing_schema",
		Up: func(tx *gorm.DB) error {
			return tx.Migrator().CreateTable(models.CreationOrder()...)
		},
		Down: func(tx *gorm.DB) error {
			tables := models.CreationOrder()
			for i := len(tables) - 1; i >= 0; i-- {
				if err := tx.Migrator().DropTable(tables[i]); err != nil {
					return err
				}
			}
			return nil
		},
	})
}
