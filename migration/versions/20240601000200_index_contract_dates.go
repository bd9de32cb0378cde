package versions

import (
	"gorm.io/gorm"

	"github.com/beesaferoot/myleasing/migration"
)

func init() {
	migration.RegisterMigration(&migration.Migration{
		Version: "20240601000200",
		Name:    "index_contract_dates",
		Up: func(tx *gorm.DB) error {
			return tx.Exec("CREATE INDEX idx_contracts_active_dates ON contracts (is_active, start_date, end_date)").Error
		},
		Down: func(tx *gorm.DB) error {
			return tx.Exec("DROP INDEX idx_contracts_active_dates").Error
		},
	})
}
