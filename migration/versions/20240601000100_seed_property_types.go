package versions

import (
	"gorm.io/gorm"

	"github.com/beesaferoot/myleasing/internal/models"
	"github.com/beesaferoot/myleasing/migration"
)

var defaultPropertyTypes = []string{"Apartment", "House", "Business premises", "Warehouse"}

func init() {
	migration.RegisterMigration(&migration.Migration{
		Version: "20240601000100",
		Name:    "seed_property_types",
		Up: func(tx *gorm.DB) error {
			types := make([]models.PropertyType, 0, len(defaultPropertyTypes))
			for _, name := range defaultPropertyTypes {
				types = append(types, models.PropertyType{Name: name})
			}
			return tx.Create(&types).Error
		},
		Down: func(tx *gorm.DB) error {
			return tx.Where("name IN ?", defaultPropertyTypes).Delete(&models.PropertyType{}).Error
		},
	})
}
