package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/beesaferoot/myleasing/internal/models"
)

// Totals is the row count summary shown on the home page.
type Totals struct {
	Owners          int64
	Lessees         int64
	Properties      int64
	ActiveContracts int64
}

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

func (s *DashboardService) Totals(ctx context.Context) (*Totals, error) {
	db := s.db.WithContext(ctx)
	var t Totals
	if err := db.Model(&models.Owner{}).Count(&t.Owners).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Lessee{}).Count(&t.Lessees).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Property{}).Count(&t.Properties).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Contract{}).Where("is_active = ?", true).Count(&t.ActiveContracts).Error; err != nil {
		return nil, err
	}
	return &t, nil
}
