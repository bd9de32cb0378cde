package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/beesaferoot/myleasing/internal/logger"
	"github.com/beesaferoot/myleasing/internal/models"
)

type ContractInput struct {
	OwnerID    uint
	LesseeID   uint
	PropertyID uint
	Remarks    string
	Price      float64
	StartDate  time.Time
	EndDate    time.Time
	IsActive   bool
}

type ContractService struct {
	db *gorm.DB
}

func NewContractService(db *gorm.DB) *ContractService {
	return &ContractService{db: db}
}

func (s *ContractService) List(ctx context.Context) ([]models.Contract, error) {
	var contracts []models.Contract
	err := s.db.WithContext(ctx).
		Preload("Owner.User").
		Preload("Lessee.User").
		Preload("Property.PropertyType").
		Order("start_date DESC, id").
		Find(&contracts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	return contracts, nil
}

func (s *ContractService) Get(ctx context.Context, id uint) (*models.Contract, error) {
	var contract models.Contract
	err := s.db.WithContext(ctx).
		Preload("Owner.User").
		Preload("Lessee.User").
		Preload("Property.PropertyType").
		First(&contract, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &contract, nil
}

// validateContract checks the period and that the property belongs to the owner.
func validateContract(tx *gorm.DB, in ContractInput) error {
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidInput)
	}
	if in.EndDate.Before(in.StartDate) {
		return fmt.Errorf("%w: end date must not be before start date", ErrInvalidInput)
	}
	if in.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	for _, ref := range []struct {
		model interface{}
		id    uint
		name  string
	}{
		{&models.Owner{}, in.OwnerID, "owner"},
		{&models.Lessee{}, in.LesseeID, "lessee"},
	} {
		exists, err := rowExists(tx, ref.model, ref.id)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: %s %d", ErrInvalidReference, ref.name, ref.id)
		}
	}

	var property models.Property
	if err := tx.Select("id", "owner_id").First(&property, in.PropertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: property %d", ErrInvalidReference, in.PropertyID)
		}
		return err
	}
	if property.OwnerID != in.OwnerID {
		return fmt.Errorf("%w: property %d, owner %d", ErrPropertyNotOwned, in.PropertyID, in.OwnerID)
	}
	return nil
}

func (s *ContractService) Create(ctx context.Context, in ContractInput) (*models.Contract, error) {
	contract := models.Contract{
		OwnerID:    in.OwnerID,
		LesseeID:   in.LesseeID,
		PropertyID: in.PropertyID,
		Remarks:    strings.TrimSpace(in.Remarks),
		Price:      in.Price,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		IsActive:   in.IsActive,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := validateContract(tx, in); err != nil {
			return err
		}
		return tx.Create(&contract).Error
	})
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("Contract created", logger.Fields{"contract_id": contract.ID, "property_id": contract.PropertyID})
	return &contract, nil
}

func (s *ContractService) Update(ctx context.Context, id uint, in ContractInput) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := validateContract(tx, in); err != nil {
			return err
		}
		res := tx.Model(&models.Contract{}).Where("id = ?", id).Updates(map[string]interface{}{
			"owner_id":    in.OwnerID,
			"lessee_id":   in.LesseeID,
			"property_id": in.PropertyID,
			"remarks":     strings.TrimSpace(in.Remarks),
			"price":       in.Price,
			"start_date":  in.StartDate,
			"end_date":    in.EndDate,
			"is_active":   in.IsActive,
		})
		return checkUpdated(tx, res, &models.Contract{}, id)
	})
}

func (s *ContractService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Contract{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete contract: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
