package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/beesaferoot/myleasing/internal/models"
)

type PropertyTypeService struct {
	db *gorm.DB
}

func NewPropertyTypeService(db *gorm.DB) *PropertyTypeService {
	return &PropertyTypeService{db: db}
}

func (s *PropertyTypeService) List(ctx context.Context) ([]models.PropertyType, error) {
	var types []models.PropertyType
	if err := s.db.WithContext(ctx).Preload("Properties").Order("name").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to list property types: %w", err)
	}
	return types, nil
}

func (s *PropertyTypeService) Get(ctx context.Context, id uint) (*models.PropertyType, error) {
	var pt models.PropertyType
	err := s.db.WithContext(ctx).
		Preload("Properties", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Properties.Owner.User").
		First(&pt, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &pt, nil
}

func (s *PropertyTypeService) nameTaken(tx *gorm.DB, name string, exceptID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.PropertyType{}).Where("LOWER(name) = ? AND id <> ?", strings.ToLower(name), exceptID).Count(&count).Error
	return count > 0, err
}

func (s *PropertyTypeService) Create(ctx context.Context, name string) (*models.PropertyType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	pt := models.PropertyType{Name: name}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := s.nameTaken(tx, name, 0)
		if err != nil {
			return err
		}
		if taken {
			return ErrNameInUse
		}
		return tx.Create(&pt).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrNameInUse
	}
	if err != nil {
		return nil, err
	}
	return &pt, nil
}

func (s *PropertyTypeService) Update(ctx context.Context, id uint, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := s.nameTaken(tx, name, id)
		if err != nil {
			return err
		}
		if taken {
			return ErrNameInUse
		}
		res := tx.Model(&models.PropertyType{}).Where("id = ?", id).Update("name", name)
		return checkUpdated(tx, res, &models.PropertyType{}, id)
	})
}

// Delete refuses while properties still use the type.
func (s *PropertyTypeService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := rowExists(tx, &models.PropertyType{}, id)
		if err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		n, err := countWhere(tx, &models.Property{}, "property_type_id", id)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrHasDependents
		}
		return tx.Delete(&models.PropertyType{}, id).Error
	})
}
