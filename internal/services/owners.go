package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/beesaferoot/myleasing/internal/logger"
	"github.com/beesaferoot/myleasing/internal/models"
)

type OwnerService struct {
	db *gorm.DB
}

func NewOwnerService(db *gorm.DB) *OwnerService {
	return &OwnerService{db: db}
}

func (s *OwnerService) List(ctx context.Context) ([]models.Owner, error) {
	var owners []models.Owner
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Properties").
		Preload("Contracts").
		Order("id").
		Find(&owners).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list owners: %w", err)
	}
	return owners, nil
}

// Get loads an owner with its properties (type and images) and contracts.
func (s *OwnerService) Get(ctx context.Context, id uint) (*models.Owner, error) {
	var owner models.Owner
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Properties", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Properties.PropertyType").
		Preload("Properties.PropertyImages").
		Preload("Contracts", func(db *gorm.DB) *gorm.DB { return db.Order("start_date DESC") }).
		Preload("Contracts.Lessee.User").
		Preload("Contracts.Property").
		First(&owner, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &owner, nil
}

// Create registers a user with the Owner role and its owner row.
func (s *OwnerService) Create(ctx context.Context, in NewUser) (*models.Owner, error) {
	var owner models.Owner
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := createUser(tx, in, models.RoleOwner)
		if err != nil {
			return err
		}
		owner = models.Owner{UserID: user.ID, User: user}
		return tx.Omit("User").Create(&owner).Error
	})
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("Owner created", logger.Fields{"owner_id": owner.ID, "user_id": owner.UserID})
	return &owner, nil
}

func (s *OwnerService) Update(ctx context.Context, id uint, p UserProfile) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return updateUserOf(tx, &models.Owner{}, id, p)
	})
}

// Delete removes an owner without properties or contracts, and its user.
func (s *OwnerService) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner models.Owner
		if err := tx.First(&owner, id).Error; err != nil {
			return notFound(err)
		}
		for _, dep := range []interface{}{&models.Property{}, &models.Contract{}} {
			n, err := countWhere(tx, dep, "owner_id", id)
			if err != nil {
				return err
			}
			if n > 0 {
				return ErrHasDependents
			}
		}
		return deleteWithUser(tx, &models.Owner{}, owner.ID, owner.UserID)
	})
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info("Owner deleted", logger.Fields{"owner_id": id})
	return nil
}

func (s *OwnerService) Exists(ctx context.Context, id uint) (bool, error) {
	return rowExists(s.db.WithContext(ctx), &models.Owner{}, id)
}
