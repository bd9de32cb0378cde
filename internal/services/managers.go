package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/beesaferoot/myleasing/internal/logger"
	"github.com/beesaferoot/myleasing/internal/models"
)

type ManagerService struct {
	db *gorm.DB
}

func NewManagerService(db *gorm.DB) *ManagerService {
	return &ManagerService{db: db}
}

func (s *ManagerService) List(ctx context.Context) ([]models.Manager, error) {
	var managers []models.Manager
	if err := s.db.WithContext(ctx).Preload("User").Order("id").Find(&managers).Error; err != nil {
		return nil, fmt.Errorf("failed to list managers: %w", err)
	}
	return managers, nil
}

func (s *ManagerService) Get(ctx context.Context, id uint) (*models.Manager, error) {
	var manager models.Manager
	if err := s.db.WithContext(ctx).Preload("User").First(&manager, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &manager, nil
}

func (s *ManagerService) Create(ctx context.Context, in NewUser) (*models.Manager, error) {
	var manager models.Manager
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := createUser(tx, in, models.RoleManager)
		if err != nil {
			return err
		}
		manager = models.Manager{UserID: user.ID, User: user}
		return tx.Omit("User").Create(&manager).Error
	})
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("Manager created", logger.Fields{"manager_id": manager.ID})
	return &manager, nil
}

func (s *ManagerService) Update(ctx context.Context, id uint, p UserProfile) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return updateUserOf(tx, &models.Manager{}, id, p)
	})
}

// Delete removes the manager and its user. The last manager is kept.
func (s *ManagerService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var manager models.Manager
		if err := tx.First(&manager, id).Error; err != nil {
			return notFound(err)
		}
		var total int64
		if err := tx.Model(&models.Manager{}).Count(&total).Error; err != nil {
			return err
		}
		if total <= 1 {
			return fmt.Errorf("%w: the last manager cannot be deleted", ErrHasDependents)
		}
		return deleteWithUser(tx, &models.Manager{}, manager.ID, manager.UserID)
	})
}
