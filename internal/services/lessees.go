package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/beesaferoot/myleasing/internal/logger"
	"github.com/beesaferoot/myleasing/internal/models"
)

type LesseeService struct {
	db *gorm.DB
}

func NewLesseeService(db *gorm.DB) *LesseeService {
	return &LesseeService{db: db}
}

func (s *LesseeService) List(ctx context.Context) ([]models.Lessee, error) {
	var lessees []models.Lessee
	err := s.db.WithContext(ctx).Preload("User").Preload("Contracts").Order("id").Find(&lessees).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list lessees: %w", err)
	}
	return lessees, nil
}

func (s *LesseeService) Get(ctx context.Context, id uint) (*models.Lessee, error) {
	var lessee models.Lessee
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Contracts", func(db *gorm.DB) *gorm.DB { return db.Order("start_date DESC") }).
		Preload("Contracts.Owner.User").
		Preload("Contracts.Property").
		First(&lessee, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &lessee, nil
}

func (s *LesseeService) Create(ctx context.Context, in NewUser) (*models.Lessee, error) {
	var lessee models.Lessee
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := createUser(tx, in, models.RoleLessee)
		if err != nil {
			return err
		}
		lessee = models.Lessee{UserID: user.ID, User: user}
		return tx.Omit("User").Create(&lessee).Error
	})
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("Lessee created", logger.Fields{"lessee_id": lessee.ID})
	return &lessee, nil
}

func (s *LesseeService) Update(ctx context.Context, id uint, p UserProfile) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return updateUserOf(tx, &models.Lessee{}, id, p)
	})
}

// Delete refuses while the lessee still has contracts.
func (s *LesseeService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lessee models.Lessee
		if err := tx.First(&lessee, id).Error; err != nil {
			return notFound(err)
		}
		n, err := countWhere(tx, &models.Contract{}, "lessee_id", id)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrHasDependents
		}
		return deleteWithUser(tx, &models.Lessee{}, lessee.ID, lessee.UserID)
	})
}
