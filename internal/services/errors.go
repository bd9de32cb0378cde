package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrEmailInUse          = errors.New("email is already used")
	ErrNameInUse           = errors.New("name is already used")
	ErrHasDependents       = errors.New("record still has dependent records")
	ErrConcurrencyConflict = errors.New("record was modified concurrently")
	ErrInvalidReference    = errors.New("referenced record does not exist")
	ErrInvalidInput        = errors.New("invalid input")

	ErrPropertyNotOwned = fmt.Errorf("%w: property does not belong to the owner", ErrInvalidReference)
)

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// checkUpdated interprets an update that touched no rows: the row is either
// gone or was changed under us.
func checkUpdated(tx *gorm.DB, res *gorm.DB, model interface{}, id uint) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	exists, err := rowExists(tx, model, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrConcurrencyConflict
}

func rowExists(tx *gorm.DB, model interface{}, id uint) (bool, error) {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func countWhere(tx *gorm.DB, model interface{}, column string, id uint) (int64, error) {
	var count int64
	err := tx.Model(model).Where(column+" = ?", id).Count(&count).Error
	return count, err
}
