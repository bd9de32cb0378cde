package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/beesaferoot/myleasing/internal/auth"
	"github.com/beesaferoot/myleasing/internal/models"
)

// NewUser is the data needed to register an owner, lessee or manager.
type NewUser struct {
	FirstName   string
	LastName    string
	Document    string
	Address     string
	Email       string
	PhoneNumber string
	Password    string
}

// UserProfile is the editable part of a user. The email is the login name
// and is not changed here.
type UserProfile struct {
	FirstName   string
	LastName    string
	Document    string
	Address     string
	PhoneNumber string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func createUser(tx *gorm.DB, in NewUser, role string) (*models.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	var existing int64
	if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing > 0 {
		return nil, ErrEmailInUse
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Document:     strings.TrimSpace(in.Document),
		Address:      strings.TrimSpace(in.Address),
		Email:        email,
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		PasswordHash: hash,
		Role:         role,
	}
	if err := tx.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// updateUserOf updates the user linked to the row id of model.
func updateUserOf(tx *gorm.DB, model interface{}, id uint, p UserProfile) error {
	var userID uint
	err := tx.Model(model).Where("id = ?", id).Select("user_id").Scan(&userID).Error
	if err != nil {
		return err
	}
	if userID == 0 {
		return ErrNotFound
	}

	res := tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"first_name":   strings.TrimSpace(p.FirstName),
		"last_name":    strings.TrimSpace(p.LastName),
		"document":     strings.TrimSpace(p.Document),
		"address":      strings.TrimSpace(p.Address),
		"phone_number": strings.TrimSpace(p.PhoneNumber),
	})
	if err := checkUpdated(tx, res, &models.User{}, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrConcurrencyConflict
		}
		return err
	}
	return nil
}

// deleteWithUser removes the row and the user behind it.
func deleteWithUser(tx *gorm.DB, model interface{}, id, userID uint) error {
	res := tx.Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	if err := tx.Delete(&models.User{}, userID).Error; err != nil {
		return fmt.Errorf("failed to delete user %d: %w", userID, err)
	}
	return nil
}
