package models

import "time"

// Roles a user account can hold.
const (
	RoleManager = "Manager"
	RoleOwner   = "Owner"
	RoleLessee  = "Lessee"
)

// User is the identity record shared by managers, owners and lessees.
// Email doubles as the login name.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	FirstName    string `gorm:"size:50;not null"`
	LastName     string `gorm:"size:50;not null"`
	Document     string `gorm:"size:20;not null"`
	Address      string `gorm:"size:100"`
	Email        string `gorm:"size:100;uniqueIndex;not null"`
	PhoneNumber  string `gorm:"size:20"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"size:20;index;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// FullNameWithDocument is what select lists show.
func (u *User) FullNameWithDocument() string {
	return u.FullName() + " - " + u.Document
}
