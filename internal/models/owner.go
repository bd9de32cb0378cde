package models

import "time"

// Owner owns properties and is one party of every contract on them.
type Owner struct {
	ID         uint       `gorm:"primaryKey"`
	UserID     uint       `gorm:"uniqueIndex;not null"`
	User       *User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Properties []Property `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Contracts  []Contract `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Lessee rents properties through contracts.
type Lessee struct {
	ID        uint       `gorm:"primaryKey"`
	UserID    uint       `gorm:"uniqueIndex;not null"`
	User      *User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Contracts []Contract `gorm:"foreignKey:LesseeID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Manager operates the back-office.
type Manager struct {
	ID        uint  `gorm:"primaryKey"`
	UserID    uint  `gorm:"uniqueIndex;not null"`
	User      *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
