package models

import "time"

// Contract leases an owner's property to a lessee for a period.
type Contract struct {
	ID         uint      `gorm:"primaryKey"`
	Remarks    string    `gorm:"type:text"`
	Price      float64   `gorm:"type:decimal(18,2);not null"`
	StartDate  time.Time `gorm:"not null"`
	EndDate    time.Time `gorm:"not null"`
	IsActive   bool
	OwnerID    uint      `gorm:"index;not null"`
	Owner      *Owner    `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	LesseeID   uint      `gorm:"index;not null"`
	Lessee     *Lessee   `gorm:"foreignKey:LesseeID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	PropertyID uint      `gorm:"index;not null"`
	Property   *Property `gorm:"foreignKey:PropertyID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
