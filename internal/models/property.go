package models

import "time"

// PropertyType is a lookup entity (apartment, house, ...).
type PropertyType struct {
	ID         uint       `gorm:"primaryKey"`
	Name       string     `gorm:"size:50;uniqueIndex;not null"`
	Properties []Property `gorm:"foreignKey:PropertyTypeID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Property represents a leasable unit owned by an Owner
type Property struct {
	ID             uint    `gorm:"primaryKey"`
	Neighborhood   string  `gorm:"size:50;not null"`
	Address        string  `gorm:"size:50;not null"`
	Price          float64 `gorm:"type:decimal(18,2);not null"`
	SquareMeters   int     `gorm:"not null"`
	Rooms          int     `gorm:"not null"`
	Stratum        int     `gorm:"not null"`
	HasParkingLot  bool
	IsAvailable    bool
	Remarks        string          `gorm:"type:text"`
	OwnerID        uint            `gorm:"index;not null"`
	Owner          *Owner          `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	PropertyTypeID uint            `gorm:"index;not null"`
	PropertyType   *PropertyType   `gorm:"foreignKey:PropertyTypeID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	PropertyImages []PropertyImage `gorm:"foreignKey:PropertyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Contracts      []Contract      `gorm:"foreignKey:PropertyID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PropertyImage points at an image file held by the image store.
type PropertyImage struct {
	ID         uint      `gorm:"primaryKey"`
	PropertyID uint      `gorm:"index;not null"`
	Property   *Property `gorm:"foreignKey:PropertyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	FileID     string    `gorm:"size:64;not null"`
	FileName   string    `gorm:"size:255"`
	CreatedAt  time.Time
}

// ImageURL is the route that streams the stored file.
func (i *PropertyImage) ImageURL() string {
	return "/Images/" + i.FileID
}
