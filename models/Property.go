package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PropertyStatus string

const (
	PropertyAvailable PropertyStatus = "available"
	PropertyOccupied  PropertyStatus = "occupied"
)

var PropertyTypes = []string{"apartment", "house", "villa", "condo", "studio"}

type Property struct {
	gorm.Model
	OwnerID         uint                `json:"ownerID" gorm:"not null;index"`
	Owner           *Owner              `json:"owner,omitempty"`
	Title           string              `json:"title"`
	Description     string              `json:"description" gorm:"type:text"`
	Address         string              `json:"address"`
	City            string              `json:"city" gorm:"index"`
	State           string              `json:"state"`
	ZipCode         string              `json:"zipCode"`
	PropertyType    string              `json:"propertyType" gorm:"type:varchar(20)"`
	Bedrooms        int                 `json:"bedrooms"`
	Bathrooms       float32             `json:"bathrooms"`
	AreaSqft        int                 `json:"areaSqft"`
	RentAmount      decimal.Decimal     `json:"rentAmount" gorm:"type:decimal(10,2);not null"`
	SecurityDeposit decimal.NullDecimal `json:"securityDeposit" gorm:"type:decimal(10,2)"`
	AvailableFrom   *time.Time          `json:"availableFrom" gorm:"type:date"`
	Amenities       datatypes.JSON      `json:"amenities"`
	Status          PropertyStatus      `json:"status" gorm:"type:varchar(20);default:available;index"`
	// Booking whose confirmation marked the property occupied.
	OccupiedByBookingID *uint           `json:"occupiedByBookingID"`
	Images              []PropertyImage `json:"images,omitempty"`
}

// Deposit falls back to one month of rent when no deposit is set.
func (p Property) Deposit() decimal.Decimal {
	if p.SecurityDeposit.Valid && !p.SecurityDeposit.Decimal.IsZero() {
		return p.SecurityDeposit.Decimal
	}
	return p.RentAmount
}

type PropertyImage struct {
	gorm.Model
	PropertyID uint   `json:"propertyID" gorm:"not null;index"`
	ImageURL   string `json:"imageURL"`
	Caption    string `json:"caption"`
	IsPrimary  bool   `json:"isPrimary"`
}
