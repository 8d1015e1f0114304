package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	// BookingCompleted is stored and queried but no handler sets it.
	BookingCompleted BookingStatus = "completed"
)

type Booking struct {
	gorm.Model
	TenantID        uint            `json:"tenantID" gorm:"not null;index"`
	Tenant          *Tenant         `json:"tenant,omitempty"`
	PropertyID      uint            `json:"propertyID" gorm:"not null;index"`
	Property        *Property       `json:"property,omitempty"`
	StartDate       time.Time       `json:"startDate" gorm:"type:date"`
	EndDate         time.Time       `json:"endDate" gorm:"type:date"`
	DurationMonths  int             `json:"durationMonths"`
	TotalAmount     decimal.Decimal `json:"totalAmount" gorm:"type:decimal(12,2)"`
	SecurityDeposit decimal.Decimal `json:"securityDeposit" gorm:"type:decimal(10,2)"`
	SpecialRequests string          `json:"specialRequests" gorm:"type:text"`
	Status          BookingStatus   `json:"status" gorm:"type:varchar(20);default:pending;index"`
	// Version guards confirm/cancel against concurrent writers.
	Version uint `json:"version" gorm:"not null;default:0"`
}
