package models

import "gorm.io/gorm"

type Review struct {
	gorm.Model
	BookingID     uint      `json:"bookingID" gorm:"uniqueIndex;not null"`
	Booking       *Booking  `json:"booking,omitempty"`
	TenantID      uint      `json:"tenantID" gorm:"not null;index"`
	Tenant        *Tenant   `json:"tenant,omitempty"`
	PropertyID    uint      `json:"propertyID" gorm:"not null;index"`
	Property      *Property `json:"property,omitempty"`
	Rating        int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	ReviewText    string    `json:"reviewText" gorm:"type:text"`
	OwnerResponse string    `json:"ownerResponse" gorm:"type:text"`
	IsApproved    bool      `json:"isApproved" gorm:"default:true"`
}
