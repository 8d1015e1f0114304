package models

import "gorm.io/gorm"

type Notification struct {
	gorm.Model
	UserID  uint   `json:"userID" gorm:"not null;index"`
	Title   string `json:"title"`
	Message string `json:"message" gorm:"type:text"`
	Type    string `json:"type" gorm:"size:32"`    // booking_request, booking_status, payment, complaint
	RefType string `json:"refType" gorm:"size:32"` // booking, payment, complaint
	RefID   uint   `json:"refID" gorm:"index"`
	IsRead  bool   `json:"isRead" gorm:"default:false"`
}
