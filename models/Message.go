package models

import (
	"time"

	"gorm.io/gorm"
)

type Message struct {
	gorm.Model
	SenderID    uint      `json:"senderID" gorm:"not null;index"`
	Sender      *User     `json:"sender,omitempty"`
	ReceiverID  uint      `json:"receiverID" gorm:"not null;index"`
	Receiver    *User     `json:"receiver,omitempty"`
	PropertyID  *uint     `json:"propertyID" gorm:"index"`
	Property    *Property `json:"property,omitempty"`
	MessageText string    `json:"messageText" gorm:"type:text"`
	IsRead      bool      `json:"isRead" gorm:"default:false"`
	SentAt      time.Time `json:"sentAt" gorm:"index"`
}
