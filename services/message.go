package services

import (
	"errors"
	"fmt"
	"strings"

	"rentalhouse-server/models"

	"gorm.io/gorm"
)

type MessageInput struct {
	ReceiverID  uint   `json:"receiverID" form:"receiver" validate:"required"`
	PropertyID  *uint  `json:"propertyID" form:"property"`
	MessageText string `json:"messageText" form:"message_text" validate:"required,max=5000"`
}

func SendMessage(db *gorm.DB, senderID uint, in MessageInput) (*models.Message, error) {
	text := strings.TrimSpace(in.MessageText)
	if text == "" {
		return nil, formError("messageText", "Message cannot be empty")
	}

	var receiver models.User
	res := db.Where("id = ? AND role <> ?", in.ReceiverID, models.AdminRole).Limit(1).Find(&receiver)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, formError("receiverID", "Select a valid recipient.")
	}

	if in.PropertyID != nil && *in.PropertyID != 0 {
		var count int64
		if err := db.Model(&models.Property{}).
			Where("id = ? AND status = ?", *in.PropertyID, models.PropertyAvailable).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, formError("propertyID", "Select a valid property.")
		}
	} else {
		in.PropertyID = nil
	}

	message := models.Message{
		SenderID:    senderID,
		ReceiverID:  receiver.ID,
		PropertyID:  in.PropertyID,
		MessageText: in.MessageText,
		SentAt:      timeNow(),
	}
	if err := db.Create(&message).Error; err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	return &message, nil
}

type Inbox struct {
	Received []models.Message `json:"receivedMessages"`
	Sent     []models.Message `json:"sentMessages"`
}

func GetInbox(db *gorm.DB, userID uint) (*Inbox, error) {
	inbox := &Inbox{}
	if err := db.Preload("Sender").Preload("Property").
		Where("receiver_id = ?", userID).
		Order("sent_at desc").Order("id desc").
		Find(&inbox.Received).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("Receiver").Preload("Property").
		Where("sender_id = ?", userID).
		Order("sent_at desc").Order("id desc").
		Find(&inbox.Sent).Error; err != nil {
		return nil, err
	}
	return inbox, nil
}

func findMessage(db *gorm.DB, messageID uint) (*models.Message, error) {
	var message models.Message
	err := db.First(&message, messageID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("message %d: %w", messageID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// DeleteMessage removes a message for both parties. Only the sender or receiver may do it.
func DeleteMessage(db *gorm.DB, userID, messageID uint) error {
	message, err := findMessage(db, messageID)
	if err != nil {
		return err
	}
	if message.SenderID != userID && message.ReceiverID != userID {
		return fmt.Errorf("message %d: %w", messageID, ErrForbidden)
	}
	return db.Delete(message).Error
}

func MarkMessageRead(db *gorm.DB, userID, messageID uint) error {
	message, err := findMessage(db, messageID)
	if err != nil {
		return err
	}
	if message.ReceiverID != userID {
		return fmt.Errorf("message %d: %w", messageID, ErrForbidden)
	}
	return db.Model(message).Update("is_read", true).Error
}
