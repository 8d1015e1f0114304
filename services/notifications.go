package services

import (
	"fmt"

	"rentalhouse-server/models"

	"github.com/mailjet/mailjet-apiv3-go"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	NotifyBookingRequest = "booking_request"
	NotifyBookingStatus  = "booking_status"
	NotifyPayment        = "payment"
	NotifyComplaint      = "complaint"
)

// Mailer delivers a plain-text notification e-mail.
type Mailer interface {
	Send(toEmail, toName, subject, body string) error
}

type MailjetMailer struct {
	client   *mailjet.Client
	from     string
	fromName string
}

func NewMailjetMailer(apiKey, secretKey, from string) *MailjetMailer {
	return &MailjetMailer{
		client:   mailjet.NewMailjetClient(apiKey, secretKey),
		from:     from,
		fromName: "Rental House",
	}
}

func (m *MailjetMailer) Send(toEmail, toName, subject, body string) error {
	messagesInfo := []mailjet.InfoMessagesV31{
		{
			From: &mailjet.RecipientV31{
				Email: m.from,
				Name:  m.fromName,
			},
			To: &mailjet.RecipientsV31{
				mailjet.RecipientV31{
					Email: toEmail,
					Name:  toName,
				},
			},
			Subject:  subject,
			TextPart: body,
		},
	}
	messages := mailjet.MessagesV31{Info: messagesInfo}
	_, err := m.client.SendMailV31(&messages)
	return err
}

var mailer Mailer

// SetMailer enables e-mail delivery for notifications. Nil disables it.
func SetMailer(m Mailer) {
	mailer = m
}

// Notify stores an in-app notification and e-mails it when a mailer is set.
// It never fails the caller.
func Notify(db *gorm.DB, userID uint, kind, title, message, refType string, refID uint) {
	if userID == 0 {
		return
	}
	n := models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    kind,
		RefType: refType,
		RefID:   refID,
	}
	if err := db.Create(&n).Error; err != nil {
		log.Error().Err(err).Uint("userID", userID).Str("type", kind).Msg("failed to store notification")
		return
	}

	if mailer == nil {
		return
	}
	var user models.User
	if err := db.Select("id, email, first_name, last_name").First(&user, userID).Error; err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("notification recipient lookup failed")
		return
	}
	m := mailer
	go func() {
		if err := m.Send(user.Email, user.FullName(), title, message); err != nil {
			log.Error().Err(err).Str("to", user.Email).Msg("failed to send notification e-mail")
		}
	}()
}

func ListNotifications(db *gorm.DB, userID uint, unreadOnly bool) ([]models.Notification, error) {
	var notifications []models.Notification
	q := db.Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	if err := q.Order("created_at desc").Limit(100).Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func MarkNotificationRead(db *gorm.DB, userID, id uint) error {
	res := db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("notification %d: %w", id, ErrNotFound)
	}
	return nil
}

func MarkAllNotificationsRead(db *gorm.DB, userID uint) (int64, error) {
	res := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
