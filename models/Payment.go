package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

var PaymentMethods = []string{"cash", "bank_transfer", "credit_card", "debit_card", "online"}

type Payment struct {
	gorm.Model
	BookingID     uint            `json:"bookingID" gorm:"not null;index"`
	Booking       *Booking        `json:"booking,omitempty"`
	TenantID      uint            `json:"tenantID" gorm:"not null;index"`
	Tenant        *Tenant         `json:"tenant,omitempty"`
	OwnerID       uint            `json:"ownerID" gorm:"not null;index"`
	Owner         *Owner          `json:"owner,omitempty"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	PaymentMethod string          `json:"paymentMethod" gorm:"type:varchar(20)"`
	TransactionID string          `json:"transactionID" gorm:"type:varchar(64);index"`
	DueDate       *time.Time      `json:"dueDate" gorm:"type:date"`
	PaymentDate   *time.Time      `json:"paymentDate" gorm:"type:date"`
	Status        PaymentStatus   `json:"status" gorm:"type:varchar(20);default:pending;index"`
}
