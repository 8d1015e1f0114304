package services

import (
	"errors"
	"fmt"

	"rentalhouse-server/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentInput struct {
	Amount        string `json:"amount" form:"amount" validate:"required"`
	PaymentMethod string `json:"paymentMethod" form:"payment_method" validate:"required,oneof=cash bank_transfer credit_card debit_card online"`
	DueDate       string `json:"dueDate" form:"due_date"`
}

// SuggestedAmount is the pre-filled amount for a new payment on the booking.
func SuggestedAmount(booking *models.Booking) decimal.Decimal {
	if booking.Property != nil {
		return booking.Property.RentAmount
	}
	return decimal.Zero
}

func CreatePayment(db *gorm.DB, tenantUserID, bookingID uint, in PaymentInput) (*models.Payment, error) {
	booking, err := TenantBooking(db, tenantUserID, bookingID)
	if err != nil {
		return nil, err
	}

	amount, err := ParseAmount("amount", in.Amount)
	if err != nil {
		return nil, err
	}
	if !amount.Valid || !amount.Decimal.IsPositive() {
		return nil, formError("amount", "Payment amount must be positive")
	}
	dueDate, err := ParseDate("dueDate", in.DueDate)
	if err != nil {
		return nil, err
	}
	if dueDate != nil && dueDate.Before(today()) {
		return nil, formError("dueDate", "Due date cannot be in the past")
	}

	payment := models.Payment{
		BookingID:     booking.ID,
		TenantID:      booking.TenantID,
		OwnerID:       booking.Property.OwnerID,
		Amount:        amount.Decimal,
		PaymentMethod: in.PaymentMethod,
		TransactionID: uuid.NewString(),
		DueDate:       dueDate,
		Status:        models.PaymentPending,
	}
	if err := db.Create(&payment).Error; err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	PaymentsRecorded.WithLabelValues(string(models.PaymentPending)).Inc()

	if booking.Property.Owner != nil {
		Notify(db, booking.Property.Owner.UserID, NotifyPayment, "Payment submitted",
			fmt.Sprintf("A payment of %s was submitted for booking #%d.", payment.Amount.StringFixed(2), booking.ID),
			"payment", payment.ID)
	}
	return &payment, nil
}

// ConfirmPayment marks a payment received. Completing an already completed payment is a no-op.
func ConfirmPayment(db *gorm.DB, ownerUserID, paymentID uint) (*models.Payment, error) {
	var payment models.Payment
	err := db.Preload("Tenant").
		Joins("JOIN owners ON owners.id = payments.owner_id").
		Where("payments.id = ? AND owners.user_id = ?", paymentID, ownerUserID).
		First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("payment %d: %w", paymentID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if payment.Status == models.PaymentCompleted {
		return &payment, ErrAlreadyCompleted
	}

	fields := map[string]interface{}{"status": models.PaymentCompleted}
	if payment.PaymentDate == nil {
		d := today()
		fields["payment_date"] = d
		payment.PaymentDate = &d
	}
	res := db.Model(&models.Payment{}).
		Where("id = ? AND status <> ?", payment.ID, models.PaymentCompleted).
		Updates(fields)
	if res.Error != nil {
		return nil, fmt.Errorf("confirm payment %d: %w", paymentID, res.Error)
	}
	if res.RowsAffected == 0 {
		return &payment, ErrAlreadyCompleted
	}
	payment.Status = models.PaymentCompleted
	PaymentsRecorded.WithLabelValues(string(models.PaymentCompleted)).Inc()

	if payment.Tenant != nil {
		Notify(db, payment.Tenant.UserID, NotifyPayment, "Payment received",
			fmt.Sprintf("Payment #%d has been marked as received.", payment.ID), "payment", payment.ID)
	}
	return &payment, nil
}

// ListOwnerPayments returns the owner's payments, newest first.
func ListOwnerPayments(db *gorm.DB, ownerUserID uint) ([]models.Payment, error) {
	owner, err := OwnerForUser(db, ownerUserID)
	if err != nil {
		return nil, err
	}
	var payments []models.Payment
	err = db.Preload("Booking.Property").Preload("Tenant.User").
		Where("owner_id = ?", owner.ID).
		Order("created_at desc").Order("id desc").
		Find(&payments).Error
	return payments, err
}

func ListTenantPayments(db *gorm.DB, tenantUserID uint) ([]models.Payment, error) {
	tenant, err := TenantForUser(db, tenantUserID)
	if err != nil {
		return nil, err
	}
	var payments []models.Payment
	err = db.Preload("Booking.Property").
		Where("tenant_id = ?", tenant.ID).
		Order("created_at desc").Order("id desc").
		Find(&payments).Error
	return payments, err
}
