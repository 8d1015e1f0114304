package services

import (
	"errors"
	"fmt"
	"time"

	"rentalhouse-server/models"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BookingInput struct {
	StartDate       string `json:"startDate" form:"start_date" validate:"required"`
	EndDate         string `json:"endDate" form:"end_date" validate:"required"`
	SpecialRequests string `json:"specialRequests" form:"special_requests" validate:"max=2000"`
}

// DurationMonths approximates a stay in 30-day months, rounding up, never below one.
func DurationMonths(start, end time.Time) int {
	days := int(truncateDay(end).Sub(truncateDay(start)).Hours() / 24)
	months := 1
	if days > 0 {
		months = (days + 29) / 30
	}
	if months < 1 {
		months = 1
	}
	return months
}

// BookingTotal is the rent for the whole stay.
func BookingTotal(rent decimal.Decimal, months int) decimal.Decimal {
	return rent.Mul(decimal.NewFromInt(int64(months)))
}

func CreateBooking(db *gorm.DB, tenantUserID, propertyID uint, in BookingInput) (*models.Booking, error) {
	tenant, err := TenantForUser(db, tenantUserID)
	if err != nil {
		return nil, err
	}

	var property models.Property
	if err := db.Preload("Owner").First(&property, propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("property %d: %w", propertyID, ErrNotFound)
		}
		return nil, err
	}
	if property.Status != models.PropertyAvailable {
		return nil, fmt.Errorf("property %d: %w", propertyID, ErrPropertyUnavailable)
	}

	start, err := ParseDate("startDate", in.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate("endDate", in.EndDate)
	if err != nil {
		return nil, err
	}
	if start == nil || end == nil {
		return nil, formError("startDate", "Start and end dates are required.")
	}
	if !start.Before(*end) {
		return nil, formError("endDate", "End date must be after start date")
	}
	if start.Before(today()) {
		return nil, formError("startDate", "Start date cannot be in the past")
	}

	months := DurationMonths(*start, *end)
	booking := models.Booking{
		TenantID:        tenant.ID,
		PropertyID:      property.ID,
		StartDate:       *start,
		EndDate:         *end,
		DurationMonths:  months,
		TotalAmount:     BookingTotal(property.RentAmount, months),
		SecurityDeposit: property.Deposit(),
		SpecialRequests: in.SpecialRequests,
		Status:          models.BookingPending,
	}
	if err := db.Create(&booking).Error; err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	BookingTransitions.WithLabelValues(string(models.BookingPending), "ok").Inc()

	if property.Owner != nil {
		Notify(db, property.Owner.UserID, NotifyBookingRequest,
			"New booking request",
			fmt.Sprintf("Booking #%d requested for %s from %s to %s.", booking.ID, property.Title,
				start.Format(DateLayout), end.Format(DateLayout)),
			"booking", booking.ID)
	}
	return &booking, nil
}

func loadBooking(db *gorm.DB, bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	err := db.Preload("Tenant").Preload("Property.Owner").First(&booking, bookingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// transitionPending moves a pending booking to the target status if nobody else has touched it.
func transitionPending(tx *gorm.DB, booking *models.Booking, target models.BookingStatus) error {
	res := tx.Model(&models.Booking{}).
		Where("id = ? AND status = ? AND version = ?", booking.ID, models.BookingPending, booking.Version).
		Updates(map[string]interface{}{
			"status":  target,
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyProcessed
	}
	booking.Status = target
	booking.Version++
	return nil
}

// ConfirmBooking accepts a pending booking on one of the owner's properties and marks the
// property occupied by it.
func ConfirmBooking(db *gorm.DB, ownerUserID, bookingID uint) (*models.Booking, error) {
	booking, err := loadBooking(db, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Property == nil || booking.Property.Owner == nil || booking.Property.Owner.UserID != ownerUserID {
		return nil, fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
	}
	if booking.Status != models.BookingPending {
		BookingTransitions.WithLabelValues(string(models.BookingConfirmed), "already_processed").Inc()
		return booking, ErrAlreadyProcessed
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := transitionPending(tx, booking, models.BookingConfirmed); err != nil {
			return err
		}
		return tx.Model(&models.Property{}).
			Where("id = ?", booking.PropertyID).
			Updates(map[string]interface{}{
				"status":                 models.PropertyOccupied,
				"occupied_by_booking_id": booking.ID,
			}).Error
	})
	if errors.Is(err, ErrAlreadyProcessed) {
		BookingTransitions.WithLabelValues(string(models.BookingConfirmed), "already_processed").Inc()
		return booking, ErrAlreadyProcessed
	}
	if err != nil {
		return nil, fmt.Errorf("confirm booking %d: %w", bookingID, err)
	}
	BookingTransitions.WithLabelValues(string(models.BookingConfirmed), "ok").Inc()

	booking.Property.Status = models.PropertyOccupied
	booking.Property.OccupiedByBookingID = &booking.ID
	if booking.Tenant != nil {
		Notify(db, booking.Tenant.UserID, NotifyBookingStatus, "Booking confirmed",
			fmt.Sprintf("Your booking #%d for %s has been confirmed.", booking.ID, booking.Property.Title),
			"booking", booking.ID)
	}
	return booking, nil
}

// CancelBooking lets the booking's tenant or the property's owner cancel a pending booking.
func CancelBooking(db *gorm.DB, userID uint, role models.Role, bookingID uint) (*models.Booking, error) {
	booking, err := loadBooking(db, bookingID)
	if err != nil {
		return nil, err
	}

	authorized := false
	switch role {
	case models.OwnerRole:
		authorized = booking.Property != nil && booking.Property.Owner != nil && booking.Property.Owner.UserID == userID
	case models.TenantRole:
		authorized = booking.Tenant != nil && booking.Tenant.UserID == userID
	}
	if !authorized {
		return nil, fmt.Errorf("booking %d: %w", bookingID, ErrForbidden)
	}

	if booking.Status != models.BookingPending {
		BookingTransitions.WithLabelValues(string(models.BookingCancelled), "already_processed").Inc()
		return booking, ErrAlreadyProcessed
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return transitionPending(tx, booking, models.BookingCancelled)
	})
	if errors.Is(err, ErrAlreadyProcessed) {
		BookingTransitions.WithLabelValues(string(models.BookingCancelled), "already_processed").Inc()
		return booking, ErrAlreadyProcessed
	}
	if err != nil {
		return nil, fmt.Errorf("cancel booking %d: %w", bookingID, err)
	}
	BookingTransitions.WithLabelValues(string(models.BookingCancelled), "ok").Inc()

	releaseProperty(db, booking)

	var recipient uint
	if role == models.TenantRole && booking.Property != nil && booking.Property.Owner != nil {
		recipient = booking.Property.Owner.UserID
	} else if booking.Tenant != nil {
		recipient = booking.Tenant.UserID
	}
	Notify(db, recipient, NotifyBookingStatus, "Booking cancelled",
		fmt.Sprintf("Booking #%d has been cancelled.", booking.ID), "booking", booking.ID)
	return booking, nil
}

// releaseProperty frees the property only when this booking's confirmation occupied it. Best effort.
func releaseProperty(db *gorm.DB, booking *models.Booking) {
	res := db.Model(&models.Property{}).
		Where("id = ? AND status = ? AND occupied_by_booking_id = ?", booking.PropertyID, models.PropertyOccupied, booking.ID).
		Updates(map[string]interface{}{
			"status":                 models.PropertyAvailable,
			"occupied_by_booking_id": nil,
		})
	if res.Error != nil {
		log.Error().Err(res.Error).Uint("bookingID", booking.ID).Msg("failed to release property after cancellation")
		return
	}
	if res.RowsAffected > 0 && booking.Property != nil {
		booking.Property.Status = models.PropertyAvailable
		booking.Property.OccupiedByBookingID = nil
	}
}

func ListTenantBookings(db *gorm.DB, tenantUserID uint) ([]models.Booking, error) {
	tenant, err := TenantForUser(db, tenantUserID)
	if err != nil {
		return nil, err
	}
	var bookings []models.Booking
	err = db.Preload("Property").Where("tenant_id = ?", tenant.ID).Order("created_at desc").Find(&bookings).Error
	return bookings, err
}

func ListOwnerBookings(db *gorm.DB, ownerUserID uint, status string) ([]models.Booking, error) {
	owner, err := OwnerForUser(db, ownerUserID)
	if err != nil {
		return nil, err
	}
	q := db.Preload("Property").Preload("Tenant.User").
		Joins("JOIN properties ON properties.id = bookings.property_id").
		Where("properties.owner_id = ?", owner.ID)
	if status != "" {
		q = q.Where("bookings.status = ?", status)
	}
	var bookings []models.Booking
	err = q.Order("bookings.created_at desc").Find(&bookings).Error
	return bookings, err
}

// TenantBooking loads one of the tenant's own bookings.
func TenantBooking(db *gorm.DB, tenantUserID, bookingID uint) (*models.Booking, error) {
	booking, err := loadBooking(db, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Tenant == nil || booking.Tenant.UserID != tenantUserID {
		return nil, fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
	}
	return booking, nil
}
