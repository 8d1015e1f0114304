package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"rentalhouse-server/models"

	"gorm.io/gorm"
)

type UserFilter struct {
	Role   string
	Status string
	Query  string
}

type AdminUserInput struct {
	Role      *string `json:"role" validate:"omitempty,oneof=tenant owner admin"`
	Status    *string `json:"status" validate:"omitempty,oneof=active inactive suspended"`
	IsActive  *bool   `json:"isActive"`
	FirstName *string `json:"firstName" validate:"omitempty,max=150"`
	LastName  *string `json:"lastName" validate:"omitempty,max=150"`
	Phone     *string `json:"phone" validate:"omitempty,max=20"`
}

type BulkUserInput struct {
	Action  string `json:"action" validate:"required,oneof=activate deactivate delete"`
	UserIDs []uint `json:"userIDs" validate:"required,min=1"`
}

// DateRange bounds a created_at or start_date filter. Either end may be nil.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

func (r DateRange) apply(q *gorm.DB, column string) *gorm.DB {
	if r.From != nil {
		q = q.Where(column+" >= ?", *r.From)
	}
	if r.To != nil {
		// inclusive of the whole end day
		q = q.Where(column+" < ?", r.To.AddDate(0, 0, 1))
	}
	return q
}

func ParseDateRange(from, to string) (DateRange, error) {
	var r DateRange
	var err error
	if r.From, err = ParseDate("dateFrom", from); err != nil {
		return r, err
	}
	if r.To, err = ParseDate("dateTo", to); err != nil {
		return r, err
	}
	if r.From != nil && r.To != nil && r.From.After(*r.To) {
		return r, formError("dateFrom", "Start date cannot be after end date")
	}
	return r, nil
}

func offset(page, perPage int) int {
	return (page - 1) * perPage
}

func ListUsers(db *gorm.DB, f UserFilter, page, perPage int) ([]models.User, int64, error) {
	q := db.Model(&models.User{})
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []models.User
	err := q.Order("created_at desc").Offset(offset(page, perPage)).Limit(perPage).Find(&users).Error
	return users, total, err
}

// UpdateUser applies an admin edit and returns the user before and after.
func UpdateUser(db *gorm.DB, userID uint, in AdminUserInput) (before, after *models.User, err error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return nil, nil, err
	}
	snapshot := user

	fields := map[string]interface{}{}
	if in.Role != nil {
		fields["role"] = *in.Role
	}
	if in.Status != nil {
		fields["status"] = *in.Status
		// is_active follows status unless set explicitly
		if in.IsActive == nil {
			fields["is_active"] = *in.Status == string(models.UserActive)
		}
	}
	if in.IsActive != nil {
		fields["is_active"] = *in.IsActive
	}
	setIfPresent(fields, "first_name", in.FirstName)
	setIfPresent(fields, "last_name", in.LastName)
	setIfPresent(fields, "phone", in.Phone)
	if len(fields) == 0 {
		return &snapshot, &user, nil
	}

	if err := db.Model(&user).Updates(fields).Error; err != nil {
		return nil, nil, fmt.Errorf("update user %d: %w", userID, err)
	}
	if err := db.First(&user, userID).Error; err != nil {
		return nil, nil, err
	}
	return &snapshot, &user, nil
}

// BulkUpdateUsers activates, deactivates or deletes users. actorID is never touched.
func BulkUpdateUsers(db *gorm.DB, actorID uint, in BulkUserInput) (int64, error) {
	ids := make([]uint, 0, len(in.UserIDs))
	for _, id := range in.UserIDs {
		if id != actorID {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	var res *gorm.DB
	switch in.Action {
	case "activate":
		res = db.Model(&models.User{}).Where("id IN ?", ids).
			Updates(map[string]interface{}{"is_active": true, "status": models.UserActive})
	case "deactivate":
		res = db.Model(&models.User{}).Where("id IN ?", ids).
			Updates(map[string]interface{}{"is_active": false, "status": models.UserInactive})
	case "delete":
		res = db.Where("id IN ?", ids).Delete(&models.User{})
	default:
		return 0, formError("action", "Select a valid action.")
	}
	return res.RowsAffected, res.Error
}

func ListAllBookings(db *gorm.DB, status string, r DateRange, page, perPage int) ([]models.Booking, int64, error) {
	q := db.Model(&models.Booking{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	q = r.apply(q, "start_date")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var bookings []models.Booking
	err := q.Preload("Property").Preload("Tenant.User").
		Order("created_at desc").Offset(offset(page, perPage)).Limit(perPage).
		Find(&bookings).Error
	return bookings, total, err
}

func ListAllPayments(db *gorm.DB, status string, r DateRange, page, perPage int) ([]models.Payment, int64, error) {
	q := db.Model(&models.Payment{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	q = r.apply(q, "created_at")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var payments []models.Payment
	err := q.Preload("Booking.Property").Preload("Tenant.User").
		Order("created_at desc").Offset(offset(page, perPage)).Limit(perPage).
		Find(&payments).Error
	return payments, total, err
}

func ListAllProperties(db *gorm.DB, status string, page, perPage int) ([]models.Property, int64, error) {
	q := db.Model(&models.Property{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var properties []models.Property
	err := q.Preload("Owner.User").Order("created_at desc").Offset(offset(page, perPage)).Limit(perPage).Find(&properties).Error
	return properties, total, err
}

func ListAuditLogs(db *gorm.DB, resourceType string, page, perPage int) ([]models.AuditLog, int64, error) {
	q := db.Model(&models.AuditLog{})
	if resourceType != "" {
		q = q.Where("resource_type = ?", resourceType)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var logs []models.AuditLog
	err := q.Order("created_at desc").Offset(offset(page, perPage)).Limit(perPage).Find(&logs).Error
	return logs, total, err
}
