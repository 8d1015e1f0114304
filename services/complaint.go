package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"rentalhouse-server/models"

	"gorm.io/gorm"
)

const quickResolveNotes = "Resolved by owner."

type ComplaintInput struct {
	Type        string `json:"type" form:"type" validate:"required,oneof=maintenance noise billing other"`
	Title       string `json:"title" form:"title" validate:"required,max=200"`
	Description string `json:"description" form:"description" validate:"required"`
	Priority    string `json:"priority" form:"priority" validate:"omitempty,oneof=low medium high"`
}

type ResolutionInput struct {
	Status          string `json:"status" form:"status" validate:"required,oneof=open in-progress resolved"`
	ResolutionNotes string `json:"resolutionNotes" form:"resolution_notes"`
}

// ActiveBooking is the tenant's latest confirmed or completed booking by start date.
func ActiveBooking(db *gorm.DB, tenantID uint) (*models.Booking, error) {
	var booking models.Booking
	err := db.Preload("Property.Owner").
		Where("tenant_id = ? AND status IN ?", tenantID, []models.BookingStatus{models.BookingConfirmed, models.BookingCompleted}).
		Order("start_date desc").Order("id desc").
		First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoActiveBooking
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func SubmitComplaint(db *gorm.DB, tenantUserID uint, in ComplaintInput) (*models.Complaint, error) {
	tenant, err := TenantForUser(db, tenantUserID)
	if err != nil {
		return nil, err
	}
	booking, err := ActiveBooking(db, tenant.ID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if len(title) < 5 {
		return nil, formError("title", "Title must be at least 5 characters long")
	}
	priority := in.Priority
	if priority == "" {
		priority = "medium"
	}

	complaint := models.Complaint{
		TenantID:    tenant.ID,
		PropertyID:  booking.PropertyID,
		Type:        in.Type,
		Title:       title,
		Description: in.Description,
		Priority:    priority,
		Status:      models.ComplaintOpen,
	}
	if err := db.Create(&complaint).Error; err != nil {
		return nil, fmt.Errorf("create complaint: %w", err)
	}
	ComplaintsFiled.WithLabelValues(string(models.ComplaintOpen)).Inc()

	if booking.Property != nil && booking.Property.Owner != nil {
		Notify(db, booking.Property.Owner.UserID, NotifyComplaint, "New complaint",
			fmt.Sprintf("%s priority complaint on %s: %s", priority, booking.Property.Title, title),
			"complaint", complaint.ID)
	}
	return &complaint, nil
}

func ownedComplaint(db *gorm.DB, ownerUserID, complaintID uint) (*models.Complaint, error) {
	var complaint models.Complaint
	err := db.Preload("Tenant").
		Joins("JOIN properties ON properties.id = complaints.property_id").
		Joins("JOIN owners ON owners.id = properties.owner_id").
		Where("complaints.id = ? AND owners.user_id = ?", complaintID, ownerUserID).
		First(&complaint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("complaint %d: %w", complaintID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

// UpdateComplaint applies the owner's resolution. resolved_at is stamped the first time the
// complaint becomes resolved and cleared whenever it leaves that status.
func UpdateComplaint(db *gorm.DB, ownerUserID, complaintID uint, in ResolutionInput) (*models.Complaint, error) {
	complaint, err := ownedComplaint(db, ownerUserID, complaintID)
	if err != nil {
		return nil, err
	}

	status := models.ComplaintStatus(in.Status)
	switch status {
	case models.ComplaintOpen, models.ComplaintInProgress, models.ComplaintResolved:
	default:
		return nil, formError("status", "Select a valid status.")
	}

	wasResolved := complaint.Status == models.ComplaintResolved
	complaint.Status = status
	complaint.ResolutionNotes = in.ResolutionNotes
	if status == models.ComplaintResolved {
		if complaint.ResolvedAt == nil {
			now := timeNow()
			complaint.ResolvedAt = &now
		}
	} else {
		complaint.ResolvedAt = nil
	}

	if err := saveResolution(db, complaint); err != nil {
		return nil, err
	}
	ComplaintsFiled.WithLabelValues(string(status)).Inc()

	if status == models.ComplaintResolved && !wasResolved {
		notifyResolved(db, complaint)
	}
	return complaint, nil
}

// QuickResolve closes a complaint with the standard note.
func QuickResolve(db *gorm.DB, ownerUserID, complaintID uint) (*models.Complaint, error) {
	complaint, err := ownedComplaint(db, ownerUserID, complaintID)
	if err != nil {
		return nil, err
	}
	now := timeNow()
	complaint.Status = models.ComplaintResolved
	complaint.ResolutionNotes = quickResolveNotes
	complaint.ResolvedAt = &now

	if err := saveResolution(db, complaint); err != nil {
		return nil, err
	}
	ComplaintsFiled.WithLabelValues(string(models.ComplaintResolved)).Inc()
	notifyResolved(db, complaint)
	return complaint, nil
}

func saveResolution(db *gorm.DB, complaint *models.Complaint) error {
	err := db.Model(&models.Complaint{}).
		Where("id = ?", complaint.ID).
		Select("status", "resolution_notes", "resolved_at").
		Updates(map[string]interface{}{
			"status":           complaint.Status,
			"resolution_notes": complaint.ResolutionNotes,
			"resolved_at":      complaint.ResolvedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("update complaint %d: %w", complaint.ID, err)
	}
	return nil
}

func notifyResolved(db *gorm.DB, complaint *models.Complaint) {
	if complaint.Tenant == nil {
		return
	}
	Notify(db, complaint.Tenant.UserID, NotifyComplaint, "Complaint resolved",
		fmt.Sprintf("Your complaint \"%s\" has been resolved.", complaint.Title), "complaint", complaint.ID)
}

type ComplaintOverview struct {
	Complaints            []models.Complaint `json:"complaints"`
	Total                 int                `json:"totalComplaints"`
	Open                  int                `json:"openComplaints"`
	InProgress            int                `json:"inProgressComplaints"`
	Resolved              int                `json:"resolvedComplaints"`
	HighPriority          []models.Complaint `json:"highPriorityComplaints"`
	TenantsWithComplaints []models.Tenant    `json:"tenantsWithComplaints"`
	SelectedTenant        *models.Tenant     `json:"selectedTenant"`
}

// OwnerComplaints lists complaints on the owner's properties. An unknown tenantID is ignored.
func OwnerComplaints(db *gorm.DB, ownerUserID uint, tenantID string) (*ComplaintOverview, error) {
	owner, err := OwnerForUser(db, ownerUserID)
	if err != nil {
		return nil, err
	}
	ownerProperties := db.Model(&models.Property{}).Select("id").Where("owner_id = ?", owner.ID)

	overview := &ComplaintOverview{}
	if err := db.Preload("User").
		Where("id IN (?)", db.Model(&models.Complaint{}).Select("tenant_id").Where("property_id IN (?)", ownerProperties)).
		Find(&overview.TenantsWithComplaints).Error; err != nil {
		return nil, err
	}

	q := db.Preload("Property").Preload("Tenant.User").Where("property_id IN (?)", ownerProperties)
	if id, err := strconv.ParseUint(strings.TrimSpace(tenantID), 10, 64); err == nil {
		var tenant models.Tenant
		res := db.Preload("User").Where("id = ?", uint(id)).Limit(1).Find(&tenant)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected > 0 {
			overview.SelectedTenant = &tenant
			q = q.Where("tenant_id = ?", tenant.ID)
		}
	}

	if err := q.Order("created_at desc").Order("id desc").Find(&overview.Complaints).Error; err != nil {
		return nil, err
	}

	overview.Total = len(overview.Complaints)
	overview.HighPriority = []models.Complaint{}
	for _, c := range overview.Complaints {
		switch c.Status {
		case models.ComplaintOpen:
			overview.Open++
		case models.ComplaintInProgress:
			overview.InProgress++
		case models.ComplaintResolved:
			overview.Resolved++
		}
		if c.Priority == "high" && c.Status != models.ComplaintResolved {
			overview.HighPriority = append(overview.HighPriority, c)
		}
	}
	return overview, nil
}

func ListTenantComplaints(db *gorm.DB, tenantUserID uint) ([]models.Complaint, error) {
	tenant, err := TenantForUser(db, tenantUserID)
	if err != nil {
		return nil, err
	}
	var complaints []models.Complaint
	err = db.Preload("Property").Where("tenant_id = ?", tenant.ID).Order("created_at desc").Find(&complaints).Error
	return complaints, err
}
