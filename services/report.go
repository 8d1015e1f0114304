package services

import (
	"fmt"
	"strings"

	"rentalhouse-server/export"
	"rentalhouse-server/models"

	"gorm.io/gorm"
)

var ReportTypes = []string{"booking", "payment", "property", "user"}

// OwnerPaymentsReport builds the owner's payment export, newest first.
func OwnerPaymentsReport(db *gorm.DB, ownerUserID uint) (*export.Table, error) {
	payments, err := ListOwnerPayments(db, ownerUserID)
	if err != nil {
		return nil, err
	}
	owner, err := OwnerForUser(db, ownerUserID)
	if err != nil {
		return nil, err
	}
	var name string
	if owner.User != nil {
		name = owner.User.FullName()
	}
	return export.PaymentsTable("Payments Report - "+name, payments), nil
}

// BuildReport renders one of ReportTypes over records created in the range.
func BuildReport(db *gorm.DB, kind string, r DateRange) (*export.Table, error) {
	if kind == "" {
		return nil, formError("reportType", "Select a valid report type.")
	}
	title := strings.ToUpper(kind[:1]) + kind[1:] + " Report"
	if r.From != nil || r.To != nil {
		title += " (" + rangeLabel(r) + ")"
	}

	switch kind {
	case "payment":
		var payments []models.Payment
		if err := r.apply(db.Preload("Booking.Property").Preload("Tenant.User"), "created_at").
			Order("created_at desc").Find(&payments).Error; err != nil {
			return nil, err
		}
		return export.PaymentsTable(title, payments), nil

	case "booking":
		var bookings []models.Booking
		if err := r.apply(db.Preload("Property").Preload("Tenant.User"), "created_at").
			Order("created_at desc").Find(&bookings).Error; err != nil {
			return nil, err
		}
		t := &export.Table{
			Title:      title,
			Header:     []string{"Booking ID", "Property", "Tenant", "Start Date", "End Date", "Months", "Total Amount", "Deposit", "Status"},
			RightAlign: []int{5, 6, 7},
		}
		for _, b := range bookings {
			var property, tenant string
			if b.Property != nil {
				property = b.Property.Title
			}
			if b.Tenant != nil && b.Tenant.User != nil {
				tenant = b.Tenant.User.FullName()
			}
			t.Append(
				fmt.Sprintf("%d", b.ID), property, tenant,
				b.StartDate.Format(DateLayout), b.EndDate.Format(DateLayout),
				fmt.Sprintf("%d", b.DurationMonths),
				b.TotalAmount.StringFixed(2), b.SecurityDeposit.StringFixed(2),
				string(b.Status),
			)
		}
		return t, nil

	case "property":
		var properties []models.Property
		if err := r.apply(db.Preload("Owner.User"), "created_at").
			Order("created_at desc").Find(&properties).Error; err != nil {
			return nil, err
		}
		t := &export.Table{
			Title:      title,
			Header:     []string{"Property ID", "Title", "Owner", "City", "Type", "Bedrooms", "Rent", "Status"},
			RightAlign: []int{5, 6},
		}
		for _, p := range properties {
			var owner string
			if p.Owner != nil && p.Owner.User != nil {
				owner = p.Owner.User.FullName()
			}
			t.Append(
				fmt.Sprintf("%d", p.ID), p.Title, owner, p.City, p.PropertyType,
				fmt.Sprintf("%d", p.Bedrooms), p.RentAmount.StringFixed(2), string(p.Status),
			)
		}
		return t, nil

	case "user":
		var users []models.User
		if err := r.apply(db, "created_at").Order("created_at desc").Find(&users).Error; err != nil {
			return nil, err
		}
		t := &export.Table{
			Title:  title,
			Header: []string{"User ID", "Name", "Email", "Role", "Status", "Active", "Joined"},
		}
		for _, u := range users {
			active := "no"
			if u.IsActive {
				active = "yes"
			}
			t.Append(
				fmt.Sprintf("%d", u.ID), u.FullName(), u.Email, string(u.Role),
				string(u.Status), active, u.CreatedAt.Format(DateLayout),
			)
		}
		return t, nil
	}
	return nil, formError("reportType", "Select a valid report type.")
}

func rangeLabel(r DateRange) string {
	from, to := "...", "..."
	if r.From != nil {
		from = r.From.Format(DateLayout)
	}
	if r.To != nil {
		to = r.To.Format(DateLayout)
	}
	return from + " to " + to
}
