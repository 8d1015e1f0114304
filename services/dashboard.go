package services

import (
	"rentalhouse-server/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TenantDashboard struct {
	Tenant               *models.Tenant     `json:"tenant"`
	Bookings             []models.Booking   `json:"bookings"`
	Payments             []models.Payment   `json:"payments"`
	Complaints           []models.Complaint `json:"complaints"`
	ComplaintsOpen       []models.Complaint `json:"complaintsOpen"`
	ComplaintsInProgress []models.Complaint `json:"complaintsInProgress"`
	ComplaintsResolved   []models.Complaint `json:"complaintsResolved"`
	TotalPaid            decimal.Decimal    `json:"totalPaid"`
}

type OwnerDashboard struct {
	Owner           *models.Owner     `json:"owner"`
	Properties      []models.Property `json:"properties"`
	Bookings        []models.Booking  `json:"bookings"`
	PendingBookings []models.Booking  `json:"pendingBookings"`
	TotalProperties int               `json:"totalProperties"`
	ActiveBookings  int               `json:"activeBookings"`
	TotalEarnings   decimal.Decimal   `json:"totalEarnings"`
}

type AdminDashboard struct {
	TotalUsers        int64            `json:"totalUsers"`
	TotalProperties   int64            `json:"totalProperties"`
	TotalBookings     int64            `json:"totalBookings"`
	TotalPayments     int64            `json:"totalPayments"`
	PendingComplaints int64            `json:"pendingComplaints"`
	RecentUsers       []models.User    `json:"recentUsers"`
	RecentBookings    []models.Booking `json:"recentBookings"`
}

func completedTotal(payments []models.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if p.Status == models.PaymentCompleted {
			total = total.Add(p.Amount)
		}
	}
	return total
}

func GetTenantDashboard(db *gorm.DB, tenantUserID uint) (*TenantDashboard, error) {
	tenant, err := TenantForUser(db, tenantUserID)
	if err != nil {
		return nil, err
	}
	d := &TenantDashboard{
		Tenant:               tenant,
		ComplaintsOpen:       []models.Complaint{},
		ComplaintsInProgress: []models.Complaint{},
		ComplaintsResolved:   []models.Complaint{},
	}
	if d.Bookings, err = ListTenantBookings(db, tenantUserID); err != nil {
		return nil, err
	}
	if d.Payments, err = ListTenantPayments(db, tenantUserID); err != nil {
		return nil, err
	}
	if d.Complaints, err = ListTenantComplaints(db, tenantUserID); err != nil {
		return nil, err
	}
	for _, c := range d.Complaints {
		switch c.Status {
		case models.ComplaintOpen:
			d.ComplaintsOpen = append(d.ComplaintsOpen, c)
		case models.ComplaintInProgress:
			d.ComplaintsInProgress = append(d.ComplaintsInProgress, c)
		case models.ComplaintResolved:
			d.ComplaintsResolved = append(d.ComplaintsResolved, c)
		}
	}
	d.TotalPaid = completedTotal(d.Payments)
	return d, nil
}

func GetOwnerDashboard(db *gorm.DB, ownerUserID uint) (*OwnerDashboard, error) {
	owner, err := OwnerForUser(db, ownerUserID)
	if err != nil {
		return nil, err
	}
	d := &OwnerDashboard{Owner: owner, PendingBookings: []models.Booking{}}
	if d.Properties, err = ListOwnerProperties(db, ownerUserID); err != nil {
		return nil, err
	}
	if d.Bookings, err = ListOwnerBookings(db, ownerUserID, ""); err != nil {
		return nil, err
	}
	payments, err := ListOwnerPayments(db, ownerUserID)
	if err != nil {
		return nil, err
	}

	for _, b := range d.Bookings {
		switch b.Status {
		case models.BookingPending:
			d.PendingBookings = append(d.PendingBookings, b)
		case models.BookingConfirmed:
			d.ActiveBookings++
		}
	}
	d.TotalProperties = len(d.Properties)
	d.TotalEarnings = completedTotal(payments)
	return d, nil
}

func GetAdminDashboard(db *gorm.DB) (*AdminDashboard, error) {
	d := &AdminDashboard{}
	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.User{}, &d.TotalUsers},
		{&models.Property{}, &d.TotalProperties},
		{&models.Booking{}, &d.TotalBookings},
		{&models.Payment{}, &d.TotalPayments},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	if err := db.Model(&models.Complaint{}).Where("status = ?", models.ComplaintOpen).Count(&d.PendingComplaints).Error; err != nil {
		return nil, err
	}
	if err := db.Order("created_at desc").Limit(5).Find(&d.RecentUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("Property").Order("created_at desc").Limit(5).Find(&d.RecentBookings).Error; err != nil {
		return nil, err
	}
	return d, nil
}
