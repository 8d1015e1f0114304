// Package export renders tabular reports as CSV or PDF.
package export

import (
	"fmt"

	"rentalhouse-server/models"
)

var PaymentHeader = []string{"Payment ID", "Booking ID", "Property", "Tenant", "Amount", "Payment Date", "Status"}

type Table struct {
	Title  string
	Header []string
	Rows   [][]string
	// RightAlign holds the indexes of numeric columns.
	RightAlign []int
}

func (t *Table) rightAligned(col int) bool {
	for _, c := range t.RightAlign {
		if c == col {
			return true
		}
	}
	return false
}

func (t *Table) Append(row ...string) {
	t.Rows = append(t.Rows, row)
}

// PaymentsTable lays out payments in the fixed payment export columns.
func PaymentsTable(title string, payments []models.Payment) *Table {
	t := &Table{Title: title, Header: PaymentHeader, RightAlign: []int{4}}
	for _, p := range payments {
		var bookingID, property, tenant, paid string
		if p.Booking != nil {
			bookingID = fmt.Sprintf("%d", p.Booking.ID)
			if p.Booking.Property != nil {
				property = p.Booking.Property.Title
			}
		} else if p.BookingID != 0 {
			bookingID = fmt.Sprintf("%d", p.BookingID)
		}
		if p.Tenant != nil && p.Tenant.User != nil {
			tenant = p.Tenant.User.FirstName + " " + p.Tenant.User.LastName
		}
		if p.PaymentDate != nil {
			paid = p.PaymentDate.Format("2006-01-02")
		}
		t.Append(
			fmt.Sprintf("%d", p.ID),
			bookingID,
			property,
			tenant,
			p.Amount.StringFixed(2),
			paid,
			string(p.Status),
		)
	}
	return t
}
