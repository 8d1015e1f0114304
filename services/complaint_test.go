package services

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"rentalhouse-server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newConfirmedFixture(t *testing.T, db *gorm.DB) rentalFixture {
	t.Helper()
	f := newRentalFixture(t, db)
	_, err := ConfirmBooking(db, f.owner.ID, f.booking.ID)
	require.NoError(t, err)
	return f
}

func submitComplaint(t *testing.T, db *gorm.DB, tenantUserID uint, title, priority string) *models.Complaint {
	t.Helper()
	c, err := SubmitComplaint(db, tenantUserID, ComplaintInput{
		Type:        "maintenance",
		Title:       title,
		Description: "Water is dripping from the ceiling.",
		Priority:    priority,
	})
	require.NoError(t, err)
	return c
}

func TestSubmitComplaintRequiresActiveBooking(t *testing.T) {
	db := setupTestDB(t)
	f := newRentalFixture(t, db)

	_, err := SubmitComplaint(db, f.tenant.ID, ComplaintInput{Type: "noise", Title: "Loud music", Description: "Every night."})
	assert.ErrorIs(t, err, ErrNoActiveBooking)
}

func TestSubmitComplaint(t *testing.T) {
	db := setupTestDB(t)
	f := newConfirmedFixture(t, db)

	c := submitComplaint(t, db, f.tenant.ID, "  Leaking roof  ", "")
	assert.Equal(t, "Leaking roof", c.Title)
	assert.Equal(t, "medium", c.Priority)
	assert.Equal(t, models.ComplaintOpen, c.Status)
	assert.Equal(t, f.property.ID, c.PropertyID)
	assert.Nil(t, c.ResolvedAt)

	_, err := SubmitComplaint(db, f.tenant.ID, ComplaintInput{Type: "noise", Title: "Loud", Description: "x"})
	var formErr *FormError
	require.True(t, errors.As(err, &formErr))
	assert.Equal(t, "title", formErr.Field)
}

func TestActiveBookingPicksLatestStart(t *testing.T) {
	db := setupTestDB(t)
	f := newConfirmedFixture(t, db)

	other := createProperty(t, db, f.owner.ID, "900", "")
	later := createBooking(t, db, f.tenant.ID, other.ID, "2030-06-01", "2030-07-01")
	_, err := ConfirmBooking(db, f.owner.ID, later.ID)
	require.NoError(t, err)

	tenant, err := TenantForUser(db, f.tenant.ID)
	require.NoError(t, err)
	active, err := ActiveBooking(db, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, later.ID, active.ID)
}

func TestUpdateComplaintResolvedAt(t *testing.T) {
	db := setupTestDB(t)
	f := newConfirmedFixture(t, db)
	c := submitComplaint(t, db, f.tenant.ID, "Broken heater", "high")

	resolved, err := UpdateComplaint(db, f.owner.ID, c.ID, ResolutionInput{Status: "resolved", ResolutionNotes: "Replaced."})
	require.NoError(t, err)
	require.NotNil(t, resolved.ResolvedAt)
	assert.True(t, fixedNow.Equal(*resolved.ResolvedAt))

	// resolving again keeps the first timestamp
	timeNow = func() time.Time { return fixedNow.Add(48 * time.Hour) }
	again, err := UpdateComplaint(db, f.owner.ID, c.ID, ResolutionInput{Status: "resolved", ResolutionNotes: "Checked again."})
	require.NoError(t, err)
	require.NotNil(t, again.ResolvedAt)
	assert.True(t, fixedNow.Equal(*again.ResolvedAt))
	assert.Equal(t, "Checked again.", again.ResolutionNotes)

	reopened, err := UpdateComplaint(db, f.owner.ID, c.ID, ResolutionInput{Status: "in-progress"})
	require.NoError(t, err)
	assert.Nil(t, reopened.ResolvedAt)

	var stored models.Complaint
	require.NoError(t, db.First(&stored, c.ID).Error)
	assert.Equal(t, models.ComplaintInProgress, stored.Status)
	assert.Nil(t, stored.ResolvedAt)

	_, err = UpdateComplaint(db, f.owner.ID, c.ID, ResolutionInput{Status: "closed"})
	var formErr *FormError
	assert.True(t, errors.As(err, &formErr))
}

func TestUpdateComplaintRequiresOwner(t *testing.T) {
	db := setupTestDB(t)
	f := newConfirmedFixture(t, db)
	c := submitComplaint(t, db, f.tenant.ID, "Broken heater", "low")
	other := createUser(t, db, models.OwnerRole)

	_, err := UpdateComplaint(db, other.ID, c.ID, ResolutionInput{Status: "resolved"})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = QuickResolve(db, other.ID, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuickResolve(t *testing.T) {
	db := setupTestDB(t)
	f := newConfirmedFixture(t, db)
	c := submitComplaint(t, db, f.tenant.ID, "Broken heater", "high")

	resolved, err := QuickResolve(db, f.owner.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ComplaintResolved, resolved.Status)
	assert.Equal(t, "Resolved by owner.", resolved.ResolutionNotes)
	require.NotNil(t, resolved.ResolvedAt)

	notes, err := ListNotifications(db, f.tenant.ID, true)
	require.NoError(t, err)
	var titles []string
	for _, n := range notes {
		titles = append(titles, n.Title)
	}
	assert.Contains(t, titles, "Complaint resolved")
}

func TestOwnerComplaintsOverview(t *testing.T) {
	db := setupTestDB(t)
	f := newConfirmedFixture(t, db)

	high := submitComplaint(t, db, f.tenant.ID, "No hot water", "high")
	submitComplaint(t, db, f.tenant.ID, "Squeaky door", "low")
	done := submitComplaint(t, db, f.tenant.ID, "Broken window", "high")
	_, err := QuickResolve(db, f.owner.ID, done.ID)
	require.NoError(t, err)

	overview, err := OwnerComplaints(db, f.owner.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 3, overview.Total)
	assert.Equal(t, 2, overview.Open)
	assert.Equal(t, 0, overview.InProgress)
	assert.Equal(t, 1, overview.Resolved)
	require.Len(t, overview.HighPriority, 1)
	assert.Equal(t, high.ID, overview.HighPriority[0].ID)
	require.Len(t, overview.TenantsWithComplaints, 1)
	assert.Nil(t, overview.SelectedTenant)

	tenant, err := TenantForUser(db, f.tenant.ID)
	require.NoError(t, err)
	filtered, err := OwnerComplaints(db, f.owner.ID, strconv.Itoa(int(tenant.ID)))
	require.NoError(t, err)
	require.NotNil(t, filtered.SelectedTenant)
	assert.Equal(t, 3, filtered.Total)

	for _, raw := range []string{"9999", "abc"} {
		fallback, err := OwnerComplaints(db, f.owner.ID, raw)
		require.NoError(t, err)
		assert.Nil(t, fallback.SelectedTenant)
		assert.Equal(t, 3, fallback.Total)
	}

	other := createUser(t, db, models.OwnerRole)
	empty, err := OwnerComplaints(db, other.ID, "")
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
	assert.Empty(t, empty.TenantsWithComplaints)
}
