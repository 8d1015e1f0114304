package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"rentalhouse-server/models"
	"rentalhouse-server/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var fixedNow = time.Date(2030, time.January, 10, 9, 30, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, storage.Migrate(db))

	restore := timeNow
	timeNow = func() time.Time { return fixedNow }
	t.Cleanup(func() {
		timeNow = restore
		sqlDB.Close()
	})
	return db
}

var emailSeq int64

func createUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()
	n := atomic.AddInt64(&emailSeq, 1)
	user, err := Register(db, RegisterInput{
		Role:            string(role),
		Email:           fmt.Sprintf("%s%d@example.com", role, n),
		FirstName:       "First",
		LastName:        fmt.Sprintf("%s%d", role, n),
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})
	require.NoError(t, err)
	return user
}

func createProperty(t *testing.T, db *gorm.DB, ownerUserID uint, rent, deposit string) *models.Property {
	t.Helper()
	property, err := CreateProperty(db, ownerUserID, PropertyInput{
		Title:           "Sunny flat",
		Address:         "1 Main St",
		City:            "Springfield",
		PropertyType:    "apartment",
		Bedrooms:        2,
		Bathrooms:       1,
		RentAmount:      rent,
		SecurityDeposit: deposit,
	})
	require.NoError(t, err)
	return property
}

func createBooking(t *testing.T, db *gorm.DB, tenantUserID, propertyID uint, start, end string) *models.Booking {
	t.Helper()
	booking, err := CreateBooking(db, tenantUserID, propertyID, BookingInput{StartDate: start, EndDate: end})
	require.NoError(t, err)
	return booking
}

// rentalFixture is an owner with one property and a tenant with a pending booking on it.
type rentalFixture struct {
	owner    *models.User
	tenant   *models.User
	property *models.Property
	booking  *models.Booking
}

func newRentalFixture(t *testing.T, db *gorm.DB) rentalFixture {
	t.Helper()
	owner := createUser(t, db, models.OwnerRole)
	tenant := createUser(t, db, models.TenantRole)
	property := createProperty(t, db, owner.ID, "1500", "")
	booking := createBooking(t, db, tenant.ID, property.ID, "2030-02-01", "2030-04-15")
	return rentalFixture{owner: owner, tenant: tenant, property: property, booking: booking}
}

func reloadProperty(t *testing.T, db *gorm.DB, id uint) models.Property {
	t.Helper()
	var p models.Property
	require.NoError(t, db.First(&p, id).Error)
	return p
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
