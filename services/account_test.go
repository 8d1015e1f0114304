package services

import (
	"errors"
	"testing"

	"rentalhouse-server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerInput(role, email string) RegisterInput {
	return RegisterInput{
		Role:            role,
		Email:           email,
		FirstName:       "Jane",
		LastName:        "Doe",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	}
}

func TestRegisterCreatesProfile(t *testing.T) {
	db := setupTestDB(t)

	tenant, err := Register(db, registerInput("tenant", " Jane@Example.com "))
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", tenant.Email)
	assert.NotEqual(t, "secret123", tenant.Password)
	_, err = TenantForUser(db, tenant.ID)
	assert.NoError(t, err)
	_, err = OwnerForUser(db, tenant.ID)
	assert.ErrorIs(t, err, ErrProfileMissing)

	owner, err := Register(db, registerInput("owner", "owner@example.com"))
	require.NoError(t, err)
	profile, err := OwnerForUser(db, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", profile.VerificationStatus)
	assert.Equal(t, "owner_dashboard", owner.Dashboard())
}

func TestRegisterRejects(t *testing.T) {
	db := setupTestDB(t)
	_, err := Register(db, registerInput("tenant", "jane@example.com"))
	require.NoError(t, err)

	_, err = Register(db, registerInput("owner", "JANE@example.com"))
	assert.ErrorIs(t, err, ErrEmailTaken)

	mismatch := registerInput("tenant", "other@example.com")
	mismatch.ConfirmPassword = "different"
	_, err = Register(db, mismatch)
	var formErr *FormError
	require.True(t, errors.As(err, &formErr))
	assert.Equal(t, "confirmPassword", formErr.Field)

	_, err = Register(db, registerInput("admin", "sneaky@example.com"))
	require.True(t, errors.As(err, &formErr))
	assert.Equal(t, "role", formErr.Field)
}

func TestAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	user, err := Register(db, registerInput("tenant", "jane@example.com"))
	require.NoError(t, err)

	got, err := Authenticate(db, "JANE@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = Authenticate(db, "jane@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = Authenticate(db, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	inactive := "inactive"
	_, _, err = UpdateUser(db, user.ID, AdminUserInput{Status: &inactive})
	require.NoError(t, err)
	_, err = Authenticate(db, "jane@example.com", "secret123")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestCreateAdminPromotesExistingUser(t *testing.T) {
	db := setupTestDB(t)
	user, err := Register(db, registerInput("owner", "boss@example.com"))
	require.NoError(t, err)

	admin, err := CreateAdmin(db, "boss@example.com", "n3wpassword", "", "")
	require.NoError(t, err)
	assert.Equal(t, user.ID, admin.ID)
	assert.Equal(t, models.AdminRole, admin.Role)
	assert.Equal(t, "Jane", admin.FirstName)

	_, err = Authenticate(db, "boss@example.com", "n3wpassword")
	assert.NoError(t, err)

	_, err = CreateAdmin(db, "x@example.com", "123", "", "")
	var formErr *FormError
	assert.True(t, errors.As(err, &formErr))
}

func TestUpdateProfile(t *testing.T) {
	db := setupTestDB(t)
	tenant := createUser(t, db, models.TenantRole)

	first, phone, employment := "Janet", " 555-0100 ", "employed"
	company := "ignored for tenants"
	user, err := UpdateProfile(db, tenant.ID, ProfileInput{
		FirstName:        &first,
		Phone:            &phone,
		EmploymentStatus: &employment,
		CompanyName:      &company,
	})
	require.NoError(t, err)
	assert.Equal(t, "Janet", user.FirstName)
	assert.Equal(t, "555-0100", user.Phone)
	require.NotNil(t, user.Tenant)
	assert.Equal(t, "employed", user.Tenant.EmploymentStatus)
	assert.Nil(t, user.Owner)

	owner := createUser(t, db, models.OwnerRole)
	user, err = UpdateProfile(db, owner.ID, ProfileInput{CompanyName: &company})
	require.NoError(t, err)
	require.NotNil(t, user.Owner)
	assert.Equal(t, company, user.Owner.CompanyName)

	require.NoError(t, SetProfilePicture(db, owner.ID, "https://img/me.png"))
	user, err = GetUser(db, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://img/me.png", user.ProfilePicture)

	_, err = UpdateProfile(db, 4040, ProfileInput{FirstName: &first})
	assert.ErrorIs(t, err, ErrNotFound)
}
