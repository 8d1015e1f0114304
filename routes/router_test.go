package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"rentalhouse-server/models"
	"rentalhouse-server/services"
	"rentalhouse-server/storage"
	"rentalhouse-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type memoryTokens struct {
	mu      sync.Mutex
	allowed map[string]bool
}

func (m *memoryTokens) Allow(_ context.Context, token string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.allowed[token] = true
	return nil
}

func (m *memoryTokens) Consume(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ok := m.allowed[token]
	delete(m.allowed, token)
	return ok, nil
}

func buildTestApp(t *testing.T) *iris.Application {
	t.Helper()
	t.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	t.Setenv("REFRESH_TOKEN_SECRET", "testrefresh")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, storage.Migrate(db))

	prevDB, prevTokens := storage.DB, utils.Tokens
	storage.DB = db
	utils.Tokens = &memoryTokens{allowed: map[string]bool{}}
	t.Cleanup(func() {
		storage.DB, utils.Tokens = prevDB, prevTokens
		sqlDB.Close()
	})

	app := NewApp([]string{"https://app.example.com"})
	require.NoError(t, app.Build())
	return app
}

func doJSON(app *iris.Application, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

type flashBody struct {
	Level    string          `json:"level"`
	Message  string          `json:"message"`
	Redirect string          `json:"redirect"`
	Data     json.RawMessage `json:"data"`
}

func decodeFlash(t *testing.T, resp *httptest.ResponseRecorder) flashBody {
	t.Helper()
	var body flashBody
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body), resp.Body.String())
	return body
}

// signup registers and logs in, returning the access token.
func signup(t *testing.T, app *iris.Application, role, email string) string {
	t.Helper()
	resp := doJSON(app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"role":            role,
		"email":           email,
		"firstName":       "Test",
		"lastName":        "User",
		"password":        "secret123",
		"confirmPassword": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = doJSON(app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	body := decodeFlash(t, resp)
	assert.Equal(t, role+"_dashboard", body.Redirect)

	var data struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	require.NotEmpty(t, data.AccessToken)
	return data.AccessToken
}

func TestHealth(t *testing.T) {
	app := buildTestApp(t)
	resp := doJSON(app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	app := buildTestApp(t)
	signup(t, app, "tenant", "tenant@example.com")

	resp := doJSON(app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"role": "owner", "email": "tenant@example.com", "firstName": "A", "lastName": "B",
		"password": "secret123", "confirmPassword": "secret123",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = doJSON(app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"role": "admin", "email": "admin@example.com", "firstName": "A", "lastName": "B",
		"password": "secret123", "confirmPassword": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = doJSON(app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "tenant@example.com", "password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRoleAccess(t *testing.T) {
	app := buildTestApp(t)
	tenant := signup(t, app, "tenant", "tenant@example.com")
	owner := signup(t, app, "owner", "owner@example.com")
	_, err := services.CreateAdmin(storage.DB, "admin@example.com", "secret123", "Site", "Admin")
	require.NoError(t, err)
	resp := doJSON(app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "admin@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	var data struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(decodeFlash(t, resp).Data, &data))
	admin := data.AccessToken

	resp = doJSON(app, http.MethodGet, "/api/admin/users", "", nil)
	assert.NotEqual(t, http.StatusOK, resp.Code)

	resp = doJSON(app, http.MethodGet, "/api/admin/users", tenant, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "Access denied.", decodeFlash(t, resp).Message)

	resp = doJSON(app, http.MethodGet, "/api/owner/dashboard", tenant, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)
	resp = doJSON(app, http.MethodGet, "/api/tenant/dashboard", owner, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = doJSON(app, http.MethodGet, "/api/admin/users", admin, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	resp = doJSON(app, http.MethodGet, "/api/owner/dashboard", owner, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	resp = doJSON(app, http.MethodGet, "/api/tenant/dashboard", tenant, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func problemDetail(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body), resp.Body.String())
	return body.Detail
}

func TestDisabledAccountLosesAccess(t *testing.T) {
	app := buildTestApp(t)
	tenant := signup(t, app, "tenant", "tenant@example.com")
	owner := signup(t, app, "owner", "owner@example.com")

	resp := doJSON(app, http.MethodGet, "/api/tenant/dashboard", tenant, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	require.NoError(t, storage.DB.Model(&models.User{}).Where("email = ?", "tenant@example.com").
		Update("is_active", false).Error)

	resp = doJSON(app, http.MethodGet, "/api/tenant/dashboard", tenant, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "Your account is disabled.", problemDetail(t, resp))
	resp = doJSON(app, http.MethodGet, "/api/profile", tenant, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	require.NoError(t, storage.DB.Model(&models.User{}).Where("email = ?", "owner@example.com").
		Update("status", models.UserSuspended).Error)
	resp = doJSON(app, http.MethodGet, "/api/owner/dashboard", owner, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "Your account is disabled.", problemDetail(t, resp))
}

func TestRoleChangeInvalidatesToken(t *testing.T) {
	app := buildTestApp(t)
	tenant := signup(t, app, "tenant", "tenant@example.com")

	require.NoError(t, storage.DB.Model(&models.User{}).Where("email = ?", "tenant@example.com").
		Update("role", models.OwnerRole).Error)

	resp := doJSON(app, http.MethodGet, "/api/tenant/dashboard", tenant, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)
	resp = doJSON(app, http.MethodGet, "/api/notifications", tenant, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestCORSAllowList(t *testing.T) {
	app := buildTestApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/home", nil)
	req.Header.Set("Origin", "https://app.example.com")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "https://app.example.com", resp.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.net")
	resp = httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, resp.Header().Get("Access-Control-Allow-Credentials"))
}

func TestBookingFlow(t *testing.T) {
	app := buildTestApp(t)
	owner := signup(t, app, "owner", "owner@example.com")
	tenant := signup(t, app, "tenant", "tenant@example.com")

	resp := doJSON(app, http.MethodPost, "/api/owner/properties", owner, map[string]interface{}{
		"title":        "Loft",
		"address":      "2 Canal St",
		"city":         "Springfield",
		"propertyType": "apartment",
		"bedrooms":     1,
		"rentAmount":   "1200",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var property models.Property
	require.NoError(t, json.Unmarshal(decodeFlash(t, resp).Data, &property))

	start := time.Now().AddDate(0, 0, 7).Format(services.DateLayout)
	end := time.Now().AddDate(0, 0, 7+45).Format(services.DateLayout)
	bookPath := fmt.Sprintf("/api/properties/%d/book", property.ID)

	resp = doJSON(app, http.MethodPost, bookPath, owner, map[string]string{"startDate": start, "endDate": end})
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "Only tenants can book properties.", decodeFlash(t, resp).Message)

	resp = doJSON(app, http.MethodPost, bookPath, tenant, map[string]string{"startDate": end, "endDate": start})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = doJSON(app, http.MethodPost, bookPath, tenant, map[string]string{"startDate": start, "endDate": end})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var booking models.Booking
	require.NoError(t, json.Unmarshal(decodeFlash(t, resp).Data, &booking))
	assert.Equal(t, 2, booking.DurationMonths)
	assert.Equal(t, "2400", booking.TotalAmount.String())

	confirmPath := fmt.Sprintf("/api/owner/bookings/%d/confirm", booking.ID)
	resp = doJSON(app, http.MethodPost, confirmPath, owner, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "success", decodeFlash(t, resp).Level)

	resp = doJSON(app, http.MethodPost, confirmPath, owner, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	flash := decodeFlash(t, resp)
	assert.Equal(t, "warning", flash.Level)
	assert.Equal(t, "This booking is already processed.", flash.Message)

	resp = doJSON(app, http.MethodPost, fmt.Sprintf("/api/bookings/%d/cancel", booking.ID), tenant, nil)
	assert.Equal(t, "warning", decodeFlash(t, resp).Level)

	resp = doJSON(app, http.MethodPost, bookPath, tenant, map[string]string{"startDate": start, "endDate": end})
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Property not found or not available.", decodeFlash(t, resp).Message)

	resp = doJSON(app, http.MethodPost, fmt.Sprintf("/api/tenant/bookings/%d/payments", booking.ID), tenant, map[string]string{
		"amount": "1200", "paymentMethod": "online",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = doJSON(app, http.MethodGet, "/api/owner/payments/export/csv", owner, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, `attachment; filename="owner_payments.csv"`, resp.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(resp.Body.String(), "Payment ID,Booking ID,Property,Tenant,Amount,Payment Date,Status"))
	assert.Contains(t, resp.Body.String(), "Loft")

	resp = doJSON(app, http.MethodGet, "/api/owner/payments/export/pdf", owner, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, `attachment; filename="owner_payments.pdf"`, resp.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(resp.Body.Bytes(), []byte("%PDF")))
}
