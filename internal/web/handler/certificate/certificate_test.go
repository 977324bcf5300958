package certificate

import (
	"bytes"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"syscall"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/clinic-crm/clinic-crm/internal/config"
	"github.com/clinic-crm/clinic-crm/internal/db"
	controller "github.com/clinic-crm/clinic-crm/internal/db/controller/certificate"
	"github.com/clinic-crm/clinic-crm/internal/db/dbtest"
	"github.com/clinic-crm/clinic-crm/internal/db/models"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func setupApp(t *testing.T, store *db.Store) *fiber.App {
	t.Helper()

	cfg := config.Default()
	app := fiber.New()

	s := &Service{}
	require.NoError(t, s.Init(app.Group("/api"), &cfg, store))

	return app
}

func do(t *testing.T, app *fiber.App, method, path string, body any) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader

	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)

		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))

	return resp.StatusCode, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(raw, &v))

	return v
}

func TestInitNil(t *testing.T) {
	s := &Service{}
	require.Error(t, s.Init(nil, nil, nil))
}

// TestLifecycle walks a certificate through create, read, update and delete.
func TestLifecycle(t *testing.T) {
	app := setupApp(t, dbtest.NewStore(t))

	status, env := do(t, app, http.MethodPost, "/api/certificates", map[string]any{
		"certificateNumber": "CERT-TEST-001",
		"patientName":       "Test Patient",
		"certificateType":   "Medical",
		"title":             "Fitness Certificate",
		"issuedDate":        "2024-03-01",
		"status":            "Active",
	})
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	assert.True(t, env.Success)

	created := decode[models.Certificate](t, env.Data)
	require.NotZero(t, created.ID)
	assert.Equal(t, "CERT-TEST-001", created.CertificateNumber)

	path := "/api/certificates/" + itoa(created.ID)

	status, env = do(t, app, http.MethodGet, path, nil)
	require.Equal(t, fiber.StatusOK, status)

	got := decode[models.Certificate](t, env.Data)
	assert.Equal(t, "Test Patient", got.PatientName)
	assert.Equal(t, "2024-03-01", got.IssuedDate.String())

	got.Title = "Updated Test Certificate"

	status, env = do(t, app, http.MethodPut, path, got)
	require.Equal(t, fiber.StatusOK, status, env.Message)

	status, env = do(t, app, http.MethodGet, path, nil)
	require.Equal(t, fiber.StatusOK, status)

	updated := decode[models.Certificate](t, env.Data)
	assert.Equal(t, "Updated Test Certificate", updated.Title)
	assert.Equal(t, got.PatientName, updated.PatientName)
	assert.Equal(t, got.CertificateType, updated.CertificateType)
	assert.Equal(t, got.IssuedDate.String(), updated.IssuedDate.String())

	status, env = do(t, app, http.MethodPatch, path, map[string]any{"notes": "follow up in May"})
	require.Equal(t, fiber.StatusOK, status, env.Message)

	patched := decode[models.Certificate](t, env.Data)
	assert.Equal(t, "follow up in May", patched.Notes)
	assert.Equal(t, "Updated Test Certificate", patched.Title)

	status, env = do(t, app, http.MethodGet, "/api/certificates", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, decode[[]models.Certificate](t, env.Data), 1)

	status, env = do(t, app, http.MethodGet, "/api/certificates/stats/overview", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, int64(1), decode[controller.Stats](t, env.Data).Total)

	status, env = do(t, app, http.MethodDelete, path, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, env.Success)

	status, env = do(t, app, http.MethodGet, path, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.False(t, env.Success)

	status, env = do(t, app, http.MethodGet, "/api/certificates", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, decode[[]models.Certificate](t, env.Data))

	status, env = do(t, app, http.MethodGet, "/api/certificates/stats/overview", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Zero(t, decode[controller.Stats](t, env.Data).Total)
}

func TestErrors(t *testing.T) {
	store := dbtest.NewStore(t)
	require.NoError(t, store.DB.Create(&models.Certificate{CertificateNumber: "MC-1"}).Error)

	app := setupApp(t, store)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"missing number", http.MethodPost, "/api/certificates", map[string]any{"patientName": "Ada"}, fiber.StatusBadRequest},
		{"duplicate number", http.MethodPost, "/api/certificates", map[string]any{"certificateNumber": "MC-1"}, fiber.StatusConflict},
		{"broken body", http.MethodPost, "/api/certificates", `{"certificateNumber":`, fiber.StatusBadRequest},
		{"bad date", http.MethodPost, "/api/certificates", map[string]any{"certificateNumber": "MC-2", "issuedDate": "01/03/2024"}, fiber.StatusBadRequest},
		{"status too long", http.MethodPost, "/api/certificates", map[string]any{"certificateNumber": "MC-3", "status": string(make([]byte, 51))}, fiber.StatusBadRequest},
		{"non numeric id", http.MethodGet, "/api/certificates/abc", nil, fiber.StatusBadRequest},
		{"unknown id", http.MethodGet, "/api/certificates/99", nil, fiber.StatusNotFound},
		{"update unknown id", http.MethodPut, "/api/certificates/99", map[string]any{"title": "x"}, fiber.StatusNotFound},
		{"change number", http.MethodPut, "/api/certificates/1", map[string]any{"certificateNumber": "MC-9"}, fiber.StatusBadRequest},
		{"patch number", http.MethodPatch, "/api/certificates/1", map[string]any{"certificateNumber": "MC-9"}, fiber.StatusBadRequest},
		{"delete unknown id", http.MethodDelete, "/api/certificates/99", nil, fiber.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := do(t, app, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, status, env.Message)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Message)
		})
	}
}

func mockStore(t *testing.T) (*db.Store, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	store, err := db.New(gdb, nil)
	require.NoError(t, err)

	return store, mock
}

func TestStoreFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"connection refused", &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}, fiber.StatusServiceUnavailable},
		{"statement error", errors.New("Error 1146: Table 'clinic_crm.certificates' doesn't exist"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := mockStore(t)
			app := setupApp(t, store)

			mock.ExpectQuery("SELECT").WillReturnError(tt.err)

			status, env := do(t, app, http.MethodGet, "/api/certificates", nil)
			assert.Equal(t, tt.want, status)
			assert.False(t, env.Success)
			assert.Equal(t, "Failed to fetch certificates", env.Message)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func itoa(id uint64) string {
	return strconv.FormatUint(id, 10)
}
