package settings

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinic-crm/clinic-crm/internal/config"
	"github.com/clinic-crm/clinic-crm/internal/db/dbtest"
	"github.com/clinic-crm/clinic-crm/internal/db/models"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func ptr(s string) *string { return &s }

func setupApp(t *testing.T, seed ...models.AppSetting) *fiber.App {
	t.Helper()

	store := dbtest.NewStore(t)
	for _, s := range seed {
		require.NoError(t, store.DB.Create(&s).Error, "failed to seed test data")
	}

	cfg := config.Default()
	app := fiber.New()

	s := &Service{}
	require.NoError(t, s.Init(app.Group("/api"), &cfg, store))

	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))

	return resp.StatusCode, env
}

func TestInitNil(t *testing.T) {
	s := &Service{}
	require.Error(t, s.Init(nil, nil, nil))
}

func TestList(t *testing.T) {
	app := setupApp(t,
		models.AppSetting{SettingKey: "site_title", SettingValue: ptr("City Clinic")},
		models.AppSetting{SettingKey: "primary_color", SettingValue: ptr("#0d6efd"), SettingType: models.SettingTypeColor},
	)

	status, env := do(t, app, http.MethodGet, "/api/settings", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, env.Success)

	var items []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 2)
	assert.Equal(t, "primary_color", items[0]["setting_key"])
	assert.Equal(t, "City Clinic", items[1]["setting_value"])
	assert.Contains(t, items[1], "file_path")
}

func TestGetPutDelete(t *testing.T) {
	app := setupApp(t, models.AppSetting{SettingKey: "site_title", SettingValue: ptr("City Clinic")})

	status, _ := do(t, app, http.MethodGet, "/api/settings/site_logo", "")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, env := do(t, app, http.MethodPut, "/api/settings/site_logo",
		`{"setting_type":"file","file_path":"/Photos/logo.png","setting_key":"ignored"}`)
	require.Equal(t, fiber.StatusOK, status, env.Message)

	var saved models.AppSetting
	require.NoError(t, json.Unmarshal(env.Data, &saved))
	assert.Equal(t, "site_logo", saved.SettingKey)
	assert.Equal(t, ptr("/Photos/logo.png"), saved.FilePath)

	status, env = do(t, app, http.MethodPut, "/api/settings/site_title", `{"setting_value":"Riverside Clinic"}`)
	require.Equal(t, fiber.StatusOK, status, env.Message)

	status, env = do(t, app, http.MethodGet, "/api/settings/site_title", "")
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &saved))
	assert.Equal(t, ptr("Riverside Clinic"), saved.SettingValue)
	assert.Equal(t, models.SettingTypeText, saved.SettingType)

	status, env = do(t, app, http.MethodPut, "/api/settings/site_title", `{"setting_type":"image"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, env.Message, "setting_type")

	status, _ = do(t, app, http.MethodPut, "/api/settings/site_title", `{"setting_type":`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, env = do(t, app, http.MethodDelete, "/api/settings/site_logo", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, env.Success)

	status, _ = do(t, app, http.MethodDelete, "/api/settings/site_logo", "")
	assert.Equal(t, fiber.StatusNotFound, status)
}
