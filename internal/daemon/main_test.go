package daemon

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinic-crm/clinic-crm/internal/config"
	"github.com/clinic-crm/clinic-crm/internal/db/controller/setting"
	"github.com/clinic-crm/clinic-crm/internal/db/dbtest"
	"github.com/clinic-crm/clinic-crm/internal/db/models"
)

func TestNew(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)

	cfg := config.Default()
	cfg.DB.GormEngine = config.EngineSQLite
	cfg.DB.Name = filepath.Join(t.TempDir(), "clinic.db")
	cfg.Log.Console.Enabled = false

	d, err := New(&cfg)
	require.NoError(t, err)
	require.NotNil(t, d.webService)

	t.Cleanup(func() { _ = d.store.Close() })

	assert.True(t, d.store.DB.Migrator().HasTable(&models.Certificate{}))
}

func TestNewUnreachableStore(t *testing.T) {
	cfg := config.Default()
	cfg.DB.Host = "127.0.0.1"
	cfg.DB.Port = 1
	cfg.DB.ConnectTimeout = 1

	d, err := New(&cfg)
	require.Error(t, err)
	assert.Nil(t, d)
}

func TestSeedKeepsExistingValues(t *testing.T) {
	ctx := context.Background()
	store := dbtest.NewStore(t)

	custom := "Riverside Clinic"
	require.NoError(t, store.DB.Create(&models.AppSetting{SettingKey: "site_title", SettingValue: &custom}).Error)

	require.NoError(t, seed(ctx, store))
	require.NoError(t, seed(ctx, store))

	settings, err := setting.New(store)
	require.NoError(t, err)

	all, err := settings.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(defaultSettings()))

	title, err := settings.Get(ctx, "site_title")
	require.NoError(t, err)
	assert.Equal(t, &custom, title.SettingValue)
}
