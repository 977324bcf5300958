package app

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinic-crm/clinic-crm/internal/db/dbtest"
	"github.com/clinic-crm/clinic-crm/internal/db/models"
)

func TestCheck(t *testing.T) {
	store := dbtest.NewStore(t)
	require.NoError(t, store.DB.Create(&models.Certificate{CertificateNumber: "MC-1"}).Error)

	var out bytes.Buffer
	require.NoError(t, check(context.Background(), &out, store))

	assert.Contains(t, out.String(), "database: OK")
	assert.Contains(t, out.String(), "certificates: 1 rows")
	assert.Contains(t, out.String(), "app_settings: 0 rows")
	assert.Contains(t, out.String(), "engine:")
	assert.NotContains(t, out.String(), "password")
}

func TestCheckMissingTables(t *testing.T) {
	store := dbtest.NewStore(t)
	require.NoError(t, store.DB.Migrator().DropTable(&models.AppSetting{}))

	var out bytes.Buffer
	require.Error(t, check(context.Background(), &out, store))
	assert.Contains(t, out.String(), "app_settings: FAILED")
}

func TestConfigDump(t *testing.T) {
	t.Setenv("DB_PASSWORD", "topsecret")

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"config", "dump", "--json", "--config", t.TempDir()})

	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		dumpJSON = false
	})

	require.NoError(t, Execute())
	assert.Contains(t, out.String(), `"Title": "Clinic CRM"`)
	assert.NotContains(t, out.String(), "topsecret")
}
