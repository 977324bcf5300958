package daemon

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/clinic-crm/clinic-crm/internal/db"
	"github.com/clinic-crm/clinic-crm/internal/db/controller/setting"
	"github.com/clinic-crm/clinic-crm/internal/db/models"
)

func strPtr(s string) *string { return &s }

// defaultSettings are created on first start, existing values are kept.
func defaultSettings() []models.AppSetting {
	return []models.AppSetting{
		{
			SettingKey:   "site_title",
			SettingValue: strPtr("Clinic CRM"),
			SettingType:  models.SettingTypeText,
			Description:  "Title shown in the browser tab and the header",
		},
		{
			SettingKey:  "site_favicon",
			SettingType: models.SettingTypeFile,
			Description: "Favicon below /Photos",
		},
		{
			SettingKey:  "site_logo",
			SettingType: models.SettingTypeFile,
			Description: "Logo below /Photos",
		},
		{
			SettingKey:   "primary_color",
			SettingValue: strPtr("#0d6efd"),
			SettingType:  models.SettingTypeColor,
			Description:  "Primary color of the interface",
		},
	}
}

func seed(ctx context.Context, store *db.Store) error {
	settings, err := setting.New(store)
	if err != nil {
		return err
	}

	created, err := settings.Seed(ctx, defaultSettings())
	if err != nil {
		return err
	}

	if created > 0 {
		log.Info().Int("created", created).Msg("default settings seeded")
	}

	return nil
}
