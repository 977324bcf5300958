// Package setting provides CRUD operations for the application settings table.
package setting

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/clinic-crm/clinic-crm/internal/db"
	"github.com/clinic-crm/clinic-crm/internal/db/models"
)

const (
	keyQueryPattern = "setting_key = ?"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingKeyEmpty is returned when a setting key is empty.
	ErrSettingKeyEmpty = errors.New("setting key cannot be empty")
	// ErrDBNil is returned when the store is nil.
	ErrDBNil = db.ErrDBNil
)

// Controller reads and writes rows of app_settings.
type Controller struct {
	store *db.Store
}

// New returns a settings controller on store.
func New(store *db.Store) (*Controller, error) {
	if store == nil {
		return nil, ErrDBNil
	}

	return &Controller{store: store}, nil
}

// GetAll returns every setting ordered by key.
func (c *Controller) GetAll(ctx context.Context) ([]models.AppSetting, error) {
	tx, cancel := c.store.WithTimeout(ctx)
	defer cancel()

	settings := make([]models.AppSetting, 0)
	if result := tx.Order("setting_key").Find(&settings); result.Error != nil {
		return nil, result.Error
	}

	return settings, nil
}

// Get retrieves a setting by its key.
func (c *Controller) Get(ctx context.Context, key string) (*models.AppSetting, error) {
	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	tx, cancel := c.store.WithTimeout(ctx)
	defer cancel()

	var setting models.AppSetting

	result := tx.Where(keyQueryPattern, key).First(&setting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}

		return nil, result.Error
	}

	return &setting, nil
}

// Set creates the setting or replaces value, type, file path and description
// of the existing row with the same key.
func (c *Controller) Set(ctx context.Context, in models.AppSetting) (*models.AppSetting, error) {
	if in.SettingKey == "" {
		return nil, ErrSettingKeyEmpty
	}

	if in.SettingType == "" {
		in.SettingType = models.SettingTypeText
	}

	tx, cancel := c.store.WithTimeout(ctx)
	defer cancel()

	var setting models.AppSetting

	result := tx.Where(keyQueryPattern, in.SettingKey).First(&setting)

	switch {
	case errors.Is(result.Error, gorm.ErrRecordNotFound):
		setting = in
		setting.ID = 0

		if result = tx.Create(&setting); result.Error != nil {
			return nil, result.Error
		}

		return &setting, nil
	case result.Error != nil:
		return nil, result.Error
	}

	setting.SettingValue = in.SettingValue
	setting.SettingType = in.SettingType
	setting.FilePath = in.FilePath
	setting.Description = in.Description

	if result = tx.Save(&setting); result.Error != nil {
		return nil, result.Error
	}

	return &setting, nil
}

// Delete deletes a setting by key.
func (c *Controller) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrSettingKeyEmpty
	}

	tx, cancel := c.store.WithTimeout(ctx)
	defer cancel()

	result := tx.Where(keyQueryPattern, key).Delete(&models.AppSetting{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}

// Seed inserts the given settings whose keys do not exist yet and returns how
// many were created. Existing values are never overwritten.
func (c *Controller) Seed(ctx context.Context, defaults []models.AppSetting) (int, error) {
	created := 0

	for _, d := range defaults {
		_, err := c.Get(ctx, d.SettingKey)

		switch {
		case errors.Is(err, ErrSettingNotFound):
			if _, err = c.Set(ctx, d); err != nil {
				return created, err
			}

			created++
		case err != nil:
			return created, err
		}
	}

	return created, nil
}
