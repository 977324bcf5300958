// Package models contains database model definitions.
package models

import "time"

// Setting types understood by the frontend.
const (
	SettingTypeText    = "text"
	SettingTypeFile    = "file"
	SettingTypeColor   = "color"
	SettingTypeBoolean = "boolean"
	SettingTypeNumber  = "number"
)

// AppSetting is one named branding or configuration value.
// The JSON names match the storage names, the frontend reads them as is.
type AppSetting struct {
	ID           uint64    `gorm:"primaryKey"                                json:"id"`
	SettingKey   string    `gorm:"column:setting_key;size:100;uniqueIndex;not null" json:"setting_key" validate:"max=100"`
	SettingValue *string   `gorm:"column:setting_value;type:text"            json:"setting_value"`
	SettingType  string    `gorm:"column:setting_type;size:20;default:'text'"  json:"setting_type" validate:"omitempty,oneof=text file color boolean number"`
	FilePath     *string   `gorm:"column:file_path;size:500"                 json:"file_path" validate:"omitempty,max=500"`
	Description  string    `gorm:"column:description;type:text"              json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for AppSetting.
func (AppSetting) TableName() string {
	return "app_settings"
}
