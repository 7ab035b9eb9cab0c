package models

import "github.com/uptrace/bun"

// AppSetting is a key/value row for service-wide knobs such as the global
// tax rate ("gst_rate").
type AppSetting struct {
	bun.BaseModel `bun:"table:app_settings"`

	Key   string `bun:"key,pk" json:"key"`
	Value string `bun:"value" json:"value"`
}

// SettingGSTRate is the settings key holding the server-wide tax percentage.
const SettingGSTRate = "gst_rate"
