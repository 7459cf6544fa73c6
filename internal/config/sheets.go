package config

import (
	"os"

	"github.com/Veraticus/plata/internal/sheets"
	"github.com/spf13/viper"
)

// LoadSheetsConfig loads Google Sheets settings. Values from viper (config
// file or PLATA_ env vars) win over the GOOGLE_SHEETS_* variables.
func LoadSheetsConfig(v *viper.Viper) (*sheets.Config, error) {
	cfg := sheets.DefaultConfig()

	cfg.ServiceAccountPath = ExpandPath(firstNonEmpty(
		v.GetString("sheets.service_account_path"),
		os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"),
	))
	cfg.ClientID = firstNonEmpty(v.GetString("sheets.client_id"), os.Getenv("GOOGLE_SHEETS_CLIENT_ID"))
	cfg.ClientSecret = firstNonEmpty(v.GetString("sheets.client_secret"), os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET"))
	cfg.RefreshToken = firstNonEmpty(v.GetString("sheets.refresh_token"), os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN"))
	cfg.DefaultSpreadsheetID = firstNonEmpty(
		v.GetString("sheets.default_spreadsheet_id"),
		os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID"),
	)

	if v.IsSet("sheets.retry_attempts") {
		cfg.RetryAttempts = v.GetInt("sheets.retry_attempts")
	}
	if v.IsSet("sheets.retry_delay") {
		cfg.RetryDelay = v.GetDuration("sheets.retry_delay")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
