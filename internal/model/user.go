package model

import "strings"

// Platform identifies the chat platform a user talks through.
type Platform string

// Supported platforms.
const (
	PlatformTelegram Platform = "telegram"
	PlatformWhatsApp Platform = "whatsapp"
	PlatformConsole  Platform = "console"
)

// ParsePlatform maps a free-form name to a Platform, defaulting to console.
func ParsePlatform(name string) Platform {
	switch Platform(strings.ToLower(strings.TrimSpace(name))) {
	case PlatformTelegram:
		return PlatformTelegram
	case PlatformWhatsApp:
		return PlatformWhatsApp
	default:
		return PlatformConsole
	}
}

// User is the account owning the records. It is managed by the account
// subsystem; the assistant only reads it.
type User struct {
	ID             string
	Name           string
	Platform       Platform
	TelegramID     string
	WhatsAppNumber string
	SpreadsheetID  string
}

// identifiers returns the platform identifiers every stored record carries.
func (u User) identifiers() map[string]any {
	return map[string]any{
		"user_id":         u.ID,
		"telegram_id":     nullable(u.TelegramID),
		"whatsapp_number": nullable(u.WhatsAppNumber),
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
