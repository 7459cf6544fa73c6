package model

import (
	"html"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var (
	consoleTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B35"))
	consoleLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A"))
)

type field struct {
	label string
	value string
}

// renderCard lays out a titled list of label/value lines using the markup
// each platform understands. Empty values are skipped.
func renderCard(p Platform, title string, fields []field) string {
	var b strings.Builder

	switch p {
	case PlatformTelegram:
		b.WriteString("<b>" + html.EscapeString(title) + "</b>")
	case PlatformWhatsApp:
		b.WriteString("*" + title + "*")
	default:
		b.WriteString(consoleTitleStyle.Render(title))
	}

	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			continue
		}
		b.WriteString("\n")
		switch p {
		case PlatformTelegram:
			b.WriteString("<b>" + html.EscapeString(f.label) + ":</b> " + html.EscapeString(f.value))
		case PlatformWhatsApp:
			b.WriteString("*" + f.label + ":* " + f.value)
		default:
			b.WriteString(consoleLabelStyle.Render(f.label+":") + " " + f.value)
		}
	}

	return b.String()
}

func formatMoney(amount decimal.Decimal, currency string) string {
	s := amount.StringFixed(2)
	if currency == "" {
		return s
	}
	return s + " " + currency
}
