package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InvestmentAction is either a purchase or a sale.
type InvestmentAction string

// Investment actions.
const (
	InvestmentBuy  InvestmentAction = "buy"
	InvestmentSell InvestmentAction = "sell"
)

// Investment is an asset bought or sold on a platform.
type Investment struct {
	Date        time.Time        `json:"date"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Action      InvestmentAction `json:"action"`
	Platform    string           `json:"platform"`
	Currency    string           `json:"currency"`
	Amount      decimal.Decimal  `json:"amount"`
	Price       decimal.Decimal  `json:"price"`
}

// Type implements FinancialAction.
func (i *Investment) Type() FinancialType { return FinancialInvestment }

// PrimaryAmount implements FinancialAction.
func (i *Investment) PrimaryAmount() decimal.Decimal { return i.Amount }

// Worksheet implements FinancialAction.
func (i *Investment) Worksheet() string { return "Inversiones" }

// Table implements FinancialAction.
func (i *Investment) Table() string { return "investments" }

// Validate implements FinancialAction.
func (i *Investment) Validate() error {
	if i.Action != InvestmentBuy && i.Action != InvestmentSell {
		return fmt.Errorf("%w: investment action %q", ErrInvalidKind, i.Action)
	}
	if i.Currency == "" {
		return ErrMissingCurrency
	}
	if err := nonNegative("amount", i.Amount); err != nil {
		return err
	}
	return nonNegative("price", i.Price)
}

// SheetRow returns [date, action, platform, description, category, amount,
// price, currency].
func (i *Investment) SheetRow() []any {
	return []any{
		i.Date.Format(sheetDateLayout),
		string(i.Action),
		i.Platform,
		i.Description,
		i.Category,
		i.Amount.InexactFloat64(),
		i.Price.InexactFloat64(),
		i.Currency,
	}
}

// StorageRecord implements FinancialAction.
func (i *Investment) StorageRecord(u User) map[string]any {
	return record(u, map[string]any{
		"date":        i.Date,
		"action":      string(i.Action),
		"platform":    i.Platform,
		"description": i.Description,
		"category":    i.Category,
		"amount":      i.Amount,
		"price":       i.Price,
		"currency":    i.Currency,
	})
}

// Render implements FinancialAction.
func (i *Investment) Render(p Platform) string {
	title := "Compra de inversión"
	if i.Action == InvestmentSell {
		title = "Venta de inversión"
	}
	return renderCard(p, title, []field{
		{"Cantidad", i.Amount.String()},
		{"Precio", formatMoney(i.Price, i.Currency)},
		{"Plataforma", i.Platform},
		{"Categoría", i.Category},
		{"Descripción", i.Description},
		{"Fecha", i.Date.Format(displayDateLayout)},
	})
}
