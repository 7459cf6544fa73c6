package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer moves money between two wallets. The difference between the
// initial and final amounts is the fee.
type Transfer struct {
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	WalletFrom    string          `json:"wallet_from"`
	WalletTo      string          `json:"wallet_to,omitempty"`
	Currency      string          `json:"currency"`
	InitialAmount decimal.Decimal `json:"initial_amount"`
	FinalAmount   decimal.Decimal `json:"final_amount"`
}

// Type implements FinancialAction.
func (t *Transfer) Type() FinancialType { return FinancialTransfer }

// PrimaryAmount implements FinancialAction.
func (t *Transfer) PrimaryAmount() decimal.Decimal { return t.InitialAmount }

// Worksheet implements FinancialAction.
func (t *Transfer) Worksheet() string { return "Transferencias" }

// Table implements FinancialAction.
func (t *Transfer) Table() string { return "transfers" }

// Fee is what was lost between origin and destination.
func (t *Transfer) Fee() decimal.Decimal { return t.InitialAmount.Sub(t.FinalAmount) }

// Validate implements FinancialAction.
func (t *Transfer) Validate() error {
	if t.Currency == "" {
		return ErrMissingCurrency
	}
	if err := nonNegative("initial_amount", t.InitialAmount); err != nil {
		return err
	}
	return nonNegative("final_amount", t.FinalAmount)
}

// SheetRow returns [date, description, category, wallet_from, wallet_to,
// initial_amount, final_amount, currency].
func (t *Transfer) SheetRow() []any {
	return []any{
		t.Date.Format(sheetDateLayout),
		t.Description,
		t.Category,
		t.WalletFrom,
		t.WalletTo,
		t.InitialAmount.InexactFloat64(),
		t.FinalAmount.InexactFloat64(),
		t.Currency,
	}
}

// StorageRecord implements FinancialAction.
func (t *Transfer) StorageRecord(u User) map[string]any {
	return record(u, map[string]any{
		"date":           t.Date,
		"description":    t.Description,
		"category":       t.Category,
		"wallet_from":    t.WalletFrom,
		"wallet_to":      nullable(t.WalletTo),
		"initial_amount": t.InitialAmount,
		"final_amount":   t.FinalAmount,
		"currency":       t.Currency,
	})
}

// Render implements FinancialAction.
func (t *Transfer) Render(p Platform) string {
	to := t.WalletTo
	if to == "" {
		to = "-"
	}
	return renderCard(p, "Transferencia", []field{
		{"Desde", t.WalletFrom},
		{"Hacia", to},
		{"Monto enviado", formatMoney(t.InitialAmount, t.Currency)},
		{"Monto recibido", formatMoney(t.FinalAmount, t.Currency)},
		{"Comisión", formatMoney(t.Fee(), t.Currency)},
		{"Categoría", t.Category},
		{"Descripción", t.Description},
		{"Fecha", t.Date.Format(displayDateLayout)},
	})
}
