package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind tells expenses from income.
type TransactionKind string

// Transaction kinds.
const (
	KindExpense TransactionKind = "expense"
	KindIncome  TransactionKind = "income"
)

// Transaction is a single expense or income.
type Transaction struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Currency    string          `json:"currency"`
	Category    string          `json:"category"`
	Kind        TransactionKind `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
}

// Type implements FinancialAction.
func (t *Transaction) Type() FinancialType { return FinancialTransaction }

// PrimaryAmount implements FinancialAction.
func (t *Transaction) PrimaryAmount() decimal.Decimal { return t.Amount }

// Worksheet implements FinancialAction.
func (t *Transaction) Worksheet() string { return "Transacciones" }

// Table implements FinancialAction.
func (t *Transaction) Table() string { return "transactions" }

// Validate implements FinancialAction.
func (t *Transaction) Validate() error {
	if t.Kind != KindExpense && t.Kind != KindIncome {
		return fmt.Errorf("%w: transaction kind %q", ErrInvalidKind, t.Kind)
	}
	if t.Currency == "" {
		return ErrMissingCurrency
	}
	return nonNegative("amount", t.Amount)
}

// SheetRow returns [date, kind, amount, currency, category, description].
func (t *Transaction) SheetRow() []any {
	return []any{
		t.Date.Format(sheetDateLayout),
		string(t.Kind),
		t.Amount.InexactFloat64(),
		t.Currency,
		t.Category,
		t.Description,
	}
}

// StorageRecord implements FinancialAction.
func (t *Transaction) StorageRecord(u User) map[string]any {
	return record(u, map[string]any{
		"date":        t.Date,
		"kind":        string(t.Kind),
		"amount":      t.Amount,
		"currency":    t.Currency,
		"category":    t.Category,
		"description": t.Description,
	})
}

// Render implements FinancialAction.
func (t *Transaction) Render(p Platform) string {
	title := "Gasto"
	if t.Kind == KindIncome {
		title = "Ingreso"
	}
	return renderCard(p, title, []field{
		{"Monto", formatMoney(t.Amount, t.Currency)},
		{"Categoría", t.Category},
		{"Descripción", t.Description},
		{"Fecha", t.Date.Format(displayDateLayout)},
	})
}
