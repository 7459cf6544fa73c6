package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Forex is a currency exchange: Amount of CurrencyFrom bought or sold at Price
// units of CurrencyTo each.
type Forex struct {
	Date         time.Time       `json:"date"`
	Description  string          `json:"description"`
	CurrencyFrom string          `json:"currency_from"`
	CurrencyTo   string          `json:"currency_to"`
	Amount       decimal.Decimal `json:"amount"`
	Price        decimal.Decimal `json:"price"`
}

// Type implements FinancialAction.
func (f *Forex) Type() FinancialType { return FinancialForex }

// PrimaryAmount implements FinancialAction.
func (f *Forex) PrimaryAmount() decimal.Decimal { return f.Amount }

// Worksheet implements FinancialAction.
func (f *Forex) Worksheet() string { return "Cambios" }

// Table implements FinancialAction.
func (f *Forex) Table() string { return "forex" }

// Total is the amount expressed in CurrencyTo.
func (f *Forex) Total() decimal.Decimal { return f.Amount.Mul(f.Price) }

// Validate implements FinancialAction.
func (f *Forex) Validate() error {
	if f.CurrencyFrom == "" || f.CurrencyTo == "" {
		return ErrMissingCurrency
	}
	if err := nonNegative("amount", f.Amount); err != nil {
		return err
	}
	return nonNegative("price", f.Price)
}

// SheetRow returns [date, description, amount, currency_from, currency_to, price].
func (f *Forex) SheetRow() []any {
	return []any{
		f.Date.Format(sheetDateLayout),
		f.Description,
		f.Amount.InexactFloat64(),
		f.CurrencyFrom,
		f.CurrencyTo,
		f.Price.InexactFloat64(),
	}
}

// StorageRecord implements FinancialAction.
func (f *Forex) StorageRecord(u User) map[string]any {
	return record(u, map[string]any{
		"date":          f.Date,
		"description":   f.Description,
		"amount":        f.Amount,
		"currency_from": f.CurrencyFrom,
		"currency_to":   f.CurrencyTo,
		"price":         f.Price,
	})
}

// Render implements FinancialAction.
func (f *Forex) Render(p Platform) string {
	return renderCard(p, "Cambio de moneda", []field{
		{"Monto", formatMoney(f.Amount, f.CurrencyFrom)},
		{"Cotización", formatMoney(f.Price, f.CurrencyTo)},
		{"Total", formatMoney(f.Total(), f.CurrencyTo)},
		{"Descripción", f.Description},
		{"Fecha", f.Date.Format(displayDateLayout)},
	})
}
