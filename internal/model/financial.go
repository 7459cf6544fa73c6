package model

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// FinancialType names a FinancialAction variant.
type FinancialType string

// Financial action variants.
const (
	FinancialTransaction FinancialType = "transaction"
	FinancialTransfer    FinancialType = "transfer"
	FinancialForex       FinancialType = "forex"
	FinancialInvestment  FinancialType = "investment"
)

// Validation errors for financial actions.
var (
	ErrNegativeAmount  = errors.New("amount cannot be negative")
	ErrInvalidKind     = errors.New("invalid kind")
	ErrUnknownVariant  = errors.New("unknown financial action type")
	ErrMissingCurrency = errors.New("missing currency")
)

// FinancialAction is a structured financial record extracted from a message.
type FinancialAction interface {
	Type() FinancialType
	// Render formats the action for display on the given platform.
	Render(p Platform) string
	// SheetRow is the flat row appended to Worksheet().
	SheetRow() []any
	Worksheet() string
	// StorageRecord is the flat record inserted into Table().
	StorageRecord(u User) map[string]any
	Table() string
	// PrimaryAmount is the amount that makes the action meaningful.
	PrimaryAmount() decimal.Decimal
	Validate() error
}

// Negligible reports whether a is noise from partial extraction: a zero
// primary amount. Transfers are never negligible since equal initial and
// final amounts are a valid zero-fee transfer.
func Negligible(a FinancialAction) bool {
	if a.Type() == FinancialTransfer {
		return false
	}
	return a.PrimaryAmount().IsZero()
}

type envelope struct {
	Type FinancialType   `json:"type"`
	Data json.RawMessage `json:"data"`
}

// EncodeFinancialAction serializes a with its variant tag.
func EncodeFinancialAction(a FinancialAction) ([]byte, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", a.Type(), err)
	}
	return json.Marshal(envelope{Type: a.Type(), Data: data})
}

// DecodeFinancialAction restores an action serialized by EncodeFinancialAction.
func DecodeFinancialAction(raw []byte) (FinancialAction, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal envelope: %w", err)
	}

	var action FinancialAction
	switch env.Type {
	case FinancialTransaction:
		action = &Transaction{}
	case FinancialTransfer:
		action = &Transfer{}
	case FinancialForex:
		action = &Forex{}
	case FinancialInvestment:
		action = &Investment{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, env.Type)
	}

	if err := json.Unmarshal(env.Data, action); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", env.Type, err)
	}
	return action, nil
}

func nonNegative(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return fmt.Errorf("%w: %s=%s", ErrNegativeAmount, field, v.String())
	}
	return nil
}

func record(u User, fields map[string]any) map[string]any {
	out := u.identifiers()
	for k, v := range fields {
		out[k] = v
	}
	return out
}
