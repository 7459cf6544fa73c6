package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/plata/internal/model"
	"github.com/shopspring/decimal"
)

// ErrMalformedOutput is returned when the model output does not match the
// requested shape.
var ErrMalformedOutput = errors.New("malformed model output")

// Output is the decoded, shape-tagged value returned by the Gateway.
type Output interface {
	Shape() Shape
}

// ActionOutput carries an intent classification.
type ActionOutput struct {
	Action model.Action
}

// Shape implements Output.
func (ActionOutput) Shape() Shape { return ShapeAction }

// Entry is one element of a financial action list. Err is set when that
// element alone could not be turned into a valid action.
type Entry struct {
	Action model.FinancialAction
	Err    error
}

// FinancialOutput carries the list of financial actions in model order.
type FinancialOutput struct {
	Entries []Entry
}

// Shape implements Output.
func (FinancialOutput) Shape() Shape { return ShapeFinancialActions }

// TextOutput carries a plain reply.
type TextOutput struct {
	Text string
}

// Shape implements Output.
func (TextOutput) Shape() Shape { return ShapeText }

// Decode turns raw model text into the Output variant for shape. Financial
// entries without a date take now; a zero now reads the wall clock.
func Decode(shape Shape, raw string, now time.Time) (Output, error) {
	clean := cleanModelJSON(raw)
	if clean == "" {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedOutput)
	}

	switch shape {
	case ShapeAction:
		return decodeAction(clean)
	case ShapeFinancialActions:
		if now.IsZero() {
			now = model.CurrentTime()
		}
		return decodeFinancial(clean, now)
	case ShapeText:
		return decodeText(clean)
	default:
		return nil, fmt.Errorf("%w: unsupported shape %s", ErrMalformedOutput, shape)
	}
}

func decodeAction(clean string) (Output, error) {
	var resp struct {
		ActionType string `json:"action_type"`
		Message    string `json:"message"`
	}
	if err := json.Unmarshal([]byte(clean), &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedOutput, err)
	}

	action := model.Action{
		Type:    model.ActionType(strings.TrimSpace(resp.ActionType)),
		Message: strings.TrimSpace(resp.Message),
	}
	if err := action.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedOutput, err)
	}
	return ActionOutput{Action: action}, nil
}

func decodeText(clean string) (Output, error) {
	var resp struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(clean), &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedOutput, err)
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: missing text", ErrMalformedOutput)
	}
	return TextOutput{Text: text}, nil
}

func decodeFinancial(clean string, now time.Time) (Output, error) {
	var items []json.RawMessage

	if strings.HasPrefix(clean, "[") {
		if err := json.Unmarshal([]byte(clean), &items); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedOutput, err)
		}
	} else {
		var resp struct {
			Actions *[]json.RawMessage `json:"actions"`
		}
		if err := json.Unmarshal([]byte(clean), &resp); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedOutput, err)
		}
		if resp.Actions == nil {
			return nil, fmt.Errorf("%w: missing actions", ErrMalformedOutput)
		}
		items = *resp.Actions
	}

	entries := make([]Entry, 0, len(items))
	for i, item := range items {
		action, err := decodeEntry(item, now)
		if err != nil {
			entries = append(entries, Entry{Err: fmt.Errorf("entry %d: %w", i, err)})
			continue
		}
		entries = append(entries, Entry{Action: action})
	}
	return FinancialOutput{Entries: entries}, nil
}

type wireEntry struct {
	Type          string              `json:"type"`
	Description   string              `json:"description"`
	Category      string              `json:"category"`
	Date          string              `json:"date"`
	Currency      string              `json:"currency"`
	Kind          string              `json:"kind"`
	Amount        decimal.NullDecimal `json:"amount"`
	WalletFrom    string              `json:"wallet_from"`
	WalletTo      string              `json:"wallet_to"`
	InitialAmount decimal.NullDecimal `json:"initial_amount"`
	FinalAmount   decimal.NullDecimal `json:"final_amount"`
	CurrencyFrom  string              `json:"currency_from"`
	CurrencyTo    string              `json:"currency_to"`
	Price         decimal.NullDecimal `json:"price"`
	Action        string              `json:"action"`
	Platform      string              `json:"platform"`
}

func decodeEntry(raw json.RawMessage, now time.Time) (model.FinancialAction, error) {
	var w wireEntry
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}

	date, err := model.ParseDate(w.Date, now)
	if err != nil {
		return nil, err
	}

	var action model.FinancialAction
	switch model.FinancialType(normalize(w.Type)) {
	case model.FinancialTransaction:
		action = &model.Transaction{
			Date:        date,
			Description: w.Description,
			Category:    w.Category,
			Currency:    w.Currency,
			Kind:        model.TransactionKind(normalize(w.Kind)),
			Amount:      orZero(w.Amount),
		}
	case model.FinancialTransfer:
		final := w.FinalAmount
		if !final.Valid {
			final = w.InitialAmount
		}
		action = &model.Transfer{
			Date:          date,
			Description:   w.Description,
			Category:      w.Category,
			WalletFrom:    w.WalletFrom,
			WalletTo:      w.WalletTo,
			Currency:      w.Currency,
			InitialAmount: orZero(w.InitialAmount),
			FinalAmount:   orZero(final),
		}
	case model.FinancialForex:
		action = &model.Forex{
			Date:         date,
			Description:  w.Description,
			CurrencyFrom: w.CurrencyFrom,
			CurrencyTo:   w.CurrencyTo,
			Amount:       orZero(w.Amount),
			Price:        orZero(w.Price),
		}
	case model.FinancialInvestment:
		action = &model.Investment{
			Date:        date,
			Description: w.Description,
			Category:    w.Category,
			Action:      model.InvestmentAction(normalize(w.Action)),
			Platform:    w.Platform,
			Currency:    w.Currency,
			Amount:      orZero(w.Amount),
			Price:       orZero(w.Price),
		}
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownVariant, w.Type)
	}

	if err := action.Validate(); err != nil {
		return nil, err
	}
	return action, nil
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// cleanModelJSON strips Markdown fences and any text around the outermost
// JSON value.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	start := strings.IndexAny(s, "{[")
	if start == -1 {
		return s
	}
	closer := "}"
	if s[start] == '[' {
		closer = "]"
	}
	if end := strings.LastIndex(s, closer); end > start {
		s = s[start : end+1]
	}
	return strings.TrimSpace(s)
}
