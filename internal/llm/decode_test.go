package llm

import (
	"testing"
	"time"

	"github.com/Veraticus/plata/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAction(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    model.Action
		wantErr bool
	}{
		{
			name: "plain json",
			raw:  `{"action_type":"Transaction","message":"gasté 500 en comida"}`,
			want: model.Action{Type: model.ActionTransaction, Message: "gasté 500 en comida"},
		},
		{
			name: "fenced json with chatter",
			raw:  "Claro:\n```json\n{\"action_type\": \"SocialMessage\", \"message\": \"hola!\"}\n```",
			want: model.Action{Type: model.ActionSocial, Message: "hola!"},
		},
		{
			name:    "unknown action type",
			raw:     `{"action_type":"Payment","message":"x"}`,
			wantErr: true,
		},
		{
			name:    "not json",
			raw:     "no entiendo",
			wantErr: true,
		},
		{
			name:    "empty",
			raw:     "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Decode(ShapeAction, tt.raw, time.Time{})
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedOutput)
				return
			}
			require.NoError(t, err)
			action, ok := out.(ActionOutput)
			require.True(t, ok)
			assert.Equal(t, tt.want, action.Action)
		})
	}
}

func TestDecodeText(t *testing.T) {
	out, err := Decode(ShapeText, `{"text":"  ¡Hola! ¿En qué te ayudo?  "}`, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, TextOutput{Text: "¡Hola! ¿En qué te ayudo?"}, out)

	_, err = Decode(ShapeText, `{"text":""}`, time.Time{})
	assert.ErrorIs(t, err, ErrMalformedOutput)

	_, err = Decode(ShapeText, `{"action_type":"Question","message":"x"}`, time.Time{})
	assert.ErrorIs(t, err, ErrMalformedOutput)
}

func TestDecodeFinancial(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, model.ReferenceLocation)

	t.Run("forex and derived income keep order", func(t *testing.T) {
		raw := `{"actions":[
			{"type":"forex","description":"Compra de pesos","amount":100,"currency_from":"USD","currency_to":"ARS","price":12.5,"date":"2024-05-09"},
			{"type":"transaction","kind":"income","description":"Pesos por cambio","amount":1250,"currency":"ARS","category":"Cambio"}
		]}`

		out, err := Decode(ShapeFinancialActions, raw, now)
		require.NoError(t, err)
		fin, ok := out.(FinancialOutput)
		require.True(t, ok)
		require.Len(t, fin.Entries, 2)

		fx, ok := fin.Entries[0].Action.(*model.Forex)
		require.True(t, ok)
		assert.True(t, fx.Amount.Equal(decimal.NewFromInt(100)))
		assert.True(t, fx.Price.Equal(decimal.RequireFromString("12.5")))
		assert.Equal(t, "09/05/2024", fx.Date.Format("02/01/2006"))

		tx, ok := fin.Entries[1].Action.(*model.Transaction)
		require.True(t, ok)
		assert.Equal(t, model.KindIncome, tx.Kind)
		assert.True(t, tx.Amount.Equal(decimal.NewFromInt(1250)))
		assert.Equal(t, now, tx.Date, "missing date defaults to now")
	})

	t.Run("bare array is accepted", func(t *testing.T) {
		out, err := Decode(ShapeFinancialActions, `[{"type":"Transaction","kind":"Expense","amount":"500","currency":"pesos","category":"comida"}]`, now)
		require.NoError(t, err)
		fin := out.(FinancialOutput)
		require.Len(t, fin.Entries, 1)
		require.NoError(t, fin.Entries[0].Err)
		assert.Equal(t, model.KindExpense, fin.Entries[0].Action.(*model.Transaction).Kind)
	})

	t.Run("transfer final amount defaults to initial", func(t *testing.T) {
		out, err := Decode(ShapeFinancialActions, `{"actions":[{"type":"transfer","wallet_from":"Banco","wallet_to":"MP","initial_amount":2000,"currency":"ARS"}]}`, now)
		require.NoError(t, err)
		tr := out.(FinancialOutput).Entries[0].Action.(*model.Transfer)
		assert.True(t, tr.FinalAmount.Equal(decimal.NewFromInt(2000)))
		assert.True(t, tr.Fee().IsZero())
	})

	t.Run("bad entry does not sink its siblings", func(t *testing.T) {
		raw := `{"actions":[
			{"type":"transaction","kind":"expense","amount":-5,"currency":"ARS"},
			{"type":"lottery","amount":1},
			{"type":"investment","action":"buy","platform":"IOL","amount":10,"price":1500,"currency":"ARS","date":"ayer"},
			{"type":"investment","action":"sell","platform":"IOL","amount":3,"price":1700,"currency":"ARS"}
		]}`

		out, err := Decode(ShapeFinancialActions, raw, now)
		require.NoError(t, err)
		fin := out.(FinancialOutput)
		require.Len(t, fin.Entries, 4)

		assert.ErrorIs(t, fin.Entries[0].Err, model.ErrNegativeAmount)
		assert.ErrorIs(t, fin.Entries[1].Err, model.ErrUnknownVariant)
		assert.Error(t, fin.Entries[2].Err, "unparseable date")
		require.NoError(t, fin.Entries[3].Err)
		assert.Equal(t, model.InvestmentSell, fin.Entries[3].Action.(*model.Investment).Action)
	})

	t.Run("null date takes the reference time", func(t *testing.T) {
		out, err := Decode(ShapeFinancialActions, `{"actions":[{"type":"transaction","kind":"expense","amount":10,"currency":"ARS","date":null}]}`, now)
		require.NoError(t, err)
		tx := out.(FinancialOutput).Entries[0].Action.(*model.Transaction)
		assert.True(t, now.Equal(tx.Date))
	})

	t.Run("empty list is valid", func(t *testing.T) {
		out, err := Decode(ShapeFinancialActions, `{"actions":[]}`, now)
		require.NoError(t, err)
		assert.Empty(t, out.(FinancialOutput).Entries)
	})

	t.Run("missing actions key", func(t *testing.T) {
		_, err := Decode(ShapeFinancialActions, `{"text":"hola"}`, now)
		assert.ErrorIs(t, err, ErrMalformedOutput)
	})
}

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "untouched", raw: `{"a":1}`, want: `{"a":1}`},
		{name: "json fence", raw: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", raw: "```\n[1,2]\n```", want: `[1,2]`},
		{name: "leading prose", raw: "Aquí está: {\"a\":1} espero que sirva", want: `{"a":1}`},
		{name: "no json", raw: "hola", want: "hola"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanModelJSON(tt.raw))
		})
	}
}
