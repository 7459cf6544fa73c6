package llm

import (
	"encoding/json"
	"fmt"

	"github.com/Veraticus/plata/internal/model"
)

// Shape names the structured output expected from the model.
type Shape int

// Output shapes.
const (
	ShapeAction Shape = iota + 1
	ShapeFinancialActions
	ShapeText
)

func (s Shape) String() string {
	switch s {
	case ShapeAction:
		return "action"
	case ShapeFinancialActions:
		return "financial_actions"
	case ShapeText:
		return "text"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// SchemaType is a JSON schema primitive.
type SchemaType string

// Schema types.
const (
	TypeObject SchemaType = "object"
	TypeArray  SchemaType = "array"
	TypeString SchemaType = "string"
	TypeNumber SchemaType = "number"
)

// Schema is a provider-neutral description of the expected JSON output.
type Schema struct {
	Type        SchemaType         `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Nullable    bool               `json:"nullable,omitempty"`
}

// Schema returns the JSON schema every provider must satisfy for s.
func (s Shape) Schema() *Schema {
	switch s {
	case ShapeAction:
		return actionSchema()
	case ShapeFinancialActions:
		return financialSchema()
	case ShapeText:
		return &Schema{
			Type: TypeObject,
			Properties: map[string]*Schema{
				"text": {Type: TypeString, Description: "Respuesta para el usuario"},
			},
			Required: []string{"text"},
		}
	default:
		return nil
	}
}

// SchemaInstruction renders the schema as an instruction for providers
// without native structured output.
func SchemaInstruction(s Shape) string {
	raw, err := json.MarshalIndent(s.Schema(), "", "  ")
	if err != nil {
		return ""
	}
	return "Respond ONLY with a single JSON object that validates against this JSON schema. " +
		"Do not include markdown, code fences or any text outside the JSON.\n" + string(raw)
}

func actionSchema() *Schema {
	types := make([]string, 0, len(model.ActionTypes))
	for _, t := range model.ActionTypes {
		types = append(types, string(t))
	}
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"action_type": {Type: TypeString, Enum: types},
			"message":     {Type: TypeString, Description: "Parte del mensaje relevante para la acción"},
		},
		Required: []string{"action_type", "message"},
	}
}

func financialSchema() *Schema {
	str := func(desc string) *Schema { return &Schema{Type: TypeString, Description: desc, Nullable: true} }
	num := func(desc string) *Schema { return &Schema{Type: TypeNumber, Description: desc, Nullable: true} }

	item := &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"type": {
				Type: TypeString,
				Enum: []string{
					string(model.FinancialTransaction),
					string(model.FinancialTransfer),
					string(model.FinancialForex),
					string(model.FinancialInvestment),
				},
			},
			"description":    str("Descripción breve"),
			"category":       str("Categoría"),
			"date":           str("Fecha ISO 8601 (YYYY-MM-DD o YYYY-MM-DDTHH:MM:SS)"),
			"currency":       str("Moneda"),
			"kind":           {Type: TypeString, Enum: []string{string(model.KindExpense), string(model.KindIncome)}, Nullable: true},
			"amount":         num("Monto o cantidad"),
			"wallet_from":    str("Billetera de origen"),
			"wallet_to":      str("Billetera de destino"),
			"initial_amount": num("Monto enviado"),
			"final_amount":   num("Monto recibido"),
			"currency_from":  str("Moneda vendida"),
			"currency_to":    str("Moneda comprada"),
			"price":          num("Precio o cotización unitaria"),
			"action":         {Type: TypeString, Enum: []string{string(model.InvestmentBuy), string(model.InvestmentSell)}, Nullable: true},
			"platform":       str("Plataforma de inversión"),
		},
		Required: []string{"type"},
	}

	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"actions": {Type: TypeArray, Items: item},
		},
		Required: []string{"actions"},
	}
}
