package pipeline

import (
	"time"

	"github.com/Veraticus/plata/internal/model"
	"github.com/shopspring/decimal"
)

var testDate = time.Date(2024, 5, 9, 0, 0, 0, 0, model.ReferenceLocation)

func expense(amount int64) *model.Transaction {
	return &model.Transaction{
		Date:     testDate,
		Kind:     model.KindExpense,
		Amount:   decimal.NewFromInt(amount),
		Currency: "ARS",
		Category: "comida",
	}
}

func transfer(initial, final int64) *model.Transfer {
	return &model.Transfer{
		Date:          testDate,
		WalletFrom:    "Banco",
		WalletTo:      "Mercado Pago",
		InitialAmount: decimal.NewFromInt(initial),
		FinalAmount:   decimal.NewFromInt(final),
		Currency:      "ARS",
	}
}
