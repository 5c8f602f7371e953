package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kopikeliling/internal/core/apperror"
)

func TestParseDetail(t *testing.T) {
	tests := []struct {
		name string
		desc string
		want []LineItem
	}{
		{
			name: "cash carrier",
			desc: "Setoran Tunai Rider 1. Detail: Americano x2, Kopi Susu x1",
			want: []LineItem{{"Americano", 2}, {"Kopi Susu", 1}},
		},
		{
			name: "name containing x",
			desc: "Setoran QRIS Full Budi. Detail: Kopi x Susu x3",
			want: []LineItem{{"Kopi x Susu", 3}},
		},
		{
			name: "malformed token skipped",
			desc: "Setoran Tunai A. Detail: Americano x2, garbage, Matcha xx, Coklat x4",
			want: []LineItem{{"Americano", 2}, {"Coklat", 4}},
		},
		{
			name: "no detail",
			desc: "Beli Es Batu (Rider 1)",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDetail(tt.desc))
		})
	}
}

func TestFormatDetailRoundTrip(t *testing.T) {
	items := []LineItem{{"Americano", 2}, {"Kopsu Aren", 10}, {"Kopi Klepon", 1}}
	desc := "Setoran Tunai Rider 1. " + DetailSeparator + FormatDetail(items)
	assert.Equal(t, items, ParseDetail(desc))
}

func TestTransactionCupsFallback(t *testing.T) {
	tx := Transaction{Type: Income, Description: "Setoran Tunai A. Detail: Americano x2, Matcha x3"}
	assert.Equal(t, int64(5), tx.Cups())

	tx.Qty = 7
	assert.Equal(t, int64(7), tx.Cups())

	tx = Transaction{Qty: 0, LineItems: []LineItem{{"Americano", 4}}}
	assert.Equal(t, int64(4), tx.Cups())
}

func TestCleanItemName(t *testing.T) {
	assert.Equal(t, "SKM", CleanItemName("Belanja Produksi: SKM (2x12000)"))
	assert.Equal(t, "Es Batu", CleanItemName("Beli Es Batu (Rider 1)"))
	assert.Equal(t, "Bensin", CleanItemName("Bensin"))
}

func TestTransactionValidateNegativeAmount(t *testing.T) {
	tx := Transaction{ID: "x", Date: time.Now(), Type: Expense, PaymentMethod: Cash, Amount: -1}
	err := tx.Validate(context.Background())
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvariantViolation))
}

func TestDates(t *testing.T) {
	days, err := DaysInMonth("2024-02")
	require.NoError(t, err)
	assert.Len(t, days, 29)
	assert.Equal(t, "2024-02-01", days[0])
	assert.Equal(t, "2024-02-29", days[28])

	assert.Equal(t, "Oktober 2026", MonthLabel("2026-10"))
	assert.Equal(t, "05 Okt", ShortDayLabel("2026-10-05"))

	_, err = DaysInMonth("2026/10")
	assert.True(t, apperror.IsValidation(err))
}
