package recap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kopikeliling/internal/core/apperror"
	"kopikeliling/internal/domain/ledger"
)

var (
	testDay  = time.Date(2026, 10, 5, 17, 30, 0, 0, time.UTC)
	testMenu = []ledger.Product{
		{ID: "p1", Name: "Americano", Price: 8000, HPP: 4000},
		{ID: "p2", Name: "Kopi Susu", Price: 10000, HPP: 5000},
		{ID: "p3", Name: "Kopsu Aren", Price: 12000, HPP: 6000},
	}
)

func baseInput() Input {
	return Input{
		Products:  testMenu,
		Sold:      map[string]int64{"p1": 2},
		Date:      testDay,
		RiderName: "Rider 1",
	}
}

func TestEncodeAllCash(t *testing.T) {
	tests := []struct {
		name         string
		actualCash   int64
		wantVariance int64
	}{
		{name: "exact count", actualCash: 16000, wantVariance: 0},
		{name: "short by 1000", actualCash: 15000, wantVariance: -1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInput()
			in.ActualCash = tt.actualCash

			res, err := Encode(in)
			require.NoError(t, err)
			require.Len(t, res.Rows, 1)

			row := res.Rows[0]
			assert.Equal(t, ledger.Income, row.Type)
			assert.Equal(t, ledger.Cash, row.PaymentMethod)
			assert.Equal(t, int64(16000), row.Amount)
			assert.Equal(t, int64(2), row.Qty)
			assert.Equal(t, "Setoran Tunai Rider 1. Detail: Americano x2", row.Description)
			require.NotNil(t, row.Variance)
			assert.Equal(t, tt.wantVariance, *row.Variance)
			require.NotNil(t, row.ActualCash)
			assert.Equal(t, tt.actualCash, *row.ActualCash)
			assert.Equal(t, res.BatchID, row.RecapBatchID)
			assert.Equal(t, tt.wantVariance, res.Totals.Variance)
		})
	}
}

func TestEncodeSplitCashAndQRIS(t *testing.T) {
	in := baseInput()
	in.Sold = map[string]int64{"p1": 2, "p2": 1}
	in.QRISAmount = 10000
	in.ActualCash = 14000
	in.MealCost = 15000
	in.Note = "hujan"

	res, err := Encode(in)
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)

	cash, qris := res.Rows[0], res.Rows[1]
	assert.Equal(t, ledger.Cash, cash.PaymentMethod)
	assert.Equal(t, int64(16000), cash.Amount)
	assert.Equal(t, int64(15000), cash.MealCost)
	assert.Equal(t, "hujan", cash.Notes)
	assert.Equal(t, []ledger.LineItem{{Name: "Americano", Qty: 2}, {Name: "Kopi Susu", Qty: 1}}, cash.LineItems)

	assert.Equal(t, ledger.QRIS, qris.PaymentMethod)
	assert.Equal(t, int64(10000), qris.Amount)
	assert.Equal(t, "Setoran QRIS/Transfer Rider 1", qris.Description)
	assert.Nil(t, qris.ActualCash, "metadata lives on the carrier row only")
	assert.Nil(t, qris.Variance)
	assert.Zero(t, qris.MealCost)
	assert.Equal(t, cash.RecapBatchID, qris.RecapBatchID)

	assert.Equal(t, int64(-2000), res.Totals.Variance)
}

func TestEncodeQRISCarrier(t *testing.T) {
	in := baseInput()
	in.QRISAmount = 16000

	res, err := Encode(in)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)

	row := res.Rows[0]
	assert.Equal(t, ledger.QRIS, row.PaymentMethod)
	assert.Equal(t, "Setoran QRIS Full Rider 1. Detail: Americano x2", row.Description)
	require.NotNil(t, row.ActualCash)
	assert.Equal(t, int64(2), row.Qty)
}

func TestEncodeExpenses(t *testing.T) {
	in := baseInput()
	in.ActualCash = 11000
	in.Expenses = []ExpenseLine{
		{Name: "Es Batu", Qty: 1, UnitPrice: 5000, Category: ledger.CategoryRawMaterial},
		{},
		{Name: "Parkir", Qty: 1, UnitPrice: 2000},
	}

	res, err := Encode(in)
	require.NoError(t, err)
	require.Len(t, res.Rows, 3)
	assert.Equal(t, int64(7000), res.Totals.TotalExpense)
	assert.Equal(t, int64(9000), res.Totals.ExpectedCash)
	assert.Equal(t, int64(2000), res.Totals.Variance)

	ice, parking := res.Rows[1], res.Rows[2]
	assert.Equal(t, "Beli Es Batu (Rider 1)", ice.Description)
	assert.Equal(t, ledger.Expense, ice.Type)
	assert.Equal(t, ledger.Cash, ice.PaymentMethod)
	assert.Equal(t, ledger.CategoryRawMaterial, ice.Category)
	assert.Equal(t, ledger.CategoryOther, parking.Category)
	assert.NotEqual(t, ice.ID, parking.ID)
}

func TestEncodeExpenseOnlyDay(t *testing.T) {
	in := baseInput()
	in.Sold = nil
	in.ActualCash = 20000
	in.Expenses = []ExpenseLine{{Name: "Bensin", Qty: 1, UnitPrice: 10000, Category: ledger.CategoryOperational}}

	res, err := Encode(in)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, ledger.Expense, res.Rows[0].Type)
	assert.True(t, res.MetadataDropped)
}

func TestEncodeValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
	}{
		{"missing rider", func(in *Input) { in.RiderName = " " }},
		{"missing date", func(in *Input) { in.Date = time.Time{} }},
		{"negative qris", func(in *Input) { in.QRISAmount = -1 }},
		{"negative cash", func(in *Input) { in.ActualCash = -1 }},
		{"negative sold", func(in *Input) { in.Sold["p1"] = -2 }},
		{"unknown product", func(in *Input) { in.Sold["zz"] = 1 }},
		{"free product", func(in *Input) {
			in.Products = []ledger.Product{{ID: "p1", Name: "Americano", Price: 0}}
		}},
		{"expense without qty", func(in *Input) {
			in.Expenses = []ExpenseLine{{Name: "Gula", Qty: 0, UnitPrice: 1000}}
		}},
		{"expense without name", func(in *Input) {
			in.Expenses = []ExpenseLine{{Qty: 1, UnitPrice: 1000}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInput()
			tt.mutate(&in)
			_, err := Encode(in)
			require.Error(t, err)
			assert.True(t, apperror.IsValidation(err))
		})
	}
}

func TestEncodeDetailRecoverable(t *testing.T) {
	in := baseInput()
	in.Sold = map[string]int64{"p1": 3, "p3": 1}
	in.ActualCash = 36000

	res, err := Encode(in)
	require.NoError(t, err)

	row := res.Rows[0]
	assert.Equal(t, row.LineItems, ledger.ParseDetail(row.Description))

	row.LineItems = nil
	row.Qty = 0
	assert.Equal(t, int64(4), row.Cups())
}
