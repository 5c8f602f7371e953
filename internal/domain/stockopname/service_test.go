package stockopname_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kopikeliling/internal/core/apperror"
	"kopikeliling/internal/core/types"
	"kopikeliling/internal/domain/ledger"
	"kopikeliling/internal/domain/records"
	"kopikeliling/internal/domain/stockopname"
	"kopikeliling/internal/infrastructure/storage/memory"
)

func buy(id string, day int, amount, qty int64, desc string) ledger.Transaction {
	return ledger.Transaction{
		ID: id, Date: time.Date(2026, 10, day, 10, 0, 0, 0, time.UTC), Type: ledger.Expense,
		Amount: amount, Qty: qty, PaymentMethod: ledger.Cash, Description: desc,
	}
}

func TestLatestPrice(t *testing.T) {
	txs := []ledger.Transaction{
		buy("a", 1, 24000, 2, "Belanja Produksi: SKM (2x12000)"),
		buy("b", 9, 40000, 3, "Belanja Produksi: SKM (3x13333)"),
		buy("c", 5, 9000, 0, "Beli Krimer (Rider 1)"),
		{ID: "d", Date: time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), Type: ledger.Income, Amount: 1, Description: "SKM"},
	}
	tests := []struct {
		item string
		want int64
	}{
		{"SKM", 13333},
		{"Krimer", 9000},
		{"Matcha", 0},
	}
	for _, tt := range tests {
		t.Run(tt.item, func(t *testing.T) {
			assert.Equal(t, tt.want, stockopname.LatestPrice(txs, tt.item))
		})
	}
}

func TestSaveDraftAndReplace(t *testing.T) {
	ctx := context.Background()
	store, err := records.Open(ctx, memory.New())
	require.NoError(t, err)
	require.NoError(t, store.AddTransactions(ctx, buy("a", 1, 24000, 2, "Belanja Produksi: SKM (2x12000)")))
	svc := stockopname.NewService(store)

	draft, err := svc.Draft(ctx, "2026-10")
	require.NoError(t, err)
	assert.False(t, draft.Existing)
	assert.Len(t, draft.Lines, len(records.Defaults().BookkeepingItems))
	var skm stockopname.DraftLine
	for _, l := range draft.Lines {
		if l.ItemName == "SKM" {
			skm = l
		}
	}
	assert.Equal(t, int64(12000), skm.Price)
	assert.False(t, skm.Counted)

	so, err := svc.Save(ctx, stockopname.SaveRequest{
		Month: "2026-10",
		Counts: []stockopname.Count{
			{ItemID: "b1", Qty: types.MustDecimal("1.5"), Price: 90000},
			{ItemID: "b2", Qty: types.MustDecimal("2"), Price: 12000},
		},
		Note: "akhir bulan",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(so.ID, "so-2026-10-"))
	assert.Equal(t, int64(135000), so.Records[0].Total)
	assert.Equal(t, int64(159000), so.TotalValue)
	assert.Equal(t, "Bubuk Kopi", so.Records[0].ItemName)

	draft, err = svc.Draft(ctx, "2026-10")
	require.NoError(t, err)
	assert.True(t, draft.Existing)
	assert.Equal(t, "akhir bulan", draft.Note)
	assert.True(t, draft.Lines[0].Counted)
	assert.True(t, draft.Lines[0].Qty.Equal(types.MustDecimal("1.5")))

	_, err = svc.Save(ctx, stockopname.SaveRequest{
		Month:  "2026-10",
		Counts: []stockopname.Count{{ItemID: "b11", Qty: types.MustDecimal("300"), Price: 500}},
	})
	require.NoError(t, err)
	_, err = svc.Save(ctx, stockopname.SaveRequest{
		Month:  "2026-09",
		Counts: []stockopname.Count{{ItemID: "b11", Qty: types.MustDecimal("10"), Price: 500}},
	})
	require.NoError(t, err)

	list := svc.List(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, "2026-10", list[0].Month)
	assert.Equal(t, int64(150000), list[0].TotalValue)

	require.NoError(t, svc.Delete(ctx, list[1].ID))
	assert.Len(t, svc.List(ctx), 1)
	assert.True(t, apperror.IsNotFound(svc.Delete(ctx, list[1].ID)))
}

func TestSaveValidation(t *testing.T) {
	ctx := context.Background()
	store, err := records.Open(ctx, memory.New())
	require.NoError(t, err)
	svc := stockopname.NewService(store)

	tests := []struct {
		name  string
		req   stockopname.SaveRequest
		check func(error) bool
	}{
		{"bad month", stockopname.SaveRequest{Month: "Oktober"}, apperror.IsValidation},
		{"no counts", stockopname.SaveRequest{Month: "2026-10"}, apperror.IsValidation},
		{"unknown item", stockopname.SaveRequest{Month: "2026-10", Counts: []stockopname.Count{{ItemID: "zz", Qty: types.MustDecimal("1")}}}, apperror.IsNotFound},
		{"negative qty", stockopname.SaveRequest{Month: "2026-10", Counts: []stockopname.Count{{ItemID: "b1", Qty: types.MustDecimal("-1")}}}, apperror.IsValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Save(ctx, tt.req)
			assert.True(t, tt.check(err), "got %v", err)
		})
	}
}
