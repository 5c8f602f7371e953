package recap_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kopikeliling/internal/core/apperror"
	"kopikeliling/internal/domain/ledger"
	"kopikeliling/internal/domain/recap"
	"kopikeliling/internal/domain/records"
	"kopikeliling/internal/infrastructure/storage/memory"
)

var day = time.Date(2026, 10, 5, 18, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*recap.Service, *records.Store) {
	t.Helper()
	store, err := records.Open(context.Background(), memory.New())
	require.NoError(t, err)
	return recap.NewService(store), store
}

func riderDay(rider string, americano int64, cash int64) recap.Input {
	return recap.Input{
		Sold:       map[string]int64{"p1": americano},
		ActualCash: cash,
		Date:       day,
		RiderName:  rider,
		Expenses:   []recap.ExpenseLine{{Name: "Es Batu", Qty: 2, UnitPrice: 1000, Category: ledger.CategoryRawMaterial}},
	}
}

func TestSubmitRequiresDuplicateConfirmation(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	first, err := svc.Submit(ctx, riderDay("Rider 1", 2, 14000), false)
	require.NoError(t, err)
	assert.Len(t, store.Snapshot().Transactions, 2)

	_, err = svc.Submit(ctx, riderDay("Rider 1", 1, 6000), false)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicateRecap, appErr.Code)
	assert.Equal(t, []string{first.BatchID}, appErr.Details["batchIds"])
	assert.Len(t, store.Snapshot().Transactions, 2, "refused recap writes nothing")

	_, err = svc.Submit(ctx, riderDay("Rider 1", 1, 6000), true)
	require.NoError(t, err)
	assert.Len(t, store.Snapshot().Transactions, 4)

	_, err = svc.Submit(ctx, riderDay("Rider 2", 1, 6000), false)
	assert.NoError(t, err, "another rider on the same day is not a duplicate")
}

func TestReplaceSwapsBatchAtomically(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	first, err := svc.Submit(ctx, riderDay("Rider 1", 2, 14000), false)
	require.NoError(t, err)

	edit := riderDay("Rider 1", 3, 22000)
	edit.QRISAmount = 0
	second, err := svc.Replace(ctx, first.BatchID, edit)
	require.NoError(t, err)
	assert.NotEqual(t, first.BatchID, second.BatchID)

	snap := store.Snapshot()
	assert.Empty(t, snap.BatchRows(first.BatchID))
	rows := snap.BatchRows(second.BatchID)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(24000), rows[0].Amount)

	_, err = svc.Replace(ctx, "missing", edit)
	assert.True(t, apperror.IsNotFound(err))
}

func TestReplaceRejectsInvalidEditAndKeepsOldRows(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	first, err := svc.Submit(ctx, riderDay("Rider 1", 2, 14000), false)
	require.NoError(t, err)

	bad := riderDay("Rider 1", 2, 14000)
	bad.Sold["nope"] = 1
	_, err = svc.Replace(ctx, first.BatchID, bad)
	require.Error(t, err)
	assert.Len(t, store.Snapshot().BatchRows(first.BatchID), 2)
}

func TestDeleteLegacyRecapByCompositeKey(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	legacy := []ledger.Transaction{
		{ID: "inc-1", Date: day, Type: ledger.Income, Amount: 16000, PaymentMethod: ledger.Cash,
			Description: "Setoran Tunai Rider 1. Detail: Americano x2", RiderName: "Rider 1", Qty: 2},
		{ID: "exp-1", Date: day, Type: ledger.Expense, Amount: 2000, PaymentMethod: ledger.Cash,
			Description: "Beli Es Batu (Rider 1)", RiderName: "Rider 1", Category: ledger.CategoryRawMaterial},
		{ID: "book-1", Date: day, Type: ledger.Expense, Amount: 50000, PaymentMethod: ledger.Cash,
			Description: "Belanja Produksi: Susu (1x50000)", RiderName: "Rider 1", Category: ledger.CategoryProduction},
	}
	require.NoError(t, store.AddTransactions(ctx, legacy...))

	key := recap.LegacyKey("2026-10-05", "Rider 1")
	g, err := svc.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(16000), g.Omset)
	assert.Equal(t, int64(2000), g.Shopping)
	assert.Equal(t, []ledger.LineItem{{Name: "Americano", Qty: 2}}, g.LineItems)

	removed, err := svc.Delete(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	snap := store.Snapshot()
	require.Len(t, snap.Transactions, 1)
	assert.Equal(t, "book-1", snap.Transactions[0].ID)
}

func TestGroupsExcludeSyntheticAndKasbon(t *testing.T) {
	rows := []ledger.Transaction{
		{ID: "a", Date: day, Type: ledger.Income, Amount: 10000, PaymentMethod: ledger.QRIS, RiderName: "Rider 1", RecapBatchID: "b1"},
		{ID: "b", Date: day, Type: ledger.Expense, Amount: 500, PaymentMethod: ledger.Cash, Category: ledger.CategoryKasbon, RiderName: "Rider 1", RecapBatchID: "b1"},
		{ID: "c", Date: day, Type: ledger.Expense, Amount: 1000, PaymentMethod: ledger.Cash, Category: ledger.CategoryCorrection, RiderName: "Rider 1"},
		{ID: "d", Date: day, Type: ledger.Expense, Amount: 150000, PaymentMethod: ledger.Cash, Category: ledger.CategorySalary},
		{ID: "e", Date: day, Type: ledger.Expense, Amount: 3000, PaymentMethod: ledger.Cash, Description: "Beli Gas"},
	}

	groups := recap.Groups(rows)
	require.Len(t, groups, 2)

	byKey := map[string]recap.Group{}
	for _, g := range groups {
		byKey[g.Key] = g
	}
	assert.Equal(t, int64(10000), byKey["b1"].QRIS)
	assert.Zero(t, byKey["b1"].Shopping)
	assert.Zero(t, byKey["b1"].Deposit())

	house := byKey[recap.LegacyKey("2026-10-05", ledger.HouseRider)]
	assert.Equal(t, ledger.HouseRider, house.RiderName)
	assert.Equal(t, int64(3000), house.Shopping)
}

func TestEditInputRebuildsSubmission(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	in := riderDay("Rider 1", 2, 14000)
	in.MealCost = 10000
	res, err := svc.Submit(ctx, in, false)
	require.NoError(t, err)

	rebuilt, err := svc.EditInput(ctx, res.BatchID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"p1": 2}, rebuilt.Sold)
	assert.Equal(t, int64(14000), rebuilt.ActualCash)
	assert.Equal(t, int64(10000), rebuilt.MealCost)
	require.Len(t, rebuilt.Expenses, 1)
	assert.Equal(t, "Es Batu", rebuilt.Expenses[0].Name)
	assert.Equal(t, int64(1000), rebuilt.Expenses[0].UnitPrice)
}
