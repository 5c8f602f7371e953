package catalogs_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kopikeliling/internal/core/apperror"
	"kopikeliling/internal/domain/catalogs"
	"kopikeliling/internal/domain/ledger"
	"kopikeliling/internal/domain/records"
	"kopikeliling/internal/infrastructure/storage/memory"
)

func openStore(t *testing.T) (context.Context, *records.Store) {
	t.Helper()
	ctx := context.Background()
	store, err := records.Open(ctx, memory.New())
	require.NoError(t, err)
	return ctx, store
}

func productIDs(ps []ledger.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestProductCRUD(t *testing.T) {
	ctx, store := openStore(t)
	products := catalogs.NewProducts(store)

	created, err := products.Create(ctx, ledger.Product{Name: "Es Kopi Gula Aren", Price: 13000, Category: "Coffee", HPP: 6500})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.ID, "p-"))
	assert.Len(t, products.List(ctx, catalogs.ListFilter{}), 10)

	got, err := products.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	created.Price = 14000
	_, err = products.Update(ctx, created)
	require.NoError(t, err)
	got, _ = products.Get(ctx, created.ID)
	assert.Equal(t, int64(14000), got.Price)

	found := products.List(ctx, catalogs.ListFilter{Search: "non-coffee"})
	assert.Equal(t, []string{"p8", "p9"}, productIDs(found))

	require.NoError(t, products.Delete(ctx, created.ID))
	_, err = products.Get(ctx, created.ID)
	assert.True(t, apperror.IsNotFound(err))
	assert.True(t, apperror.IsNotFound(products.Delete(ctx, created.ID)))

	_, err = products.Create(ctx, ledger.Product{ID: "p1", Name: "Dup", Price: 1})
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicate))

	_, err = products.Create(ctx, ledger.Product{Name: "", Price: 1})
	assert.True(t, apperror.IsValidation(err))
	_, err = products.Update(ctx, ledger.Product{ID: "nope", Name: "x"})
	assert.True(t, apperror.IsNotFound(err))
}

func TestProductMove(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		delta int
		head  []string
	}{
		{"down", "p1", 1, []string{"p2", "p1", "p3"}},
		{"up", "p3", -1, []string{"p1", "p3", "p2"}},
		{"clamped at top", "p1", -1, []string{"p1", "p2", "p3"}},
		{"to top", "p3", -5, []string{"p3", "p1", "p2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, store := openStore(t)
			products := catalogs.NewProducts(store)
			out, err := products.Move(ctx, tt.id, tt.delta)
			require.NoError(t, err)
			assert.Len(t, out, 9)
			assert.Equal(t, tt.head, productIDs(out)[:3])
			assert.Equal(t, productIDs(out), productIDs(store.Snapshot().Products))
		})
	}

	ctx, store := openStore(t)
	out, err := catalogs.NewProducts(store).Move(ctx, "p9", 1)
	require.NoError(t, err)
	assert.Equal(t, "p9", out[8].ID)

	_, err = catalogs.NewProducts(store).Move(ctx, "zz", 1)
	assert.True(t, apperror.IsNotFound(err))
}

func TestRiderUpsertAndUniqueName(t *testing.T) {
	ctx, store := openStore(t)
	riders := catalogs.NewRiders(store)

	r, err := riders.Upsert(ctx, ledger.Rider{Name: "  Budi "})
	require.NoError(t, err)
	assert.Equal(t, "Budi", r.Name)
	assert.Equal(t, ledger.RiderActive, r.Status)

	r.Phone = "0812"
	r.Status = ledger.RiderInactive
	r, err = riders.Upsert(ctx, r)
	require.NoError(t, err)
	assert.Len(t, riders.List(ctx, catalogs.ListFilter{}), 3)
	got, _ := riders.Get(ctx, r.ID)
	assert.Equal(t, ledger.RiderInactive, got.Status)

	_, err = riders.Upsert(ctx, ledger.Rider{ID: "r9", Name: "rider 1"})
	assert.True(t, apperror.HasCode(err, apperror.CodeConflict))

	created, err := riders.Upsert(ctx, ledger.Rider{ID: "r9", Name: "Sari"})
	require.NoError(t, err)
	assert.Equal(t, "r9", created.ID)
}

func TestHooks(t *testing.T) {
	ctx, store := openStore(t)
	items := catalogs.NewBookkeepingItems(store)
	var after []string
	items.Hooks().OnBeforeDelete(func(_ context.Context, d *records.Dataset, b *ledger.BookkeepingItem) error {
		if b.Category == ledger.CategoryAsset {
			return apperror.NewBusinessRule(apperror.CodeBusinessRule, "assets are kept")
		}
		return nil
	})
	items.Hooks().OnAfterDelete(func(_ context.Context, _ *records.Dataset, b *ledger.BookkeepingItem) error {
		after = append(after, b.ID)
		return errors.New("ignored")
	})

	err := items.Delete(ctx, "b11")
	assert.True(t, apperror.HasCode(err, apperror.CodeBusinessRule))
	require.NoError(t, items.Delete(ctx, "b1"))
	assert.Equal(t, []string{"b1"}, after)
	assert.Len(t, store.Snapshot().BookkeepingItems, 12)
}

func TestExpenseItemCategoryValidated(t *testing.T) {
	ctx, store := openStore(t)
	items := catalogs.NewExpenseItems(store)
	_, err := items.Create(ctx, ledger.ExpenseItem{Name: "Gas", Category: "BENSIN"})
	assert.True(t, apperror.IsValidation(err))
	_, err = items.Create(ctx, ledger.ExpenseItem{Name: "Gas", Category: ledger.CategoryOperational})
	assert.NoError(t, err)
}

func TestCapitalReplace(t *testing.T) {
	ctx, store := openStore(t)
	capital := catalogs.NewCapital(store)
	assert.Equal(t, int64(500000), capital.Get(ctx).InitialCash)

	c, err := capital.Replace(ctx, ledger.Capital{InitialCash: 1, InitialBank: 2, Month: "2026-10"})
	require.NoError(t, err)
	assert.Equal(t, c, capital.Get(ctx))

	_, err = capital.Replace(ctx, ledger.Capital{InitialCash: -1})
	assert.True(t, apperror.IsValidation(err))
	_, err = capital.Replace(ctx, ledger.Capital{Month: "Okt"})
	assert.True(t, apperror.IsValidation(err))
}
