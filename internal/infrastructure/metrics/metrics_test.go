package metrics_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kopikeliling/internal/core/apperror"
	"kopikeliling/internal/domain/ledger"
	"kopikeliling/internal/domain/records"
	"kopikeliling/internal/infrastructure/metrics"
	"kopikeliling/internal/infrastructure/storage/memory"
)

func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, m.Write(&out))
	switch {
	case out.Gauge != nil:
		return out.Gauge.GetValue()
	case out.Counter != nil:
		return out.Counter.GetValue()
	}
	return 0
}

func TestStoreObserver(t *testing.T) {
	ctx := context.Background()
	store, err := records.Open(ctx, memory.New(), records.WithObserver(metrics.StoreObserver{}))
	require.NoError(t, err)
	assert.Equal(t, float64(0), value(t, metrics.TransactionRows))

	row := ledger.Transaction{
		ID: "x1", Date: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		Type: ledger.Income, Amount: 1000, PaymentMethod: ledger.Cash,
	}
	require.NoError(t, store.AddTransactions(ctx, row))
	assert.Equal(t, float64(1), value(t, metrics.TransactionRows))
	assert.Equal(t, float64(1), value(t, metrics.CollectionWrites.WithLabelValues(string(records.Transactions))))

	err = store.AddTransactions(ctx, row)
	require.Error(t, err)
	code, _ := apperror.AsAppError(err)
	assert.Equal(t, float64(1), value(t, metrics.StoreMutations.WithLabelValues("transactions.add", code.Code)))
}
