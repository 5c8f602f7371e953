package reconciliation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kopikeliling/internal/core/apperror"
	"kopikeliling/internal/domain/ledger"
	"kopikeliling/internal/domain/recap"
	"kopikeliling/internal/domain/reconciliation"
	"kopikeliling/internal/domain/records"
	"kopikeliling/internal/domain/reports"
	"kopikeliling/internal/infrastructure/storage/memory"
)

const (
	day   = "2026-10-05"
	month = "2026-10"
)

var recapTime = time.Date(2026, 10, 5, 17, 0, 0, 0, time.UTC)

func setup(t *testing.T) (context.Context, *records.Store, *reconciliation.Service) {
	t.Helper()
	ctx := context.Background()
	store, err := records.Open(ctx, memory.New())
	require.NoError(t, err)
	return ctx, store, reconciliation.NewService(store)
}

func submit(t *testing.T, ctx context.Context, store *records.Store, actualCash, qris int64) {
	t.Helper()
	_, err := recap.NewService(store).Submit(ctx, recap.Input{
		Sold:       map[string]int64{"p1": 2},
		ActualCash: actualCash,
		QRISAmount: qris,
		Date:       recapTime,
		RiderName:  "Rider 1",
	}, false)
	require.NoError(t, err)
}

func TestShortCashIsCorrectedOnce(t *testing.T) {
	ctx, store, svc := setup(t)
	submit(t, ctx, store, 15000, 0)

	checks, err := svc.Recaps(ctx, month)
	require.NoError(t, err)
	require.Len(t, checks, 1)
	assert.Equal(t, reconciliation.StatusMismatch, checks[0].Status)
	assert.Equal(t, int64(16000), checks[0].Expected)
	assert.Equal(t, int64(-1000), checks[0].Variance)

	req := reconciliation.CorrectRequest{Date: day, RiderName: "Rider 1", Kind: ledger.CorrectionCashRecap}
	res, err := svc.Correct(ctx, req)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	row := res.Transaction
	assert.Equal(t, ledger.Expense, row.Type)
	assert.Equal(t, int64(1000), row.Amount)
	assert.Equal(t, ledger.Cash, row.PaymentMethod)
	assert.Equal(t, ledger.CategoryCorrection, row.Category)
	assert.Equal(t, "Koreksi Kas Rider 1 (05 Okt)", row.Description)
	require.NotNil(t, row.Correction)
	assert.Equal(t, req.Ref(), *row.Correction)

	checks, err = svc.Recaps(ctx, month)
	require.NoError(t, err)
	assert.Equal(t, reconciliation.StatusCorrected, checks[0].Status)
	assert.Equal(t, row.ID, checks[0].CorrectionID)

	rows := len(store.Snapshot().Transactions)
	again, err := svc.Correct(ctx, req)
	require.NoError(t, err)
	assert.False(t, again.Applied)
	assert.Equal(t, row.ID, again.Transaction.ID)
	assert.Len(t, store.Snapshot().Transactions, rows)

	snap := store.Snapshot()
	s := reports.BuildSummary(snap.Transactions, snap.Capital, month)
	assert.Equal(t, snap.Capital.InitialCash+15000, s.CurrentCash)
}

func TestSurplusCashBecomesIncome(t *testing.T) {
	ctx, store, svc := setup(t)
	submit(t, ctx, store, 17500, 0)

	res, err := svc.Correct(ctx, reconciliation.CorrectRequest{Date: day, RiderName: "Rider 1", Kind: ledger.CorrectionCashRecap})
	require.NoError(t, err)
	assert.Equal(t, ledger.Income, res.Transaction.Type)
	assert.Equal(t, int64(1500), res.Transaction.Amount)
}

func TestCorrectRejects(t *testing.T) {
	ctx, store, svc := setup(t)
	submit(t, ctx, store, 16000, 0)

	tests := []struct {
		name  string
		req   reconciliation.CorrectRequest
		check func(error) bool
	}{
		{
			name:  "matched recap",
			req:   reconciliation.CorrectRequest{Date: day, RiderName: "Rider 1", Kind: ledger.CorrectionCashRecap},
			check: func(err error) bool { return apperror.HasCode(err, apperror.CodeNothingToCorrect) },
		},
		{
			name:  "unknown rider-day",
			req:   reconciliation.CorrectRequest{Date: day, RiderName: "Rider 2", Kind: ledger.CorrectionCashRecap},
			check: apperror.IsNotFound,
		},
		{
			name:  "bank day without record",
			req:   reconciliation.CorrectRequest{Date: day, Kind: ledger.CorrectionBankQRIS},
			check: apperror.IsNotFound,
		},
		{
			name:  "missing rider",
			req:   reconciliation.CorrectRequest{Date: day, Kind: ledger.CorrectionCashRecap},
			check: apperror.IsValidation,
		},
		{
			name:  "bad date",
			req:   reconciliation.CorrectRequest{Date: "05-10-2026", Kind: ledger.CorrectionBankQRIS},
			check: apperror.IsValidation,
		},
		{
			name:  "unknown kind",
			req:   reconciliation.CorrectRequest{Date: day, Kind: "OTHER"},
			check: apperror.IsValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Correct(ctx, tt.req)
			require.Error(t, err)
			assert.True(t, tt.check(err), err.Error())
		})
	}
}

func TestLegacyCorrectionRecognized(t *testing.T) {
	ctx, store, svc := setup(t)
	submit(t, ctx, store, 15000, 0)
	require.NoError(t, store.AddTransactions(ctx, ledger.Transaction{
		ID:            "corr-cash-1",
		Date:          recapTime.Add(time.Hour),
		Type:          ledger.Expense,
		Amount:        1000,
		PaymentMethod: ledger.Cash,
		Category:      ledger.CategoryCorrection,
		Description:   "Koreksi Kas Rider 1 (05 Okt)",
	}))

	checks, err := svc.Recaps(ctx, month)
	require.NoError(t, err)
	assert.Equal(t, reconciliation.StatusCorrected, checks[0].Status)

	res, err := svc.Correct(ctx, reconciliation.CorrectRequest{Date: day, RiderName: "Rider 1", Kind: ledger.CorrectionCashRecap})
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, "corr-cash-1", res.Transaction.ID)
}

func TestRecapStatuses(t *testing.T) {
	rows := []ledger.Transaction{
		{ID: "exp-1", Date: recapTime, Type: ledger.Expense, Amount: 2000, PaymentMethod: ledger.Cash, Category: ledger.CategoryOperational, Description: "Parkir"},
		{ID: "inc-1", Date: recapTime, Type: ledger.Income, Amount: 8000, PaymentMethod: ledger.Cash, RiderName: "Ani", ActualCash: ledger.Ptr(8000)},
		{ID: "inc-2", Date: recapTime.AddDate(0, 0, 1), Type: ledger.Income, Amount: 8000, PaymentMethod: ledger.Cash, RiderName: "Ani"},
	}
	checks := reconciliation.Recaps(rows, month)
	require.Len(t, checks, 3)

	got := map[string]reconciliation.Status{}
	for _, c := range checks {
		got[c.Date+" "+c.RiderName] = c.Status
	}
	assert.Equal(t, map[string]reconciliation.Status{
		"2026-10-06 Ani":  reconciliation.StatusUnchecked,
		"2026-10-05 Ani":  reconciliation.StatusMatch,
		"2026-10-05 Umum": reconciliation.StatusUnchecked,
	}, got)
	assert.Equal(t, "2026-10-06", checks[0].Date)
}

func TestBankReconciliation(t *testing.T) {
	ctx, store, svc := setup(t)
	submit(t, ctx, store, 0, 16000)
	require.NoError(t, store.AddTransactions(ctx, ledger.Transaction{
		ID: "tf-1", Date: recapTime, Type: ledger.Income, Amount: 4000, PaymentMethod: ledger.Transfer, Description: "Pesanan kantor",
	}))

	rep, err := svc.BankDays(ctx, month)
	require.NoError(t, err)
	require.Len(t, rep.Days, 1)
	assert.Equal(t, reconciliation.StatusUnchecked, rep.Days[0].Status)
	assert.Equal(t, int64(20000), rep.Days[0].SystemTotal)
	assert.Equal(t, []reconciliation.RiderQRIS{
		{RiderName: "Rider 1", Amount: 16000},
		{RiderName: ledger.HouseRider, Amount: 4000},
	}, rep.Days[0].Breakdown)

	rec, err := svc.SaveBankReconciliation(ctx, day, 15000, "mutasi BCA")
	require.NoError(t, err)
	assert.Equal(t, int64(20000), rec.SystemQRISAmount)
	assert.Equal(t, int64(-5000), rec.Variance)

	again, err := svc.SaveBankReconciliation(ctx, day, 18000, "")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, again.ID)
	assert.Len(t, store.Snapshot().BankReconciliations, 1)

	rep, err = svc.BankDays(ctx, month)
	require.NoError(t, err)
	assert.Equal(t, reconciliation.StatusMismatch, rep.Days[0].Status)
	assert.Equal(t, int64(-2000), rep.Days[0].Variance)
	assert.Equal(t, int64(-2000), rep.TotalVariance)

	res, err := svc.Correct(ctx, reconciliation.CorrectRequest{Date: day, RiderName: "ignored", Kind: ledger.CorrectionBankQRIS})
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, ledger.Expense, res.Transaction.Type)
	assert.Equal(t, ledger.Transfer, res.Transaction.PaymentMethod)
	assert.Equal(t, int64(2000), res.Transaction.Amount)
	assert.Equal(t, "Koreksi Selisih QRIS (05 Okt)", res.Transaction.Description)
	assert.Empty(t, res.Transaction.Correction.RiderName)

	rep, err = svc.BankDays(ctx, month)
	require.NoError(t, err)
	assert.Equal(t, reconciliation.StatusCorrected, rep.Days[0].Status)
	assert.Equal(t, int64(20000), rep.Days[0].SystemTotal)

	_, err = svc.SaveBankReconciliation(ctx, day, -1, "")
	assert.True(t, apperror.IsValidation(err))
}

func TestSystemTotalIgnoresSnapshot(t *testing.T) {
	rows := []ledger.Transaction{
		{ID: "q", Date: recapTime, Type: ledger.Income, Amount: 10000, PaymentMethod: ledger.QRIS, RiderName: "Ani"},
	}
	recons := []ledger.BankReconciliation{
		{ID: "r", Date: day, ManualQRISAmount: 10000, SystemQRISAmount: 7000, Variance: 3000},
	}
	rep := reconciliation.BankDays(rows, recons, month)
	require.Len(t, rep.Days, 1)
	assert.Equal(t, reconciliation.StatusMatch, rep.Days[0].Status)
	assert.Equal(t, int64(7000), rep.Days[0].Snapshot)
	assert.Zero(t, rep.TotalVariance)
}
