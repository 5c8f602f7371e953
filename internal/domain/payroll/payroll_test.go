package payroll_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kopikeliling/internal/core/apperror"
	"kopikeliling/internal/domain/ledger"
	"kopikeliling/internal/domain/payroll"
	"kopikeliling/internal/domain/policy"
	"kopikeliling/internal/domain/records"
	"kopikeliling/internal/infrastructure/storage/memory"
)

var (
	rider = ledger.Rider{ID: "r1", Name: "Rider 1", Status: ledger.RiderActive}
	oct   = func(d int) time.Time { return time.Date(2026, 10, d, 16, 0, 0, 0, time.UTC) }
)

func monthRows() []ledger.Transaction {
	return []ledger.Transaction{
		{ID: "i1", Date: oct(3), Type: ledger.Income, Amount: 480000, PaymentMethod: ledger.Cash, RiderName: "Rider 1", Qty: 60, MealCost: 10000},
		{ID: "i2", Date: oct(4), Type: ledger.Income, Amount: 320000, PaymentMethod: ledger.Cash, RiderName: "Rider 1", Qty: 40, MealCost: 10000},
		{ID: "q2", Date: oct(4), Type: ledger.Income, Amount: 20000, PaymentMethod: ledger.QRIS, RiderName: "Rider 1"},
		{ID: "k1", Date: oct(4), Type: ledger.Expense, Amount: 5000, PaymentMethod: ledger.Cash, RiderName: "Rider 1", Category: ledger.CategoryKasbon, Description: "Kasbon: Rider 1"},
		{ID: "other", Date: oct(4), Type: ledger.Income, Amount: 80000, PaymentMethod: ledger.Cash, RiderName: "Rider 2", Qty: 10},
		{ID: "sept", Date: time.Date(2026, 9, 30, 10, 0, 0, 0, time.UTC), Type: ledger.Income, Amount: 8000, PaymentMethod: ledger.Cash, RiderName: "Rider 1", Qty: 1},
	}
}

func TestEstimateRider(t *testing.T) {
	e := payroll.EstimateRider(monthRows(), rider, "2026-10", policy.Default())

	assert.Equal(t, int64(100), e.TotalCups)
	assert.Equal(t, int64(20000), e.TotalMeal)
	assert.Equal(t, int64(140000), e.Commission)
	assert.Equal(t, int64(5000), e.Kasbon)
	assert.Equal(t, int64(155000), e.NetSalary)
	assert.False(t, e.Paid)
}

func TestEstimateFloorsAtZero(t *testing.T) {
	rows := []ledger.Transaction{
		{ID: "k", Date: oct(1), Type: ledger.Expense, Amount: 50000, PaymentMethod: ledger.Cash, RiderName: "Rider 1", Category: ledger.CategoryKasbon},
	}
	e := payroll.EstimateRider(rows, rider, "2026-10", policy.Default())
	assert.Zero(t, e.NetSalary)
}

func TestPaymentDetection(t *testing.T) {
	tests := []struct {
		name string
		row  ledger.Transaction
		want bool
	}{
		{
			name: "structured reference",
			row: ledger.Transaction{Type: ledger.Expense, Category: ledger.CategorySalary,
				Salary: &ledger.SalaryRef{RiderID: "r1", RiderName: "Rider 1", Period: "2026-10"}},
			want: true,
		},
		{
			name: "structured reference for another month",
			row: ledger.Transaction{Type: ledger.Expense, Category: ledger.CategorySalary,
				Description: "Gaji Rider 1 (Oktober 2026)",
				Salary:      &ledger.SalaryRef{RiderID: "r1", Period: "2026-09"}},
			want: false,
		},
		{
			name: "legacy description",
			row:  ledger.Transaction{Type: ledger.Expense, Category: ledger.CategorySalary, Description: "Gaji Rider 1 (Oktober 2026)"},
			want: true,
		},
		{
			name: "legacy description wrong category",
			row:  ledger.Transaction{Type: ledger.Expense, Category: ledger.CategoryOperational, Description: "Gaji Rider 1 (Oktober 2026)"},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := payroll.Payment([]ledger.Transaction{tt.row}, rider, "2026-10")
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestBreakdownNewestFirst(t *testing.T) {
	b := payroll.BuildBreakdown(monthRows(), rider, "2026-10", policy.Default())
	require.Len(t, b.Days, 2)
	assert.Equal(t, "2026-10-04", b.Days[0].Date)
	assert.Equal(t, int64(40*1400+10000), b.Days[0].Total)
	require.Len(t, b.KasbonRows, 1)

	slip := payroll.Slip(b, policy.DefaultCommissionPerCup, 10000, "rajin")
	assert.Contains(t, slip, "Periode: Oktober 2026")
	assert.Contains(t, slip, "Rp 165.000")
	assert.Contains(t, slip, "BELUM DIBAYAR")
}

func TestPayWritesSalaryAndFee(t *testing.T) {
	ctx := context.Background()
	store, err := records.Open(ctx, memory.New())
	require.NoError(t, err)
	require.NoError(t, store.AddTransactions(ctx, monthRows()...))
	svc := payroll.NewService(store, policy.Default())

	res, err := svc.Pay(ctx, payroll.PayRequest{
		RiderID:  "r1",
		Month:    "2026-10",
		Date:     "2026-10-31",
		Method:   ledger.Transfer,
		Bonus:    10000,
		AdminFee: 2500,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(165000), res.Salary.Amount)
	assert.Equal(t, "Gaji Rider 1 (Oktober 2026)", res.Salary.Description)
	assert.True(t, strings.HasPrefix(res.Salary.ID, "sal-"))
	require.NotNil(t, res.Fee)
	assert.Equal(t, "Biaya Admin Transfer Gaji Rider 1", res.Fee.Description)
	assert.Equal(t, ledger.CategoryOperational, res.Fee.Category)

	estimates, err := svc.Estimates(ctx, "2026-10")
	require.NoError(t, err)
	require.NotEmpty(t, estimates)
	assert.True(t, estimates[0].Paid)
	assert.Equal(t, int64(0), payroll.PendingSalary(estimates[:1]))

	_, err = svc.Pay(ctx, payroll.PayRequest{RiderID: "r1", Month: "2026-10"})
	assert.True(t, apperror.HasCode(err, apperror.CodeAlreadyPaid))
}

func TestPayUnknownRider(t *testing.T) {
	ctx := context.Background()
	store, err := records.Open(ctx, memory.New())
	require.NoError(t, err)
	svc := payroll.NewService(store, policy.Default())

	_, err = svc.Pay(ctx, payroll.PayRequest{RiderID: "nope", Month: "2026-10"})
	assert.True(t, apperror.IsNotFound(err))
}
