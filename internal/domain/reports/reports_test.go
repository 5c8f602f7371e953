package reports_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kopikeliling/internal/domain/ledger"
	"kopikeliling/internal/domain/policy"
	"kopikeliling/internal/domain/recap"
	"kopikeliling/internal/domain/records"
	"kopikeliling/internal/domain/reports"
)

const month = "2026-10"

func at(day, hour int) time.Time {
	return time.Date(2026, 10, day, hour, 0, 0, 0, time.UTC)
}

func income(id string, day int, amount int64, method ledger.PaymentMethod, rider string) ledger.Transaction {
	return ledger.Transaction{ID: id, Date: at(day, 12), Type: ledger.Income, Amount: amount, PaymentMethod: method, RiderName: rider}
}

func expense(id string, day int, amount int64, method ledger.PaymentMethod, category, desc string) ledger.Transaction {
	return ledger.Transaction{ID: id, Date: at(day, 12), Type: ledger.Expense, Amount: amount, PaymentMethod: method, Category: category, Description: desc}
}

func TestScenarioAllCashDay(t *testing.T) {
	capital := ledger.Capital{InitialCash: 500_000, InitialBank: 1_000_000}
	res, err := recap.Encode(recap.Input{
		Products:   records.Defaults().Products,
		Sold:       map[string]int64{"p1": 2},
		ActualCash: 16000,
		Date:       at(5, 17),
		RiderName:  "Rider 1",
	})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)

	s := reports.BuildSummary(res.Rows, capital, month)
	assert.Equal(t, int64(516_000), s.CurrentCash)
	assert.Equal(t, int64(1_000_000), s.CurrentBank)
	assert.Equal(t, int64(2), s.TotalCupsMonth)
}

func TestBalanceIdentity(t *testing.T) {
	capital := ledger.Capital{InitialCash: 100, InitialBank: 200}
	rows := []ledger.Transaction{
		income("a", 1, 1000, ledger.Cash, "A"),
		income("b", 1, 700, ledger.QRIS, "A"),
		income("c", 2, 300, ledger.Transfer, ""),
		expense("d", 2, 400, ledger.Cash, ledger.CategoryOperational, "Bensin"),
		expense("e", 3, 50, ledger.Transfer, ledger.CategoryOther, "Admin"),
		{ID: "old", Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Type: ledger.Income, Amount: 9, PaymentMethod: ledger.Cash},
	}

	var cash, bank int64
	for _, r := range rows {
		if r.PaymentMethod == ledger.Cash {
			cash += r.Signed()
		} else {
			bank += r.Signed()
		}
	}

	s := reports.BuildSummary(rows, capital, month)
	assert.Equal(t, capital.InitialCash+cash, s.CurrentCash)
	assert.Equal(t, capital.InitialBank+bank, s.CurrentBank)
	assert.Equal(t, int64(2009), s.TotalIncome)
	assert.Equal(t, int64(2000-450), s.NetProfit)

	cf := reports.CashFlow(rows, capital)
	assert.Equal(t, s.CurrentCash, cf.CurrentBalance)
	assert.Equal(t, "d", cf.Rows[0].ID)
	bf := reports.BankFlow(rows, capital)
	assert.Equal(t, s.CurrentBank, bf.CurrentBalance)
}

func TestSummaryRecoversLostQty(t *testing.T) {
	row := income("a", 5, 26000, ledger.Cash, "A")
	row.Description = "Setoran Tunai A. Detail: Americano x2, Kopi Susu x1"
	s := reports.BuildSummary([]ledger.Transaction{row}, ledger.Capital{}, month)
	assert.Equal(t, int64(3), s.TotalCupsMonth)
}

func TestProductStatsRoundTrip(t *testing.T) {
	products := records.Defaults().Products
	sold := map[string]int64{"p1": 3, "p4": 2, "p9": 1}
	res, err := recap.Encode(recap.Input{
		Products:   products,
		Sold:       sold,
		QRISAmount: 10000,
		Date:       at(6, 18),
		RiderName:  "A",
	})
	require.NoError(t, err)

	stats := reports.ProductStats(res.Rows, products, month)
	assert.Len(t, stats, len(products))

	got := map[string]int64{}
	for _, st := range stats {
		if st.Qty > 0 {
			got[st.Name] = st.Qty
		}
	}
	assert.Equal(t, map[string]int64{"Americano": 3, "Kopi Klepon": 2, "Matcha": 1}, got)

	assert.Equal(t, "Americano", stats[0].Name)
	assert.Equal(t, int64(24000), stats[0].Revenue)
	assert.Equal(t, int64(12000), stats[0].Profit)
	assert.Len(t, reports.TopProducts(stats, 5), 5)
}

func TestProductStatsUnknownName(t *testing.T) {
	row := income("a", 5, 5000, ledger.Cash, "A")
	row.Description = "Setoran Tunai A. Detail: Teh Tarik x4, rusak"
	stats := reports.ProductStats([]ledger.Transaction{row}, nil, month)
	require.Len(t, stats, 1)
	assert.Equal(t, reports.UnknownCategory, stats[0].Category)
	assert.Equal(t, int64(4), stats[0].Qty)
	assert.Zero(t, stats[0].Revenue)
}

func TestCategoryStatsAndDrillDown(t *testing.T) {
	rows := []ledger.Transaction{
		expense("a", 1, 5000, ledger.Cash, ledger.CategoryRawMaterial, "Beli Es Batu (A)"),
		expense("b", 2, 7000, ledger.Cash, ledger.CategoryRawMaterial, "Beli Es Batu (B)"),
		expense("c", 2, 30000, ledger.Transfer, ledger.CategoryProduction, "Belanja Produksi: Susu UHT (2x15000)"),
		expense("d", 3, 1000, ledger.QRIS, "", "Parkir"),
	}

	rep := reports.CategoryStats(rows, month)
	assert.Equal(t, int64(43000), rep.Summary.Total)
	assert.Equal(t, int64(12000), rep.Summary.Cash)
	assert.Equal(t, int64(30000), rep.Summary.Transfer)
	assert.Equal(t, int64(1000), rep.Summary.QRIS)
	assert.Equal(t, ledger.CategoryProduction, rep.Categories[0].Name)

	var other reports.CategoryStat
	for _, c := range rep.Categories {
		if c.Name == ledger.CategoryOther {
			other = c
		}
	}
	assert.Equal(t, int64(1000), other.QRIS)

	items := reports.ItemDrillDown(rows, month, reports.ItemFilter{Category: ledger.CategoryRawMaterial})
	require.Len(t, items, 1)
	assert.Equal(t, "Es Batu", items[0].Name)
	assert.Equal(t, 2, items[0].Count)
	assert.Equal(t, int64(12000), items[0].Total)

	hist := reports.ItemHistory(rows, month, "Es Batu", reports.ItemFilter{})
	require.Len(t, hist, 2)
	assert.Equal(t, "b", hist[0].ID)

	assert.Empty(t, reports.ItemDrillDown(rows, month, reports.ItemFilter{}))
}

func TestDailyRollupCoversEveryDay(t *testing.T) {
	tests := []struct {
		month string
		days  int
	}{
		{"2026-10", 31},
		{"2026-11", 30},
		{"2026-02", 28},
		{"2028-02", 29},
	}
	rows := []ledger.Transaction{income("a", 5, 1000, ledger.QRIS, "A")}
	for _, tt := range tests {
		t.Run(tt.month, func(t *testing.T) {
			rep, err := reports.DailyRollup(rows, tt.month)
			require.NoError(t, err)
			assert.Len(t, rep.Days, tt.days)
			assert.Equal(t, tt.month+"-01", rep.Days[0].Date)
		})
	}

	rep, err := reports.DailyRollup(rows, month)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), rep.Days[4].QRIS)
	assert.Equal(t, int64(1000), rep.Totals.Omset)

	_, err = reports.DailyRollup(rows, "oct")
	assert.Error(t, err)
}

func TestMatrices(t *testing.T) {
	cash := ledger.Ptr(50000)
	a := income("a", 5, 30000, ledger.QRIS, "Budi")
	b := income("b", 5, 20000, ledger.QRIS, "Budi")
	c := income("c", 6, 10000, ledger.Transfer, "Ani")
	d := income("d", 5, 40000, ledger.Cash, "Budi")
	e := income("e", 5, 10000, ledger.Cash, "")
	a.ActualCash, d.ActualCash = cash, cash
	rows := []ledger.Transaction{a, b, c, d, e}

	q := reports.QRISMatrix(rows, month)
	assert.Equal(t, int64(50000), q.Cell("2026-10-05", "Budi"))
	assert.Equal(t, []string{"2026-10-06", "2026-10-05"}, q.Dates)
	assert.Equal(t, []string{"Ani", "Budi"}, q.Riders)
	assert.Equal(t, int64(10000), q.TotalsPerRider["Ani"])

	coh := reports.COHMatrix(rows, month)
	assert.Equal(t, int64(50000), coh.Cell("2026-10-05", "Budi"))
	assert.Equal(t, []string{"Budi"}, coh.Riders)
}

func TestRiderRollup(t *testing.T) {
	a := income("a", 5, 16000, ledger.Cash, "Budi")
	a.Qty = 2
	a.ActualCash = ledger.Ptr(15000)
	b := expense("b", 5, 2000, ledger.Cash, ledger.CategoryRawMaterial, "Beli Es (Budi)")
	b.RiderName = "Budi"
	c := income("c", 7, 8000, ledger.Cash, "Budi")
	c.Qty = 1

	stats := reports.RiderRollup([]ledger.Transaction{a, b, c, income("x", 5, 1, ledger.Cash, "")}, month)
	require.Len(t, stats, 1)
	st := stats[0]
	assert.Equal(t, int64(24000), st.TotalOmset)
	assert.Equal(t, int64(2000), st.TotalExpense)
	assert.Equal(t, int64(3), st.TotalCups)
	require.Len(t, st.Days, 2)
	assert.Equal(t, "2026-10-07", st.Days[0].Date)
	assert.Equal(t, int64(15000), st.Days[1].COH)
}

func TestCostRatio(t *testing.T) {
	p := policy.Default()
	rows := []ledger.Transaction{
		income("a", 1, 1_000_000, ledger.Cash, "Budi"),
		expense("b", 2, 300_000, ledger.Transfer, ledger.CategoryProduction, "Belanja Produksi: Kopi (1x300000)"),
		expense("c", 2, 200_000, ledger.Cash, ledger.CategoryOperational, "Beli Cup 22oz (Budi)"),
		expense("d", 3, 50_000, ledger.Cash, ledger.CategoryOperational, "Bensin"),
		expense("e", 3, 10_000, ledger.Cash, ledger.CategoryCorrection, "Koreksi Kas Budi (03 Okt)"),
		expense("f", 4, 100_000, ledger.Cash, ledger.CategorySalary, "Gaji Budi (September 2026)"),
	}
	rows[0].Qty = 100
	rows[0].MealCost = 20000

	cr := reports.BuildCostRatio(rows, ledger.Capital{InitialCupStock: 500}, month, p)
	assert.Equal(t, int64(1_000_000), cr.TotalOmset)
	assert.Equal(t, int64(500_000), cr.TotalRawMaterial)
	assert.Equal(t, "50", cr.RawMaterialPct.String())
	assert.True(t, cr.RawMaterialOver)
	assert.Len(t, cr.RawMaterialRows, 2)

	assert.Equal(t, int64(160_000), cr.TotalEstimatedLabor)
	assert.Equal(t, "16", cr.LaborPct.String())
	assert.True(t, cr.LaborOver)
	assert.Equal(t, int64(100_000), cr.TotalPaidSalary)
	assert.Len(t, cr.Labor, 2)

	assert.Equal(t, reports.StockLevel{Initial: 500, Purchased: 1, Sold: 100, Current: 401}, cr.Stock)
}

func TestCostRatioWithoutOmset(t *testing.T) {
	rows := []ledger.Transaction{expense("a", 1, 1000, ledger.Cash, ledger.CategoryRawMaterial, "Beli Es")}
	cr := reports.BuildCostRatio(rows, ledger.Capital{}, month, policy.Default())
	assert.True(t, cr.RawMaterialPct.IsZero())
	assert.False(t, cr.RawMaterialOver)
}

func TestFinance(t *testing.T) {
	rows := []ledger.Transaction{
		income("a", 1, 10000, ledger.Cash, "A"),
		income("b", 1, 5000, ledger.QRIS, "A"),
		expense("c", 2, 3000, ledger.Cash, ledger.CategoryRawMaterial, "Beli Es Batu (A)"),
		expense("d", 3, 1000, ledger.Transfer, ledger.CategoryOperational, "Admin bank"),
	}
	rows[0].Description = "Setoran Tunai A"

	rep := reports.BuildFinance(rows, month, reports.FinanceFilter{Search: "es batu"}, 2000)
	require.Len(t, rep.Days, 1)
	assert.Equal(t, "2026-10-02", rep.Days[0].Date)
	assert.Equal(t, int64(3000), rep.Days[0].Expense)

	s := rep.Summary
	assert.Equal(t, int64(15000), s.Income)
	assert.Equal(t, int64(5000), s.IncomeNonCash)
	assert.Equal(t, int64(4000), s.Expense)
	assert.Equal(t, int64(1000), s.ExpenseNonCash)
	assert.Equal(t, int64(15000-4000-2000), s.Net)

	all := reports.BuildFinance(rows, month, reports.FinanceFilter{Type: ledger.Income}, 0)
	require.Len(t, all.Days, 1)
	assert.Len(t, all.Days[0].Rows, 2)
}
