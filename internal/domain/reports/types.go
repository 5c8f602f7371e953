// Package reports derives read-only views from the ledger. Every function is
// pure: it takes rows and parameters and returns plain structs.
package reports

import (
	"kopikeliling/internal/core/types"
	"kopikeliling/internal/domain/ledger"
)

// --- Summary ---

// Summary is the dashboard headline.
type Summary struct {
	Month          string       `json:"month"`
	TotalIncome    types.Rupiah `json:"totalIncome"`
	TotalExpense   types.Rupiah `json:"totalExpense"`
	NetProfit      types.Rupiah `json:"netProfit"`
	CurrentCash    types.Rupiah `json:"currentCash"`
	CurrentBank    types.Rupiah `json:"currentBank"`
	TotalCupsMonth int64        `json:"totalCupsMonth"`
}

// Bucket is the movement of one money bucket since the opening balance.
type Bucket struct {
	Initial types.Rupiah `json:"initial"`
	Income  types.Rupiah `json:"income"`
	Expense types.Rupiah `json:"expense"`
	Final   types.Rupiah `json:"final"`
}

// Balances splits all-time movement into cash and bank.
type Balances struct {
	Cash Bucket `json:"cash"`
	Bank Bucket `json:"bank"`
}

// Flow lists the rows of one bucket, newest first.
type Flow struct {
	Rows           []ledger.Transaction `json:"rows"`
	Initial        types.Rupiah         `json:"initial"`
	TotalIncome    types.Rupiah         `json:"totalIncome"`
	TotalExpense   types.Rupiah         `json:"totalExpense"`
	CurrentBalance types.Rupiah         `json:"currentBalance"`
}

// StockLevel tracks the stocked unit (cups) through the month.
type StockLevel struct {
	Initial   int64 `json:"initial"`
	Purchased int64 `json:"purchased"`
	Sold      int64 `json:"sold"`
	Current   int64 `json:"current"`
}

// --- Products ---

// ProductStat is the month's sales of one product name.
type ProductStat struct {
	Name     string       `json:"name"`
	Category string       `json:"category"`
	Qty      int64        `json:"qty"`
	Revenue  types.Rupiah `json:"revenue"`
	Profit   types.Rupiah `json:"profit"`
}

// UnknownCategory labels sold names that match no catalog product.
const UnknownCategory = "Unknown"

// --- Expenses ---

// MethodTotals splits an amount across payment methods.
type MethodTotals struct {
	Cash     types.Rupiah `json:"cash"`
	QRIS     types.Rupiah `json:"qris"`
	Transfer types.Rupiah `json:"transfer"`
	Total    types.Rupiah `json:"total"`
}

func (m *MethodTotals) add(method ledger.PaymentMethod, amount types.Rupiah) {
	switch method {
	case ledger.QRIS:
		m.QRIS += amount
	case ledger.Transfer:
		m.Transfer += amount
	default:
		m.Cash += amount
	}
	m.Total += amount
}

// CategoryStat is the month's expense in one category.
type CategoryStat struct {
	Name string `json:"name"`
	MethodTotals
}

// CategoryReport groups the month's expenses by category and method.
type CategoryReport struct {
	Categories []CategoryStat `json:"categories"`
	Summary    MethodTotals   `json:"summary"`
}

// ItemFilter narrows an expense drill-down. Empty fields match everything.
type ItemFilter struct {
	Category string               `json:"category,omitempty"`
	Method   ledger.PaymentMethod `json:"method,omitempty"`
}

// ItemStat is the spend on one cleaned item name.
type ItemStat struct {
	Name  string       `json:"name"`
	Total types.Rupiah `json:"total"`
	Count int          `json:"count"`
}

// --- Rollups ---

// DailyRow is one calendar day of the month.
type DailyRow struct {
	Date    string       `json:"date"`
	Omset   types.Rupiah `json:"omset"`
	Expense types.Rupiah `json:"expense"`
	QRIS    types.Rupiah `json:"qris"`
	COH     types.Rupiah `json:"coh"`
}

// DailyTotals sums the daily rows.
type DailyTotals struct {
	Omset   types.Rupiah `json:"omset"`
	Expense types.Rupiah `json:"expense"`
	QRIS    types.Rupiah `json:"qris"`
	COH     types.Rupiah `json:"coh"`
}

// DailyReport covers every day of a month.
type DailyReport struct {
	Days   []DailyRow  `json:"days"`
	Totals DailyTotals `json:"totals"`
}

// RiderDay is one rider's activity on one day.
type RiderDay struct {
	Date    string       `json:"date"`
	Omset   types.Rupiah `json:"omset"`
	Expense types.Rupiah `json:"expense"`
	Cups    int64        `json:"cups"`
	COH     types.Rupiah `json:"coh"`
}

// RiderStat is one rider's month.
type RiderStat struct {
	Name         string       `json:"name"`
	TotalOmset   types.Rupiah `json:"totalOmset"`
	TotalExpense types.Rupiah `json:"totalExpense"`
	TotalCups    int64        `json:"totalCups"`
	Days         []RiderDay   `json:"days"`
}

// Matrix is a date × rider table. Dates run newest first, riders alphabetically.
type Matrix struct {
	Dates          []string                           `json:"dates"`
	Riders         []string                           `json:"riders"`
	Cells          map[string]map[string]types.Rupiah `json:"cells"`
	TotalsPerRider map[string]types.Rupiah            `json:"totalsPerRider"`
}

// Cell returns the value at date × rider, zero when empty.
func (m Matrix) Cell(date, rider string) types.Rupiah {
	return m.Cells[date][rider]
}

// --- Cost ratio ---

// LaborEntry is one line of the labor cost view: a paid salary or an estimate.
type LaborEntry struct {
	Date        string       `json:"date"`
	Description string       `json:"description"`
	Amount      types.Rupiah `json:"amount"`
	Paid        bool         `json:"paid"`
}

// CostRatio compares raw-material and labor cost to the month's omset.
type CostRatio struct {
	TotalOmset          types.Rupiah         `json:"totalOmset"`
	TotalRawMaterial    types.Rupiah         `json:"totalRawMaterial"`
	RawMaterialPct      types.Decimal        `json:"rawMaterialPct"`
	RawMaterialOver     bool                 `json:"rawMaterialOverBudget"`
	RawMaterialRows     []ledger.Transaction `json:"rawMaterialRows"`
	TotalEstimatedLabor types.Rupiah         `json:"totalEstimatedLabor"`
	TotalPaidSalary     types.Rupiah         `json:"totalPaidSalary"`
	LaborPct            types.Decimal        `json:"laborPct"`
	LaborOver           bool                 `json:"laborOverBudget"`
	Labor               []LaborEntry         `json:"labor"`
	Stock               StockLevel           `json:"stock"`
}

// --- Finance ---

// FinanceFilter narrows the month ledger.
type FinanceFilter struct {
	Type   ledger.TxType        `json:"type,omitempty"`
	Method ledger.PaymentMethod `json:"method,omitempty"`
	Search string               `json:"search,omitempty"`
}

// FinanceDay groups the filtered rows of one day.
type FinanceDay struct {
	Date    string               `json:"date"`
	Income  types.Rupiah         `json:"income"`
	Expense types.Rupiah         `json:"expense"`
	Rows    []ledger.Transaction `json:"rows"`
}

// FinanceSummary is the month's unfiltered profit view.
type FinanceSummary struct {
	Income         types.Rupiah `json:"income"`
	IncomeCash     types.Rupiah `json:"incomeCash"`
	IncomeNonCash  types.Rupiah `json:"incomeNonCash"`
	Expense        types.Rupiah `json:"expense"`
	ExpenseCash    types.Rupiah `json:"expenseCash"`
	ExpenseNonCash types.Rupiah `json:"expenseNonCash"`
	PendingSalary  types.Rupiah `json:"pendingSalary"`
	Net            types.Rupiah `json:"net"`
}

// FinanceReport is the month ledger view.
type FinanceReport struct {
	Month   string         `json:"month"`
	Days    []FinanceDay   `json:"days"`
	Summary FinanceSummary `json:"summary"`
}
