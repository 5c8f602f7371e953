package reports

import (
	"sort"

	"kopikeliling/internal/domain/ledger"
	"kopikeliling/internal/domain/policy"
)

// InMonth returns the rows dated in month (YYYY-MM).
func InMonth(txs []ledger.Transaction, month string) []ledger.Transaction {
	var out []ledger.Transaction
	for _, t := range txs {
		if t.Month() == month {
			out = append(out, t)
		}
	}
	return out
}

// MonthCups sums cups sold on the month's income rows, recovering lost qty
// from the line items.
func MonthCups(txs []ledger.Transaction, month string) int64 {
	var cups int64
	for _, t := range txs {
		if t.IsIncome() && t.Month() == month {
			cups += t.Cups()
		}
	}
	return cups
}

// BuildSummary computes the dashboard headline. Totals and balances are
// all-time; net profit and cups are scoped to month.
func BuildSummary(txs []ledger.Transaction, capital ledger.Capital, month string) Summary {
	s := Summary{Month: month}
	var monthIncome, monthExpense int64
	b := BuildBalances(txs, capital)

	for _, t := range txs {
		if t.IsIncome() {
			s.TotalIncome += t.Amount
		} else {
			s.TotalExpense += t.Amount
		}
		if t.Month() != month {
			continue
		}
		if t.IsIncome() {
			monthIncome += t.Amount
			s.TotalCupsMonth += t.Cups()
		} else {
			monthExpense += t.Amount
		}
	}
	s.NetProfit = monthIncome - monthExpense
	s.CurrentCash = b.Cash.Final
	s.CurrentBank = b.Bank.Final
	return s
}

// BuildBalances splits all-time movement into the cash and bank buckets.
// QRIS and TRANSFER both land in the bank.
func BuildBalances(txs []ledger.Transaction, capital ledger.Capital) Balances {
	b := Balances{
		Cash: Bucket{Initial: capital.InitialCash},
		Bank: Bucket{Initial: capital.InitialBank},
	}
	for _, t := range txs {
		bucket := &b.Bank
		if t.PaymentMethod.IsCash() {
			bucket = &b.Cash
		}
		if t.IsIncome() {
			bucket.Income += t.Amount
		} else {
			bucket.Expense += t.Amount
		}
	}
	b.Cash.Final = b.Cash.Initial + b.Cash.Income - b.Cash.Expense
	b.Bank.Final = b.Bank.Initial + b.Bank.Income - b.Bank.Expense
	return b
}

// CashFlow lists every cash row, newest first.
func CashFlow(txs []ledger.Transaction, capital ledger.Capital) Flow {
	return flow(txs, capital.InitialCash, func(m ledger.PaymentMethod) bool { return m.IsCash() })
}

// BankFlow lists every QRIS and TRANSFER row, newest first.
func BankFlow(txs []ledger.Transaction, capital ledger.Capital) Flow {
	return flow(txs, capital.InitialBank, func(m ledger.PaymentMethod) bool { return !m.IsCash() })
}

func flow(txs []ledger.Transaction, initial int64, match func(ledger.PaymentMethod) bool) Flow {
	f := Flow{Initial: initial, Rows: []ledger.Transaction{}}
	for _, t := range txs {
		if !match(t.PaymentMethod) {
			continue
		}
		f.Rows = append(f.Rows, t)
		if t.IsIncome() {
			f.TotalIncome += t.Amount
		} else {
			f.TotalExpense += t.Amount
		}
	}
	sortNewestFirst(f.Rows)
	f.CurrentBalance = f.Initial + f.TotalIncome - f.TotalExpense
	return f
}

// BuildStockLevel tracks cups: opening stock plus purchases minus sales.
// A purchase row without qty counts as one unit.
func BuildStockLevel(txs []ledger.Transaction, capital ledger.Capital, month string, p policy.Policy) StockLevel {
	st := StockLevel{Initial: capital.InitialCupStock}
	for _, t := range txs {
		if t.Month() != month {
			continue
		}
		switch {
		case t.IsIncome():
			st.Sold += t.Cups()
		case p.IsStockPurchase(t.Description):
			if t.Qty > 0 {
				st.Purchased += t.Qty
			} else {
				st.Purchased++
			}
		}
	}
	st.Current = st.Initial + st.Purchased - st.Sold
	return st
}

func sortNewestFirst(rows []ledger.Transaction) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.After(rows[j].Date)
	})
}
