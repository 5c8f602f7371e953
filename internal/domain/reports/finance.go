package reports

import (
	"sort"

	"kopikeliling/internal/core/types"
	"kopikeliling/internal/domain/ledger"
)

func (f FinanceFilter) match(t ledger.Transaction) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.Method != "" && t.PaymentMethod != f.Method {
		return false
	}
	return t.Matches(f.Search)
}

// BuildFinance lists the month's rows matching f grouped by day, newest first.
// The summary ignores the filter and nets out the salary still owed.
func BuildFinance(txs []ledger.Transaction, month string, f FinanceFilter, pendingSalary types.Rupiah) FinanceReport {
	rep := FinanceReport{Month: month, Days: []FinanceDay{}}
	index := make(map[string]int)
	var rows []ledger.Transaction

	for _, t := range txs {
		if t.Month() != month {
			continue
		}
		s := &rep.Summary
		if t.IsIncome() {
			s.Income += t.Amount
			if t.PaymentMethod.IsCash() {
				s.IncomeCash += t.Amount
			} else {
				s.IncomeNonCash += t.Amount
			}
		} else {
			s.Expense += t.Amount
			if t.PaymentMethod.IsCash() {
				s.ExpenseCash += t.Amount
			} else {
				s.ExpenseNonCash += t.Amount
			}
		}
		if f.match(t) {
			rows = append(rows, t)
		}
	}
	rep.Summary.PendingSalary = pendingSalary
	rep.Summary.Net = rep.Summary.Income - rep.Summary.Expense - pendingSalary

	sortNewestFirst(rows)
	for _, t := range rows {
		i, ok := index[t.Day()]
		if !ok {
			i = len(rep.Days)
			index[t.Day()] = i
			rep.Days = append(rep.Days, FinanceDay{Date: t.Day()})
		}
		day := &rep.Days[i]
		if t.IsIncome() {
			day.Income += t.Amount
		} else {
			day.Expense += t.Amount
		}
		day.Rows = append(day.Rows, t)
	}
	sort.SliceStable(rep.Days, func(i, j int) bool { return rep.Days[i].Date > rep.Days[j].Date })
	return rep
}
