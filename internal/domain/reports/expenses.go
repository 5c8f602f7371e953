package reports

import (
	"sort"

	"kopikeliling/internal/domain/ledger"
)

func expenseCategory(t ledger.Transaction) string {
	return t.CategoryOr(ledger.CategoryOther)
}

func (f ItemFilter) match(t ledger.Transaction) bool {
	if f.Category != "" && expenseCategory(t) != f.Category {
		return false
	}
	if f.Method != "" && t.PaymentMethod != f.Method {
		return false
	}
	return true
}

// CategoryStats groups the month's expenses by category and payment method.
// Categories are sorted by total, highest first.
func CategoryStats(txs []ledger.Transaction, month string) CategoryReport {
	index := make(map[string]*CategoryStat)
	var rep CategoryReport

	for _, t := range txs {
		if !t.IsExpense() || t.Month() != month {
			continue
		}
		name := expenseCategory(t)
		st, ok := index[name]
		if !ok {
			st = &CategoryStat{Name: name}
			index[name] = st
		}
		st.add(t.PaymentMethod, t.Amount)
		rep.Summary.add(t.PaymentMethod, t.Amount)
	}

	rep.Categories = make([]CategoryStat, 0, len(index))
	for _, st := range index {
		rep.Categories = append(rep.Categories, *st)
	}
	sort.Slice(rep.Categories, func(i, j int) bool {
		if rep.Categories[i].Total != rep.Categories[j].Total {
			return rep.Categories[i].Total > rep.Categories[j].Total
		}
		return rep.Categories[i].Name < rep.Categories[j].Name
	})
	return rep
}

// ItemDrillDown groups the month's expenses matching f by cleaned item name.
// An empty filter yields nothing.
func ItemDrillDown(txs []ledger.Transaction, month string, f ItemFilter) []ItemStat {
	if f.Category == "" && f.Method == "" {
		return []ItemStat{}
	}
	index := make(map[string]*ItemStat)
	for _, t := range txs {
		if !t.IsExpense() || t.Month() != month || !f.match(t) {
			continue
		}
		name := ledger.CleanItemName(t.Description)
		st, ok := index[name]
		if !ok {
			st = &ItemStat{Name: name}
			index[name] = st
		}
		st.Total += t.Amount
		st.Count++
	}

	out := make([]ItemStat, 0, len(index))
	for _, st := range index {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ItemHistory returns the month's expense rows behind one cleaned item name, newest first.
func ItemHistory(txs []ledger.Transaction, month, item string, f ItemFilter) []ledger.Transaction {
	out := []ledger.Transaction{}
	for _, t := range txs {
		if !t.IsExpense() || t.Month() != month || !f.match(t) {
			continue
		}
		if ledger.CleanItemName(t.Description) == item {
			out = append(out, t)
		}
	}
	sortNewestFirst(out)
	return out
}
