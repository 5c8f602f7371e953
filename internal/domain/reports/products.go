package reports

import (
	"sort"

	"kopikeliling/internal/domain/ledger"
)

// ProductStats tallies the month's sold line items per product name. Every
// catalog product is listed, sold or not; names without a product are tallied
// under UnknownCategory with zero price. Sorted by qty, highest first.
func ProductStats(txs []ledger.Transaction, products []ledger.Product, month string) []ProductStat {
	byName := make(map[string]ledger.Product, len(products))
	stats := make(map[string]*ProductStat, len(products))
	order := make([]string, 0, len(products))

	for _, p := range products {
		byName[p.Name] = p
		if _, ok := stats[p.Name]; !ok {
			stats[p.Name] = &ProductStat{Name: p.Name, Category: p.Category}
			order = append(order, p.Name)
		}
	}

	for _, t := range txs {
		if !t.IsIncome() || t.Month() != month {
			continue
		}
		for _, li := range t.Items() {
			st, ok := stats[li.Name]
			if !ok {
				st = &ProductStat{Name: li.Name, Category: UnknownCategory}
				stats[li.Name] = st
				order = append(order, li.Name)
			}
			p := byName[li.Name]
			st.Qty += li.Qty
			st.Revenue += li.Qty * p.Price
			st.Profit += li.Qty * (p.Price - p.HPP)
		}
	}

	out := make([]ProductStat, 0, len(order))
	for _, name := range order {
		out = append(out, *stats[name])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Qty > out[j].Qty })
	return out
}

// TopProducts returns the first n entries of stats.
func TopProducts(stats []ProductStat, n int) []ProductStat {
	if n < 0 {
		n = 0
	}
	if len(stats) < n {
		n = len(stats)
	}
	return stats[:n]
}
