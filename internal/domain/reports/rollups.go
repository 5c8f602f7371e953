package reports

import (
	"sort"

	"kopikeliling/internal/core/types"
	"kopikeliling/internal/domain/ledger"
)

// DailyRollup covers every calendar day of month, zero-activity days included.
// COH sums the cash counts declared that day.
func DailyRollup(txs []ledger.Transaction, month string) (DailyReport, error) {
	days, err := ledger.DaysInMonth(month)
	if err != nil {
		return DailyReport{}, err
	}
	rows := make([]DailyRow, len(days))
	index := make(map[string]int, len(days))
	for i, d := range days {
		rows[i] = DailyRow{Date: d}
		index[d] = i
	}

	for _, t := range txs {
		i, ok := index[t.Day()]
		if !ok {
			continue
		}
		r := &rows[i]
		if t.IsIncome() {
			r.Omset += t.Amount
			if !t.PaymentMethod.IsCash() {
				r.QRIS += t.Amount
			}
			if t.ActualCash != nil {
				r.COH += *t.ActualCash
			}
			continue
		}
		r.Expense += t.Amount
	}

	rep := DailyReport{Days: rows}
	for _, r := range rows {
		rep.Totals.Omset += r.Omset
		rep.Totals.Expense += r.Expense
		rep.Totals.QRIS += r.QRIS
		rep.Totals.COH += r.COH
	}
	return rep, nil
}

// RiderRollup groups the month's rider rows, with a per-day breakdown newest
// first. Rows without a rider are skipped.
func RiderRollup(txs []ledger.Transaction, month string) []RiderStat {
	type acc struct {
		stat RiderStat
		days map[string]*RiderDay
	}
	index := make(map[string]*acc)

	for _, t := range txs {
		if t.RiderName == "" || t.Month() != month {
			continue
		}
		a, ok := index[t.RiderName]
		if !ok {
			a = &acc{stat: RiderStat{Name: t.RiderName}, days: make(map[string]*RiderDay)}
			index[t.RiderName] = a
		}
		d, ok := a.days[t.Day()]
		if !ok {
			d = &RiderDay{Date: t.Day()}
			a.days[t.Day()] = d
		}
		if t.IsIncome() {
			cups := t.Cups()
			a.stat.TotalOmset += t.Amount
			a.stat.TotalCups += cups
			d.Omset += t.Amount
			d.Cups += cups
			if t.ActualCash != nil {
				d.COH = *t.ActualCash
			}
			continue
		}
		a.stat.TotalExpense += t.Amount
		d.Expense += t.Amount
	}

	out := make([]RiderStat, 0, len(index))
	for _, a := range index {
		st := a.stat
		st.Days = make([]RiderDay, 0, len(a.days))
		for _, d := range a.days {
			st.Days = append(st.Days, *d)
		}
		sort.Slice(st.Days, func(i, j int) bool { return st.Days[i].Date > st.Days[j].Date })
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// QRISMatrix sums the month's non-cash rider income per date × rider.
func QRISMatrix(txs []ledger.Transaction, month string) Matrix {
	return buildMatrix(txs, month, func(t ledger.Transaction) (types.Rupiah, bool) {
		return t.Amount, !t.PaymentMethod.IsCash()
	}, func(cur, v types.Rupiah) types.Rupiah { return cur + v })
}

// COHMatrix holds the declared cash count per date × rider. Cells take the
// max, since several rows of one recap may repeat the same count.
func COHMatrix(txs []ledger.Transaction, month string) Matrix {
	return buildMatrix(txs, month, func(t ledger.Transaction) (types.Rupiah, bool) {
		if t.ActualCash == nil {
			return 0, false
		}
		return *t.ActualCash, true
	}, func(cur, v types.Rupiah) types.Rupiah { return max(cur, v) })
}

func buildMatrix(
	txs []ledger.Transaction,
	month string,
	value func(ledger.Transaction) (types.Rupiah, bool),
	merge func(cur, v types.Rupiah) types.Rupiah,
) Matrix {
	m := Matrix{
		Cells:          make(map[string]map[string]types.Rupiah),
		TotalsPerRider: make(map[string]types.Rupiah),
	}
	riders := make(map[string]struct{})

	for _, t := range txs {
		if !t.IsIncome() || t.RiderName == "" || t.Month() != month {
			continue
		}
		v, ok := value(t)
		if !ok {
			continue
		}
		day := t.Day()
		row, ok := m.Cells[day]
		if !ok {
			row = make(map[string]types.Rupiah)
			m.Cells[day] = row
		}
		row[t.RiderName] = merge(row[t.RiderName], v)
		riders[t.RiderName] = struct{}{}
	}

	for d := range m.Cells {
		m.Dates = append(m.Dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(m.Dates)))
	for r := range riders {
		m.Riders = append(m.Riders, r)
	}
	sort.Strings(m.Riders)

	for _, r := range m.Riders {
		var total types.Rupiah
		for _, d := range m.Dates {
			total += m.Cells[d][r]
		}
		m.TotalsPerRider[r] = total
	}
	return m
}
