// Package payroll estimates rider salaries from the ledger and records payments.
package payroll

import (
	"sort"
	"strings"

	"kopikeliling/internal/core/types"
	"kopikeliling/internal/domain/ledger"
	"kopikeliling/internal/domain/policy"
)

// Estimate is one rider's salary for one month.
type Estimate struct {
	RiderID    string       `json:"riderId"`
	RiderName  string       `json:"riderName"`
	Month      string       `json:"month"`
	TotalCups  int64        `json:"totalCups"`
	TotalMeal  types.Rupiah `json:"totalMeal"`
	Commission types.Rupiah `json:"commission"`
	Kasbon     types.Rupiah `json:"kasbon"`
	NetSalary  types.Rupiah `json:"netSalary"`
	Paid       bool         `json:"paid"`
	PaymentID  string       `json:"paymentId,omitempty"`
}

// DayLine is one day of a rider's earnings.
type DayLine struct {
	Date       string       `json:"date"`
	Cups       int64        `json:"cups"`
	Commission types.Rupiah `json:"commission"`
	Meal       types.Rupiah `json:"meal"`
	Total      types.Rupiah `json:"total"`
}

// Breakdown details an estimate per day, with the kasbon rows deducted.
type Breakdown struct {
	Estimate
	Days       []DayLine            `json:"days"`
	KasbonRows []ledger.Transaction `json:"kasbonRows"`
}

// Payment finds the row that paid rider for month. Rows carrying a salary
// reference match on rider and period; older rows match when the description
// names "Gaji <rider>" and the month label.
func Payment(txs []ledger.Transaction, rider ledger.Rider, month string) (ledger.Transaction, bool) {
	legacyName := "Gaji " + rider.Name
	label := ledger.MonthLabel(month)
	for _, t := range txs {
		if !t.IsExpense() {
			continue
		}
		if ref := t.Salary; ref != nil {
			sameRider := ref.RiderID == rider.ID || (ref.RiderID == "" && ref.RiderName == rider.Name)
			if sameRider && ref.Period == month {
				return t, true
			}
			continue
		}
		if t.Category == ledger.CategorySalary &&
			strings.Contains(t.Description, legacyName) &&
			strings.Contains(t.Description, label) {
			return t, true
		}
	}
	return ledger.Transaction{}, false
}

// EstimateRider computes commission plus meal minus kasbon, floored at zero.
func EstimateRider(txs []ledger.Transaction, rider ledger.Rider, month string, p policy.Policy) Estimate {
	e := Estimate{RiderID: rider.ID, RiderName: rider.Name, Month: month}
	for _, t := range txs {
		if t.RiderName != rider.Name || t.Month() != month {
			continue
		}
		switch {
		case t.IsIncome():
			e.TotalCups += t.Cups()
			e.TotalMeal += t.MealCost
		case t.Category == ledger.CategoryKasbon:
			e.Kasbon += t.Amount
		}
	}
	e.Commission = p.Commission(e.TotalCups)
	e.NetSalary = max(0, e.Commission+e.TotalMeal-e.Kasbon)
	if pay, ok := Payment(txs, rider, month); ok {
		e.Paid = true
		e.PaymentID = pay.ID
	}
	return e
}

// EstimateAll estimates every rider, in catalog order.
func EstimateAll(txs []ledger.Transaction, riders []ledger.Rider, month string, p policy.Policy) []Estimate {
	out := make([]Estimate, 0, len(riders))
	for _, r := range riders {
		out = append(out, EstimateRider(txs, r, month, p))
	}
	return out
}

// GrandTotal sums the net salary of every estimate.
func GrandTotal(estimates []Estimate) types.Rupiah {
	var total types.Rupiah
	for _, e := range estimates {
		total += e.NetSalary
	}
	return total
}

// PendingSalary sums the net salary of riders not yet paid.
func PendingSalary(estimates []Estimate) types.Rupiah {
	var total types.Rupiah
	for _, e := range estimates {
		if !e.Paid {
			total += e.NetSalary
		}
	}
	return total
}

// BuildBreakdown lists a rider's earning days and kasbon rows, newest first.
func BuildBreakdown(txs []ledger.Transaction, rider ledger.Rider, month string, p policy.Policy) Breakdown {
	b := Breakdown{
		Estimate:   EstimateRider(txs, rider, month, p),
		Days:       []DayLine{},
		KasbonRows: []ledger.Transaction{},
	}
	days := make(map[string]*DayLine)
	for _, t := range txs {
		if t.RiderName != rider.Name || t.Month() != month {
			continue
		}
		if t.IsExpense() {
			if t.Category == ledger.CategoryKasbon {
				b.KasbonRows = append(b.KasbonRows, t)
			}
			continue
		}
		d, ok := days[t.Day()]
		if !ok {
			d = &DayLine{Date: t.Day()}
			days[t.Day()] = d
		}
		d.Cups += t.Cups()
		d.Meal += t.MealCost
	}
	for _, d := range days {
		d.Commission = p.Commission(d.Cups)
		d.Total = d.Commission + d.Meal
		b.Days = append(b.Days, *d)
	}
	sort.Slice(b.Days, func(i, j int) bool { return b.Days[i].Date > b.Days[j].Date })
	sort.SliceStable(b.KasbonRows, func(i, j int) bool { return b.KasbonRows[i].Date.After(b.KasbonRows[j].Date) })
	return b
}
