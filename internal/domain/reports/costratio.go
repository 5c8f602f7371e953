package reports

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"kopikeliling/internal/core/types"
	"kopikeliling/internal/domain/ledger"
	"kopikeliling/internal/domain/policy"
)

// BuildCostRatio compares the month's raw-material spend and estimated labor
// to omset. Payroll and correction rows take no part in the ratios.
func BuildCostRatio(txs []ledger.Transaction, capital ledger.Capital, month string, p policy.Policy) CostRatio {
	cr := CostRatio{
		RawMaterialRows: []ledger.Transaction{},
		Labor:           []LaborEntry{},
		Stock:           BuildStockLevel(txs, capital, month, p),
	}

	for _, t := range txs {
		if t.Month() != month {
			continue
		}
		if ledger.IsSalaryCategory(t.Category) && t.IsExpense() {
			cr.TotalPaidSalary += t.Amount
			cr.Labor = append(cr.Labor, LaborEntry{
				Date:        t.Day(),
				Description: t.Description,
				Amount:      t.Amount,
				Paid:        true,
			})
			continue
		}
		if ledger.IsSynthetic(t.Category) {
			continue
		}

		if t.IsIncome() {
			cr.TotalOmset += t.Amount
			cups := t.Cups()
			estimate := p.Commission(cups) + t.MealCost
			if estimate > 0 {
				rider := t.RiderName
				if rider == "" {
					rider = UnknownCategory
				}
				cr.TotalEstimatedLabor += estimate
				cr.Labor = append(cr.Labor, LaborEntry{
					Date:        t.Day(),
					Description: fmt.Sprintf("Estimasi Beban Gaji Rider (%s) - %d Cup + Makan", rider, cups),
					Amount:      estimate,
				})
			}
			continue
		}
		if p.IsRawMaterial(t.Category, t.Description) {
			cr.TotalRawMaterial += t.Amount
			cr.RawMaterialRows = append(cr.RawMaterialRows, t)
		}
	}

	cr.RawMaterialPct = types.Percent(cr.TotalRawMaterial, cr.TotalOmset)
	cr.LaborPct = types.Percent(cr.TotalEstimatedLabor, cr.TotalOmset)
	cr.RawMaterialOver = cr.RawMaterialPct.GreaterThan(decimal.NewFromInt(p.RawMaterialMaxPct))
	cr.LaborOver = cr.LaborPct.GreaterThan(decimal.NewFromInt(p.LaborMaxPct))

	sortNewestFirst(cr.RawMaterialRows)
	sort.SliceStable(cr.Labor, func(i, j int) bool { return cr.Labor[i].Date > cr.Labor[j].Date })
	return cr
}
