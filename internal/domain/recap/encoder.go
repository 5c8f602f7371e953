// Package recap turns a rider's daily submission into ledger rows and manages
// recaps as units: duplicate detection, replace, delete and history.
package recap

import (
	"fmt"
	"strings"
	"time"

	"kopikeliling/internal/core/apperror"
	"kopikeliling/internal/core/id"
	"kopikeliling/internal/core/types"
	"kopikeliling/internal/domain/ledger"
)

// ExpenseLine is one rider expense paid from cash on hand.
type ExpenseLine struct {
	Name      string       `json:"name"`
	Qty       int64        `json:"qty"`
	UnitPrice types.Rupiah `json:"unitPrice"`
	Category  string       `json:"category"`
	Note      string       `json:"note,omitempty"`
}

// Amount is qty × unit price.
func (e ExpenseLine) Amount() types.Rupiah { return e.Qty * e.UnitPrice }

// Input is a rider's daily recap.
type Input struct {
	Products   []ledger.Product `json:"-"`
	Sold       map[string]int64 `json:"sold"`
	Expenses   []ExpenseLine    `json:"expenses"`
	QRISAmount types.Rupiah     `json:"qrisAmount"`
	ActualCash types.Rupiah     `json:"actualCash"`
	MealCost   types.Rupiah     `json:"mealCost"`
	Note       string           `json:"note,omitempty"`
	Date       time.Time        `json:"date"`
	RiderName  string           `json:"riderName"`
}

// Totals are the figures derived while encoding.
type Totals struct {
	TotalOmset   types.Rupiah `json:"totalOmset"`
	CashSales    types.Rupiah `json:"cashSales"`
	TotalExpense types.Rupiah `json:"totalExpense"`
	ExpectedCash types.Rupiah `json:"expectedCash"`
	Variance     types.Rupiah `json:"variance"`
	TotalCups    int64        `json:"totalCups"`
}

// Result is the encoded recap.
type Result struct {
	BatchID string               `json:"batchId"`
	Rows    []ledger.Transaction `json:"rows"`
	Totals  Totals               `json:"totals"`
	// MetadataDropped is set when the day had no sales, so no income row
	// exists to carry actualCash, variance and mealCost.
	MetadataDropped bool `json:"metadataDropped"`
}

// Encode converts a recap into ledger rows. It never persists anything.
func Encode(in Input) (Result, error) {
	if err := validate(in); err != nil {
		return Result{}, err
	}

	// Product order follows the catalog so the detail text is stable.
	var (
		items  []ledger.LineItem
		totals Totals
	)
	for _, p := range in.Products {
		qty := in.Sold[p.ID]
		if qty <= 0 {
			continue
		}
		items = append(items, ledger.LineItem{Name: p.Name, Qty: qty})
		totals.TotalOmset += qty * p.Price
		totals.TotalCups += qty
	}
	for _, e := range in.Expenses {
		totals.TotalExpense += e.Amount()
	}
	totals.CashSales = totals.TotalOmset - in.QRISAmount
	totals.ExpectedCash = totals.TotalOmset - in.QRISAmount - totals.TotalExpense
	totals.Variance = in.ActualCash - totals.ExpectedCash

	res := Result{BatchID: id.NewString(), Totals: totals}
	rider := in.RiderName
	detail := ledger.FormatDetail(items)

	carrier := func(txID string, amount types.Rupiah, method ledger.PaymentMethod, desc string) ledger.Transaction {
		return ledger.Transaction{
			ID:            txID,
			Date:          in.Date,
			Type:          ledger.Income,
			Amount:        amount,
			PaymentMethod: method,
			Description:   desc,
			RiderName:     rider,
			Qty:           totals.TotalCups,
			ActualCash:    ledger.Ptr(in.ActualCash),
			Variance:      ledger.Ptr(totals.Variance),
			MealCost:      in.MealCost,
			Notes:         in.Note,
			LineItems:     append([]ledger.LineItem(nil), items...),
			RecapBatchID:  res.BatchID,
		}
	}

	switch {
	case totals.CashSales > 0:
		res.Rows = append(res.Rows, carrier(
			id.Tagged("inc", "cash"), totals.CashSales, ledger.Cash,
			fmt.Sprintf("Setoran Tunai %s. %s%s", rider, ledger.DetailSeparator, detail),
		))
		if in.QRISAmount > 0 {
			res.Rows = append(res.Rows, ledger.Transaction{
				ID:            id.Tagged("inc", "qris"),
				Date:          in.Date,
				Type:          ledger.Income,
				Amount:        in.QRISAmount,
				PaymentMethod: ledger.QRIS,
				Description:   "Setoran QRIS/Transfer " + rider,
				RiderName:     rider,
				RecapBatchID:  res.BatchID,
			})
		}
	case in.QRISAmount > 0:
		res.Rows = append(res.Rows, carrier(
			id.Tagged("inc", "qris"), in.QRISAmount, ledger.QRIS,
			fmt.Sprintf("Setoran QRIS Full %s. %s%s", rider, ledger.DetailSeparator, detail),
		))
	default:
		res.MetadataDropped = in.ActualCash != 0 || in.MealCost != 0
	}

	for i, e := range in.Expenses {
		if e.Amount() <= 0 {
			continue
		}
		res.Rows = append(res.Rows, ledger.Transaction{
			ID:            id.Tagged("exp", fmt.Sprint(i)),
			Date:          in.Date,
			Type:          ledger.Expense,
			Amount:        e.Amount(),
			PaymentMethod: ledger.Cash,
			Description:   fmt.Sprintf("Beli %s (%s)", strings.TrimSpace(e.Name), rider),
			Category:      categoryOr(e.Category),
			RiderName:     rider,
			Qty:           e.Qty,
			Notes:         e.Note,
			RecapBatchID:  res.BatchID,
		})
	}
	return res, nil
}

func categoryOr(c string) string {
	if strings.TrimSpace(c) == "" {
		return ledger.CategoryOther
	}
	return c
}

func validate(in Input) error {
	if strings.TrimSpace(in.RiderName) == "" {
		return apperror.NewValidation("rider is required").WithDetail("field", "riderName")
	}
	if in.Date.IsZero() {
		return apperror.NewValidation("date is required").WithDetail("field", "date")
	}
	for field, v := range map[string]types.Rupiah{
		"qrisAmount": in.QRISAmount,
		"actualCash": in.ActualCash,
		"mealCost":   in.MealCost,
	} {
		if v < 0 {
			return apperror.NewValidation(field+" must not be negative").WithDetail("field", field)
		}
	}

	known := make(map[string]ledger.Product, len(in.Products))
	for _, p := range in.Products {
		known[p.ID] = p
	}
	for pid, qty := range in.Sold {
		if qty < 0 {
			return apperror.NewValidation("sold quantity must not be negative").WithDetail("productId", pid)
		}
		if qty == 0 {
			continue
		}
		p, ok := known[pid]
		if !ok {
			return apperror.NewValidation("unknown product").WithDetail("productId", pid)
		}
		if p.Price <= 0 {
			return apperror.NewValidation("product price must be positive").
				WithDetail("productId", pid).
				WithDetail("price", p.Price)
		}
	}

	for i, e := range in.Expenses {
		blank := strings.TrimSpace(e.Name) == ""
		if blank && e.Qty == 0 && e.UnitPrice == 0 {
			continue
		}
		if blank {
			return apperror.NewValidation("expense name is required").WithDetail("index", i)
		}
		if e.Qty <= 0 || e.UnitPrice <= 0 {
			return apperror.NewValidation("expense quantity and price must be positive").
				WithDetail("index", i).
				WithDetail("name", e.Name)
		}
	}
	return nil
}
