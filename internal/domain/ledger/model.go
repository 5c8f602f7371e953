// Package ledger defines the records kept by the bookkeeping core: the
// Transaction ledger plus the reference and audit entities around it.
package ledger

import (
	"context"
	"strings"
	"time"

	"kopikeliling/internal/core/apperror"
	"kopikeliling/internal/core/entity"
	"kopikeliling/internal/core/types"
)

// TxType is the sign convention for all money math.
type TxType string

const (
	Income  TxType = "INCOME"
	Expense TxType = "EXPENSE"
)

// Valid reports whether t is a known type.
func (t TxType) Valid() bool {
	return t == Income || t == Expense
}

// PaymentMethod is the bucket a transaction moves money through.
type PaymentMethod string

const (
	Cash     PaymentMethod = "CASH"
	QRIS     PaymentMethod = "QRIS"
	Transfer PaymentMethod = "TRANSFER"
)

// Valid reports whether m is a known method.
func (m PaymentMethod) Valid() bool {
	return m == Cash || m == QRIS || m == Transfer
}

// IsCash reports whether m is the cash bucket. QRIS and TRANSFER share the bank bucket.
func (m PaymentMethod) IsCash() bool {
	return m == Cash
}

// Well-known categories.
const (
	CategoryRawMaterial = "BAHAN_BAKU"
	CategoryOperational = "OPERASIONAL"
	CategorySalary      = "GAJI"
	CategoryOther       = "LAINNYA"

	CategoryProduction = "Produksi"
	CategorySyrup      = "Sirup"
	CategoryAsset      = "Aset"
	CategoryKasbon     = "Kasbon"
	CategoryOtherBook  = "Lainnya"
	CategorySalaryAlt  = "Gaji"
	CategoryCorrection = "Koreksi Saldo"
)

// IsSalaryCategory matches both spellings used for payroll rows.
func IsSalaryCategory(c string) bool {
	return c == CategorySalary || c == CategorySalaryAlt
}

// IsSynthetic reports whether a category marks rows that are excluded from
// recap grouping and cost analysis (payroll and balance corrections).
func IsSynthetic(c string) bool {
	return IsSalaryCategory(c) || c == CategoryCorrection
}

// HouseRider labels rows without a rider.
const HouseRider = "Umum"

// LineItem is one product line of a sales batch.
type LineItem struct {
	Name string `json:"name"`
	Qty  int64  `json:"qty"`
}

// CorrectionKind scopes a balancing correction.
type CorrectionKind string

const (
	// CorrectionCashRecap balances a rider-day cash count.
	CorrectionCashRecap CorrectionKind = "CASH_RECAP"
	// CorrectionBankQRIS balances the house-wide QRIS total against the bank statement.
	CorrectionBankQRIS CorrectionKind = "BANK_QRIS"
)

// CorrectionRef identifies the subject a correction row balances.
// At most one correction row exists per key.
type CorrectionRef struct {
	Date      string         `json:"date"`
	RiderName string         `json:"riderName,omitempty"`
	Kind      CorrectionKind `json:"kind"`
}

// Key returns the idempotency key "kind|date|rider".
func (c CorrectionRef) Key() string {
	return string(c.Kind) + "|" + c.Date + "|" + c.RiderName
}

// SalaryRef marks a payroll payment for one rider and month.
type SalaryRef struct {
	RiderID   string `json:"riderId"`
	RiderName string `json:"riderName"`
	Period    string `json:"period"`
}

// Transaction is the only mutable ledger entity.
type Transaction struct {
	ID            string        `json:"id"`
	Date          time.Time     `json:"date"`
	Type          TxType        `json:"type"`
	Amount        types.Rupiah  `json:"amount"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Description   string        `json:"description"`
	Category      string        `json:"category,omitempty"`
	RiderName     string        `json:"riderName,omitempty"`
	Qty           int64         `json:"qty,omitempty"`
	ActualCash    *types.Rupiah `json:"actualCash,omitempty"`
	Variance      *types.Rupiah `json:"variance,omitempty"`
	MealCost      types.Rupiah  `json:"mealCost,omitempty"`
	Notes         string        `json:"notes,omitempty"`

	LineItems    []LineItem     `json:"lineItems,omitempty"`
	RecapBatchID string         `json:"recapBatchId,omitempty"`
	Correction   *CorrectionRef `json:"correction,omitempty"`
	Salary       *SalaryRef     `json:"salary,omitempty"`
}

// GetID implements entity.Identified.
func (t Transaction) GetID() string { return t.ID }

// Day returns the YYYY-MM-DD key.
func (t Transaction) Day() string { return DayKey(t.Date) }

// Month returns the YYYY-MM key.
func (t Transaction) Month() string { return MonthKey(t.Date) }

// Signed returns the cash-flow impact: +amount for income, -amount for expense.
func (t Transaction) Signed() types.Rupiah {
	if t.Type == Expense {
		return -t.Amount
	}
	return t.Amount
}

// IsIncome and IsExpense are shorthands used by the aggregations.
func (t Transaction) IsIncome() bool  { return t.Type == Income }
func (t Transaction) IsExpense() bool { return t.Type == Expense }

// CategoryOr returns the category or fallback when empty.
func (t Transaction) CategoryOr(fallback string) string {
	if t.Category == "" {
		return fallback
	}
	return t.Category
}

// RiderOrHouse returns the rider name or HouseRider.
func (t Transaction) RiderOrHouse() string {
	if t.RiderName == "" {
		return HouseRider
	}
	return t.RiderName
}

// Items returns the structured line items, or the ones recovered from a legacy
// "Detail: " description when the row predates structured items.
func (t Transaction) Items() []LineItem {
	if len(t.LineItems) > 0 {
		return t.LineItems
	}
	return ParseDetail(t.Description)
}

// Cups returns the cup count of an income row, falling back to the line items
// when qty was lost.
func (t Transaction) Cups() int64 {
	if t.Qty > 0 {
		return t.Qty
	}
	var total int64
	for _, li := range t.Items() {
		total += li.Qty
	}
	return total
}

// Matches performs a case-insensitive search over description and category.
func (t Transaction) Matches(search string) bool {
	if search == "" {
		return true
	}
	q := strings.ToLower(search)
	return strings.Contains(strings.ToLower(t.Description), q) ||
		strings.Contains(strings.ToLower(t.Category), q)
}

// Validate implements entity.Validatable.
func (t Transaction) Validate(_ context.Context) error {
	if t.Amount < 0 {
		return apperror.NewInvariantViolation("transaction", t.ID, "amount must not be negative").
			WithDetail("amount", t.Amount)
	}
	if err := entity.RequireText("id", t.ID); err != nil {
		return err
	}
	if t.Date.IsZero() {
		return apperror.NewValidation("date is required").WithDetail("field", "date")
	}
	if !t.Type.Valid() {
		return apperror.NewValidation("unknown transaction type").WithDetail("type", t.Type)
	}
	if !t.PaymentMethod.Valid() {
		return apperror.NewValidation("unknown payment method").WithDetail("paymentMethod", t.PaymentMethod)
	}
	for i, li := range t.LineItems {
		if li.Qty < 0 {
			return apperror.NewValidation("line item qty must not be negative").
				WithDetail("index", i).
				WithDetail("name", li.Name)
		}
	}
	return entity.FirstError(
		entity.RequireNonNegative("qty", t.Qty),
		entity.RequireNonNegative("mealCost", t.MealCost),
	)
}

// Clone returns a deep copy.
func (t Transaction) Clone() Transaction {
	out := t
	if t.ActualCash != nil {
		v := *t.ActualCash
		out.ActualCash = &v
	}
	if t.Variance != nil {
		v := *t.Variance
		out.Variance = &v
	}
	if t.LineItems != nil {
		out.LineItems = append([]LineItem(nil), t.LineItems...)
	}
	if t.Correction != nil {
		c := *t.Correction
		out.Correction = &c
	}
	if t.Salary != nil {
		s := *t.Salary
		out.Salary = &s
	}
	return out
}

// Ptr returns a pointer to an amount, for optional fields.
func Ptr(v types.Rupiah) *types.Rupiah { return &v }
