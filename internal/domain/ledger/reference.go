package ledger

import (
	"context"
	"time"

	"kopikeliling/internal/core/apperror"
	"kopikeliling/internal/core/entity"
	"kopikeliling/internal/core/types"
)

// Product is a menu item.
type Product struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Price    types.Rupiah `json:"price"`
	Category string       `json:"category"`
	HPP      types.Rupiah `json:"hpp,omitempty"`
}

func (p Product) GetID() string { return p.ID }

func (p Product) WithID(v string) Product { p.ID = v; return p }

func (p Product) Validate(_ context.Context) error {
	return entity.FirstError(
		entity.RequireText("name", p.Name),
		entity.RequireNonNegative("price", p.Price),
		entity.RequireNonNegative("hpp", p.HPP),
	)
}

// RiderStatus is the employment state of a rider.
type RiderStatus string

const (
	RiderActive   RiderStatus = "ACTIVE"
	RiderInactive RiderStatus = "INACTIVE"
)

// Rider is a mobile seller.
type Rider struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Phone  string      `json:"phone,omitempty"`
	Status RiderStatus `json:"status"`
}

func (r Rider) GetID() string { return r.ID }

func (r Rider) WithID(v string) Rider { r.ID = v; return r }

func (r Rider) Validate(_ context.Context) error {
	if err := entity.RequireText("name", r.Name); err != nil {
		return err
	}
	if r.Status != RiderActive && r.Status != RiderInactive {
		return apperror.NewValidation("unknown rider status").WithDetail("status", r.Status)
	}
	return nil
}

// ExpenseItem is a selectable rider expense.
type ExpenseItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

func (e ExpenseItem) GetID() string { return e.ID }

func (e ExpenseItem) WithID(v string) ExpenseItem { e.ID = v; return e }

func (e ExpenseItem) Validate(_ context.Context) error {
	if err := entity.RequireText("name", e.Name); err != nil {
		return err
	}
	switch e.Category {
	case CategoryRawMaterial, CategoryOperational, CategorySalary, CategoryOther:
		return nil
	}
	return apperror.NewValidation("unknown expense category").WithDetail("category", e.Category)
}

// BookkeepingItem is a house purchase item grouped by category.
type BookkeepingItem struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Name     string `json:"name"`
}

func (b BookkeepingItem) GetID() string { return b.ID }

func (b BookkeepingItem) WithID(v string) BookkeepingItem { b.ID = v; return b }

func (b BookkeepingItem) Validate(_ context.Context) error {
	return entity.FirstError(
		entity.RequireText("name", b.Name),
		entity.RequireText("category", b.Category),
	)
}

// Capital is the singleton opening balance. Current balances are always recomputed.
type Capital struct {
	InitialCash     types.Rupiah `json:"initialCash"`
	InitialBank     types.Rupiah `json:"initialBank"`
	InitialCupStock int64        `json:"initialCupStock,omitempty"`
	Month           string       `json:"month"`
	OwnerNote       string       `json:"ownerNote,omitempty"`
}

func (c Capital) Validate(_ context.Context) error {
	if c.Month != "" {
		if _, err := ParseMonth(c.Month); err != nil {
			return err
		}
	}
	return entity.FirstError(
		entity.RequireNonNegative("initialCash", c.InitialCash),
		entity.RequireNonNegative("initialBank", c.InitialBank),
		entity.RequireNonNegative("initialCupStock", c.InitialCupStock),
	)
}

// BankReconciliation stores the bank statement QRIS amount for one date.
// SystemQRISAmount is a snapshot taken at save time and is historical only.
type BankReconciliation struct {
	ID               string       `json:"id"`
	Date             string       `json:"date"`
	ManualQRISAmount types.Rupiah `json:"manualQrisAmount"`
	SystemQRISAmount types.Rupiah `json:"systemQrisAmount"`
	Variance         types.Rupiah `json:"variance"`
	Note             string       `json:"note,omitempty"`
}

func (b BankReconciliation) GetID() string { return b.ID }

func (b BankReconciliation) Validate(_ context.Context) error {
	if _, err := ParseDay(b.Date); err != nil {
		return err
	}
	return entity.RequireNonNegative("manualQrisAmount", b.ManualQRISAmount)
}

// StockOpnameRecord is one counted line of a stock audit.
type StockOpnameRecord struct {
	ItemID   string        `json:"itemId"`
	ItemName string        `json:"itemName"`
	Category string        `json:"category"`
	Qty      types.Decimal `json:"qty"`
	Price    types.Rupiah  `json:"price"`
	Total    types.Rupiah  `json:"total"`
}

// StockOpname is the monthly physical inventory count.
type StockOpname struct {
	ID         string              `json:"id"`
	Date       time.Time           `json:"date"`
	Month      string              `json:"month"`
	Records    []StockOpnameRecord `json:"records"`
	TotalValue types.Rupiah        `json:"totalValue"`
	Note       string              `json:"note,omitempty"`
}

func (s StockOpname) GetID() string { return s.ID }

func (s StockOpname) Validate(_ context.Context) error {
	if _, err := ParseMonth(s.Month); err != nil {
		return err
	}
	if len(s.Records) == 0 {
		return apperror.NewValidation("stock opname needs at least one counted item")
	}
	for i, r := range s.Records {
		if r.Qty.IsNegative() || r.Price < 0 {
			return apperror.NewValidation("stock opname line must not be negative").
				WithDetail("index", i).
				WithDetail("item", r.ItemName)
		}
	}
	return nil
}
