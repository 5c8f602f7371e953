// Package stockopname runs the monthly physical inventory count of the
// bookkeeping items.
package stockopname

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"kopikeliling/internal/core/apperror"
	"kopikeliling/internal/core/id"
	"kopikeliling/internal/core/types"
	"kopikeliling/internal/domain/ledger"
	"kopikeliling/internal/domain/records"
	"kopikeliling/pkg/logger"
)

// LatestPrice returns the unit price of the newest expense mentioning item,
// or zero when it was never bought. Rows without qty count as one unit.
func LatestPrice(txs []ledger.Transaction, item string) types.Rupiah {
	var (
		latest ledger.Transaction
		found  bool
	)
	for _, t := range txs {
		if !t.IsExpense() || !strings.Contains(t.Description, item) {
			continue
		}
		if !found || t.Date.After(latest.Date) {
			latest, found = t, true
		}
	}
	if !found {
		return 0
	}
	qty := latest.Qty
	if qty <= 0 {
		qty = 1
	}
	return types.RoundRupiah(decimal.NewFromInt(latest.Amount).Div(decimal.NewFromInt(qty)))
}

// DraftLine is one item of the count form.
type DraftLine struct {
	ItemID   string        `json:"itemId"`
	ItemName string        `json:"itemName"`
	Category string        `json:"category"`
	Qty      types.Decimal `json:"qty"`
	Price    types.Rupiah  `json:"price"`
	Counted  bool          `json:"counted"`
}

// Draft is the prefilled count form of a month.
type Draft struct {
	Month    string      `json:"month"`
	Lines    []DraftLine `json:"lines"`
	Note     string      `json:"note,omitempty"`
	Existing bool        `json:"existing"`
}

// BuildDraft lists every bookkeeping item, taking counts from the month's
// saved opname and prices from the latest purchase otherwise.
func BuildDraft(items []ledger.BookkeepingItem, txs []ledger.Transaction, opnames []ledger.StockOpname, month string) Draft {
	dr := Draft{Month: month, Lines: make([]DraftLine, 0, len(items))}
	var existing *ledger.StockOpname
	for i := range opnames {
		if opnames[i].Month == month {
			existing = &opnames[i]
			dr.Existing = true
			dr.Note = existing.Note
			break
		}
	}

	for _, it := range items {
		line := DraftLine{ItemID: it.ID, ItemName: it.Name, Category: it.Category}
		if rec, ok := recordFor(existing, it); ok {
			line.Qty = rec.Qty
			line.Price = rec.Price
			line.Counted = true
		} else {
			line.Price = LatestPrice(txs, it.Name)
		}
		dr.Lines = append(dr.Lines, line)
	}
	return dr
}

func recordFor(so *ledger.StockOpname, it ledger.BookkeepingItem) (ledger.StockOpnameRecord, bool) {
	if so == nil {
		return ledger.StockOpnameRecord{}, false
	}
	for _, r := range so.Records {
		if r.ItemID == it.ID || r.ItemName == it.Name {
			return r, true
		}
	}
	return ledger.StockOpnameRecord{}, false
}

// Count is one counted item.
type Count struct {
	ItemID string        `json:"itemId"`
	Qty    types.Decimal `json:"qty"`
	Price  types.Rupiah  `json:"price"`
}

// SaveRequest is a submitted count.
type SaveRequest struct {
	Month  string  `json:"month"`
	Counts []Count `json:"counts"`
	Note   string  `json:"note,omitempty"`
}

// Service stores opnames through the Record Store.
type Service struct {
	store *records.Store
	now   func() time.Time
}

// NewService creates a stock opname service.
func NewService(store *records.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Draft returns the count form for month.
func (s *Service) Draft(_ context.Context, month string) (Draft, error) {
	if _, err := ledger.ParseMonth(month); err != nil {
		return Draft{}, err
	}
	snap := s.store.Snapshot()
	return BuildDraft(snap.BookkeepingItems, snap.Transactions, snap.StockOpnames, month), nil
}

// Save values the counts and replaces the month's opname.
func (s *Service) Save(ctx context.Context, req SaveRequest) (ledger.StockOpname, error) {
	if _, err := ledger.ParseMonth(req.Month); err != nil {
		return ledger.StockOpname{}, err
	}
	if len(req.Counts) == 0 {
		return ledger.StockOpname{}, apperror.NewValidation("enter at least one counted item").WithDetail("field", "counts")
	}

	byID := make(map[string]ledger.BookkeepingItem)
	for _, it := range s.store.Snapshot().BookkeepingItems {
		byID[it.ID] = it
	}

	so := ledger.StockOpname{
		ID:      id.Tagged("so", req.Month),
		Date:    s.now(),
		Month:   req.Month,
		Records: make([]ledger.StockOpnameRecord, 0, len(req.Counts)),
		Note:    req.Note,
	}
	total := decimal.Zero
	for i, c := range req.Counts {
		it, ok := byID[c.ItemID]
		if !ok {
			return ledger.StockOpname{}, apperror.NewNotFound("bookkeeping item", c.ItemID).WithDetail("index", i)
		}
		value := c.Qty.Mul(decimal.NewFromInt(c.Price))
		total = total.Add(value)
		so.Records = append(so.Records, ledger.StockOpnameRecord{
			ItemID:   it.ID,
			ItemName: it.Name,
			Category: it.Category,
			Qty:      c.Qty,
			Price:    c.Price,
			Total:    types.RoundRupiah(value),
		})
	}
	so.TotalValue = types.RoundRupiah(total)

	if err := so.Validate(ctx); err != nil {
		return ledger.StockOpname{}, err
	}
	if err := s.store.UpsertStockOpname(ctx, so); err != nil {
		return ledger.StockOpname{}, err
	}
	logger.Info(ctx, "stock opname saved", "month", so.Month, "items", len(so.Records), "value", so.TotalValue)
	return so, nil
}

// List returns every opname, newest month first.
func (s *Service) List(_ context.Context) []ledger.StockOpname {
	out := append([]ledger.StockOpname(nil), s.store.Snapshot().StockOpnames...)
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	return out
}

// Delete removes one opname.
func (s *Service) Delete(ctx context.Context, opnameID string) error {
	if err := s.store.DeleteStockOpname(ctx, opnameID); err != nil {
		return err
	}
	logger.Info(ctx, "stock opname deleted", "id", opnameID)
	return nil
}
