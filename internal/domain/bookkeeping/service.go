// Package bookkeeping records house purchases and rider cash advances paid
// outside the daily recap.
package bookkeeping

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"kopikeliling/internal/core/apperror"
	"kopikeliling/internal/core/id"
	"kopikeliling/internal/core/types"
	"kopikeliling/internal/domain/ledger"
	"kopikeliling/internal/domain/records"
	"kopikeliling/pkg/logger"
)

// IDPrefix marks rows written by this package.
const IDPrefix = "book"

const (
	kasbonPrefix   = "Kasbon: "
	feeDescription = "Biaya Admin Transfer Belanja"
)

// Line is one cart entry. Kasbon lines name a rider instead of an item.
type Line struct {
	Category  string               `json:"category"`
	Item      string               `json:"item,omitempty"`
	RiderName string               `json:"riderName,omitempty"`
	Qty       int64                `json:"qty"`
	UnitPrice types.Rupiah         `json:"unitPrice"`
	Method    ledger.PaymentMethod `json:"method,omitempty"`
	Note      string               `json:"note,omitempty"`
}

// Amount is qty × unit price.
func (l Line) Amount() types.Rupiah { return l.Qty * l.UnitPrice }

// IsKasbon reports whether the line is a cash advance.
func (l Line) IsKasbon() bool { return l.Category == ledger.CategoryKasbon }

// Description renders the ledger text of the line.
func (l Line) Description() string {
	if l.IsKasbon() {
		return kasbonPrefix + l.RiderName
	}
	return fmt.Sprintf("Belanja %s: %s (%dx%d)", l.Category, strings.TrimSpace(l.Item), l.Qty, l.UnitPrice)
}

func (l *Line) normalize(fallback ledger.PaymentMethod) {
	l.Category = strings.TrimSpace(l.Category)
	if l.Category == "" {
		l.Category = ledger.CategoryOtherBook
	}
	if l.IsKasbon() && l.RiderName == "" {
		l.RiderName = strings.TrimSpace(l.Item)
	}
	if l.Method == "" {
		l.Method = fallback
	}
}

func (l Line) validate(i int) error {
	if l.Qty <= 0 {
		return apperror.NewValidation("qty must be positive").WithDetail("index", i)
	}
	if l.UnitPrice <= 0 {
		return apperror.NewValidation("unit price must be positive").WithDetail("index", i)
	}
	if !l.Method.Valid() {
		return apperror.NewValidation("unknown payment method").WithDetail("index", i).WithDetail("method", l.Method)
	}
	if l.IsKasbon() {
		if strings.TrimSpace(l.RiderName) == "" {
			return apperror.NewValidation("kasbon needs a rider").WithDetail("index", i)
		}
		return nil
	}
	if strings.TrimSpace(l.Item) == "" {
		return apperror.NewValidation("item name is required").WithDetail("index", i)
	}
	return nil
}

func (l Line) row(txID string, date time.Time) ledger.Transaction {
	row := ledger.Transaction{
		ID:            txID,
		Date:          date,
		Type:          ledger.Expense,
		Amount:        l.Amount(),
		PaymentMethod: l.Method,
		Description:   l.Description(),
		Category:      l.Category,
		Qty:           l.Qty,
		Notes:         l.Note,
	}
	if l.IsKasbon() {
		row.RiderName = l.RiderName
	}
	return row
}

// LineOf recovers the editable line of a stored row.
func LineOf(t ledger.Transaction) Line {
	l := Line{
		Category: t.CategoryOr(ledger.CategoryOtherBook),
		Qty:      t.Qty,
		Method:   t.PaymentMethod,
		Note:     t.Notes,
	}
	if l.Qty <= 0 {
		l.Qty = 1
	}
	l.UnitPrice = t.Amount / l.Qty

	switch {
	case strings.HasPrefix(t.Description, kasbonPrefix):
		l.RiderName = strings.TrimPrefix(t.Description, kasbonPrefix)
		if t.RiderName != "" {
			l.RiderName = t.RiderName
		}
	case strings.Contains(t.Description, ": "):
		name := strings.SplitN(t.Description, ": ", 2)[1]
		if cut := strings.Index(name, " ("); cut >= 0 {
			name = name[:cut]
		}
		l.Item = name
	default:
		l.Item = t.Description
	}
	return l
}

// PurchaseRequest is a checked-out cart.
type PurchaseRequest struct {
	Date     string               `json:"date"`
	Method   ledger.PaymentMethod `json:"method"`
	Lines    []Line               `json:"lines"`
	AdminFee types.Rupiah         `json:"adminFee"`
}

// Day groups one day of bookkeeping rows.
type Day struct {
	Date  string               `json:"date"`
	Total types.Rupiah         `json:"total"`
	Rows  []ledger.Transaction `json:"rows"`
}

// Service writes purchases through the Record Store.
type Service struct {
	store *records.Store
	now   func() time.Time
}

// NewService creates a bookkeeping service.
func NewService(store *records.Store) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) dateOf(day string) (time.Time, error) {
	if day == "" {
		return s.now(), nil
	}
	return ledger.AtDay(day, s.now())
}

// Purchase writes one EXPENSE row per line plus the admin fee row, in one mutation.
func (s *Service) Purchase(ctx context.Context, req PurchaseRequest) ([]ledger.Transaction, error) {
	if len(req.Lines) == 0 {
		return nil, apperror.NewValidation("cart is empty").WithDetail("field", "lines")
	}
	if req.Method == "" {
		req.Method = ledger.Cash
	}
	if req.AdminFee < 0 {
		return nil, apperror.NewValidation("admin fee must not be negative").WithDetail("field", "adminFee")
	}
	date, err := s.dateOf(req.Date)
	if err != nil {
		return nil, err
	}

	rows := make([]ledger.Transaction, 0, len(req.Lines)+1)
	for i, l := range req.Lines {
		l.normalize(req.Method)
		if err := l.validate(i); err != nil {
			return nil, err
		}
		rows = append(rows, l.row(id.Tagged(IDPrefix, fmt.Sprint(i)), date))
	}
	if req.AdminFee > 0 {
		rows = append(rows, ledger.Transaction{
			ID:            id.Tagged(IDPrefix, "fee"),
			Date:          date,
			Type:          ledger.Expense,
			Amount:        req.AdminFee,
			PaymentMethod: ledger.Transfer,
			Description:   feeDescription,
			Category:      ledger.CategoryOtherBook,
		})
	}

	if err := s.store.AddTransactions(ctx, rows...); err != nil {
		return nil, err
	}
	var total types.Rupiah
	for _, r := range rows {
		total += r.Amount
	}
	logger.Info(ctx, "purchase recorded", "rows", len(rows), "total", total)
	return rows, nil
}

// Update rewrites one stored bookkeeping row from an edited line.
func (s *Service) Update(ctx context.Context, txID, day string, l Line) (ledger.Transaction, error) {
	l.normalize(ledger.Cash)
	if err := l.validate(0); err != nil {
		return ledger.Transaction{}, err
	}
	var row ledger.Transaction
	err := s.store.Mutate(ctx, "bookkeeping.update", func(d *records.Dataset) error {
		i := d.FindTransaction(txID)
		if i < 0 || !d.Transactions[i].IsExpense() {
			return apperror.NewNotFound("purchase", txID)
		}
		date := d.Transactions[i].Date
		if day != "" {
			var err error
			if date, err = ledger.AtDay(day, date); err != nil {
				return err
			}
		}
		row = l.row(txID, date)
		d.Transactions[i] = row
		return nil
	})
	if err != nil {
		return ledger.Transaction{}, err
	}
	logger.Info(ctx, "purchase updated", "id", txID, "amount", row.Amount)
	return row, nil
}

// History groups the month's bookkeeping rows per day, newest first. A row
// belongs to bookkeeping when this package wrote it or its category is one
// of the bookkeeping categories.
func (s *Service) History(_ context.Context, month string) ([]Day, error) {
	if _, err := ledger.ParseMonth(month); err != nil {
		return nil, err
	}
	snap := s.store.Snapshot()
	return History(snap.Transactions, Categories(snap.BookkeepingItems), month), nil
}

// Categories lists the bookkeeping categories: the catalog's, then Kasbon and Lainnya.
func Categories(items []ledger.BookkeepingItem) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(c string) {
		if _, ok := seen[c]; ok || c == "" {
			return
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	for _, it := range items {
		add(it.Category)
	}
	add(ledger.CategoryKasbon)
	add(ledger.CategoryOtherBook)
	return out
}

// History is the pure form of Service.History.
func History(txs []ledger.Transaction, categories []string, month string) []Day {
	known := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		known[c] = struct{}{}
	}
	index := make(map[string]*Day)
	for _, t := range txs {
		if !t.IsExpense() || t.Month() != month {
			continue
		}
		_, listed := known[t.Category]
		if !listed && !strings.HasPrefix(t.ID, IDPrefix+"-") {
			continue
		}
		d, ok := index[t.Day()]
		if !ok {
			d = &Day{Date: t.Day()}
			index[t.Day()] = d
		}
		d.Total += t.Amount
		d.Rows = append(d.Rows, t)
	}

	out := make([]Day, 0, len(index))
	for _, d := range index {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}
