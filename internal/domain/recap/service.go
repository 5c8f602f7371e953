package recap

import (
	"context"
	"sort"
	"strings"

	"kopikeliling/internal/core/apperror"
	"kopikeliling/internal/core/types"
	"kopikeliling/internal/domain/ledger"
	"kopikeliling/internal/domain/records"
	"kopikeliling/pkg/logger"
)

// bookkeepingIDPrefix marks house purchases, which never belong to a rider recap.
const bookkeepingIDPrefix = "book-"

// ExpenseDetail is one shopping line shown in the recap history.
type ExpenseDetail struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Amount   types.Rupiah `json:"amount"`
	Category string       `json:"category"`
}

// Group is one recap as reconstructed from the ledger.
type Group struct {
	Key            string            `json:"key"`
	BatchID        string            `json:"batchId,omitempty"`
	Date           string            `json:"date"`
	RiderName      string            `json:"riderName"`
	Cups           int64             `json:"cups"`
	Omset          types.Rupiah      `json:"omset"`
	Shopping       types.Rupiah      `json:"shopping"`
	QRIS           types.Rupiah      `json:"qris"`
	CashOnHand     types.Rupiah      `json:"cashOnHand"`
	CashCounted    bool              `json:"cashCounted"`
	Variance       types.Rupiah      `json:"variance"`
	Notes          string            `json:"notes,omitempty"`
	Description    string            `json:"description,omitempty"`
	LineItems      []ledger.LineItem `json:"lineItems,omitempty"`
	Expenses       []ExpenseDetail   `json:"expenses"`
	TransactionIDs []string          `json:"transactionIds"`
}

// Deposit is what the rider should hand over: omset minus QRIS minus shopping.
func (g Group) Deposit() types.Rupiah {
	return g.Omset - g.QRIS - g.Shopping
}

// KeyOf returns the recap key of a row: its batch id, or "date|rider" for
// rows written before batch ids existed.
func KeyOf(t ledger.Transaction) string {
	if t.RecapBatchID != "" {
		return t.RecapBatchID
	}
	return LegacyKey(t.Day(), t.RiderOrHouse())
}

// LegacyKey builds the composite key of an unbatched recap.
func LegacyKey(day, rider string) string {
	return day + "|" + rider
}

// belongsToRecap reports whether a row takes part in recap grouping at all.
func belongsToRecap(t ledger.Transaction) bool {
	if ledger.IsSynthetic(t.Category) {
		return false
	}
	return t.IsIncome() || !strings.HasPrefix(t.ID, bookkeepingIDPrefix)
}

// FindDuplicates returns the keys of recaps already holding an INCOME row
// for the rider on day.
func FindDuplicates(txs []ledger.Transaction, day, rider string) []string {
	var keys []string
	seen := make(map[string]struct{})
	for _, t := range txs {
		if !t.IsIncome() || t.RiderName != rider || t.Day() != day {
			continue
		}
		k := KeyOf(t)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}

// Groups folds rows into recap groups. Only groups with omset or shopping are kept.
func Groups(txs []ledger.Transaction) []Group {
	index := make(map[string]*Group)
	var order []string

	for _, t := range txs {
		if !belongsToRecap(t) {
			continue
		}
		key := KeyOf(t)
		g, ok := index[key]
		if !ok {
			g = &Group{
				Key:       key,
				BatchID:   t.RecapBatchID,
				Date:      t.Day(),
				RiderName: t.RiderOrHouse(),
				Expenses:  []ExpenseDetail{},
			}
			index[key] = g
			order = append(order, key)
		}
		g.TransactionIDs = append(g.TransactionIDs, t.ID)

		if t.IsIncome() {
			g.Omset += t.Amount
			if !t.PaymentMethod.IsCash() {
				g.QRIS += t.Amount
			}
			g.Cups += t.Qty
			if t.ActualCash != nil {
				g.CashOnHand = *t.ActualCash
				g.CashCounted = true
			}
			if t.Variance != nil {
				g.Variance = *t.Variance
			}
			if t.Notes != "" {
				g.Notes = t.Notes
			}
			if g.Description == "" && t.Amount > 0 && strings.Contains(t.Description, ledger.DetailSeparator) {
				g.Description = t.Description
			}
			if len(g.LineItems) == 0 {
				g.LineItems = t.Items()
			}
			continue
		}
		if t.Category == ledger.CategoryKasbon {
			continue
		}
		g.Shopping += t.Amount
		g.Expenses = append(g.Expenses, ExpenseDetail{
			ID:       t.ID,
			Name:     expenseName(t.Description, g.RiderName),
			Amount:   t.Amount,
			Category: t.Category,
		})
	}

	out := make([]Group, 0, len(order))
	for _, k := range order {
		if g := index[k]; g.Omset > 0 || g.Shopping > 0 {
			out = append(out, *g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].RiderName < out[j].RiderName
	})
	return out
}

func expenseName(description, rider string) string {
	name := strings.Replace(description, " ("+rider+")", "", 1)
	return strings.TrimSpace(strings.Replace(name, "Beli ", "", 1))
}

// Service persists recaps through the Record Store.
type Service struct {
	store *records.Store
}

// NewService creates a recap service.
func NewService(store *records.Store) *Service {
	return &Service{store: store}
}

// Submit encodes and stores a new recap. Unless confirmDuplicate is set, a
// rider-day that already has income is refused with DUPLICATE_RECAP carrying
// the existing recap keys.
func (s *Service) Submit(ctx context.Context, in Input, confirmDuplicate bool) (Result, error) {
	var res Result
	err := s.store.Mutate(ctx, "recap.submit", func(d *records.Dataset) error {
		if !confirmDuplicate {
			day := ledger.DayKey(in.Date)
			if keys := FindDuplicates(d.Transactions, day, in.RiderName); len(keys) > 0 {
				return apperror.NewDuplicateRecap(day, in.RiderName, keys)
			}
		}
		var err error
		res, err = encodeWith(d, in)
		if err != nil {
			return err
		}
		return d.InsertTransactions(res.Rows...)
	})
	if err != nil {
		return Result{}, err
	}

	logger.Info(ctx, "recap submitted",
		"batch_id", res.BatchID,
		"rider", in.RiderName,
		"rows", len(res.Rows),
		"variance", res.Totals.Variance,
	)
	if res.MetadataDropped {
		logger.Warn(ctx, "recap has no income row, cash count not stored",
			"batch_id", res.BatchID,
			"rider", in.RiderName,
		)
	}
	return res, nil
}

// Replace swaps every row of the recap identified by key for a freshly
// encoded set, in one mutation.
func (s *Service) Replace(ctx context.Context, key string, in Input) (Result, error) {
	var (
		res     Result
		removed int
	)
	err := s.store.Mutate(ctx, "recap.replace", func(d *records.Dataset) error {
		removed = d.RemoveTransactions(matchKey(key))
		if removed == 0 {
			return apperror.NewNotFound("recap", key)
		}
		var err error
		res, err = encodeWith(d, in)
		if err != nil {
			return err
		}
		return d.InsertTransactions(res.Rows...)
	})
	if err != nil {
		return Result{}, err
	}
	logger.Info(ctx, "recap replaced",
		"key", key,
		"batch_id", res.BatchID,
		"removed", removed,
		"inserted", len(res.Rows),
	)
	return res, nil
}

// Delete removes every row of a recap and reports how many were removed.
func (s *Service) Delete(ctx context.Context, key string) (int, error) {
	var removed int
	err := s.store.Mutate(ctx, "recap.delete", func(d *records.Dataset) error {
		removed = d.RemoveTransactions(matchKey(key))
		if removed == 0 {
			return apperror.NewNotFound("recap", key)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	logger.Info(ctx, "recap deleted", "key", key, "removed", removed)
	return removed, nil
}

// Get returns one recap group.
func (s *Service) Get(_ context.Context, key string) (Group, error) {
	snap := s.store.Snapshot()
	var rows []ledger.Transaction
	for _, t := range snap.Transactions {
		if matchKey(key)(t) {
			rows = append(rows, t)
		}
	}
	groups := Groups(rows)
	if len(groups) == 0 {
		return Group{}, apperror.NewNotFound("recap", key)
	}
	return groups[0], nil
}

// History lists the month's recaps, newest day first.
func (s *Service) History(_ context.Context, month string) ([]Group, error) {
	if _, err := ledger.ParseMonth(month); err != nil {
		return nil, err
	}
	snap := s.store.Snapshot()
	var rows []ledger.Transaction
	for _, t := range snap.Transactions {
		if t.Month() == month {
			rows = append(rows, t)
		}
	}
	return Groups(rows), nil
}

// EditInput rebuilds an editable Input from a stored recap.
func (s *Service) EditInput(ctx context.Context, key string) (Input, error) {
	g, err := s.Get(ctx, key)
	if err != nil {
		return Input{}, err
	}
	snap := s.store.Snapshot()
	in := Input{
		Products:   snap.Products,
		Sold:       make(map[string]int64),
		QRISAmount: g.QRIS,
		Note:       g.Notes,
		RiderName:  g.RiderName,
	}
	byName := make(map[string]string, len(snap.Products))
	for _, p := range snap.Products {
		byName[p.Name] = p.ID
	}
	for _, li := range g.LineItems {
		if pid, ok := byName[li.Name]; ok {
			in.Sold[pid] += li.Qty
		}
	}

	ids := make(map[string]struct{}, len(g.TransactionIDs))
	for _, txID := range g.TransactionIDs {
		ids[txID] = struct{}{}
	}
	for _, t := range snap.Transactions {
		if _, ok := ids[t.ID]; !ok {
			continue
		}
		if in.Date.IsZero() {
			in.Date = t.Date
		}
		if t.IsIncome() {
			if t.ActualCash != nil {
				in.ActualCash = *t.ActualCash
				in.MealCost = t.MealCost
			}
			continue
		}
		qty := t.Qty
		if qty <= 0 {
			qty = 1
		}
		in.Expenses = append(in.Expenses, ExpenseLine{
			Name:      expenseName(t.Description, g.RiderName),
			Qty:       qty,
			UnitPrice: t.Amount / qty,
			Category:  t.CategoryOr(ledger.CategoryOther),
			Note:      t.Notes,
		})
	}
	return in, nil
}

func encodeWith(d *records.Dataset, in Input) (Result, error) {
	if len(in.Products) == 0 {
		in.Products = d.Products
	}
	return Encode(in)
}

func matchKey(key string) func(ledger.Transaction) bool {
	return func(t ledger.Transaction) bool {
		return belongsToRecap(t) && KeyOf(t) == key
	}
}
