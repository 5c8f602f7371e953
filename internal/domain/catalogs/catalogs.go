package catalogs

import (
	"context"
	"strings"

	"kopikeliling/internal/core/apperror"
	"kopikeliling/internal/domain/ledger"
	"kopikeliling/internal/domain/records"
	"kopikeliling/pkg/logger"
)

func contains(q string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// Products is the menu catalog. Stored order is the display order.
type Products struct {
	*Service[ledger.Product]
	store *records.Store
}

// NewProducts creates the product catalog.
func NewProducts(store *records.Store) *Products {
	return &Products{
		Service: NewService(store, Binding[ledger.Product]{
			Entity: "product",
			Prefix: "p",
			Items:  func(d *records.Dataset) *[]ledger.Product { return &d.Products },
			Match:  func(p ledger.Product, q string) bool { return contains(q, p.Name, p.Category) },
		}),
		store: store,
	}
}

// Move shifts a product by delta positions, clamped to the list bounds.
func (p *Products) Move(ctx context.Context, productID string, delta int) ([]ledger.Product, error) {
	var out []ledger.Product
	err := p.store.Mutate(ctx, "product.move", func(d *records.Dataset) error {
		from := indexOf(d.Products, productID)
		if from < 0 {
			return apperror.NewNotFound("product", productID)
		}
		to := min(max(from+delta, 0), len(d.Products)-1)
		moved := d.Products[from]
		rest := append(d.Products[:from:from], d.Products[from+1:]...)
		reordered := make([]ledger.Product, 0, len(d.Products))
		reordered = append(reordered, rest[:to]...)
		reordered = append(reordered, moved)
		reordered = append(reordered, rest[to:]...)
		d.Products = reordered
		out = reordered
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Debug(ctx, "product moved", "id", productID, "delta", delta)
	return out, nil
}

// Riders is the seller catalog. Names are unique so rows stay attributable.
type Riders struct {
	*Service[ledger.Rider]
}

// NewRiders creates the rider catalog.
func NewRiders(store *records.Store) *Riders {
	svc := NewService(store, Binding[ledger.Rider]{
		Entity: "rider",
		Prefix: "r",
		Items:  func(d *records.Dataset) *[]ledger.Rider { return &d.Riders },
		Match:  func(r ledger.Rider, q string) bool { return contains(q, r.Name, r.Phone) },
	})
	prepare := func(_ context.Context, d *records.Dataset, r *ledger.Rider) error {
		r.Name = strings.TrimSpace(r.Name)
		if r.Status == "" {
			r.Status = ledger.RiderActive
		}
		for _, other := range d.Riders {
			if other.ID != r.ID && strings.EqualFold(other.Name, r.Name) {
				return apperror.NewConflict("rider with this name already exists").WithDetail("name", r.Name)
			}
		}
		return nil
	}
	svc.Hooks().OnBeforeCreate(prepare)
	svc.Hooks().OnBeforeUpdate(prepare)
	return &Riders{Service: svc}
}

// Upsert updates the rider with the same id, or creates it.
func (r *Riders) Upsert(ctx context.Context, rider ledger.Rider) (ledger.Rider, error) {
	if rider.ID != "" {
		if _, err := r.Get(ctx, rider.ID); err == nil {
			return r.Update(ctx, rider)
		}
	}
	return r.Create(ctx, rider)
}

// NewExpenseItems creates the rider expense catalog.
func NewExpenseItems(store *records.Store) *Service[ledger.ExpenseItem] {
	return NewService(store, Binding[ledger.ExpenseItem]{
		Entity: "expense item",
		Prefix: "e",
		Items:  func(d *records.Dataset) *[]ledger.ExpenseItem { return &d.ExpenseItems },
		Match:  func(e ledger.ExpenseItem, q string) bool { return contains(q, e.Name, e.Category) },
	})
}

// NewBookkeepingItems creates the house purchase catalog.
func NewBookkeepingItems(store *records.Store) *Service[ledger.BookkeepingItem] {
	return NewService(store, Binding[ledger.BookkeepingItem]{
		Entity: "bookkeeping item",
		Prefix: "b",
		Items:  func(d *records.Dataset) *[]ledger.BookkeepingItem { return &d.BookkeepingItems },
		Match:  func(b ledger.BookkeepingItem, q string) bool { return contains(q, b.Name, b.Category) },
	})
}

// Capital reads and replaces the opening balance.
type Capital struct {
	store *records.Store
}

// NewCapital creates the capital service.
func NewCapital(store *records.Store) *Capital {
	return &Capital{store: store}
}

// Get returns the current capital.
func (c *Capital) Get(_ context.Context) ledger.Capital {
	return c.store.Snapshot().Capital
}

// Replace stores c wholesale.
func (c *Capital) Replace(ctx context.Context, capital ledger.Capital) (ledger.Capital, error) {
	if err := c.store.SetCapital(ctx, capital); err != nil {
		return ledger.Capital{}, err
	}
	logger.Info(ctx, "capital replaced",
		"initial_cash", capital.InitialCash,
		"initial_bank", capital.InitialBank,
		"month", capital.Month,
	)
	return capital, nil
}
