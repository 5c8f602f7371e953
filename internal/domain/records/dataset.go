// Package records implements the Record Store: the single owner of the ledger
// and its reference tables. Readers get immutable snapshots; writers go
// through Mutate, which applies one change at a time and publishes it atomically.
package records

import (
	"context"
	"encoding/json"
	"fmt"

	"kopikeliling/internal/core/entity"
	"kopikeliling/internal/domain/ledger"
)

// Collection names the eight independently persisted collections.
type Collection string

const (
	Products            Collection = "products"
	ExpenseItems        Collection = "expense_items"
	BookkeepingItems    Collection = "bookkeeping_items"
	Riders              Collection = "riders"
	Transactions        Collection = "transactions"
	StockOpnames        Collection = "stock_opnames"
	CapitalRecord       Collection = "capital"
	BankReconciliations Collection = "bank_recons"
)

// AllCollections in persistence order.
var AllCollections = []Collection{
	Products, ExpenseItems, BookkeepingItems, Riders,
	Transactions, StockOpnames, CapitalRecord, BankReconciliations,
}

// Valid reports whether c is one of the eight collections.
func (c Collection) Valid() bool {
	for _, known := range AllCollections {
		if c == known {
			return true
		}
	}
	return false
}

// Dataset is the full in-memory state. A published Dataset is never modified;
// Mutate works on a Clone.
type Dataset struct {
	Products            []ledger.Product            `json:"products"`
	ExpenseItems        []ledger.ExpenseItem        `json:"expenseItems"`
	BookkeepingItems    []ledger.BookkeepingItem    `json:"bookkeepingItems"`
	Riders              []ledger.Rider              `json:"riders"`
	Transactions        []ledger.Transaction        `json:"transactions"`
	StockOpnames        []ledger.StockOpname        `json:"stockOpnames"`
	Capital             ledger.Capital              `json:"capital"`
	BankReconciliations []ledger.BankReconciliation `json:"bankReconciliations"`
}

// Clone returns a deep copy safe to modify.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		Products:            append([]ledger.Product(nil), d.Products...),
		ExpenseItems:        append([]ledger.ExpenseItem(nil), d.ExpenseItems...),
		BookkeepingItems:    append([]ledger.BookkeepingItem(nil), d.BookkeepingItems...),
		Riders:              append([]ledger.Rider(nil), d.Riders...),
		Capital:             d.Capital,
		BankReconciliations: append([]ledger.BankReconciliation(nil), d.BankReconciliations...),
	}
	out.Transactions = make([]ledger.Transaction, len(d.Transactions))
	for i, t := range d.Transactions {
		out.Transactions[i] = t.Clone()
	}
	out.StockOpnames = make([]ledger.StockOpname, len(d.StockOpnames))
	for i, so := range d.StockOpnames {
		so.Records = append([]ledger.StockOpnameRecord(nil), so.Records...)
		out.StockOpnames[i] = so
	}
	return out
}

// ValidateCollection checks every record of collection c.
// The first failing record aborts.
func (d *Dataset) ValidateCollection(ctx context.Context, c Collection) error {
	switch c {
	case Products:
		return validateAll(ctx, d.Products)
	case ExpenseItems:
		return validateAll(ctx, d.ExpenseItems)
	case BookkeepingItems:
		return validateAll(ctx, d.BookkeepingItems)
	case Riders:
		return validateAll(ctx, d.Riders)
	case Transactions:
		return validateAll(ctx, d.Transactions)
	case StockOpnames:
		return validateAll(ctx, d.StockOpnames)
	case CapitalRecord:
		return d.Capital.Validate(ctx)
	case BankReconciliations:
		return validateAll(ctx, d.BankReconciliations)
	}
	return fmt.Errorf("unknown collection %q", c)
}

func validateAll[T entity.Validatable](ctx context.Context, items []T) error {
	for _, item := range items {
		if err := item.Validate(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Encode serializes one collection.
func (d *Dataset) Encode(c Collection) ([]byte, error) {
	var v any
	switch c {
	case Products:
		v = nonNil(d.Products)
	case ExpenseItems:
		v = nonNil(d.ExpenseItems)
	case BookkeepingItems:
		v = nonNil(d.BookkeepingItems)
	case Riders:
		v = nonNil(d.Riders)
	case Transactions:
		v = nonNil(d.Transactions)
	case StockOpnames:
		v = nonNil(d.StockOpnames)
	case CapitalRecord:
		v = d.Capital
	case BankReconciliations:
		v = nonNil(d.BankReconciliations)
	default:
		return nil, fmt.Errorf("unknown collection %q", c)
	}
	return json.Marshal(v)
}

// Decode replaces one collection from its serialized form.
func (d *Dataset) Decode(c Collection, data []byte) error {
	switch c {
	case Products:
		return decodeInto(data, &d.Products)
	case ExpenseItems:
		return decodeInto(data, &d.ExpenseItems)
	case BookkeepingItems:
		return decodeInto(data, &d.BookkeepingItems)
	case Riders:
		if err := decodeInto(data, &d.Riders); err != nil {
			return err
		}
		for i := range d.Riders {
			if d.Riders[i].Status == "" {
				d.Riders[i].Status = ledger.RiderActive
			}
		}
		return nil
	case Transactions:
		var rows []ledger.Transaction
		if err := decodeInto(data, &rows); err != nil {
			return err
		}
		d.Transactions = dropIncomplete(rows)
		return nil
	case StockOpnames:
		return decodeInto(data, &d.StockOpnames)
	case CapitalRecord:
		return decodeInto(data, &d.Capital)
	case BankReconciliations:
		return decodeInto(data, &d.BankReconciliations)
	}
	return fmt.Errorf("unknown collection %q", c)
}

func decodeInto[T any](data []byte, dst *T) error {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*dst = v
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// dropIncomplete removes rows lacking an id or date, which older stores could hold.
func dropIncomplete(rows []ledger.Transaction) []ledger.Transaction {
	out := rows[:0]
	for _, r := range rows {
		if r.ID == "" || r.Date.IsZero() {
			continue
		}
		out = append(out, r)
	}
	return out
}
