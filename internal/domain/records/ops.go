package records

import (
	"context"

	"kopikeliling/internal/core/apperror"
	"kopikeliling/internal/domain/ledger"
	"kopikeliling/pkg/logger"
)

// FindTransaction returns the index of the row with id, or -1.
func (d *Dataset) FindTransaction(txID string) int {
	for i, t := range d.Transactions {
		if t.ID == txID {
			return i
		}
	}
	return -1
}

// BatchRows returns the rows sharing recapBatchId.
func (d *Dataset) BatchRows(batchID string) []ledger.Transaction {
	var out []ledger.Transaction
	if batchID == "" {
		return out
	}
	for _, t := range d.Transactions {
		if t.RecapBatchID == batchID {
			out = append(out, t)
		}
	}
	return out
}

// InsertTransactions prepends rows (newest first), rejecting duplicate ids.
func (d *Dataset) InsertTransactions(rows ...ledger.Transaction) error {
	seen := make(map[string]struct{}, len(d.Transactions)+len(rows))
	for _, t := range d.Transactions {
		seen[t.ID] = struct{}{}
	}
	for _, r := range rows {
		if _, dup := seen[r.ID]; dup {
			return apperror.NewDuplicate("transaction", "id", r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	merged := make([]ledger.Transaction, 0, len(rows)+len(d.Transactions))
	merged = append(merged, rows...)
	merged = append(merged, d.Transactions...)
	d.Transactions = merged
	return nil
}

// RemoveTransactions drops every row for which match returns true and reports how many.
func (d *Dataset) RemoveTransactions(match func(ledger.Transaction) bool) int {
	kept := d.Transactions[:0:0]
	removed := 0
	for _, t := range d.Transactions {
		if match(t) {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	d.Transactions = kept
	return removed
}

// AddTransactions appends rows to the ledger in one mutation.
func (s *Store) AddTransactions(ctx context.Context, rows ...ledger.Transaction) error {
	if len(rows) == 0 {
		return nil
	}
	err := s.Mutate(ctx, "transactions.add", func(d *Dataset) error {
		return d.InsertTransactions(rows...)
	})
	if err != nil {
		return err
	}
	logger.Info(ctx, "transactions added", "count", len(rows))
	return nil
}

// UpdateTransaction replaces the row with the same id.
func (s *Store) UpdateTransaction(ctx context.Context, row ledger.Transaction) error {
	return s.Mutate(ctx, "transactions.update", func(d *Dataset) error {
		i := d.FindTransaction(row.ID)
		if i < 0 {
			return apperror.NewNotFound("transaction", row.ID)
		}
		d.Transactions[i] = row
		return nil
	})
}

// DeleteTransaction removes one row by id.
func (s *Store) DeleteTransaction(ctx context.Context, txID string) error {
	return s.Mutate(ctx, "transactions.delete", func(d *Dataset) error {
		if d.RemoveTransactions(func(t ledger.Transaction) bool { return t.ID == txID }) == 0 {
			return apperror.NewNotFound("transaction", txID)
		}
		return nil
	})
}

// SetCapital replaces the capital singleton.
func (s *Store) SetCapital(ctx context.Context, c ledger.Capital) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}
	return s.Mutate(ctx, "capital.set", func(d *Dataset) error {
		d.Capital = c
		return nil
	})
}

// UpsertBankReconciliation saves r, replacing any record for the same date.
func (s *Store) UpsertBankReconciliation(ctx context.Context, r ledger.BankReconciliation) error {
	return s.Mutate(ctx, "bank_recons.upsert", func(d *Dataset) error {
		d.UpsertBankReconciliation(r)
		return nil
	})
}

// UpsertBankReconciliation replaces the record for r.Date, or prepends r.
func (d *Dataset) UpsertBankReconciliation(r ledger.BankReconciliation) {
	out := make([]ledger.BankReconciliation, 0, len(d.BankReconciliations)+1)
	out = append(out, r)
	for _, existing := range d.BankReconciliations {
		if existing.Date != r.Date {
			out = append(out, existing)
		}
	}
	d.BankReconciliations = out
}

// BankReconciliationFor returns the record for a date.
func (d *Dataset) BankReconciliationFor(day string) (ledger.BankReconciliation, bool) {
	for _, r := range d.BankReconciliations {
		if r.Date == day {
			return r, true
		}
	}
	return ledger.BankReconciliation{}, false
}

// UpsertStockOpname saves so, replacing any record for the same month.
func (s *Store) UpsertStockOpname(ctx context.Context, so ledger.StockOpname) error {
	return s.Mutate(ctx, "stock_opnames.upsert", func(d *Dataset) error {
		out := make([]ledger.StockOpname, 0, len(d.StockOpnames)+1)
		out = append(out, so)
		for _, existing := range d.StockOpnames {
			if existing.Month != so.Month {
				out = append(out, existing)
			}
		}
		d.StockOpnames = out
		return nil
	})
}

// DeleteStockOpname removes one opname by id.
func (s *Store) DeleteStockOpname(ctx context.Context, opnameID string) error {
	return s.Mutate(ctx, "stock_opnames.delete", func(d *Dataset) error {
		for i, so := range d.StockOpnames {
			if so.ID == opnameID {
				d.StockOpnames = append(d.StockOpnames[:i:i], d.StockOpnames[i+1:]...)
				return nil
			}
		}
		return apperror.NewNotFound("stock opname", opnameID)
	})
}
