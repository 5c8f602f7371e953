package records

import (
	"context"
	"encoding/json"
	"time"

	"kopikeliling/internal/core/apperror"
	"kopikeliling/pkg/logger"
)

// BackupVersion is written into every export.
const BackupVersion = 1

// Backup is a wholesale export of the collections.
type Backup struct {
	Version     int                            `json:"version"`
	CreatedAt   time.Time                      `json:"createdAt"`
	Collections map[Collection]json.RawMessage `json:"collections"`
}

// flatKeys maps the top-level keys of the flat backup layout
// ({"products": [...], "bankRecons": [...], ...}) to collections.
var flatKeys = map[string]Collection{
	"products":         Products,
	"expenseItems":     ExpenseItems,
	"bookkeepingItems": BookkeepingItems,
	"riders":           Riders,
	"transactions":     Transactions,
	"stockOpnames":     StockOpnames,
	"capital":          CapitalRecord,
	"bankRecons":       BankReconciliations,
}

// ParseBackup accepts both the versioned layout and the flat layout.
func ParseBackup(data []byte) (*Backup, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, apperror.NewValidation("backup is not a JSON object").WithCause(err)
	}

	if _, ok := probe["collections"]; ok {
		var b Backup
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, apperror.NewValidation("malformed backup").WithCause(err)
		}
		for c := range b.Collections {
			if !c.Valid() {
				return nil, apperror.NewValidation("unknown collection in backup").WithDetail("collection", c)
			}
		}
		return &b, nil
	}

	b := &Backup{Version: 0, Collections: make(map[Collection]json.RawMessage)}
	for key, raw := range probe {
		if c, ok := flatKeys[key]; ok {
			b.Collections[c] = raw
		}
	}
	if len(b.Collections) == 0 {
		return nil, apperror.NewValidation("backup contains no known collections")
	}
	return b, nil
}

// Export snapshots every collection.
func (s *Store) Export(_ context.Context) (*Backup, error) {
	snap := s.Snapshot()
	b := &Backup{
		Version:     BackupVersion,
		CreatedAt:   s.now().UTC(),
		Collections: make(map[Collection]json.RawMessage, len(AllCollections)),
	}
	for _, c := range AllCollections {
		payload, err := snap.Encode(c)
		if err != nil {
			return nil, apperror.NewInternal(err).WithDetail("collection", c)
		}
		b.Collections[c] = payload
	}
	return b, nil
}

// Restore replaces, wholesale, only the collections present in b.
// Restores are strict: an unreadable collection aborts the whole restore.
func (s *Store) Restore(ctx context.Context, b *Backup) ([]Collection, error) {
	var restored []Collection
	err := s.Mutate(ctx, "restore", func(d *Dataset) error {
		restored = restored[:0]
		for _, c := range AllCollections {
			raw, ok := b.Collections[c]
			if !ok {
				continue
			}
			if err := d.Decode(c, raw); err != nil {
				return apperror.NewValidation("collection in backup is unreadable").
					WithDetail("collection", c).
					WithCause(err)
			}
			restored = append(restored, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "backup restored", "collections", restored)
	return restored, nil
}
