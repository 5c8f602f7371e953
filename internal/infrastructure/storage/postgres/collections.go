package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"kopikeliling/internal/domain/records"
)

var _ records.Backend = (*Backend)(nil)

type collectionRow struct {
	Name    string `db:"name"`
	Payload []byte `db:"payload"`
}

// Backend keeps each collection as one JSONB row of the collections table.
type Backend struct {
	pool      *Pool
	txManager *TxManager
	now       func() time.Time
}

// NewBackend creates a backend over pool. Call Migrate first.
func NewBackend(pool *Pool) *Backend {
	return &Backend{pool: pool, txManager: NewTxManager(pool), now: time.Now}
}

// TxManager exposes the backend's transaction manager.
func (b *Backend) TxManager() *TxManager {
	return b.txManager
}

func (b *Backend) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Load implements records.Backend.
func (b *Backend) Load(ctx context.Context) (map[records.Collection][]byte, error) {
	sql, args, err := b.builder().
		Select("name", "payload").
		From("collections").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []collectionRow
	if err := pgxscan.Select(ctx, b.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select collections: %w", err)
	}

	out := make(map[records.Collection][]byte, len(rows))
	for _, r := range rows {
		c := records.Collection(r.Name)
		if !c.Valid() {
			continue
		}
		out[c] = r.Payload
	}
	return out, nil
}

// Save implements records.Backend. All rows land in one transaction.
func (b *Backend) Save(ctx context.Context, changes map[records.Collection][]byte) error {
	now := b.now().UTC()
	return b.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		q := b.txManager.GetQuerier(ctx)
		for c, payload := range changes {
			sql, args, err := b.builder().
				Insert("collections").
				Columns("name", "payload", "updated_at").
				Values(string(c), payload, now).
				Suffix("ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at").
				ToSql()
			if err != nil {
				return fmt.Errorf("build upsert: %w", err)
			}
			if _, err := q.Exec(ctx, sql, args...); err != nil {
				return fmt.Errorf("upsert collection %s: %w", c, err)
			}
		}
		return nil
	})
}

// Close releases the pool.
func (b *Backend) Close() error {
	b.pool.Close()
	return nil
}
