package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"

	"kopikeliling/internal/domain/records"
)

var _ records.Backend = (*Backend)(nil)

type collectionRow struct {
	Name    string `db:"name"`
	Payload []byte `db:"payload"`
}

// Backend keeps each collection as one row of the collections table.
type Backend struct {
	db        *DB
	txManager *TxManager
	now       func() time.Time
}

// NewBackend creates a backend over d.
func NewBackend(d *DB) *Backend {
	return &Backend{db: d, txManager: NewTxManager(d), now: time.Now}
}

// OpenBackend opens the file at path and returns a backend over it.
func OpenBackend(ctx context.Context, path string) (*Backend, error) {
	d, err := Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return NewBackend(d), nil
}

func (b *Backend) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

// Load implements records.Backend.
func (b *Backend) Load(ctx context.Context) (map[records.Collection][]byte, error) {
	query, args, err := b.builder().
		Select("name", "payload").
		From("collections").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []collectionRow
	if err := sqlscan.Select(ctx, b.txManager.GetQuerier(ctx), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select collections: %w", err)
	}

	out := make(map[records.Collection][]byte, len(rows))
	for _, r := range rows {
		if c := records.Collection(r.Name); c.Valid() {
			out[c] = r.Payload
		}
	}
	return out, nil
}

// Save implements records.Backend. All rows land in one transaction.
func (b *Backend) Save(ctx context.Context, changes map[records.Collection][]byte) error {
	now := b.now().UTC().Format(time.RFC3339)
	return b.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		q := b.txManager.GetQuerier(ctx)
		for c, payload := range changes {
			query, args, err := b.builder().
				Insert("collections").
				Columns("name", "payload", "updated_at").
				Values(string(c), payload, now).
				Suffix("ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at").
				ToSql()
			if err != nil {
				return fmt.Errorf("build upsert: %w", err)
			}
			if _, err := q.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("upsert collection %s: %w", c, err)
			}
		}
		return nil
	})
}

// UpdatedAt returns when collection c was last written.
func (b *Backend) UpdatedAt(ctx context.Context, c records.Collection) (time.Time, error) {
	query, args, err := b.builder().
		Select("updated_at").
		From("collections").
		Where(squirrel.Eq{"name": string(c)}).
		ToSql()
	if err != nil {
		return time.Time{}, fmt.Errorf("build select: %w", err)
	}
	var raw string
	if err := sqlscan.Get(ctx, b.txManager.GetQuerier(ctx), &raw, query, args...); err != nil {
		return time.Time{}, fmt.Errorf("select updated_at: %w", err)
	}
	return time.Parse(time.RFC3339, raw)
}

// Close closes the database.
func (b *Backend) Close() error {
	return b.db.Close()
}
