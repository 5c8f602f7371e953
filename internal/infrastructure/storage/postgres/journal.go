package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/klauspost/compress/zstd"

	"kopikeliling/internal/domain/records"
)

var _ records.Journal = (*Journal)(nil)

// CompressionAlgo names how a journal payload is stored.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// DefaultCompressThreshold is the payload size above which entries are compressed.
const DefaultCompressThreshold = 10 * 1024

// JournalEntry is one row of sys_mutation_journal.
type JournalEntry struct {
	ID                string          `db:"id" json:"id"`
	Op                string          `db:"op" json:"op"`
	Operator          string          `db:"operator" json:"operator,omitempty"`
	Collections       []string        `db:"collections" json:"collections"`
	Payload           json.RawMessage `db:"payload" json:"payload,omitempty"`
	PayloadCompressed []byte          `db:"payload_compressed" json:"-"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo" json:"compressionAlgo"`
	DurationMs        int64           `db:"duration_ms" json:"durationMs"`
	AppliedAt         time.Time       `db:"applied_at" json:"appliedAt"`
}

// Journal appends applied store mutations to sys_mutation_journal.
type Journal struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

// NewJournal creates a journal writing through txManager.
func NewJournal(txManager *TxManager) (*Journal, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &Journal{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: DefaultCompressThreshold,
	}, nil
}

// entryFor converts a mutation into a row, compressing large payloads.
func (j *Journal) entryFor(m records.Mutation) (JournalEntry, error) {
	payloads := make(map[records.Collection]json.RawMessage, len(m.Payloads))
	for c, p := range m.Payloads {
		payloads[c] = p
	}
	raw, err := json.Marshal(payloads)
	if err != nil {
		return JournalEntry{}, fmt.Errorf("marshal payloads: %w", err)
	}

	e := JournalEntry{
		ID:              m.ID,
		Op:              m.Op,
		Operator:        m.Operator,
		Collections:     make([]string, len(m.Collections)),
		CompressionAlgo: CompressionNone,
		DurationMs:      m.Duration.Milliseconds(),
		AppliedAt:       m.AppliedAt.UTC(),
	}
	for i, c := range m.Collections {
		e.Collections[i] = string(c)
	}
	if len(raw) > j.compressThreshold {
		e.PayloadCompressed = j.encoder.EncodeAll(raw, nil)
		e.CompressionAlgo = CompressionZstd
	} else {
		e.Payload = raw
	}
	return e, nil
}

// expand restores the plain payload of a compressed entry.
func (j *Journal) expand(e *JournalEntry) error {
	if e.CompressionAlgo != CompressionZstd || len(e.PayloadCompressed) == 0 {
		return nil
	}
	raw, err := j.decoder.DecodeAll(e.PayloadCompressed, nil)
	if err != nil {
		return fmt.Errorf("decompress payload: %w", err)
	}
	e.Payload = raw
	e.PayloadCompressed = nil
	return nil
}

// Record implements records.Journal.
func (j *Journal) Record(ctx context.Context, m records.Mutation) error {
	e, err := j.entryFor(m)
	if err != nil {
		return err
	}

	sql, args, err := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Insert("sys_mutation_journal").
		Columns("id", "op", "operator", "collections", "payload",
			"payload_compressed", "compression_algo", "duration_ms", "applied_at").
		Values(e.ID, e.Op, e.Operator, e.Collections, nullableJSON(e.Payload),
			e.PayloadCompressed, string(e.CompressionAlgo), e.DurationMs, e.AppliedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := j.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}
	return nil
}

// Recent returns the newest entries, decompressed.
func (j *Journal) Recent(ctx context.Context, limit uint64) ([]JournalEntry, error) {
	sql, args, err := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select("id", "op", "operator", "collections", "payload",
			"payload_compressed", "compression_algo", "duration_ms", "applied_at").
		From("sys_mutation_journal").
		OrderBy("applied_at DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var entries []JournalEntry
	if err := pgxscan.Select(ctx, j.txManager.GetQuerier(ctx), &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("select journal: %w", err)
	}
	for i := range entries {
		if err := j.expand(&entries[i]); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
