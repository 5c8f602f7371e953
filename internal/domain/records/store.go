package records

import (
	"bytes"
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"kopikeliling/internal/core/apperror"
	appctx "kopikeliling/internal/core/context"
	"kopikeliling/internal/core/id"
	"kopikeliling/pkg/logger"
)

var tracer = otel.Tracer("kopikeliling/records")

// Backend persists serialized collections. It never interprets payloads.
type Backend interface {
	// Load returns the stored payload of every saved collection.
	// Collections that were never saved are absent from the map.
	Load(ctx context.Context) (map[Collection][]byte, error)

	// Save persists all given collections atomically.
	Save(ctx context.Context, changes map[Collection][]byte) error
}

// Mutation describes one applied change, for journals and observers.
type Mutation struct {
	ID          string
	Op          string
	Operator    string
	Collections []Collection
	Payloads    map[Collection][]byte
	AppliedAt   time.Time
	Duration    time.Duration
}

// Journal records applied mutations. Failures are logged, never propagated.
type Journal interface {
	Record(ctx context.Context, m Mutation) error
}

// Observer is notified after every mutation attempt.
type Observer interface {
	MutationApplied(m Mutation)
	MutationFailed(op string, err error)
	DatasetPublished(d *Dataset)
}

// Option configures a Store.
type Option func(*Store)

// WithJournal attaches a mutation journal.
func WithJournal(j Journal) Option {
	return func(s *Store) { s.journal = j }
}

// WithObserver attaches a mutation observer.
func WithObserver(o Observer) Option {
	return func(s *Store) { s.observer = o }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store is the Record Store. Reads are lock-free snapshots; writes are serialized.
type Store struct {
	mu      sync.Mutex
	current atomic.Pointer[Dataset]
	// encoded holds the last persisted form of each collection. Guarded by mu.
	encoded map[Collection][]byte

	backend  Backend
	journal  Journal
	observer Observer
	now      func() time.Time
}

// Open loads every collection from backend. Missing collections start from
// Defaults(); unreadable ones fall back to Defaults() with a warning.
func Open(ctx context.Context, backend Backend, opts ...Option) (*Store, error) {
	s := &Store{
		backend: backend,
		encoded: make(map[Collection][]byte, len(AllCollections)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	raw, err := backend.Load(ctx)
	if err != nil {
		return nil, apperror.NewStorage("load", err)
	}

	data := Defaults()
	for _, c := range AllCollections {
		payload, ok := raw[c]
		if !ok || len(payload) == 0 {
			continue
		}
		if err := data.Decode(c, payload); err != nil {
			logger.Warn(ctx, "collection unreadable, using defaults",
				"collection", c,
				"error", err,
			)
		}
	}
	for _, c := range AllCollections {
		b, err := data.Encode(c)
		if err != nil {
			return nil, apperror.NewInternal(err).WithDetail("collection", c)
		}
		// Absent collections keep a nil baseline so the first write persists them.
		if _, ok := raw[c]; ok {
			s.encoded[c] = b
		}
	}

	s.publish(data)
	logger.Info(ctx, "record store opened", "transactions", len(data.Transactions))
	return s, nil
}

// Snapshot returns the current dataset. Callers must treat it as read-only.
func (s *Store) Snapshot() *Dataset {
	return s.current.Load()
}

// Mutate applies fn to a private copy of the dataset, validates the touched
// collections, persists them, and only then publishes the copy. If any step
// fails the published dataset is unchanged.
func (s *Store) Mutate(ctx context.Context, op string, fn func(d *Dataset) error) error {
	ctx, span := tracer.Start(ctx, "records.mutate", trace.WithAttributes(attribute.String("op", op)))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.now()
	err := s.apply(ctx, op, start, fn)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if s.observer != nil {
			s.observer.MutationFailed(op, err)
		}
	}
	return err
}

func (s *Store) apply(ctx context.Context, op string, start time.Time, fn func(d *Dataset) error) error {
	next := s.current.Load().Clone()
	if err := fn(next); err != nil {
		return err
	}

	changes := make(map[Collection][]byte)
	for _, c := range AllCollections {
		b, err := next.Encode(c)
		if err != nil {
			return apperror.NewInternal(err).WithDetail("collection", c)
		}
		if prev, ok := s.encoded[c]; ok && bytes.Equal(prev, b) {
			continue
		}
		if err := next.ValidateCollection(ctx, c); err != nil {
			return err
		}
		changes[c] = b
	}
	if len(changes) == 0 {
		return nil
	}

	if err := s.backend.Save(ctx, changes); err != nil {
		return apperror.NewStorage("save", err).WithDetail("mutation", op)
	}
	for c, b := range changes {
		s.encoded[c] = b
	}
	s.publish(next)

	m := Mutation{
		ID:          id.NewString(),
		Op:          op,
		Operator:    appctx.GetSubject(ctx),
		Collections: orderedKeys(changes),
		Payloads:    changes,
		AppliedAt:   start,
		Duration:    s.now().Sub(start),
	}
	if s.journal != nil {
		if err := s.journal.Record(ctx, m); err != nil {
			logger.Error(ctx, "mutation journal write failed", "op", op, "error", err)
		}
	}
	if s.observer != nil {
		s.observer.MutationApplied(m)
	}
	logger.Debug(ctx, "mutation applied", "op", op, "collections", m.Collections)
	return nil
}

// Seed persists every collection in its current form, materializing defaults.
func (s *Store) Seed(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.current.Load()
	changes := make(map[Collection][]byte, len(AllCollections))
	for _, c := range AllCollections {
		b, err := current.Encode(c)
		if err != nil {
			return apperror.NewInternal(err).WithDetail("collection", c)
		}
		changes[c] = b
	}
	if err := s.backend.Save(ctx, changes); err != nil {
		return apperror.NewStorage("seed", err)
	}
	for c, b := range changes {
		s.encoded[c] = b
	}
	logger.Info(ctx, "record store seeded", "collections", len(changes))
	return nil
}

func (s *Store) publish(d *Dataset) {
	s.current.Store(d)
	if s.observer != nil {
		s.observer.DatasetPublished(d)
	}
}

func orderedKeys(changes map[Collection][]byte) []Collection {
	out := make([]Collection, 0, len(changes))
	for _, c := range AllCollections {
		if _, ok := changes[c]; ok {
			out = append(out, c)
		}
	}
	return out
}
