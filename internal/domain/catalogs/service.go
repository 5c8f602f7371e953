// Package catalogs manages the reference lists (products, riders, expense
// items, bookkeeping items) and the capital singleton.
package catalogs

import (
	"context"
	"strings"

	"kopikeliling/internal/core/apperror"
	"kopikeliling/internal/core/entity"
	"kopikeliling/internal/core/id"
	"kopikeliling/internal/domain/records"
	"kopikeliling/pkg/logger"
)

// Entry is a catalog record.
type Entry[T any] interface {
	entity.Validatable
	entity.Identified
	WithID(v string) T
}

// Binding ties a catalog to its collection in the dataset.
type Binding[T any] struct {
	// Entity names the catalog in errors and logs.
	Entity string
	// Prefix tags generated ids.
	Prefix string
	Items  func(d *records.Dataset) *[]T
	// Match reports whether an entry matches a search term.
	Match func(entry T, search string) bool
}

// ListFilter narrows List.
type ListFilter struct {
	Search string
}

// Service is the CRUD service shared by every catalog.
type Service[T Entry[T]] struct {
	store   *records.Store
	binding Binding[T]
	hooks   *HookRegistry[T]
}

// NewService creates a catalog service over binding.
func NewService[T Entry[T]](store *records.Store, binding Binding[T]) *Service[T] {
	return &Service[T]{store: store, binding: binding, hooks: NewHookRegistry[T]()}
}

// Hooks returns the hook registry for registration.
func (s *Service[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

func (s *Service[T]) op(verb string) string {
	return strings.ReplaceAll(s.binding.Entity, " ", "_") + "." + verb
}

func indexOf[T Entry[T]](items []T, entryID string) int {
	for i, it := range items {
		if it.GetID() == entryID {
			return i
		}
	}
	return -1
}

// List returns the catalog in stored order.
func (s *Service[T]) List(_ context.Context, f ListFilter) []T {
	items := *s.binding.Items(s.store.Snapshot())
	out := make([]T, 0, len(items))
	q := strings.ToLower(strings.TrimSpace(f.Search))
	for _, it := range items {
		if q != "" && s.binding.Match != nil && !s.binding.Match(it, q) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Get returns one entry.
func (s *Service[T]) Get(_ context.Context, entryID string) (T, error) {
	items := *s.binding.Items(s.store.Snapshot())
	if i := indexOf(items, entryID); i >= 0 {
		return items[i], nil
	}
	var zero T
	return zero, apperror.NewNotFound(s.binding.Entity, entryID)
}

// Create appends entry, generating an id when it has none.
func (s *Service[T]) Create(ctx context.Context, entry T) (T, error) {
	if entry.GetID() == "" {
		entry = entry.WithID(id.Tagged(s.binding.Prefix))
	}
	err := s.store.Mutate(ctx, s.op("create"), func(d *records.Dataset) error {
		if err := s.hooks.Run(ctx, BeforeCreate, d, &entry); err != nil {
			return err
		}
		if err := entry.Validate(ctx); err != nil {
			return err
		}
		items := s.binding.Items(d)
		if indexOf(*items, entry.GetID()) >= 0 {
			return apperror.NewDuplicate(s.binding.Entity, "id", entry.GetID())
		}
		*items = append(*items, entry)
		return nil
	})
	if err != nil {
		return entry, err
	}
	s.after(ctx, AfterCreate, &entry)
	logger.Info(ctx, s.binding.Entity+" created", "id", entry.GetID())
	return entry, nil
}

// Update replaces the entry with the same id.
func (s *Service[T]) Update(ctx context.Context, entry T) (T, error) {
	err := s.store.Mutate(ctx, s.op("update"), func(d *records.Dataset) error {
		items := s.binding.Items(d)
		i := indexOf(*items, entry.GetID())
		if i < 0 {
			return apperror.NewNotFound(s.binding.Entity, entry.GetID())
		}
		if err := s.hooks.Run(ctx, BeforeUpdate, d, &entry); err != nil {
			return err
		}
		if err := entry.Validate(ctx); err != nil {
			return err
		}
		(*items)[i] = entry
		return nil
	})
	if err != nil {
		return entry, err
	}
	s.after(ctx, AfterUpdate, &entry)
	logger.Info(ctx, s.binding.Entity+" updated", "id", entry.GetID())
	return entry, nil
}

// Delete removes one entry.
func (s *Service[T]) Delete(ctx context.Context, entryID string) error {
	var removed T
	err := s.store.Mutate(ctx, s.op("delete"), func(d *records.Dataset) error {
		items := s.binding.Items(d)
		i := indexOf(*items, entryID)
		if i < 0 {
			return apperror.NewNotFound(s.binding.Entity, entryID)
		}
		removed = (*items)[i]
		if err := s.hooks.Run(ctx, BeforeDelete, d, &removed); err != nil {
			return err
		}
		*items = append((*items)[:i:i], (*items)[i+1:]...)
		return nil
	})
	if err != nil {
		return err
	}
	s.after(ctx, AfterDelete, &removed)
	logger.Info(ctx, s.binding.Entity+" deleted", "id", entryID)
	return nil
}

// after runs after-hooks on the published snapshot. Failures are logged only;
// the change is already stored.
func (s *Service[T]) after(ctx context.Context, event HookEvent, entry *T) {
	if err := s.hooks.Run(ctx, event, s.store.Snapshot(), entry); err != nil {
		logger.Warn(ctx, "catalog hook failed",
			"entity", s.binding.Entity,
			"event", string(event),
			"error", err,
		)
	}
}
