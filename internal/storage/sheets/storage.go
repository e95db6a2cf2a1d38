// Package sheets implements the dashboard's repositories over a
// tabular.Store. Rows are mapped to records only through a ColumnMap built
// from the current header, so legacy spellings and reordered columns read
// correctly.
package sheets

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"agency-dashboard/internal/cache"
	"agency-dashboard/internal/storage"
	"agency-dashboard/internal/tabular"
)

// Storage serializes writes per sheet: a row number found by locate is only
// valid until the next delete shifts the rows below it.
type Storage struct {
	store tabular.Store
	cache *cache.Cache
	ttl   time.Duration
	now   func() time.Time
	newID func() string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New builds the repository. Sheet reads are cached for sheetTTL; every
// write drops the sheet entry and all cached reports.
func New(store tabular.Store, c *cache.Cache, sheetTTL time.Duration) *Storage {
	return &Storage{
		store: store,
		cache: c,
		ttl:   sheetTTL,
		now:   time.Now,
		newID: uuid.NewString,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *Storage) lock(sheet string) func() {
	s.mu.Lock()
	l, ok := s.locks[sheet]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sheet] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// EnsureSchemas creates missing sheets and header columns.
func (s *Storage) EnsureSchemas(ctx context.Context) error {
	const op = "storage.sheets.EnsureSchemas"

	for _, schema := range Schemas() {
		if err := tabular.EnsureSchema(ctx, s.store, schema); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		s.invalidate(schema.Sheet)
	}

	return nil
}

// table binds a record type to its sheet. ws and date may be nil when the
// record has no workspace or no date to filter by.
type table[T any] struct {
	schema tabular.Schema
	id     func(T) string
	ws     func(T) string
	date   func(T) string
	decode func(tabular.Record) T
	encode func(T) map[string]string
}

func (s *Storage) readCached(ctx context.Context, sheet string) ([][]string, error) {
	return cache.Load(s.cache, cache.SheetPrefix+sheet, s.ttl, func() ([][]string, error) {
		return s.store.Read(ctx, sheet)
	})
}

func (s *Storage) invalidate(sheet string) {
	if s.cache == nil {
		return
	}
	s.cache.Delete(cache.SheetPrefix + sheet)
	s.cache.InvalidatePrefix(cache.MetricsPrefix)
}

func list[T any](ctx context.Context, s *Storage, t table[T], f storage.Filter) ([]T, error) {
	rows, err := s.readCached(ctx, t.schema.Sheet)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	cm := tabular.NewColumnMap(rows[0], t.schema)
	for _, row := range rows[1:] {
		v := t.decode(cm.Record(row))
		if t.id(v) == "" {
			continue
		}
		if t.ws != nil && !f.MatchWorkspace(t.ws(v)) {
			continue
		}
		if t.date != nil && !f.MatchMonth(t.date(v)) {
			continue
		}
		out = append(out, v)
	}

	return out, nil
}

// located is a row found by id in a fresh, uncached read.
type located struct {
	cm     tabular.ColumnMap
	rowNum int
	row    []string
}

func locate[T any](ctx context.Context, s *Storage, t table[T], id string) (located, error) {
	rows, err := s.store.Read(ctx, t.schema.Sheet)
	if err != nil {
		return located{}, err
	}
	if len(rows) == 0 {
		return located{}, fmt.Errorf("%w: %s %s", storage.ErrNotFound, t.schema.Sheet, id)
	}

	cm := tabular.NewColumnMap(rows[0], t.schema)
	idx, ok := cm.Index("id")
	if !ok {
		return located{}, fmt.Errorf("%w: %s has no id column", storage.ErrNotFound, t.schema.Sheet)
	}

	for i := 1; i < len(rows); i++ {
		if idx < len(rows[i]) && strings.TrimSpace(rows[i][idx]) == id {
			return located{cm: cm, rowNum: i + tabular.HeaderRow, row: rows[i]}, nil
		}
	}

	return located{}, fmt.Errorf("%w: %s %s", storage.ErrNotFound, t.schema.Sheet, id)
}

func create[T any](ctx context.Context, s *Storage, t table[T], v T) (T, error) {
	defer s.lock(t.schema.Sheet)()

	rows, err := s.readCached(ctx, t.schema.Sheet)
	if err != nil {
		return v, err
	}
	if len(rows) == 0 {
		return v, fmt.Errorf("%s has no header row", t.schema.Sheet)
	}

	cm := tabular.NewColumnMap(rows[0], t.schema)
	if _, err := s.store.Append(ctx, t.schema.Sheet, cm.Row(t.encode(v))); err != nil {
		return v, err
	}
	s.invalidate(t.schema.Sheet)

	return v, nil
}

// update rewrites the row holding id with what build returns for the stored
// record. build runs under the sheet lock, so checks it makes against the
// stored record hold until the write.
func update[T any](ctx context.Context, s *Storage, t table[T], id string, build func(existing T) (T, error)) (T, error) {
	var zero T

	defer s.lock(t.schema.Sheet)()

	loc, err := locate(ctx, s, t, id)
	if err != nil {
		return zero, err
	}

	v, err := build(t.decode(loc.cm.Record(loc.row)))
	if err != nil {
		return zero, err
	}

	if err := s.store.Update(ctx, t.schema.Sheet, loc.rowNum, loc.cm.Merge(loc.row, t.encode(v))); err != nil {
		return zero, err
	}
	s.invalidate(t.schema.Sheet)

	return v, nil
}

func remove[T any](ctx context.Context, s *Storage, t table[T], id string) error {
	defer s.lock(t.schema.Sheet)()

	loc, err := locate(ctx, s, t, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, t.schema.Sheet, loc.rowNum); err != nil {
		return err
	}
	s.invalidate(t.schema.Sheet)

	return nil
}
