package store

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"widgetdb/pkg/clock"
	"widgetdb/pkg/dberrors"
	"widgetdb/pkg/index"
	"widgetdb/pkg/metrics"
	"widgetdb/pkg/widget"
)

// optimistic reads give up and take the mutation lock after this many torn attempts
const maxOptimisticReads = 8

type iTimeProvider interface {
	Now() time.Time
}

type systemTime struct{}

func (systemTime) Now() time.Time {
	return time.Now()
}

// Range is one page of widgets ordered by Z ascending.
type Range struct {
	Items      []widget.Widget
	TotalCount int
	TotalPages int
}

type Stats struct {
	Widgets int
	NextZ   int64
}

// Store is the widget board: a dual index plus the Z allocator, with all
// mutations serialized behind one lock.
//
// Readers never take the lock. They sample ver before and after reading and
// retry when a mutation was in flight (ver is odd while one runs), so a page
// never mixes Z values from before and after a cascade.
type Store struct {
	tp      iTimeProvider
	metrics metrics.Collector

	mu   sync.Mutex
	ver  atomic.Uint64
	ix   *index.Index
	next *clock.HighWater
}

type Option func(*Store)

// WithCollector reports operation and cascade counters to c.
func WithCollector(c metrics.Collector) Option {
	return func(s *Store) {
		s.metrics = c
	}
}

func New(tp iTimeProvider, opts ...Option) *Store {
	if tp == nil {
		tp = systemTime{}
	}
	s := &Store{
		tp:      tp,
		metrics: metrics.Nop,
		ix:      index.New(),
		next:    clock.NewHighWater(0, widget.MaxZ),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// mutate runs f under the mutation lock with ver odd for its whole duration.
func (s *Store) mutate(op string, f func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ver.Add(1)
	err := f()
	s.ver.Add(1)

	result := "ok"
	if err != nil {
		result = "error"
	}
	s.metrics.IncCounter(metrics.OpsTotal, map[string]string{"op": op, "result": result}, 1)
	s.metrics.SetGauge(metrics.Widgets, nil, float64(s.ix.Len()))
	s.metrics.SetGauge(metrics.NextZ, nil, float64(s.next.Val()))
	return err
}

func readStable[T any](s *Store, read func() (T, error)) (T, error) {
	for attempt := 0; attempt < maxOptimisticReads; attempt++ {
		v := s.ver.Load()
		if v&1 == 1 {
			runtime.Gosched()
			continue
		}

		res, err := read()
		if s.ver.Load() == v {
			return res, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return read()
}

// Insert places a new widget. Without an explicit Z it goes on top; with one,
// anything already at that Z is pushed up.
func (s *Store) Insert(p widget.CreateParams) (widget.Widget, error) {
	if err := p.Validate(); err != nil {
		return widget.Widget{}, err
	}

	var created *widget.Widget
	err := s.mutate("insert", func() error {
		if s.next.Exhausted() {
			return fmt.Errorf("insert: %w", dberrors.ErrCapacityExceeded)
		}

		now := s.tp.Now()

		var z int32
		if p.Z == nil {
			var err error
			if z, err = s.next.NextFreeAndAdvance(); err != nil {
				return err
			}
		} else {
			z = *p.Z
			if err := s.shiftAll(z, now); err != nil {
				return err
			}
			s.next.Observe(z)
		}

		w, err := widget.New(z, p.CenterX, p.CenterY, p.Width, p.Height, now)
		if err != nil {
			return err
		}
		s.ix.Put(w)
		created = w
		return nil
	})
	if err != nil {
		return widget.Widget{}, err
	}

	slog.Debug("widget inserted", "id", created.ID, "z", created.Z)
	return *created, nil
}

func (s *Store) GetByID(id uuid.UUID) (widget.Widget, error) {
	w, err := s.ix.GetByID(id)
	if err != nil {
		return widget.Widget{}, err
	}
	return *w, nil
}

func (s *Store) GetByZ(z int32) (widget.Widget, error) {
	return readStable(s, func() (widget.Widget, error) {
		w, err := s.ix.GetByZ(z)
		if err != nil {
			return widget.Widget{}, err
		}
		return *w, nil
	})
}

// GetRange returns the page-th (zero based) page of widgets ordered by Z.
func (s *Store) GetRange(page, size int) (Range, error) {
	return readStable(s, func() (Range, error) {
		items, total, pages, err := s.ix.Page(page, size)
		if err != nil {
			return Range{}, err
		}
		return Range{Items: items, TotalCount: total, TotalPages: pages}, nil
	})
}

// Update applies the fields set in p. Moving a widget to a lower Z only
// disturbs the widgets between the new and the old position.
func (s *Store) Update(id uuid.UUID, p widget.UpdateParams) (widget.Widget, error) {
	if err := p.Validate(); err != nil {
		return widget.Widget{}, err
	}

	var updated *widget.Widget
	err := s.mutate("update", func() error {
		cur, err := s.ix.GetByID(id)
		if err != nil {
			return err
		}

		now := s.tp.Now()
		z := cur.Z
		if p.Z != nil && *p.Z != cur.Z {
			z = *p.Z

			if cur.Z > z {
				err = s.shiftUntil(z, cur.Z, now)
			} else {
				err = s.shiftAll(z, now)
			}
			if err != nil {
				return err
			}
			s.next.Observe(z)
		}

		updated = p.Apply(cur, z, now)
		s.ix.Put(updated)
		return nil
	})
	if err != nil {
		return widget.Widget{}, err
	}

	slog.Debug("widget updated", "id", id, "z", updated.Z)
	return *updated, nil
}

func (s *Store) Delete(id uuid.UUID) error {
	err := s.mutate("delete", func() error {
		_, err := s.ix.Remove(id)
		return err
	})
	if dberrors.IsInternal(err) {
		slog.Error("index integrity failure on delete", "id", id, "error", err)
	}
	return err
}

// Clear drops every widget and rewinds the allocator.
func (s *Store) Clear() {
	_ = s.mutate("clear", func() error {
		s.ix.Clear()
		s.next.Reset(0)
		return nil
	})
}

func (s *Store) Stats() Stats {
	return Stats{
		Widgets: s.ix.Len(),
		NextZ:   s.next.Val(),
	}
}

// Check audits the index under the mutation lock.
func (s *Store) Check() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ix.Check()
}
