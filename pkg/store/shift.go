package store

import (
	"fmt"
	"log/slog"
	"time"

	"widgetdb/pkg/dberrors"
	"widgetdb/pkg/metrics"
	"widgetdb/pkg/widget"
)

// shiftAll frees z, rippling as far up the board as needed.
func (s *Store) shiftAll(z int32, now time.Time) error {
	return s.shift(z, widget.MaxZ-1, false, now)
}

// shiftUntil frees newZ for a widget moving down from oldZ. oldZ is about to
// be vacated, so the ripple never needs to go past it.
func (s *Store) shiftUntil(newZ, oldZ int32, now time.Time) error {
	return s.shift(newZ, oldZ, true, now)
}

// shift frees startZ by pushing the contiguous run of widgets starting there
// one slot up. The run ends at the first free slot or at endZ, whichever
// comes first; a widget sitting at endZ is never moved. Unless the caller is
// vacating endZ itself, a run that reaches it has nowhere left to go.
//
// Must be called under the mutation lock.
func (s *Store) shift(startZ, endZ int32, endVacated bool, now time.Time) error {
	var run []*widget.Widget
	for z := startZ; ; z++ {
		w, err := s.ix.GetByZ(z)
		if err != nil {
			break
		}
		if z == endZ {
			if !endVacated {
				return fmt.Errorf("shift from z %d: run reaches z %d: %w", startZ, endZ, dberrors.ErrCapacityExceeded)
			}
			break
		}
		run = append(run, w)
	}

	// top down, so each widget lands on a slot that is already free
	for i := len(run) - 1; i >= 0; i-- {
		moved := run[i].MovedTo(run[i].Z+1, now)
		s.ix.Put(moved)
		s.next.Observe(moved.Z)
	}

	if len(run) > 0 {
		s.metrics.IncCounter(metrics.ShiftedTotal, nil, float64(len(run)))
		slog.Debug("widgets shifted", "from", startZ, "count", len(run))
	}
	return nil
}
