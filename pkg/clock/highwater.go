package clock

import (
	"fmt"
	"sync/atomic"

	"widgetdb/pkg/dberrors"
)

// HighWater tracks the next never-used Z value. It only moves forward.
// Writers are expected to be serialized by the caller; the atomic lets
// readers sample it without the lock.
type HighWater struct {
	atomic.Int64
	max int64
}

func NewHighWater(init, max int32) *HighWater {
	hw := HighWater{max: int64(max)}
	hw.Store(int64(init))
	return &hw
}

func (hw *HighWater) Val() int64 {
	return hw.Load()
}

// NextFreeAndAdvance returns the current mark and moves it up by one.
func (hw *HighWater) NextFreeAndAdvance() (int32, error) {
	if hw.Exhausted() {
		return 0, fmt.Errorf("next z %d: %w", hw.Load(), dberrors.ErrCapacityExceeded)
	}
	return int32(hw.Add(1) - 1), nil
}

// Observe advances the mark past z if z is at or above it.
func (hw *HighWater) Observe(z int32) {
	if next := int64(z) + 1; next > hw.Load() {
		hw.Store(min(next, hw.max))
	}
}

func (hw *HighWater) Exhausted() bool {
	return hw.Load() >= hw.max
}

func (hw *HighWater) Reset(init int32) {
	hw.Store(int64(init))
}
