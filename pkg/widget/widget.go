package widget

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"widgetdb/pkg/dberrors"
)

// MaxZ is reserved: no widget may ever occupy it. The shift engine needs one
// slot above every live value to detect a cascade running off the end.
const MaxZ int32 = math.MaxInt32

type Coordinates struct {
	CenterX int32
	CenterY int32
}

type Size struct {
	Width  int32
	Height int32
}

// Widget is a flat rectangle placed on a board. A published Widget is never
// mutated; updates and shifts install a fresh copy into the index.
type Widget struct {
	ID          uuid.UUID
	Z           int32
	Coordinates Coordinates
	Size        Size
	UpdatedAt   time.Time
}

// New builds a widget with a fresh identifier.
func New(z, centerX, centerY, width, height int32, now time.Time) (*Widget, error) {
	w := &Widget{
		ID:          uuid.New(),
		Z:           z,
		Coordinates: Coordinates{CenterX: centerX, CenterY: centerY},
		Size:        Size{Width: width, Height: height},
		UpdatedAt:   now,
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Widget) Validate() error {
	if w.Size.Width <= 0 || w.Size.Height <= 0 {
		return fmt.Errorf("size %dx%d must be positive: %w", w.Size.Width, w.Size.Height, dberrors.ErrInvalidArgument)
	}
	if w.Z == MaxZ {
		return fmt.Errorf("z %d is reserved: %w", w.Z, dberrors.ErrCapacityExceeded)
	}
	return nil
}

// MovedTo returns a copy of w re-homed at z.
func (w *Widget) MovedTo(z int32, now time.Time) *Widget {
	moved := *w
	moved.Z = z
	moved.UpdatedAt = now
	return &moved
}
