package widget

import (
	"fmt"
	"time"

	"widgetdb/pkg/dberrors"
)

// CreateParams describes a widget to insert. A nil Z places it on top.
type CreateParams struct {
	CenterX int32
	CenterY int32
	Z       *int32
	Width   int32
	Height  int32
}

// UpdateParams carries a partial update; nil fields keep their stored value.
type UpdateParams struct {
	CenterX *int32
	CenterY *int32
	Z       *int32
	Width   *int32
	Height  *int32
}

func (p UpdateParams) Empty() bool {
	return p.CenterX == nil && p.CenterY == nil && p.Z == nil && p.Width == nil && p.Height == nil
}

func (p UpdateParams) Validate() error {
	if p.Empty() {
		return fmt.Errorf("nothing to update: %w", dberrors.ErrInvalidArgument)
	}
	if p.Width != nil && *p.Width <= 0 {
		return fmt.Errorf("width %d must be positive: %w", *p.Width, dberrors.ErrInvalidArgument)
	}
	if p.Height != nil && *p.Height <= 0 {
		return fmt.Errorf("height %d must be positive: %w", *p.Height, dberrors.ErrInvalidArgument)
	}
	if p.Z != nil && *p.Z == MaxZ {
		return fmt.Errorf("z %d is reserved: %w", *p.Z, dberrors.ErrCapacityExceeded)
	}
	return nil
}

// Apply merges p into a copy of w placed at z.
func (p UpdateParams) Apply(w *Widget, z int32, now time.Time) *Widget {
	updated := w.MovedTo(z, now)
	if p.CenterX != nil {
		updated.Coordinates.CenterX = *p.CenterX
	}
	if p.CenterY != nil {
		updated.Coordinates.CenterY = *p.CenterY
	}
	if p.Width != nil {
		updated.Size.Width = *p.Width
	}
	if p.Height != nil {
		updated.Size.Height = *p.Height
	}
	return updated
}

// Int32 is a helper for building optional fields.
func Int32(v int32) *int32 {
	return &v
}

func (p CreateParams) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("size %dx%d must be positive: %w", p.Width, p.Height, dberrors.ErrInvalidArgument)
	}
	if p.Z != nil && *p.Z == MaxZ {
		return fmt.Errorf("z %d is reserved: %w", *p.Z, dberrors.ErrCapacityExceeded)
	}
	return nil
}
