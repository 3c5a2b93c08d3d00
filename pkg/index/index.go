package index

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
	"github.com/zhangyunhao116/skipmap"

	"widgetdb/pkg/dberrors"
	"widgetdb/pkg/widget"
)

type (
	byID = skipmap.FuncMap[uuid.UUID, *widget.Widget]
	byZ  = skipmap.OrderedMap[int32, *widget.Widget]
)

// Index keeps two views over the same widget records: by identity and by Z.
// Each view is safe for concurrent access on its own. Keeping the two views
// in agreement across several calls is up to the caller, which is expected
// to serialize writers.
type Index struct {
	ids *byID
	zs  *byZ
}

func New() *Index {
	return &Index{
		ids: skipmap.NewFunc[uuid.UUID, *widget.Widget](func(a, b uuid.UUID) bool {
			return bytes.Compare(a[:], b[:]) < 0
		}),
		zs: skipmap.New[int32, *widget.Widget](),
	}
}

// Put installs w in both views, dropping the Z entry this identity held before
// as long as nobody else has taken that slot in the meantime.
func (ix *Index) Put(w *widget.Widget) {
	if prev, ok := ix.ids.Load(w.ID); ok && prev.Z != w.Z {
		if occupant, ok := ix.zs.Load(prev.Z); ok && occupant.ID == w.ID {
			ix.zs.Delete(prev.Z)
		}
	}

	ix.ids.Store(w.ID, w)
	ix.zs.Store(w.Z, w)
}

func (ix *Index) GetByID(id uuid.UUID) (*widget.Widget, error) {
	w, ok := ix.ids.Load(id)
	if !ok {
		return nil, fmt.Errorf("widget %s: %w", id, dberrors.ErrNotFound)
	}
	return w, nil
}

func (ix *Index) GetByZ(z int32) (*widget.Widget, error) {
	w, ok := ix.zs.Load(z)
	if !ok {
		return nil, fmt.Errorf("widget at z %d: %w", z, dberrors.ErrNotFound)
	}
	return w, nil
}

// Remove deletes the widget from both views. A Z view entry that does not hold
// the same record is reported as an integrity failure.
func (ix *Index) Remove(id uuid.UUID) (*widget.Widget, error) {
	w, ok := ix.ids.Load(id)
	if !ok {
		return nil, fmt.Errorf("widget %s: %w", id, dberrors.ErrNotFound)
	}

	occupant, ok := ix.zs.Load(w.Z)
	if !ok || occupant != w {
		return nil, fmt.Errorf("widget %s: z view entry at %d does not match: %w", id, w.Z, dberrors.ErrInternal)
	}

	ix.zs.Delete(w.Z)
	ix.ids.Delete(id)
	return w, nil
}

// Page returns the page-th (zero based) slice of widgets ordered by Z ascending.
func (ix *Index) Page(page, size int) (items []widget.Widget, total, pages int, err error) {
	if page < 0 || size < 1 {
		return nil, 0, 0, fmt.Errorf("page %d size %d: %w", page, size, dberrors.ErrInvalidArgument)
	}

	total = ix.zs.Len()
	pages = total / size
	if total%size != 0 {
		pages++
	}

	// page < pages keeps page*size below total
	if page >= pages {
		return []widget.Widget{}, total, pages, nil
	}

	skip := page * size
	items = make([]widget.Widget, 0, min(size, total-skip))
	var seen int
	ix.zs.Range(func(_ int32, w *widget.Widget) bool {
		if seen < skip {
			seen++
			return true
		}
		items = append(items, *w)
		return len(items) < size
	})

	return items, total, pages, nil
}

func (ix *Index) Len() int {
	return ix.ids.Len()
}

// Clear empties both views.
func (ix *Index) Clear() {
	ix.ids.Range(func(id uuid.UUID, _ *widget.Widget) bool {
		ix.ids.Delete(id)
		return true
	})
	ix.zs.Range(func(z int32, _ *widget.Widget) bool {
		ix.zs.Delete(z)
		return true
	})
}

// Check audits that both views describe the same set of records.
func (ix *Index) Check() error {
	if ix.ids.Len() != ix.zs.Len() {
		return fmt.Errorf("id view has %d entries, z view %d: %w", ix.ids.Len(), ix.zs.Len(), dberrors.ErrInternal)
	}

	var err error
	ix.zs.Range(func(z int32, w *widget.Widget) bool {
		if w.Z != z {
			err = fmt.Errorf("widget %s stored at z %d claims z %d: %w", w.ID, z, w.Z, dberrors.ErrInternal)
			return false
		}
		if byID, ok := ix.ids.Load(w.ID); !ok || byID != w {
			err = fmt.Errorf("widget %s at z %d is not the id view record: %w", w.ID, z, dberrors.ErrInternal)
			return false
		}
		return true
	})
	return err
}
