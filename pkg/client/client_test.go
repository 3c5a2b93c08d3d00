package client

import (
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	widgethttp "widgetdb/internal/http"
	"widgetdb/pkg/config"
	"widgetdb/pkg/dberrors"
	"widgetdb/pkg/store"
	"widgetdb/pkg/widget"
)

func newTestClient(t *testing.T) *WidgetClient {
	t.Helper()
	srv := httptest.NewServer(widgethttp.NewServer(store.New(nil), config.Default()).Handler())
	t.Cleanup(srv.Close)
	return New(srv.URL + "/")
}

func TestClient_RoundTrip(t *testing.T) {
	c := newTestClient(t)

	first, err := c.Create(widget.CreateParams{CenterX: 1, CenterY: 2, Width: 3, Height: 4})
	require.NoError(t, err)
	assert.Equal(t, int32(0), first.Z)

	second, err := c.Create(widget.CreateParams{CenterX: 5, CenterY: 6, Z: widget.Int32(0), Width: 7, Height: 8})
	require.NoError(t, err)
	assert.Equal(t, int32(0), second.Z)

	shifted, err := c.Get(first.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(1), shifted.Z)
	assert.Equal(t, int32(3), shifted.Size.Width)

	moved, err := c.Update(first.ID, widget.UpdateParams{Z: widget.Int32(0), CenterX: widget.Int32(9)})
	require.NoError(t, err)
	assert.Equal(t, int32(0), moved.Z)
	assert.Equal(t, int32(9), moved.Coordinates.CenterX)
	assert.Equal(t, int32(2), moved.Coordinates.CenterY)

	page, err := c.List(0, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, first.ID, page.Items[0].ID)
	assert.Equal(t, second.ID, page.Items[1].ID)
	assert.Equal(t, int32(1), page.Items[1].Z)

	require.NoError(t, c.Delete(second.ID))
	_, err = c.Get(second.ID)
	assert.ErrorIs(t, err, dberrors.ErrNotFound)
}

func TestClient_ErrorMapping(t *testing.T) {
	c := newTestClient(t)

	_, err := c.Update(uuid.New(), widget.UpdateParams{})
	assert.ErrorIs(t, err, dberrors.ErrInvalidArgument)

	err = c.Delete(uuid.New())
	assert.ErrorIs(t, err, dberrors.ErrNotFound)

	_, err = c.Create(widget.CreateParams{Z: widget.Int32(widget.MaxZ), Width: 1, Height: 1})
	assert.ErrorIs(t, err, dberrors.ErrCapacityExceeded)
}
