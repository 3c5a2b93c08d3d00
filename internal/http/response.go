package http

import (
	"time"

	"widgetdb/pkg/store"
	"widgetdb/pkg/widget"
)

type Status string

const (
	// StatusOK is used for health-check responses.
	StatusOK Status = "OK"

	// StatusSuccess indicates an operation completed successfully.
	StatusSuccess Status = "success"

	// StatusError indicates an operation failed.
	StatusError Status = "error"
)

// Response is the envelope for responses that carry no widget data.
type Response struct {
	Status Status `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

func NewOKResponse() Response {
	return Response{Status: StatusOK}
}

func NewSuccessResponse() Response {
	return Response{Status: StatusSuccess}
}

func NewErrorResponse(err string) Response {
	return Response{Status: StatusError, Error: err}
}

type CoordinatesDTO struct {
	CenterX int32 `json:"centerX"`
	CenterY int32 `json:"centerY"`
}

type SizeDTO struct {
	Width  int32 `json:"width"`
	Height int32 `json:"height"`
}

type WidgetResponse struct {
	ID          string         `json:"id"`
	Z           int32          `json:"z"`
	Coordinates CoordinatesDTO `json:"coordinates"`
	Size        SizeDTO        `json:"size"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type RangeResponse struct {
	TotalCount int              `json:"totalCount"`
	TotalPages int              `json:"totalPages"`
	Items      []WidgetResponse `json:"items"`
}

func NewWidgetResponse(w widget.Widget) WidgetResponse {
	return WidgetResponse{
		ID:          w.ID.String(),
		Z:           w.Z,
		Coordinates: CoordinatesDTO{CenterX: w.Coordinates.CenterX, CenterY: w.Coordinates.CenterY},
		Size:        SizeDTO{Width: w.Size.Width, Height: w.Size.Height},
		UpdatedAt:   w.UpdatedAt,
	}
}

func NewRangeResponse(r store.Range) RangeResponse {
	items := make([]WidgetResponse, 0, len(r.Items))
	for _, w := range r.Items {
		items = append(items, NewWidgetResponse(w))
	}
	return RangeResponse{TotalCount: r.TotalCount, TotalPages: r.TotalPages, Items: items}
}

// CreateRequest requires everything but z.
type CreateRequest struct {
	CenterX *int32 `json:"centerX"`
	CenterY *int32 `json:"centerY"`
	Z       *int32 `json:"z,omitempty"`
	Width   *int32 `json:"width"`
	Height  *int32 `json:"height"`
}

func (r CreateRequest) params() (widget.CreateParams, []string) {
	required := []struct {
		name string
		v    *int32
	}{
		{"centerX", r.CenterX},
		{"centerY", r.CenterY},
		{"width", r.Width},
		{"height", r.Height},
	}

	var missing []string
	for _, f := range required {
		if f.v == nil {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return widget.CreateParams{}, missing
	}

	return widget.CreateParams{
		CenterX: *r.CenterX,
		CenterY: *r.CenterY,
		Z:       r.Z,
		Width:   *r.Width,
		Height:  *r.Height,
	}, nil
}

// UpdateRequest carries any subset of fields; at least one must be set.
type UpdateRequest struct {
	CenterX *int32 `json:"centerX,omitempty"`
	CenterY *int32 `json:"centerY,omitempty"`
	Z       *int32 `json:"z,omitempty"`
	Width   *int32 `json:"width,omitempty"`
	Height  *int32 `json:"height,omitempty"`
}

func (r UpdateRequest) params() widget.UpdateParams {
	return widget.UpdateParams{
		CenterX: r.CenterX,
		CenterY: r.CenterY,
		Z:       r.Z,
		Width:   r.Width,
		Height:  r.Height,
	}
}
