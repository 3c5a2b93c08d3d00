package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"widgetdb/pkg/dberrors"
	"widgetdb/pkg/widget"
)

// Widget mirrors the server's widget representation.
type Widget struct {
	ID          uuid.UUID `json:"id"`
	Z           int32     `json:"z"`
	Coordinates struct {
		CenterX int32 `json:"centerX"`
		CenterY int32 `json:"centerY"`
	} `json:"coordinates"`
	Size struct {
		Width  int32 `json:"width"`
		Height int32 `json:"height"`
	} `json:"size"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Page struct {
	TotalCount int      `json:"totalCount"`
	TotalPages int      `json:"totalPages"`
	Items      []Widget `json:"items"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// WidgetClient talks to a widgetdb server.
type WidgetClient struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string) *WidgetClient {
	return &WidgetClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 3 * time.Second},
	}
}

func (c *WidgetClient) Create(p widget.CreateParams) (Widget, error) {
	body := map[string]any{
		"centerX": p.CenterX,
		"centerY": p.CenterY,
		"width":   p.Width,
		"height":  p.Height,
	}
	if p.Z != nil {
		body["z"] = *p.Z
	}

	var w Widget
	err := c.do(http.MethodPost, "/api/v1/widgets", body, http.StatusCreated, &w)
	return w, err
}

func (c *WidgetClient) Get(id uuid.UUID) (Widget, error) {
	var w Widget
	err := c.do(http.MethodGet, "/api/v1/widgets/"+id.String(), nil, http.StatusOK, &w)
	return w, err
}

func (c *WidgetClient) List(page, size int) (Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	var p Page
	err := c.do(http.MethodGet, "/api/v1/widgets?"+q.Encode(), nil, http.StatusOK, &p)
	return p, err
}

func (c *WidgetClient) Update(id uuid.UUID, p widget.UpdateParams) (Widget, error) {
	body := map[string]*int32{}
	for name, v := range map[string]*int32{
		"centerX": p.CenterX,
		"centerY": p.CenterY,
		"z":       p.Z,
		"width":   p.Width,
		"height":  p.Height,
	} {
		if v != nil {
			body[name] = v
		}
	}

	var w Widget
	err := c.do(http.MethodPut, "/api/v1/widgets/"+id.String(), body, http.StatusOK, &w)
	return w, err
}

func (c *WidgetClient) Delete(id uuid.UUID) error {
	return c.do(http.MethodDelete, "/api/v1/widgets/"+id.String(), nil, http.StatusOK, nil)
}

func (c *WidgetClient) do(method, path string, in any, want int, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s failed: %w", method, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != want {
		return statusError(method, resp.StatusCode, b)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode: %w body=%s", err, string(b))
	}
	return nil
}

// statusError turns a response status back into the store's error taxonomy.
func statusError(method string, status int, body []byte) error {
	var er errorResponse
	_ = json.Unmarshal(body, &er)

	var kind error
	switch status {
	case http.StatusNotFound:
		kind = dberrors.ErrNotFound
	case http.StatusBadRequest:
		kind = dberrors.ErrInvalidArgument
	case http.StatusUnprocessableEntity:
		kind = dberrors.ErrCapacityExceeded
	default:
		kind = dberrors.ErrInternal
	}
	return fmt.Errorf("%s status=%d error=%q: %w", method, status, er.Error, kind)
}
