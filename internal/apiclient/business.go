package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"bizadmin/internal/model"
)

// now is swapped in tests for deterministic cache busters.
var now = time.Now

// ListBusinesses fetches one page. A cache buster is always attached; forced
// reloads add a second one and ask intermediaries not to store the response.
// ErrNotModified means the server answered 304 and the caller keeps its rows.
func (c *Client) ListBusinesses(ctx context.Context, q model.ListQuery) (model.ListResponse, error) {
	v := q.Values()
	stamp := strconv.FormatInt(now().UnixMilli(), 10)
	v.Set("_", stamp)
	headers := map[string]string{"Cache-Control": "no-cache", "Pragma": "no-cache"}
	if q.Force {
		v.Set("force", stamp)
		headers["Cache-Control"] = "no-store"
		headers["Pragma"] = "no-store"
	}
	var out model.ListResponse
	err := c.do(ctx, request{method: http.MethodGet, path: "/business", query: v, headers: headers}, &out)
	return out, err
}

func (c *Client) GetBusiness(ctx context.Context, id string) (model.Business, error) {
	var out model.Business
	err := c.do(ctx, request{method: http.MethodGet, path: "/business", query: url.Values{"id": {id}}}, &out)
	if err != nil {
		return model.Business{}, err
	}
	return model.NormalizeBusiness(out), nil
}

// CreateBusiness posts the basic step and returns the created record.
func (c *Client) CreateBusiness(ctx context.Context, p map[string]any) (model.Business, error) {
	var out model.Business
	if err := c.do(ctx, request{method: http.MethodPost, path: "/business", body: p}, &out); err != nil {
		return model.Business{}, err
	}
	return out, nil
}

func (c *Client) UpdateBusiness(ctx context.Context, p map[string]any) error {
	return c.do(ctx, request{method: http.MethodPut, path: "/business", body: p}, nil)
}

func (c *Client) UpsertAddresses(ctx context.Context, p map[string]any) error {
	return c.do(ctx, request{method: http.MethodPut, path: "/business-address", body: p}, nil)
}

// SetBusinessStatus flips the disabled flag of one record.
func (c *Client) SetBusinessStatus(ctx context.Context, id string, disabled bool) error {
	body := map[string]any{"id": id, "disabled": disabled}
	return c.do(ctx, request{method: http.MethodPut, path: "/business", body: body}, nil)
}

func (c *Client) DeleteBusiness(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/business", query: url.Values{"id": {id}}}, nil)
}
