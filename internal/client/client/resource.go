package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/staffdesk/internal/client/models"
)

type ListQuery struct {
	Search string `form:"search"`
	Page   int    `form:"page"`
}

type Pagination struct {
	TotalPages int `json:"totalPages"`
}

// ListResult is one page of a collection. Pagination is nil when the
// backend does not paginate the endpoint.
type ListResult[T any] struct {
	Data       []T         `json:"data"`
	Pagination *Pagination `json:"pagination"`
}

// Resource binds one collection endpoint, e.g. /companies.
type Resource[T any] struct {
	c    *RESTClient
	path string
}

func NewResource[T any](c *RESTClient, path string) *Resource[T] {
	return &Resource[T]{c: c, path: path}
}

func (r *Resource[T]) Path() string { return r.path }

func (r *Resource[T]) List(ctx context.Context, q ListQuery) (*ListResult[T], error) {
	values, err := r.c.enc.Encode(q)
	if err != nil {
		return nil, fmt.Errorf("encode list query: %w", err)
	}

	var raw json.RawMessage
	if err := r.c.do(ctx, http.MethodGet, r.path, values, nil, "", &raw); err != nil {
		return nil, err
	}

	res := &ListResult[T]{}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &res.Data); err != nil {
			return nil, fmt.Errorf("decode %s list: %w", r.path, err)
		}
		return res, nil
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, res); err != nil {
			return nil, fmt.Errorf("decode %s list: %w", r.path, err)
		}
	}
	return res, nil
}

func (r *Resource[T]) Create(ctx context.Context, p Payload) (*T, error) {
	return r.send(ctx, http.MethodPost, r.path, p)
}

func (r *Resource[T]) Update(ctx context.Context, id models.ID, p Payload) (*T, error) {
	return r.send(ctx, http.MethodPut, r.itemPath(id), p)
}

func (r *Resource[T]) Delete(ctx context.Context, id models.ID) error {
	return r.c.do(ctx, http.MethodDelete, r.itemPath(id), nil, nil, "", nil)
}

func (r *Resource[T]) itemPath(id models.ID) string {
	return r.path + "/" + url.PathEscape(id.String())
}

func (r *Resource[T]) send(ctx context.Context, method, path string, p Payload) (*T, error) {
	body, contentType, err := p.Encode()
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := r.c.do(ctx, method, path, nil, body, contentType, &raw); err != nil {
		return nil, err
	}
	return unwrapEntity[T](raw)
}

// unwrapEntity accepts both a bare entity and one wrapped in {"data": ...}.
func unwrapEntity[T any](raw json.RawMessage) (*T, error) {
	var out T
	if len(bytes.TrimSpace(raw)) == 0 {
		return &out, nil
	}

	var wrapped struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		if d := bytes.TrimSpace(wrapped.Data); len(d) > 0 && d[0] == '{' {
			raw = d
		}
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode entity: %w", err)
	}
	return &out, nil
}
