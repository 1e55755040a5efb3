package store

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"resty.dev/v3"

	"github.com/singampalli/ideaminds/internal/httperr"
)

// validatable is implemented by every stored entity.
type validatable interface {
	Validate() error
}

// DeleteResult is the body returned by DELETE.
type DeleteResult struct {
	Message string `json:"message"`
}

// Resource is a JSON collection exposing list/get/create/update/delete at
// <base>/<path> and <base>/<path>/{id}.
type Resource[T validatable] struct {
	client *Client
	path   string
	kind   string
}

func newResource[T validatable](client *Client, path, kind string) Resource[T] {
	return Resource[T]{client: client, path: path, kind: kind}
}

// List returns every entity in the collection. A stored entity that fails
// validation fails the whole listing with ErrInvalid.
func (r Resource[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	resp, err := r.request(ctx).SetResult(&out).Get(r.path)
	if err := r.check("list", resp, err); err != nil {
		return nil, err
	}
	for i, entity := range out {
		if err := entity.Validate(); err != nil {
			return nil, r.invalid("list", fmt.Errorf("item %d: %w", i, err))
		}
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// Get returns the entity with id. Missing entities match ErrNotFound.
func (r Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	if err := requireID(id); err != nil {
		return out, err
	}
	resp, err := r.request(ctx).SetResult(&out).Get(r.itemPath(id))
	if err := r.check("get", resp, err); err != nil {
		var zero T
		return zero, err
	}
	if err := out.Validate(); err != nil {
		var zero T
		return zero, r.invalid("get", err)
	}
	return out, nil
}

// Create validates and stores entity, returning the stored copy.
func (r Resource[T]) Create(ctx context.Context, entity T) (T, error) {
	var out T
	if err := entity.Validate(); err != nil {
		return out, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	resp, err := r.request(ctx).SetBody(entity).SetResult(&out).Post(r.path)
	if err := r.check("create", resp, err); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Update validates and replaces the entity with id.
func (r Resource[T]) Update(ctx context.Context, id string, entity T) (T, error) {
	var out T
	if err := requireID(id); err != nil {
		return out, err
	}
	if err := entity.Validate(); err != nil {
		return out, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	resp, err := r.request(ctx).SetBody(entity).SetResult(&out).Put(r.itemPath(id))
	if err := r.check("update", resp, err); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Delete removes the entity with id and returns the server message.
func (r Resource[T]) Delete(ctx context.Context, id string) (DeleteResult, error) {
	var out DeleteResult
	if err := requireID(id); err != nil {
		return out, err
	}
	resp, err := r.request(ctx).SetResult(&out).Delete(r.itemPath(id))
	if err := r.check("delete", resp, err); err != nil {
		return DeleteResult{}, err
	}
	return out, nil
}

func (r Resource[T]) request(ctx context.Context) *resty.Request {
	return r.client.rest.R().
		SetContext(ctx).
		SetExpectResponseContentType("application/json")
}

func (r Resource[T]) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

func (r Resource[T]) check(op string, resp *resty.Response, err error) error {
	if err != nil {
		r.client.logger.Error("store request failed", zap.String("kind", r.kind), zap.String("op", op), zap.Error(err))
		return fmt.Errorf("store: %s %s: %w", op, r.kind, err)
	}
	if resp.IsError() {
		r.client.logger.Warn("store request rejected",
			zap.String("kind", r.kind),
			zap.String("op", op),
			zap.Int("status", resp.StatusCode()))
		return fmt.Errorf("store: %s %s: %w", op, r.kind, httperr.New(resp.StatusCode(), resp.String()))
	}
	r.client.logger.Debug("store request", zap.String("kind", r.kind), zap.String("op", op))
	return nil
}

// invalid reports a stored entity that came back without its required fields.
func (r Resource[T]) invalid(op string, err error) error {
	r.client.logger.Warn("store returned invalid resource",
		zap.String("kind", r.kind),
		zap.String("op", op),
		zap.Error(err))
	return fmt.Errorf("%w: %s %s: %w", ErrInvalid, op, r.kind, err)
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalid)
	}
	return nil
}
