package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/staffdesk/internal/client/cache"
	"github.com/dmitrijs2005/staffdesk/internal/client/client"
	"github.com/dmitrijs2005/staffdesk/internal/client/forms"
	"github.com/dmitrijs2005/staffdesk/internal/client/models"
)

// Backend is the CRUD surface of one collection endpoint.
type Backend[T any] interface {
	List(ctx context.Context, q client.ListQuery) (*client.ListResult[T], error)
	Create(ctx context.Context, p client.Payload) (*T, error)
	Update(ctx context.Context, id models.ID, p client.Payload) (*T, error)
	Delete(ctx context.Context, id models.ID) error
}

// EntityService adapts a Backend to the cache and the form machine.
type EntityService[T any] struct {
	backend Backend[T]
}

func NewEntityService[T any](backend Backend[T]) *EntityService[T] {
	return &EntityService[T]{backend: backend}
}

// Fetch loads one page. An endpoint without pagination counts as a single
// page.
func (s *EntityService[T]) Fetch(ctx context.Context, key cache.Key) (cache.Page[T], error) {
	res, err := s.backend.List(ctx, client.ListQuery{Search: key.Search, Page: key.Page})
	if err != nil {
		return cache.Page[T]{}, err
	}

	total := 1
	if res.Pagination != nil && res.Pagination.TotalPages > 1 {
		total = res.Pagination.TotalPages
	}
	return cache.Page[T]{Key: key, Items: res.Data, TotalPages: total}, nil
}

// Submit creates or updates depending on the mode the form was opened in.
func (s *EntityService[T]) Submit(ctx context.Context, sub forms.Submission) (*T, error) {
	p := PayloadOf(sub)
	switch sub.Mode {
	case forms.Creating:
		return s.backend.Create(ctx, p)
	case forms.Editing:
		return s.backend.Update(ctx, sub.TargetID, p)
	default:
		return nil, fmt.Errorf("cannot submit a %s form", sub.Mode)
	}
}

func (s *EntityService[T]) Delete(ctx context.Context, id models.ID) error {
	return s.backend.Delete(ctx, id)
}

func PayloadOf(sub forms.Submission) client.Payload {
	var p client.Payload
	for _, v := range sub.Values {
		p.Fields = append(p.Fields, client.Part{Name: v.Name, Value: v.Value})
	}
	for _, f := range sub.Files {
		p.Files = append(p.Files, client.FilePart{
			Field:       sub.FileField,
			Filename:    f.Filename,
			ContentType: f.ContentType,
			Data:        f.Data,
		})
	}
	return p
}
