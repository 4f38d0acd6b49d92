package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"tickoff/internal/domain"
	"tickoff/internal/repos"
	"tickoff/internal/validate"

	"github.com/google/uuid"
)

type TodoStore interface {
	Page(ctx context.Context, f repos.TodoFilter, limit, offset int) ([]domain.Todo, int, error)
	ByID(ctx context.Context, id string) (*domain.Todo, error)
	Create(ctx context.Context, t *domain.Todo) error
	Update(ctx context.Context, t *domain.Todo) error
	Delete(ctx context.Context, id, ownerID string) error
}

// TodoService exposes CRUD over todos. Every call is scoped to the owner it
// is given; another user's todo behaves exactly like a missing one.
type TodoService struct {
	Repo TodoStore
}

func NewTodoService(r TodoStore) *TodoService { return &TodoService{Repo: r} }

// List returns one page of the owner's todos and the pre-pagination total.
func (s *TodoService) List(ctx context.Context, owner *domain.User, q domain.TodoListQuery) ([]domain.Todo, int, error) {
	if err := validate.Struct(q); err != nil {
		return nil, 0, invalid("%s", err.Error())
	}
	return s.Repo.Page(ctx, repos.TodoFilter{OwnerID: owner.ID, Completed: q.Completed}, q.Limit, q.Offset())
}

func (s *TodoService) Create(ctx context.Context, owner *domain.User, in domain.TodoCreate) (*domain.Todo, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validate.Struct(in); err != nil {
		return nil, invalid("%s", err.Error())
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	t := &domain.Todo{
		ID:          id.String(),
		OwnerID:     owner.ID,
		Title:       in.Title,
		Description: in.Description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Update applies the supplied fields only and refreshes updated_at.
func (s *TodoService) Update(ctx context.Context, owner *domain.User, id string, p domain.TodoPatch) (*domain.Todo, error) {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		p.Title = &title
	}
	if err := validate.Struct(p); err != nil {
		return nil, invalid("%s", err.Error())
	}
	t, err := s.owned(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if err := s.save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TodoService) ToggleCompletion(ctx context.Context, owner *domain.User, id string) (*domain.Todo, error) {
	t, err := s.owned(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	t.Completed = !t.Completed
	if err := s.save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes the todo permanently.
func (s *TodoService) Delete(ctx context.Context, owner *domain.User, id string) (bool, error) {
	if _, err := s.owned(ctx, owner, id); err != nil {
		return false, err
	}
	if err := s.Repo.Delete(ctx, id, owner.ID); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}
	return true, nil
}

func (s *TodoService) owned(ctx context.Context, owner *domain.User, id string) (*domain.Todo, error) {
	t, err := s.Repo.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if t.OwnerID != owner.ID {
		return nil, ErrNotOwner
	}
	return t, nil
}

func (s *TodoService) save(ctx context.Context, t *domain.Todo) error {
	t.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, t); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
