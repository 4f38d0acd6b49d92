package repos_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tickoff/internal/domain"
	"tickoff/internal/repos"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func mkUser(t *testing.T, db *sqlx.DB, email string) *domain.User {
	t.Helper()
	now := time.Now().UTC()
	u := &domain.User{ID: uuid.Must(uuid.NewV7()).String(), Email: email, Hash: "$2a$04$x", CreatedAt: now, UpdatedAt: now}
	if err := repos.NewUserRepo(db).Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func mkTodo(t *testing.T, r *repos.TodoRepo, owner, title string, completed bool) *domain.Todo {
	t.Helper()
	now := time.Now().UTC()
	td := &domain.Todo{ID: uuid.Must(uuid.NewV7()).String(), OwnerID: owner, Title: title, Completed: completed, CreatedAt: now, UpdatedAt: now}
	if err := r.Create(context.Background(), td); err != nil {
		t.Fatalf("create todo: %v", err)
	}
	return td
}
