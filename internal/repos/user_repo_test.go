package repos_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"tickoff/internal/domain"
	"tickoff/internal/repos"
)

func TestUserRepoRoundTrip(t *testing.T) {
	db := memdb(t)
	r := repos.NewUserRepo(db)
	u := mkUser(t, db, "alice@example.com")

	got, err := r.ByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("ByEmail: %v", err)
	}
	if got.ID != u.ID || got.Hash != u.Hash {
		t.Fatalf("got %+v want %+v", got, u)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("created_at not scanned")
	}

	if _, err := r.ByID(context.Background(), u.ID); err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if _, err := r.ByID(context.Background(), "missing"); !errors.Is(err, repos.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepoDuplicateEmailSQLite(t *testing.T) {
	db := memdb(t)
	mkUser(t, db, "dup@example.com")

	now := time.Now().UTC()
	err := repos.NewUserRepo(db).Create(context.Background(), &domain.User{
		ID: "other", Email: "dup@example.com", Hash: "h", CreatedAt: now, UpdatedAt: now,
	})
	if !errors.Is(err, repos.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestUserRepoDuplicateEmailPostgres(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer mockDB.Close()
	db := sqlx.NewDb(mockDB, "postgres")

	mock.ExpectExec(regexp.QuoteMeta(`VALUES($1,$2,$3,$4,$5)`)).
		WithArgs("u1", "dup@example.com", "h", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	now := time.Now().UTC()
	err = repos.NewUserRepo(db).Create(context.Background(), &domain.User{
		ID: "u1", Email: "dup@example.com", Hash: "h", CreatedAt: now, UpdatedAt: now,
	})
	if !errors.Is(err, repos.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestUserRepoOtherErrorsPassThrough(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer mockDB.Close()
	db := sqlx.NewDb(mockDB, "postgres")

	boom := errors.New("connection reset")
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email=$1`)).
		WithArgs("a@b.io").
		WillReturnError(boom)

	_, err = repos.NewUserRepo(db).ByEmail(context.Background(), "a@b.io")
	if !errors.Is(err, boom) {
		t.Fatalf("expected driver error, got %v", err)
	}
	if errors.Is(err, repos.ErrNotFound) {
		t.Fatal("driver error reported as not found")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
