package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"tickoff/internal/domain"
	"tickoff/internal/repos"
	"tickoff/internal/services"
	"tickoff/internal/token"
)

const testSecret = "tickoff_test_jwt_secret_key_1234567890"

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newAuth(t *testing.T, db *sqlx.DB, cost int) *services.AuthService {
	t.Helper()
	svc, err := services.NewAuthService(repos.NewUserRepo(db), token.NewIssuer(testSecret, time.Hour), cost)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	return svc
}

func register(t *testing.T, auth *services.AuthService, email string) *domain.User {
	t.Helper()
	u, err := auth.Register(context.Background(), domain.Credentials{Email: email, Password: "Passw0rd!"})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return u
}

func newTodos(t *testing.T) (*services.TodoService, *domain.User, *domain.User) {
	t.Helper()
	db := memdb(t)
	auth := newAuth(t, db, bcrypt.MinCost)
	alice := register(t, auth, "alice@example.com")
	bob := register(t, auth, "bob@example.com")
	return services.NewTodoService(repos.NewTodoRepo(db)), alice, bob
}
