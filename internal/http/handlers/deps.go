package handlers

import (
	"tickoff/internal/config"
	"tickoff/internal/monitoring"
	"tickoff/internal/repos"
	"tickoff/internal/services"
	"tickoff/internal/token"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	Auth    *services.AuthService
	Metrics *monitoring.Metrics

	AuthHandler   *AuthHandler
	TodoHandler   *TodoHandler
	HealthHandler *HealthHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, m *monitoring.Metrics) (*Deps, error) {
	userRepo := repos.NewUserRepo(db)
	todoRepo := repos.NewTodoRepo(db)

	authSvc, err := services.NewAuthService(userRepo, token.NewIssuer(cfg.JWTSecret, cfg.TokenTTL), cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	todoSvc := services.NewTodoService(todoRepo)

	return &Deps{
		Auth:          authSvc,
		Metrics:       m,
		AuthHandler:   &AuthHandler{Auth: authSvc, Metrics: m},
		TodoHandler:   &TodoHandler{Todos: todoSvc},
		HealthHandler: &HealthHandler{DB: db},
	}, nil
}
