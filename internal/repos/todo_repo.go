package repos

import (
	"context"
	"database/sql"
	"errors"

	"tickoff/internal/domain"

	"github.com/jmoiron/sqlx"
)

type TodoRepo struct{ db *sqlx.DB }

func NewTodoRepo(db *sqlx.DB) *TodoRepo { return &TodoRepo{db: db} }

const todoColumns = `id,owner_id,title,description,completed,created_at,updated_at`

// TodoFilter narrows a listing to one owner and, optionally, one completion state.
type TodoFilter struct {
	OwnerID   string
	Completed *bool
}

func (f TodoFilter) where() (string, []any) {
	where := `owner_id = ?`
	args := []any{f.OwnerID}
	if f.Completed != nil {
		where += ` AND completed = ?`
		args = append(args, *f.Completed)
	}
	return where, args
}

// Page returns one page of the owner's todos in creation order together with
// the number of rows matching the filter before pagination. Both reads share a
// transaction so the total agrees with the slice.
func (r *TodoRepo) Page(ctx context.Context, f TodoFilter, limit, offset int) ([]domain.Todo, int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = tx.Rollback() }()

	where, args := f.where()

	var total int
	if err := tx.GetContext(ctx, &total, tx.Rebind(`SELECT COUNT(*) FROM todos WHERE `+where), args...); err != nil {
		return nil, 0, err
	}

	out := []domain.Todo{}
	if total > offset {
		q := `SELECT ` + todoColumns + ` FROM todos WHERE ` + where + `
		  ORDER BY created_at, id
		  LIMIT ? OFFSET ?`
		if err := tx.SelectContext(ctx, &out, tx.Rebind(q), append(args, limit, offset)...); err != nil {
			return nil, 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *TodoRepo) ByID(ctx context.Context, id string) (*domain.Todo, error) {
	var t domain.Todo
	err := r.db.GetContext(ctx, &t, r.db.Rebind(`SELECT `+todoColumns+` FROM todos WHERE id=?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TodoRepo) Create(ctx context.Context, t *domain.Todo) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO todos(`+todoColumns+`)
		VALUES(?,?,?,?,?,?,?)`),
		t.ID, t.OwnerID, t.Title, t.Description, t.Completed, t.CreatedAt, t.UpdatedAt)
	return err
}

// Update overwrites the mutable fields of t. The write is scoped to t.OwnerID,
// so a row owned by someone else reports ErrNotFound.
func (r *TodoRepo) Update(ctx context.Context, t *domain.Todo) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE todos SET title=?, description=?, completed=?, updated_at=?
		WHERE id=? AND owner_id=?`),
		t.Title, t.Description, t.Completed, t.UpdatedAt, t.ID, t.OwnerID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// Delete removes the todo permanently, scoped to ownerID.
func (r *TodoRepo) Delete(ctx context.Context, id, ownerID string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM todos WHERE id=? AND owner_id=?`), id, ownerID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
