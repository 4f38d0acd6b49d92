package domain

import "time"

type Todo struct {
	ID          string    `db:"id" json:"id"`
	OwnerID     string    `db:"owner_id" json:"user_id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description"`
	Completed   bool      `db:"completed" json:"completed"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type TodoCreate struct {
	Title       string  `json:"title" validate:"notblank,max=255"`
	Description *string `json:"description" validate:"omitnil,max=2000"`
}

// TodoPatch carries only the fields a client supplied; nil means untouched.
type TodoPatch struct {
	Title       *string `json:"title" validate:"omitnil,notblank,max=255"`
	Description *string `json:"description" validate:"omitnil,max=2000"`
	Completed   *bool   `json:"completed"`
}

type TodoListQuery struct {
	Page      int `validate:"min=1"`
	Limit     int `validate:"min=1,max=100"`
	Completed *bool
}

func (q TodoListQuery) Offset() int { return (q.Page - 1) * q.Limit }

type Pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
	Pages   int  `json:"pages"`
}

// NewPagination derives page metadata from the pre-pagination row count.
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{
		Page:    page,
		Limit:   limit,
		Total:   total,
		HasNext: page*limit < total,
		HasPrev: page > 1,
		Pages:   pages,
	}
}
