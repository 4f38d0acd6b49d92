package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"tickoff/internal/domain"
	applog "tickoff/internal/log"
	"tickoff/internal/services"
	"tickoff/internal/validate"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

type TodoHandler struct {
	Todos *services.TodoService
}

func listQuery(c *fiber.Ctx) (domain.TodoListQuery, string) {
	q := domain.TodoListQuery{Page: defaultPage, Limit: defaultLimit}
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, "page must be an integer"
		}
		q.Page = n
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, "limit must be an integer"
		}
		q.Limit = n
	}
	if raw := c.Query("completed"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return q, "completed must be true or false"
		}
		q.Completed = &b
	}
	return q, ""
}

func (h *TodoHandler) List(c *fiber.Ctx) error {
	q, bad := listQuery(c)
	if bad != "" {
		return fail(c, fiber.StatusBadRequest, "validation_error", bad)
	}
	items, total, err := h.Todos.List(c.UserContext(), currentUser(c), q)
	if err != nil {
		return writeError(c, "todo.list", err)
	}
	return c.JSON(fiber.Map{
		"todos":      items,
		"pagination": domain.NewPagination(q.Page, q.Limit, total),
	})
}

func (h *TodoHandler) Create(c *fiber.Ctx) error {
	var in domain.TodoCreate
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	t, err := h.Todos.Create(c.UserContext(), currentUser(c), in)
	if err != nil {
		return writeError(c, "todo.create", err)
	}
	c.Status(fiber.StatusCreated)
	applog.Audit(c, "todo.create", map[string]any{"todo_id": t.ID})
	return c.JSON(fiber.Map{"todo": t})
}

func (h *TodoHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return writeError(c, "todo.update", services.ErrNotFound)
	}
	var in domain.TodoPatch
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	t, err := h.Todos.Update(c.UserContext(), currentUser(c), id, in)
	if err != nil {
		return writeError(c, "todo.update", err)
	}
	applog.Audit(c, "todo.update", map[string]any{"todo_id": t.ID})
	return c.JSON(fiber.Map{"todo": t})
}

func (h *TodoHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return writeError(c, "todo.delete", services.ErrNotFound)
	}
	deleted, err := h.Todos.Delete(c.UserContext(), currentUser(c), id)
	if err != nil {
		return writeError(c, "todo.delete", err)
	}
	applog.Audit(c, "todo.delete", map[string]any{"todo_id": id})
	return c.JSON(fiber.Map{"success": deleted, "message": "Todo deleted successfully"})
}

func (h *TodoHandler) ToggleComplete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return writeError(c, "todo.toggle", services.ErrNotFound)
	}
	t, err := h.Todos.ToggleCompletion(c.UserContext(), currentUser(c), id)
	if err != nil {
		return writeError(c, "todo.toggle", err)
	}
	applog.Audit(c, "todo.toggle", map[string]any{"todo_id": t.ID, "completed": t.Completed})
	return c.JSON(fiber.Map{"todo": t})
}
