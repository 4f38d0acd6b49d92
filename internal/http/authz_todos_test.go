package handlers_test

import (
	"bytes"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestTodosAreIsolatedPerUser(t *testing.T) {
	a := newTestApp(t)
	alice := a.signup(t, "alice@example.com")
	bob := a.signup(t, "bob@example.com")
	td := a.newTodo(t, alice, "alice only")
	id := td["id"].(string)

	_, body := a.do(t, "GET", "/api/todos", bob, nil)
	if todos, _ := decode(t, body)["todos"].([]any); len(todos) != 0 {
		t.Fatalf("bob sees alice's todos: %s", body)
	}

	const missing = "0190b7e4-6f1e-7c3a-9a55-0c2b7f1d8e10"
	routes := []struct{ method, suffix string }{
		{"PUT", ""},
		{"DELETE", ""},
		{"PATCH", "/toggle-complete"},
	}
	for _, r := range routes {
		owned, ownedBody := a.do(t, r.method, "/api/todos/"+id+r.suffix, bob, map[string]any{"title": "mine", "completed": true})
		absent, absentBody := a.do(t, r.method, "/api/todos/"+missing+r.suffix, bob, map[string]any{"title": "mine"})
		if owned.StatusCode != fiber.StatusNotFound || absent.StatusCode != fiber.StatusNotFound {
			t.Fatalf("%s: expected 404s, got %d and %d", r.method, owned.StatusCode, absent.StatusCode)
		}
		if !bytes.Equal(ownedBody, absentBody) {
			t.Fatalf("%s: not-owner and not-found differ:\n%s\n%s", r.method, ownedBody, absentBody)
		}
	}

	_, body = a.do(t, "GET", "/api/todos", alice, nil)
	todos, _ := decode(t, body)["todos"].([]any)
	if len(todos) != 1 {
		t.Fatalf("alice lost her todo: %s", body)
	}
	got := todos[0].(map[string]any)
	if got["title"] != "alice only" || got["completed"] != false {
		t.Fatalf("bob modified alice's todo: %v", got)
	}
}

func TestMalformedTodoIDIsNotFound(t *testing.T) {
	a := newTestApp(t)
	tok := a.signup(t, "alice@example.com")

	for _, path := range []string{"/api/todos/not-a-uuid", "/api/todos/1%27%20OR%201=1"} {
		resp, body := a.do(t, "DELETE", path, tok, nil)
		if resp.StatusCode != fiber.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d %s", path, resp.StatusCode, body)
		}
	}
}
