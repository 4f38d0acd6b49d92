package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"tickoff/internal/config"
	"tickoff/internal/http/handlers"
	"tickoff/internal/monitoring"
	"tickoff/internal/repos"
)

const (
	testSecret   = "tickoff_test_jwt_secret_key_1234567890"
	testPassword = "Passw0rd!"
)

type testApp struct {
	app     *fiber.App
	db      *sqlx.DB
	metrics *monitoring.Metrics
}

// newTestApp wires the full router over an in-memory database.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Config{JWTSecret: testSecret, TokenTTL: time.Hour, BcryptCost: bcrypt.MinCost}
	m := monitoring.New()
	deps, err := handlers.NewDeps(db, cfg, m)
	if err != nil {
		t.Fatalf("deps: %v", err)
	}
	return &testApp{app: handlers.NewApp(deps, handlers.Options{CORSOrigins: "*"}), db: db, metrics: m}
}

// do sends body as JSON (or verbatim when it is a string) and returns the
// response with its body already read.
func (a *testApp) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	out, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, out
}

func decode(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
	return m
}

func errCode(t *testing.T, raw []byte) string {
	t.Helper()
	e, _ := decode(t, raw)["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

// signup registers email and returns its access token.
func (a *testApp) signup(t *testing.T, email string) string {
	t.Helper()
	resp, body := a.do(t, "POST", "/api/auth/register", "", map[string]string{"email": email, "password": testPassword})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("register %s: %d %s", email, resp.StatusCode, body)
	}
	tok, _ := decode(t, body)["access_token"].(string)
	if tok == "" {
		t.Fatalf("register %s: no token in %s", email, body)
	}
	return tok
}

// newTodo creates a todo and returns its JSON object.
func (a *testApp) newTodo(t *testing.T, token, title string) map[string]any {
	t.Helper()
	resp, body := a.do(t, "POST", "/api/todos", token, map[string]string{"title": title})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create %q: %d %s", title, resp.StatusCode, body)
	}
	td, _ := decode(t, body)["todo"].(map[string]any)
	return td
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	UserID string         `json:"user_id"`
	Status int            `json:"status"`
	Fields map[string]any `json:"fields"`
}

// captureLogs temporarily redirects the standard logger and returns the JSON
// lines written while fn ran, along with the raw text.
func captureLogs(t *testing.T, fn func()) ([]logEntry, string) {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedWriter{w: &buf, mu: &mu})
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	mu.Lock()
	raw := buf.String()
	mu.Unlock()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries, raw
}

func findEntry(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}
