package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/deppfellow/bookshelf/internal/config"
	"github.com/deppfellow/bookshelf/internal/errs"
	"github.com/deppfellow/bookshelf/internal/handler"
	"github.com/deppfellow/bookshelf/internal/model/book"
	"github.com/deppfellow/bookshelf/internal/repository"
	"github.com/deppfellow/bookshelf/internal/server"
	"github.com/deppfellow/bookshelf/internal/service"
)

type testApp struct {
	router *echo.Echo
	repo   *repository.BookRepository
}

func newTestApp(t *testing.T, storePath string, mutate ...func(*config.Config)) *testApp {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Store.Path = storePath
	for _, m := range mutate {
		m(cfg)
	}

	logger := zerolog.Nop()
	srv, err := server.New(cfg, &logger, nil)
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}

	repos := repository.NewRepositories(srv)
	services, err := service.NewServices(srv, repos)
	if err != nil {
		t.Fatalf("service.NewServices: %v", err)
	}

	return &testApp{
		router: NewRouter(srv, handler.NewHandlers(srv, services, repos.Book)),
		repo:   repos.Book,
	}
}

// newSeededApp returns an app whose backing file holds the seed collection.
func newSeededApp(t *testing.T) *testApp {
	t.Helper()

	app := newTestApp(t, filepath.Join(t.TempDir(), "books.json"))
	if _, err := app.repo.EnsureSeeded(context.Background()); err != nil {
		t.Fatalf("EnsureSeeded: %v", err)
	}
	return app
}

func (a *testApp) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) stored(t *testing.T) []book.Book {
	t.Helper()
	books, err := a.repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return books
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) errs.HTTPError {
	t.Helper()

	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}

	var httpErr errs.HTTPError
	decodeBody(t, rec, &httpErr)
	if httpErr.Message != message {
		t.Fatalf("message = %q, want %q", httpErr.Message, message)
	}
	if httpErr.Status != status {
		t.Fatalf("body status = %d, want %d", httpErr.Status, status)
	}
	return httpErr
}

func TestListBooks(t *testing.T) {
	app := newSeededApp(t)

	rec := app.do(t, http.MethodGet, "/books", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var books []book.Book
	decodeBody(t, rec, &books)
	if !reflect.DeepEqual(books, book.Seed()) {
		t.Fatalf("got %#v", books)
	}
}

func TestListBooksEmptyStore(t *testing.T) {
	app := newTestApp(t, filepath.Join(t.TempDir(), "books.json"))

	rec := app.do(t, http.MethodGet, "/books", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Fatalf("body = %q, want []", got)
	}
}

func TestListAvailableBooksOnSeed(t *testing.T) {
	app := newSeededApp(t)

	rec := app.do(t, http.MethodGet, "/books/available", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var books []book.Book
	decodeBody(t, rec, &books)
	if len(books) != 1 || books[0].Title != "Atomic Habits" {
		t.Fatalf("got %#v", books)
	}
}

func TestCreateBookOnEmptyStore(t *testing.T) {
	app := newTestApp(t, filepath.Join(t.TempDir(), "books.json"))

	rec := app.do(t, http.MethodPost, "/books", `{"title":"X","author":"Y","available":true}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var created book.Book
	decodeBody(t, rec, &created)
	want := book.Book{ID: 1, Title: "X", Author: "Y", Available: true}
	if created != want {
		t.Fatalf("got %#v, want %#v", created, want)
	}

	if stored := app.stored(t); !reflect.DeepEqual(stored, []book.Book{want}) {
		t.Fatalf("stored %#v", stored)
	}
}

func TestCreateBookNextID(t *testing.T) {
	app := newSeededApp(t)

	rec := app.do(t, http.MethodPost, "/books", `{"title":"Dune","author":"Frank Herbert","available":false}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var created book.Book
	decodeBody(t, rec, &created)
	if created.ID != 3 {
		t.Fatalf("id = %d, want 3", created.ID)
	}
}

func TestCreateBookInvalidBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "missing field", body: `{"title":"X","author":"Y"}`, message: book.InvalidBodyMessage},
		{name: "mistyped field", body: `{"title":"X","author":"Y","available":"true"}`, message: book.InvalidBodyMessage},
		{name: "empty object", body: `{}`, message: book.InvalidBodyMessage},
		{name: "malformed json", body: `{"title":`, message: "Invalid request body."},
		{name: "array", body: `[]`, message: "Invalid request body."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(t, filepath.Join(t.TempDir(), "books.json"))

			rec := app.do(t, http.MethodPost, "/books", tc.body)
			requireError(t, rec, http.StatusBadRequest, tc.message)

			if stored := app.stored(t); len(stored) != 0 {
				t.Fatalf("nothing should be stored, got %#v", stored)
			}
		})
	}
}

func TestCreateBookWithoutBody(t *testing.T) {
	app := newTestApp(t, filepath.Join(t.TempDir(), "books.json"))

	rec := app.do(t, http.MethodPost, "/books", "")
	requireError(t, rec, http.StatusBadRequest, book.InvalidBodyMessage)
}

func TestUpdateBookOnlyAvailable(t *testing.T) {
	app := newSeededApp(t)

	rec := app.do(t, http.MethodPut, "/books/2", `{"available":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var updated book.Book
	decodeBody(t, rec, &updated)
	want := book.Book{ID: 2, Title: "Deep Work", Author: "Cal Newport", Available: true}
	if updated != want {
		t.Fatalf("got %#v, want %#v", updated, want)
	}

	stored := app.stored(t)
	if stored[1] != want || stored[0] != book.Seed()[0] {
		t.Fatalf("stored %#v", stored)
	}
}

func TestUpdateBookErrors(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		body    string
		status  int
		message string
	}{
		{name: "non-numeric id", target: "/books/abc", body: `{"title":"X"}`, status: http.StatusBadRequest, message: book.InvalidIDMessage},
		{name: "nothing to update", target: "/books/1", body: `{}`, status: http.StatusBadRequest, message: book.NothingToUpdateMessage},
		{name: "only mistyped fields", target: "/books/1", body: `{"available":"yes"}`, status: http.StatusBadRequest, message: book.NothingToUpdateMessage},
		{name: "unknown id", target: "/books/99", body: `{"title":"X"}`, status: http.StatusNotFound, message: book.NotFoundMessage},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newSeededApp(t)

			rec := app.do(t, http.MethodPut, tc.target, tc.body)
			requireError(t, rec, tc.status, tc.message)

			if stored := app.stored(t); !reflect.DeepEqual(stored, book.Seed()) {
				t.Fatalf("store changed: %#v", stored)
			}
		})
	}
}

func TestUpdateBookKeepsOtherStoredContent(t *testing.T) {
	malformed := `{
    "id": 1,
    "title": "A",
    "author": "A",
    "available": "yes"
  }`
	path := filepath.Join(t.TempDir(), "books.json")
	content := "[\n  " + malformed + `,
  {
    "id": 2,
    "title": "B",
    "author": "B",
    "available": true,
    "isbn": "123"
  }
]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	app := newTestApp(t, path)

	rec := app.do(t, http.MethodPut, "/books/2", `{"title":"Other2"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "[\n  " + malformed + `,
  {
    "id": 2,
    "title": "Other2",
    "author": "B",
    "available": true,
    "isbn": "123"
  }
]
`
	if string(data) != want {
		t.Fatalf("stored:\n%s\nwant:\n%s", data, want)
	}
}

func TestLenientIDs(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
	}{
		{name: "trailing letters", method: http.MethodPut, target: "/books/2x", body: `{"available":true}`, status: http.StatusOK},
		{name: "decimal", method: http.MethodDelete, target: "/books/1.0", status: http.StatusNoContent},
		{name: "exponent", method: http.MethodPut, target: "/books/1e3", body: `{"title":"X"}`, status: http.StatusOK},
		{name: "leading space", method: http.MethodDelete, target: "/books/%201", status: http.StatusNoContent},
		{name: "no digits", method: http.MethodPut, target: "/books/abc", body: `{"title":"X"}`, status: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newSeededApp(t)

			rec := app.do(t, tc.method, tc.target, tc.body)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.status, rec.Body.String())
			}
		})
	}
}

func TestDeleteBook(t *testing.T) {
	app := newSeededApp(t)

	rec := app.do(t, http.MethodDelete, "/books/1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}

	stored := app.stored(t)
	if len(stored) != 1 || stored[0].ID != 2 {
		t.Fatalf("stored %#v", stored)
	}
}

func TestDeleteBookErrors(t *testing.T) {
	app := newSeededApp(t)

	requireError(t, app.do(t, http.MethodDelete, "/books/99", ""), http.StatusNotFound, book.NotFoundMessage)
	requireError(t, app.do(t, http.MethodDelete, "/books/x", ""), http.StatusBadRequest, book.InvalidIDMessage)

	if stored := app.stored(t); !reflect.DeepEqual(stored, book.Seed()) {
		t.Fatalf("store changed: %#v", stored)
	}
}

func TestCorruptStoreReadsAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	if err := os.WriteFile(path, []byte("{definitely not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	app := newTestApp(t, path)

	rec := app.do(t, http.MethodGet, "/books", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}

	rec = app.do(t, http.MethodPost, "/books", `{"title":"X","author":"Y","available":true}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}

	var created book.Book
	decodeBody(t, rec, &created)
	if created.ID != 1 {
		t.Fatalf("id = %d, want 1", created.ID)
	}
}

func TestStoreFailuresAreInternalErrors(t *testing.T) {
	// A directory as store path makes every read fail.
	app := newTestApp(t, t.TempDir())

	tests := []struct {
		method  string
		target  string
		body    string
		message string
	}{
		{method: http.MethodGet, target: "/books", message: service.ReadFailedMessage},
		{method: http.MethodGet, target: "/books/available", message: service.ReadFailedMessage},
		{method: http.MethodPost, target: "/books", body: `{"title":"X","author":"Y","available":true}`, message: service.CreateFailedMessage},
		{method: http.MethodPut, target: "/books/1", body: `{"title":"X"}`, message: service.UpdateFailedMessage},
		{method: http.MethodDelete, target: "/books/1", message: service.DeleteFailedMessage},
	}

	for _, tc := range tests {
		t.Run(tc.method+" "+tc.target, func(t *testing.T) {
			rec := app.do(t, tc.method, tc.target, tc.body)
			httpErr := requireError(t, rec, http.StatusInternalServerError, tc.message)

			if httpErr.Code != "INTERNAL_SERVER_ERROR" {
				t.Fatalf("code = %q", httpErr.Code)
			}
			if strings.Contains(rec.Body.String(), "directory") {
				t.Fatalf("internal cause leaked to the client: %s", rec.Body.String())
			}
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	app := newSeededApp(t)

	httpErr := requireError(t, app.do(t, http.MethodGet, "/authors", ""), http.StatusNotFound, "Route not found")
	if httpErr.Code != "NOT_FOUND" {
		t.Fatalf("code = %q", httpErr.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	app := newSeededApp(t)

	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "fixed-id" {
		t.Fatalf("X-Request-ID = %q, want fixed-id", got)
	}

	rec = app.do(t, http.MethodGet, "/books", "")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected a generated request id")
	}
}

func TestRateLimit(t *testing.T) {
	app := newTestApp(t, filepath.Join(t.TempDir(), "books.json"), func(cfg *config.Config) {
		cfg.Server.RateLimit.Rate = 0.001
		cfg.Server.RateLimit.Burst = 2
	})

	for i := 0; i < 2; i++ {
		if rec := app.do(t, http.MethodGet, "/books", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}

	requireError(t, app.do(t, http.MethodGet, "/books", ""), http.StatusTooManyRequests, "Too many requests.")
}

func TestHealth(t *testing.T) {
	app := newSeededApp(t)

	rec := app.do(t, http.MethodGet, "/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Status string                       `json:"status"`
		Checks map[string]map[string]string `json:"checks"`
	}
	decodeBody(t, rec, &body)
	if body.Status != "healthy" || body.Checks["store"]["status"] != "healthy" {
		t.Fatalf("unexpected health body: %s", rec.Body.String())
	}
}

func TestHealthUnhealthyStore(t *testing.T) {
	app := newTestApp(t, t.TempDir())

	rec := app.do(t, http.MethodGet, "/status", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestHealthWithoutStore(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Store.Path = filepath.Join(t.TempDir(), "books.json")

	logger := zerolog.Nop()
	srv, err := server.New(cfg, &logger, nil)
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	services, err := service.NewServices(srv, repository.NewRepositories(srv))
	if err != nil {
		t.Fatalf("service.NewServices: %v", err)
	}
	app := &testApp{router: NewRouter(srv, handler.NewHandlers(srv, services, nil))}

	rec := app.do(t, http.MethodGet, "/status", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Checks map[string]struct {
			Status string `json:"status"`
			Error  string `json:"error"`
		} `json:"checks"`
	}
	decodeBody(t, rec, &body)
	check := body.Checks[handler.StoreCheckName]
	if check.Status != "unhealthy" || check.Error != "store not configured" {
		t.Fatalf("store check = %#v", check)
	}
}

func TestHealthChecksDisabled(t *testing.T) {
	app := newTestApp(t, t.TempDir(), func(cfg *config.Config) {
		cfg.Observability.HealthChecks.Enabled = false
	})

	if rec := app.do(t, http.MethodGet, "/status", ""); rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestDocs(t *testing.T) {
	app := newSeededApp(t)

	rec := app.do(t, http.MethodGet, "/docs", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "/static/openapi.json") {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}

	rec = app.do(t, http.MethodGet, "/static/openapi.json", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("openapi.json status = %d", rec.Code)
	}

	var doc map[string]interface{}
	decodeBody(t, rec, &doc)
	if _, ok := doc["paths"]; !ok {
		t.Fatal("openapi.json has no paths")
	}
}
