package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/deppfellow/bookshelf/internal/errs"
	"github.com/deppfellow/bookshelf/internal/model/book"
	"github.com/deppfellow/bookshelf/internal/server"
)

// Static client messages for infrastructure failures, one per operation.
const (
	ReadFailedMessage   = "Failed to read books."
	CreateFailedMessage = "Failed to create book."
	UpdateFailedMessage = "Failed to update book."
	DeleteFailedMessage = "Failed to delete book."
)

var errNoBookRepository = errors.New("book repository is required")

// BookStore loads and saves the whole book collection.
type BookStore interface {
	Load(ctx context.Context) ([]book.Book, error)
	Save(ctx context.Context, books []book.Book) error
}

// BookService implements the book operations as full read, in-memory
// transform and, for mutations, full write of the collection.
//
// Mutations hold mu for their whole load-modify-save cycle so two requests in
// this process cannot overwrite each other's changes. Reads do not lock.
type BookService struct {
	server *server.Server
	store  BookStore

	mu sync.Mutex
}

// NewBookService returns a service persisting through store.
func NewBookService(s *server.Server, store BookStore) *BookService {
	return &BookService{
		server: s,
		store:  store,
	}
}

// List returns the entire collection.
func (s *BookService) List(ctx context.Context) ([]book.Book, error) {
	books, err := s.store.Load(ctx)
	if err != nil {
		return nil, s.internalError(ctx, "list", ReadFailedMessage, err)
	}
	return books, nil
}

// ListAvailable returns the books whose available flag is set.
func (s *BookService) ListAvailable(ctx context.Context) ([]book.Book, error) {
	books, err := s.store.Load(ctx)
	if err != nil {
		return nil, s.internalError(ctx, "list_available", ReadFailedMessage, err)
	}
	return book.Available(books), nil
}

// Create appends a new book with the next free id.
func (s *BookService) Create(ctx context.Context, payload *book.CreateBookPayload) (*book.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.store.Load(ctx)
	if err != nil {
		return nil, s.internalError(ctx, "create", CreateFailedMessage, err)
	}

	created := payload.Book(book.NextID(books))
	books = append(books, created)

	if err := s.store.Save(ctx, books); err != nil {
		return nil, s.internalError(ctx, "create", CreateFailedMessage, err)
	}

	zerolog.Ctx(ctx).Info().
		Int("book_id", created.ID).
		Msg("book created")

	return &created, nil
}

// Update replaces the fields present in payload on the book with payload's id.
func (s *BookService) Update(ctx context.Context, payload *book.UpdateBookPayload) (*book.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.store.Load(ctx)
	if err != nil {
		return nil, s.internalError(ctx, "update", UpdateFailedMessage, err)
	}

	idx := book.IndexOf(books, payload.ID())
	if idx == -1 {
		return nil, errs.NewNotFoundError(book.NotFoundMessage, false, nil)
	}

	updated := payload.Apply(books[idx])
	books[idx] = updated

	if err := s.store.Save(ctx, books); err != nil {
		return nil, s.internalError(ctx, "update", UpdateFailedMessage, err)
	}

	zerolog.Ctx(ctx).Info().
		Int("book_id", updated.ID).
		Msg("book updated")

	return &updated, nil
}

// Delete removes every book with payload's id.
func (s *BookService) Delete(ctx context.Context, payload *book.BookIDPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.store.Load(ctx)
	if err != nil {
		return s.internalError(ctx, "delete", DeleteFailedMessage, err)
	}

	id := payload.ID()
	if book.IndexOf(books, id) == -1 {
		return errs.NewNotFoundError(book.NotFoundMessage, false, nil)
	}

	if err := s.store.Save(ctx, book.Without(books, id)); err != nil {
		return s.internalError(ctx, "delete", DeleteFailedMessage, err)
	}

	zerolog.Ctx(ctx).Info().
		Int("book_id", id).
		Msg("book deleted")

	return nil
}

// internalError hides cause behind a static 500 message and records it as a
// New Relic custom event when the agent runs. The cause stays attached for
// the global error handler's log line.
func (s *BookService) internalError(ctx context.Context, operation, message string, cause error) *errs.HTTPError {
	if s.server != nil {
		if app := s.server.NewRelic(); app != nil {
			app.RecordCustomEvent("BookStoreError", map[string]interface{}{
				"operation":     operation,
				"error_message": cause.Error(),
			})
		}
	}

	zerolog.Ctx(ctx).Debug().
		Err(cause).
		Str("operation", operation).
		Msg("book store failure")

	return errs.NewInternalServerError().WithMessage(message).WithInternal(cause)
}
