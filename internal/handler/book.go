package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/bookshelf/internal/model/book"
	"github.com/deppfellow/bookshelf/internal/server"
	"github.com/deppfellow/bookshelf/internal/service"
)

type BookHandler struct {
	Handler
	bookService *service.BookService
}

func NewBookHandler(s *server.Server, bookService *service.BookService) *BookHandler {
	return &BookHandler{
		Handler:     NewHandler(s),
		bookService: bookService,
	}
}

// ListBooks handles GET /books.
func (h *BookHandler) ListBooks(c echo.Context) error {
	return Handle(h.Handler, h.listBooks, http.StatusOK)(c)
}

// ListAvailableBooks handles GET /books/available.
func (h *BookHandler) ListAvailableBooks(c echo.Context) error {
	return Handle(h.Handler, h.listAvailableBooks, http.StatusOK)(c)
}

// CreateBook handles POST /books.
func (h *BookHandler) CreateBook(c echo.Context) error {
	return Handle(h.Handler, h.createBook, http.StatusCreated)(c)
}

// UpdateBook handles PUT /books/:id.
func (h *BookHandler) UpdateBook(c echo.Context) error {
	return Handle(h.Handler, h.updateBook, http.StatusOK)(c)
}

// DeleteBook handles DELETE /books/:id.
func (h *BookHandler) DeleteBook(c echo.Context) error {
	return HandleNoContent(h.Handler, h.deleteBook, http.StatusNoContent)(c)
}

func (h *BookHandler) listBooks(c echo.Context, _ *book.ListBooksPayload) ([]book.Book, error) {
	return h.bookService.List(c.Request().Context())
}

func (h *BookHandler) listAvailableBooks(c echo.Context, _ *book.ListBooksPayload) ([]book.Book, error) {
	return h.bookService.ListAvailable(c.Request().Context())
}

func (h *BookHandler) createBook(c echo.Context, payload *book.CreateBookPayload) (*book.Book, error) {
	return h.bookService.Create(c.Request().Context(), payload)
}

func (h *BookHandler) updateBook(c echo.Context, payload *book.UpdateBookPayload) (*book.Book, error) {
	return h.bookService.Update(c.Request().Context(), payload)
}

func (h *BookHandler) deleteBook(c echo.Context, payload *book.BookIDPayload) error {
	return h.bookService.Delete(c.Request().Context(), payload)
}
