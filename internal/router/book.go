package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/bookshelf/internal/handler"
)

// registerBookRoutes registers the /books endpoints.
//
// Echo matches static segments before parameters, so /books/available never
// reaches the :id routes.
func registerBookRoutes(r *echo.Echo, h *handler.Handlers) {
	books := r.Group("/books")

	books.GET("", h.Book.ListBooks)
	books.GET("/available", h.Book.ListAvailableBooks)
	books.POST("", h.Book.CreateBook)
	books.PUT("/:id", h.Book.UpdateBook)
	books.DELETE("/:id", h.Book.DeleteBook)
}
