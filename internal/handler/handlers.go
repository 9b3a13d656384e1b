package handler

import (
	"github.com/deppfellow/bookshelf/internal/server"
	"github.com/deppfellow/bookshelf/internal/service"
)

// Handlers groups all HTTP handlers so the router receives a single value.
type Handlers struct {
	Health  *HealthHandler  // Health serves /status.
	OpenAPI *OpenAPIHandler // OpenAPI serves the API documentation UI.
	Book    *BookHandler    // Book serves the /books endpoints.
}

// NewHandlers constructs the handler container.
//
// store is checked by the health endpoint. A nil store fails that check
// with "store not configured", so /status answers 503 while the store check
// is enabled.
func NewHandlers(s *server.Server, services *service.Services, store StoreChecker) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s, store),
		OpenAPI: NewOpenAPIHandler(s),
		Book:    NewBookHandler(s, services.Book),
	}
}
