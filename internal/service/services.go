package service

import (
	"github.com/deppfellow/bookshelf/internal/repository"
	"github.com/deppfellow/bookshelf/internal/server"
)

// Services is a container for every business service.
type Services struct {
	Book *BookService
}

// NewServices wires the services to their repositories.
func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	if repos == nil || repos.Book == nil {
		return nil, errNoBookRepository
	}

	return &Services{
		Book: NewBookService(s, repos.Book),
	}, nil
}
