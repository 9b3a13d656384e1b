package repository

import (
	"github.com/deppfellow/bookshelf/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Book *BookRepository
}

// NewRepositories constructs the repository container from the store and
// observability config held by s.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Book: NewBookRepository(s.Config.Store.Path, s.Config.Observability.Logging.SlowStoreThreshold),
	}
}
