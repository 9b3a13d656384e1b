package repository

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/deppfellow/bookshelf/internal/lib/utils"
	"github.com/deppfellow/bookshelf/internal/model/book"
)

// BookRepository stores the whole book collection as one JSON array in a
// single file.
//
// Every Load reads the full file and every Save rewrites it; nothing is
// cached between calls. Save writes a temp file next to the backing file and
// renames it into place, so a concurrent Load sees either the old or the new
// collection. Callers that read-modify-write must serialize themselves.
type BookRepository struct {
	path          string
	slowThreshold time.Duration
}

// NewBookRepository returns a repository backed by the file at path.
//
// Load and Save calls slower than slowThreshold are logged; zero disables it.
func NewBookRepository(path string, slowThreshold time.Duration) *BookRepository {
	return &BookRepository{
		path:          path,
		slowThreshold: slowThreshold,
	}
}

// Path returns the backing file location.
func (r *BookRepository) Path() string {
	return r.path
}

// Load reads the full collection.
//
// A missing, empty or unparseable file, or one whose content is not a JSON
// array, yields an empty collection and no error: availability wins over
// durability. Array elements that are not records are left out of the
// result but stay in the file; see Save. Only a filesystem failure other
// than "does not exist" is returned.
func (r *BookRepository) Load(ctx context.Context) ([]book.Book, error) {
	start := time.Now()
	defer r.logSlow(ctx, "load", start)

	elements, err := r.readElements(ctx)
	if err != nil {
		return nil, err
	}

	books := decodeBooks(ctx, elements)

	zerolog.Ctx(ctx).Debug().
		Str("path", r.path).
		Int("count", len(books)).
		Msg("loaded books")

	return books, nil
}

// readElements returns the raw array elements of the backing file. Content
// that is not a JSON array reads as no elements.
func (r *BookRepository) readElements(ctx context.Context) ([]json.RawMessage, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to read book store %s", r.path)
	}

	elements, ok, err := parseElements(data)
	if !ok {
		zerolog.Ctx(ctx).Warn().Err(err).Str("path", r.path).
			Msg("book store does not hold a JSON array, treating it as empty")
	}
	return elements, nil
}

// decodeBooks never fails; elements that are not records are logged and skipped.
func decodeBooks(ctx context.Context, elements []json.RawMessage) []book.Book {
	logger := zerolog.Ctx(ctx)
	books := make([]book.Book, 0, len(elements))

	for i, raw := range elements {
		b, _, ok := decodeRecord(raw)
		if !ok {
			logger.Warn().Int("index", i).Msg("skipping book store entry that is not a book record")
			continue
		}
		books = append(books, b)
	}

	return books
}

// Save replaces the backing file with books, pretty-printed with two-space
// indentation and a trailing newline. The parent directory is created if needed.
//
// books is laid over what the file currently holds instead of replacing it
// outright: elements Load skipped, unknown keys and unchanged field text
// survive, and a stored record whose id no longer appears in books is removed.
func (r *BookRepository) Save(ctx context.Context, books []book.Book) (err error) {
	start := time.Now()
	defer r.logSlow(ctx, "save", start)

	stored, err := r.readElements(ctx)
	if err != nil {
		return err
	}

	elements, err := mergeElements(stored, books)
	if err != nil {
		return err
	}

	data, err := utils.MarshalPrettyJSON(elements)
	if err != nil {
		return errors.Wrap(err, "failed to encode books")
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create book store directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "failed to create temp file in %s", dir)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "failed to write %s", tmpName)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", tmpName)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return errors.Wrapf(err, "failed to chmod %s", tmpName)
	}
	if err = os.Rename(tmpName, r.path); err != nil {
		return errors.Wrapf(err, "failed to replace book store %s", r.path)
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", r.path).
		Int("count", len(books)).
		Int("elements", len(elements)).
		Msg("saved books")

	return nil
}

// EnsureSeeded writes the sample collection when the backing file does not
// exist yet. It reports whether the seed was written.
func (r *BookRepository) EnsureSeeded(ctx context.Context) (bool, error) {
	_, err := os.Stat(r.path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, errors.Wrapf(err, "failed to stat book store %s", r.path)
	}

	if err := r.Save(ctx, book.Seed()); err != nil {
		return false, err
	}
	return true, nil
}

// Check reports whether the backing file can be used. A file that does not
// exist yet is fine: Load treats it as empty and Save creates it.
func (r *BookRepository) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.Wrapf(err, "failed to stat book store %s", r.path)
	}

	if info.IsDir() {
		return errors.Errorf("book store %s is a directory", r.path)
	}
	return nil
}

func (r *BookRepository) logSlow(ctx context.Context, operation string, start time.Time) {
	elapsed := time.Since(start)
	if r.slowThreshold <= 0 || elapsed <= r.slowThreshold {
		return
	}

	zerolog.Ctx(ctx).Warn().
		Str("operation", operation).
		Str("path", r.path).
		Dur("duration", elapsed).
		Dur("threshold", r.slowThreshold).
		Msg("slow book store operation")
}
