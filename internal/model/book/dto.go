package book

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/deppfellow/bookshelf/internal/errs"
	"github.com/deppfellow/bookshelf/internal/validation"
)

const (
	InvalidBodyMessage     = "Invalid body. Expected { title: string, author: string, available: boolean }."
	InvalidIDMessage       = "Invalid id."
	NothingToUpdateMessage = "Nothing to update. Provide title, author, or available."
	NotFoundMessage        = "Book not found."
)

// ------------------------------------------------------------

// ListBooksPayload is the (empty) input of both list endpoints.
type ListBooksPayload struct{}

func (p *ListBooksPayload) Validate() error {
	return nil
}

// ------------------------------------------------------------

// CreateBookPayload is the body of POST /books.
//
// All three fields are required with their exact JSON types.
type CreateBookPayload struct {
	Title     validation.Field[string] `json:"title" validate:"required"`
	Author    validation.Field[string] `json:"author" validate:"required"`
	Available validation.Field[bool]   `json:"available" validate:"required"`
}

func (p *CreateBookPayload) Validate() error {
	if err := validation.Struct(p); err != nil {
		return errs.NewBadRequestError(InvalidBodyMessage, false, nil, validation.FieldErrors(err), nil)
	}
	return nil
}

// Book builds the record to insert under id.
func (p *CreateBookPayload) Book(id int) Book {
	return Book{
		ID:        id,
		Title:     p.Title.Value,
		Author:    p.Author.Value,
		Available: p.Available.Value,
	}
}

// ------------------------------------------------------------

// BookIDPayload carries the :id path parameter.
//
// The raw string is kept so that a non-numeric id becomes a validation error
// instead of a bind error.
type BookIDPayload struct {
	RawID string `param:"id" json:"-"`

	id int
}

// Validate reads the id the way parseInt(id, 10) does: leading whitespace
// and an optional sign, then as many decimal digits as follow. Anything
// after the digits is ignored, so "2x" and "1.0" address 2 and 1. Only an id
// without leading digits is rejected.
func (p *BookIDPayload) Validate() error {
	id, ok := parseLeadingInt(p.RawID)
	if !ok {
		return errs.NewBadRequestError(InvalidIDMessage, false, nil, []errs.FieldError{
			{Field: "id", Error: "must start with an integer"},
		}, nil)
	}
	p.id = id
	return nil
}

func parseLeadingInt(raw string) (int, bool) {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)

	sign := ""
	if s != "" && (s[0] == '+' || s[0] == '-') {
		sign, s = s[:1], s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}

	id, err := strconv.Atoi(sign + s[:end])
	if err != nil {
		// Out of range for int: no record can carry it, so clamp and let
		// the lookup miss.
		if sign == "-" {
			return math.MinInt, true
		}
		return math.MaxInt, true
	}
	return id, true
}

// ID returns the parsed id. Only meaningful after Validate succeeded.
func (p *BookIDPayload) ID() int {
	return p.id
}

// ------------------------------------------------------------

// UpdateBookPayload is the :id path parameter plus the partial body of PUT /books/:id.
//
// A field counts only when present with the right JSON type; at least one is required.
type UpdateBookPayload struct {
	BookIDPayload

	Title     validation.Field[string] `json:"title"`
	Author    validation.Field[string] `json:"author"`
	Available validation.Field[bool]   `json:"available"`
}

func (p *UpdateBookPayload) Validate() error {
	if err := p.BookIDPayload.Validate(); err != nil {
		return err
	}

	if !p.Title.Present && !p.Author.Present && !p.Available.Present {
		return errs.NewBadRequestError(NothingToUpdateMessage, false, nil, nil, nil)
	}
	return nil
}

// Apply returns b with the present fields replaced.
func (p *UpdateBookPayload) Apply(b Book) Book {
	if title, ok := p.Title.Get(); ok {
		b.Title = title
	}
	if author, ok := p.Author.Get(); ok {
		b.Author = author
	}
	if available, ok := p.Available.Get(); ok {
		b.Available = available
	}
	return b
}
