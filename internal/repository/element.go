package repository

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/pkg/errors"

	"github.com/deppfellow/bookshelf/internal/lib/utils"
	"github.com/deppfellow/bookshelf/internal/model/book"
)

// member is one key/value pair of a stored object, in file order.
type member struct {
	key   string
	value json.RawMessage
}

// parseElements splits a stored document into its raw array elements.
// ok is false when data is not a JSON array.
func parseElements(data []byte) (elements []json.RawMessage, ok bool, err error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, true, nil
	}
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, false, err
	}
	return elements, true, nil
}

// decodeRecord reads a stored element as a book.
//
// An element is a record when it is an object whose id is an integral JSON
// number. Other known fields take their value only when they hold the right
// JSON type; a mistyped or missing one reads as the zero value. Unknown keys
// are returned untouched in members.
func decodeRecord(raw json.RawMessage) (b book.Book, members []member, ok bool) {
	members, ok = objectMembers(raw)
	if !ok {
		return book.Book{}, nil, false
	}

	hasID := false
	for _, m := range members {
		switch m.key {
		case "id":
			b.ID, hasID = integralID(m.value)
		case "title":
			b.Title, _ = decodeAs[string](m.value)
		case "author":
			b.Author, _ = decodeAs[string](m.value)
		case "available":
			b.Available, _ = decodeAs[bool](m.value)
		}
	}

	if !hasID {
		return book.Book{}, nil, false
	}
	return b, members, true
}

func objectMembers(raw json.RawMessage) ([]member, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, false
	}

	members := []member{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, ok := tok.(string)
		if !ok {
			return nil, false
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, false
		}
		members = append(members, member{key: key, value: value})
	}
	return members, true
}

// integralID accepts 1 and 1.0 alike, but not "1" or 1.5.
func integralID(raw json.RawMessage) (int, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || (raw[0] != '-' && (raw[0] < '0' || raw[0] > '9')) {
		return 0, false
	}

	if id, err := strconv.Atoi(string(raw)); err == nil {
		return id, true
	}

	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int(f), true
}

func decodeAs[T any](raw json.RawMessage) (T, bool) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

// mergeElements lays books over the elements currently stored.
//
// Stored elements that are not records are kept verbatim and in place. A
// stored record is matched with the next book of the same id; if there is
// none it was deleted. A matched record keeps its key order, its unknown keys
// and the raw text of every field whose decoded value did not change. Books
// that matched no stored record are appended in order.
func mergeElements(stored []json.RawMessage, books []book.Book) ([]json.RawMessage, error) {
	pending := make(map[int][]int, len(books))
	for i, b := range books {
		pending[b.ID] = append(pending[b.ID], i)
	}
	used := make([]bool, len(books))

	out := make([]json.RawMessage, 0, len(stored)+len(books))
	for _, raw := range stored {
		old, members, ok := decodeRecord(raw)
		if !ok {
			out = append(out, raw)
			continue
		}

		queue := pending[old.ID]
		if len(queue) == 0 {
			continue
		}
		i := queue[0]
		pending[old.ID] = queue[1:]
		used[i] = true

		merged, err := mergeRecord(old, members, books[i])
		if err != nil {
			return nil, err
		}
		out = append(out, merged)
	}

	for i, b := range books {
		if used[i] {
			continue
		}
		encoded, err := utils.MarshalJSON(b)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to encode book %d", b.ID)
		}
		out = append(out, encoded)
	}

	return out, nil
}

func mergeRecord(old book.Book, members []member, updated book.Book) (json.RawMessage, error) {
	fields := []struct {
		key     string
		changed bool
		value   interface{}
	}{
		{key: "id", changed: updated.ID != old.ID, value: updated.ID},
		{key: "title", changed: updated.Title != old.Title, value: updated.Title},
		{key: "author", changed: updated.Author != old.Author, value: updated.Author},
		{key: "available", changed: updated.Available != old.Available, value: updated.Available},
	}

	members = append([]member(nil), members...)
	for _, f := range fields {
		if !f.changed {
			continue
		}

		value, err := utils.MarshalJSON(f.value)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to encode %s of book %d", f.key, updated.ID)
		}

		found := false
		for i := range members {
			if members[i].key == f.key {
				members[i].value = value
				found = true
			}
		}
		if !found {
			members = append(members, member{key: f.key, value: value})
		}
	}

	return encodeObject(members)
}

func encodeObject(members []member) (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range members {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := utils.MarshalJSON(m.key)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to encode key %q", m.key)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(m.value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
