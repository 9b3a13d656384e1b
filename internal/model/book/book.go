// Package book holds the book record, the collection helpers the service
// applies to a loaded collection, and the request payloads of the book
// endpoints.
package book

// Book is one record of the collection.
type Book struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Available bool   `json:"available"`
}

// Seed returns the sample collection written when no backing file exists.
func Seed() []Book {
	return []Book{
		{ID: 1, Title: "Atomic Habits", Author: "James Clear", Available: true},
		{ID: 2, Title: "Deep Work", Author: "Cal Newport", Available: false},
	}
}

// NextID returns max(existing ids) + 1, or 1 for a collection without
// positive ids.
func NextID(books []Book) int {
	maxID := 0
	for _, b := range books {
		if b.ID > maxID {
			maxID = b.ID
		}
	}
	return maxID + 1
}

// IndexOf returns the position of the first book with id, or -1.
func IndexOf(books []Book, id int) int {
	for i, b := range books {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// Available returns the books that are currently available, in collection order.
func Available(books []Book) []Book {
	available := make([]Book, 0, len(books))
	for _, b := range books {
		if b.Available {
			available = append(available, b)
		}
	}
	return available
}

// Without returns a new collection with every book matching id removed.
func Without(books []Book, id int) []Book {
	kept := make([]Book, 0, len(books))
	for _, b := range books {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	return kept
}
