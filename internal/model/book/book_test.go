package book

import (
	"reflect"
	"testing"
)

func TestNextID(t *testing.T) {
	tests := []struct {
		name  string
		books []Book
		want  int
	}{
		{name: "empty", books: nil, want: 1},
		{name: "seed", books: Seed(), want: 3},
		{name: "gaps", books: []Book{{ID: 7}, {ID: 2}}, want: 8},
		{name: "non-positive ids", books: []Book{{ID: -4}, {ID: 0}}, want: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NextID(tc.books); got != tc.want {
				t.Fatalf("NextID = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestIndexOf(t *testing.T) {
	books := Seed()

	if got := IndexOf(books, 2); got != 1 {
		t.Fatalf("IndexOf(2) = %d, want 1", got)
	}
	if got := IndexOf(books, 99); got != -1 {
		t.Fatalf("IndexOf(99) = %d, want -1", got)
	}
}

func TestAvailable(t *testing.T) {
	got := Available(Seed())
	want := []Book{{ID: 1, Title: "Atomic Habits", Author: "James Clear", Available: true}}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Available = %#v, want %#v", got, want)
	}

	if got := Available(nil); got == nil || len(got) != 0 {
		t.Fatalf("Available(nil) = %#v, want empty non-nil slice", got)
	}
}

func TestWithoutRemovesEveryMatch(t *testing.T) {
	books := []Book{{ID: 1}, {ID: 2}, {ID: 1}, {ID: 3}}

	got := Without(books, 1)
	want := []Book{{ID: 2}, {ID: 3}}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Without = %#v, want %#v", got, want)
	}
	if len(books) != 4 {
		t.Fatal("Without must not modify its input")
	}
}
