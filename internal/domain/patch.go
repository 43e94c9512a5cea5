package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Optional records whether a JSON key was present in a request body, which a
// plain pointer cannot do for an explicit null.
type Optional[T any] struct {
	Set   bool
	Value T
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// UnmarshalJSON is only invoked for keys that are present, null included.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	return json.Unmarshal(data, &o.Value)
}

// BookPatch carries the fields of a partial book update. Only fields marked
// Set are written.
type BookPatch struct {
	ISBN            Optional[*string] `json:"isbn"`
	Title           Optional[*string] `json:"title"`
	Author          Optional[*string] `json:"author"`
	Category        Optional[*string] `json:"category"`
	TotalCopies     Optional[*int]    `json:"total_copies"`
	AvailableCopies Optional[*int]    `json:"available_copies"`
	Description     Optional[*string] `json:"description"`
}

// IsEmpty reports whether no field was supplied.
func (p BookPatch) IsEmpty() bool {
	return !p.ISBN.Set && !p.Title.Set && !p.Author.Set && !p.Category.Set &&
		!p.TotalCopies.Set && !p.AvailableCopies.Set && !p.Description.Set
}

// Validate checks each supplied field on its own. There is no
// check between fields: available_copies may exceed total_copies.
func (p BookPatch) Validate() error {
	if p.Title.Set && (p.Title.Value == nil || strings.TrimSpace(*p.Title.Value) == "") {
		return fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
	}
	if p.Author.Set && (p.Author.Value == nil || strings.TrimSpace(*p.Author.Value) == "") {
		return fmt.Errorf("%w: author must not be empty", ErrInvalidInput)
	}
	if p.TotalCopies.Set && (p.TotalCopies.Value == nil || *p.TotalCopies.Value < 0) {
		return fmt.Errorf("%w: total_copies must be a non-negative integer", ErrInvalidInput)
	}
	if p.AvailableCopies.Set && (p.AvailableCopies.Value == nil || *p.AvailableCopies.Value < 0) {
		return fmt.Errorf("%w: available_copies must be a non-negative integer", ErrInvalidInput)
	}
	return nil
}

// Columns returns the supplied fields keyed by column name.
func (p BookPatch) Columns() map[string]any {
	cols := make(map[string]any)
	if p.ISBN.Set {
		cols["isbn"] = nullableString(p.ISBN.Value)
	}
	if p.Title.Set {
		cols["title"] = *p.Title.Value
	}
	if p.Author.Set {
		cols["author"] = *p.Author.Value
	}
	if p.Category.Set {
		cols["category"] = nullableString(p.Category.Value)
	}
	if p.TotalCopies.Set {
		cols["total_copies"] = *p.TotalCopies.Value
	}
	if p.AvailableCopies.Set {
		cols["available_copies"] = *p.AvailableCopies.Value
	}
	if p.Description.Set {
		cols["description"] = nullableString(p.Description.Value)
	}
	return cols
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
