package models

// Page is a window over a server-ordered collection, addressed by a 1-based
// page number. Prev and Next are null exactly at the collection boundaries.
type Page[T any] struct {
	Data  []T  `json:"data"`
	Prev  *int `json:"prev"`
	Next  *int `json:"next"`
	Pages int  `json:"pages"`
}

// HasPrev reports whether an earlier page exists.
func (p Page[T]) HasPrev() bool {
	return p.Prev != nil
}

// HasNext reports whether a later page exists.
func (p Page[T]) HasNext() bool {
	return p.Next != nil
}
