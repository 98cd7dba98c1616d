//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

// Page is one page of a paginated list response.
type Page[T any] struct {
	Count    int    `json:"count"`
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`
	Results  []T    `json:"results"`
}

// HasNext reports whether another page follows.
func (p Page[T]) HasNext() bool { return p.Next != "" }

// ListOptions controls paging for tenant-scoped list endpoints.
// Page is 1-based; zero means the API default.
type ListOptions struct {
	Page   int
	Search string
}
