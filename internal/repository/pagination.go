package repository

// Page is a limit/offset window over a listing.
type Page struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// PageResult wraps one page of items plus the total count, so clients can
// paginate without a second query.
type PageResult[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}
