package repository

// QuerySource is a debugging/audit artifact carrying the exact query
// text issued, with bind placeholders, never literal user values.
type QuerySource struct {
	RenderedQuery string `json:"renderedQuery"`
}

// PaginatedResult is the wire shape of every list operation.
type PaginatedResult[T any] struct {
	Data       []T          `json:"data"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	TotalPages int          `json:"totalPages"`
	Source     *QuerySource `json:"source,omitempty"`
}

// TotalPages computes ceil(total/limit) without floating point.
func TotalPages(total int64, limit int) int {
	if limit < 1 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
