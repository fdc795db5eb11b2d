package pagination

// Pagination represents pagination information for list responses.
type Pagination struct {
	Total      int64 `json:"total"`       // Total number of records
	Page       int64 `json:"page"`        // Current page number (1-based)
	Limit      int64 `json:"limit"`       // Number of records per page
	TotalPages int64 `json:"total_pages"` // Total number of pages
}

// New creates a new Pagination instance with calculated total pages.
func New(total, page, limit int64) *Pagination {
	var totalPages int64
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return &Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
