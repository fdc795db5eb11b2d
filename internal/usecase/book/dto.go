package book

// CreateRequest represents the request payload for creating a book.
type CreateRequest struct {
	Title           string `validate:"required,min=1,max=300"`
	AuthorID        int64  `validate:"required"`
	PublicationYear int    `validate:"required,gte=0"`
	StockQuantity   int    `validate:"gte=0"`
}

// UpdateRequest represents the request payload for updating a book.
// Nil fields are left untouched. StockQuantity is deliberately absent:
// stock moves only through the loan lifecycle's adjustment path.
type UpdateRequest struct {
	ID              int64   `validate:"required"`
	Title           *string `validate:"omitempty,min=1,max=300"`
	AuthorID        *int64  `validate:"omitempty"`
	PublicationYear *int    `validate:"omitempty,gte=0"`
}

// ListRequest represents the request payload for listing books with
// search and pagination.
type ListRequest struct {
	Query string
	Page  int64
	Limit int64
}
