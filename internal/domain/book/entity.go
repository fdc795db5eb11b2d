package book

import "library-service/internal/domain/author"

// Book represents a catalog entry with a physical stock count.
// StockQuantity is only ever mutated through the loan lifecycle's
// stock-adjustment path, never directly from user input.
type Book struct {
	ID              int64          `json:"id"`
	Title           string         `json:"title"`
	AuthorID        int64          `json:"author_id"`
	Author          *author.Author `json:"author,omitempty"` // expanded on reads
	PublicationYear int            `json:"publication_year"`
	StockQuantity   int            `json:"stock_quantity"` // copies currently available to lend
}

// InStock reports whether at least one copy is available.
func (b *Book) InStock() bool {
	return b.StockQuantity > 0
}
