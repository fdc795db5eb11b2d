package author

// Author represents a book author in the catalog.
type Author struct {
	ID        int64  `json:"id"`        // ID is the unique identifier for the author
	Name      string `json:"name"`      // Name is the author's full name
	Biography string `json:"biography"` // Biography is an optional free-text description
}
