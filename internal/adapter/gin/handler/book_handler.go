package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"library-service/internal/usecase/book"
)

// BookHandler handles HTTP requests for book operations.
type BookHandler struct {
	uc  book.Usecase
	log *zap.Logger
}

// NewBookHandler creates a new BookHandler instance.
func NewBookHandler(uc book.Usecase, log *zap.Logger) *BookHandler {
	return &BookHandler{uc: uc, log: log}
}

// CreateBookRequest represents the HTTP request body for creating a book.
type CreateBookRequest struct {
	Title           string `json:"title" binding:"required"`
	AuthorID        int64  `json:"author_id" binding:"required"`
	PublicationYear int    `json:"publication_year" binding:"required"`
	StockQuantity   int    `json:"stock_quantity" binding:"gte=0"`
}

// UpdateBookRequest represents the HTTP request body for updating a
// book. Absent fields are left untouched. Stock is not part of this
// payload; it only moves through the loan lifecycle.
type UpdateBookRequest struct {
	Title           *string `json:"title"`
	AuthorID        *int64  `json:"author_id"`
	PublicationYear *int    `json:"publication_year"`
}

// ListBooksResponse represents the HTTP response for listing books.
type ListBooksResponse struct {
	Books      any         `json:"books"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// CreateBook handles POST /v1/books.
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid create book request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	b, err := h.uc.Create(c.Request.Context(), book.CreateRequest{
		Title:           req.Title,
		AuthorID:        req.AuthorID,
		PublicationYear: req.PublicationYear,
		StockQuantity:   req.StockQuantity,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

// GetBook handles GET /v1/books/:id.
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	b, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// ListBooks handles GET /v1/books.
func (h *BookHandler) ListBooks(c *gin.Context) {
	query, page, limit := listParams(c)

	books, p, err := h.uc.List(c.Request.Context(), book.ListRequest{
		Query: query,
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, ListBooksResponse{Books: books, Pagination: toPagination(p)})
}

// UpdateBook handles PUT /v1/books/:id.
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid update book request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	b, err := h.uc.Update(c.Request.Context(), book.UpdateRequest{
		ID:              id,
		Title:           req.Title,
		AuthorID:        req.AuthorID,
		PublicationYear: req.PublicationYear,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// DeleteBook handles DELETE /v1/books/:id.
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.uc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}
