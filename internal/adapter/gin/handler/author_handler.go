package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"library-service/internal/usecase/author"
)

// AuthorHandler handles HTTP requests for author operations.
type AuthorHandler struct {
	uc  author.Usecase
	log *zap.Logger
}

// NewAuthorHandler creates a new AuthorHandler instance.
func NewAuthorHandler(uc author.Usecase, log *zap.Logger) *AuthorHandler {
	return &AuthorHandler{uc: uc, log: log}
}

// CreateAuthorRequest represents the HTTP request body for creating an author.
type CreateAuthorRequest struct {
	Name      string `json:"name" binding:"required"`
	Biography string `json:"biography"`
}

// UpdateAuthorRequest represents the HTTP request body for updating an
// author. Absent fields are left untouched.
type UpdateAuthorRequest struct {
	Name      *string `json:"name"`
	Biography *string `json:"biography"`
}

// CreateAuthor handles POST /v1/authors.
func (h *AuthorHandler) CreateAuthor(c *gin.Context) {
	var req CreateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid create author request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	a, err := h.uc.Create(c.Request.Context(), author.CreateRequest{
		Name:      req.Name,
		Biography: req.Biography,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, a)
}

// GetAuthor handles GET /v1/authors/:id.
func (h *AuthorHandler) GetAuthor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	a, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, a)
}

// ListAuthors handles GET /v1/authors.
func (h *AuthorHandler) ListAuthors(c *gin.Context) {
	authors, err := h.uc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"authors": authors})
}

// UpdateAuthor handles PUT /v1/authors/:id.
func (h *AuthorHandler) UpdateAuthor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid update author request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	a, err := h.uc.Update(c.Request.Context(), author.UpdateRequest{
		ID:        id,
		Name:      req.Name,
		Biography: req.Biography,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, a)
}

// DeleteAuthor handles DELETE /v1/authors/:id.
func (h *AuthorHandler) DeleteAuthor(c *gin.Context) {
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
