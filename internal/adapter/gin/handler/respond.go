package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"library-service/internal/domain/pagination"
	apperrors "library-service/pkg/errors"
)

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Pagination represents pagination information on list responses.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	TotalPages int64 `json:"total_pages"`
}

func toPagination(p *pagination.Pagination) *Pagination {
	if p == nil {
		return nil
	}
	return &Pagination{
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
	}
}

// respondError maps a usecase error onto its HTTP status and a stable
// machine-readable code. Unknown errors collapse into a 500 without
// leaking internals.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	status := apperrors.Status(err)
	code := apperrors.Code(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Error("request failed", zap.Error(err))
		msg = "an internal error occurred"
	}

	c.JSON(status, ErrorResponse{Error: code, Message: msg})
}

// pathID parses the named int64 path parameter, responding 400 on a
// malformed value. The second return is false when the response has
// already been written.
func pathID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: name + " must be a positive number",
		})
		return 0, false
	}
	return id, true
}

// listParams reads the query/page/limit triple used by searchable
// list endpoints.
func listParams(c *gin.Context) (query string, page, limit int64) {
	query = c.DefaultQuery("query", "")

	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}

	limit, err = strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	return query, page, limit
}
