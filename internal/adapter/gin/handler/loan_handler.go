package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"library-service/internal/adapter/gin/middleware"
	"library-service/internal/usecase/loan"
)

// loanDateLayout is the wire format for loan and return dates.
const loanDateLayout = "2006-01-02"

// LoanHandler handles HTTP requests for loan lifecycle operations.
type LoanHandler struct {
	uc  loan.Usecase
	log *zap.Logger
}

// NewLoanHandler creates a new LoanHandler instance.
func NewLoanHandler(uc loan.Usecase, log *zap.Logger) *LoanHandler {
	return &LoanHandler{uc: uc, log: log}
}

// CreateLoanRequest represents the HTTP request body for creating a
// loan. Dates are YYYY-MM-DD strings. Status is optional and defaults
// to pending.
type CreateLoanRequest struct {
	BookID     int64  `json:"book_id" binding:"required"`
	UserID     int64  `json:"user_id" binding:"required"`
	LoanDate   string `json:"loan_date" binding:"required"`
	ReturnDate string `json:"return_date" binding:"required"`
	Status     string `json:"status"`
}

// UpdateLoanRequest represents the administrative partial-update body.
// Absent fields are left untouched.
type UpdateLoanRequest struct {
	BookID     *int64  `json:"book_id"`
	UserID     *int64  `json:"user_id"`
	LoanDate   *string `json:"loan_date"`
	ReturnDate *string `json:"return_date"`
	Status     *string `json:"status"`
}

// UpdateLoanStatusRequest represents the body of a status transition.
type UpdateLoanStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func parseLoanDate(c *gin.Context, field, value string) (time.Time, bool) {
	t, err := time.Parse(loanDateLayout, value)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: field + " must be a YYYY-MM-DD date",
		})
		return time.Time{}, false
	}
	return t, true
}

// CreateLoan handles POST /v1/loans.
func (h *LoanHandler) CreateLoan(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "authentication required"})
		return
	}

	var req CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid create loan request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	loanDate, ok := parseLoanDate(c, "loan_date", req.LoanDate)
	if !ok {
		return
	}
	returnDate, ok := parseLoanDate(c, "return_date", req.ReturnDate)
	if !ok {
		return
	}

	l, err := h.uc.Create(c.Request.Context(), loan.CreateRequest{
		BookID:     req.BookID,
		UserID:     req.UserID,
		LoanDate:   loanDate,
		ReturnDate: returnDate,
		Status:     req.Status,
	}, actor)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, l)
}

// GetLoan handles GET /v1/loans/:id. Ownership is enforced by the
// usecase: non-admins get Forbidden for loans that are not theirs.
func (h *LoanHandler) GetLoan(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "authentication required"})
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	l, err := h.uc.Get(c.Request.Context(), id, actor)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, l)
}

// ListLoans handles GET /v1/loans. The route is admin-gated.
func (h *LoanHandler) ListLoans(c *gin.Context) {
	loans, err := h.uc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"loans": loans})
}

// ListUserLoans handles GET /v1/loans/user/:userId. A non-admin asking
// for another user's loans gets an empty list with an "Unauthorized"
// message and HTTP 200, not an error status. Clients depend on this
// shape.
func (h *LoanHandler) ListUserLoans(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "authentication required"})
		return
	}

	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	if !actor.IsAdmin() && actor.ID != userID {
		h.log.Warn("cross-user loan listing denied",
			zap.Int64("actor_id", actor.ID), zap.Int64("requested_user_id", userID))
		c.JSON(http.StatusOK, gin.H{
			"message": "Unauthorized",
			"loans":   []any{},
		})
		return
	}

	loans, err := h.uc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"loans": loans})
}

// UpdateLoan handles PUT /v1/loans/:id. The route is admin-gated.
func (h *LoanHandler) UpdateLoan(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid update loan request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	in := loan.UpdateRequest{
		ID:     id,
		BookID: req.BookID,
		UserID: req.UserID,
		Status: req.Status,
	}
	if req.LoanDate != nil {
		t, ok := parseLoanDate(c, "loan_date", *req.LoanDate)
		if !ok {
			return
		}
		in.LoanDate = &t
	}
	if req.ReturnDate != nil {
		t, ok := parseLoanDate(c, "return_date", *req.ReturnDate)
		if !ok {
			return
		}
		in.ReturnDate = &t
	}

	l, err := h.uc.Update(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, l)
}

// UpdateLoanStatus handles PATCH /v1/loans/:id/status.
func (h *LoanHandler) UpdateLoanStatus(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "authentication required"})
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateLoanStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid loan status request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	l, err := h.uc.UpdateStatus(c.Request.Context(), id, req.Status, actor)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, l)
}

// DeleteLoan handles DELETE /v1/loans/:id. The route is admin-gated.
// Deleting a loan never restores book stock.
func (h *LoanHandler) DeleteLoan(c *gin.Context) {
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
