package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"library-service/internal/adapter/gin/handler"
	"library-service/internal/adapter/gin/middleware"
	"library-service/internal/config"
	"library-service/pkg/logger"
	redisclient "library-service/pkg/redis"
	"library-service/pkg/security"
)

// Handlers bundles the HTTP handlers the router wires up.
type Handlers struct {
	Auth   *handler.AuthHandler
	User   *handler.UserHandler
	Author *handler.AuthorHandler
	Book   *handler.BookHandler
	Loan   *handler.LoanHandler
}

// Setup configures and returns a Gin router with all routes and
// middleware. Everything except /health and the auth endpoints sits
// behind Bearer-token authentication.
func Setup(
	h Handlers,
	tokens *security.TokenManager,
	rateLimit config.RateLimitConfig,
	redisClient *redisclient.Client,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(logger.Recovery(log))
	router.Use(logger.RequestID())
	router.Use(logger.Middleware(log))
	if redisClient != nil {
		router.Use(middleware.RateLimiter(rateLimit, redisClient.Client, log))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "library-service",
		})
	})

	v1 := router.Group("/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
	}

	authed := v1.Group("")
	authed.Use(middleware.Authenticate(tokens, log))
	admin := middleware.RequireAdmin(log)

	users := authed.Group("/users")
	users.Use(admin)
	{
		users.POST("", h.User.CreateUser)
		users.GET("", h.User.ListUsers)
		users.GET("/:id", h.User.GetUser)
		users.PUT("/:id", h.User.UpdateUser)
		users.DELETE("/:id", h.User.DeleteUser)
	}

	authors := authed.Group("/authors")
	{
		authors.GET("", h.Author.ListAuthors)
		authors.GET("/:id", h.Author.GetAuthor)
		authors.POST("", admin, h.Author.CreateAuthor)
		authors.PUT("/:id", admin, h.Author.UpdateAuthor)
		authors.DELETE("/:id", admin, h.Author.DeleteAuthor)
	}

	books := authed.Group("/books")
	{
		books.GET("", h.Book.ListBooks)
		books.GET("/:id", h.Book.GetBook)
		books.POST("", admin, h.Book.CreateBook)
		books.PUT("/:id", admin, h.Book.UpdateBook)
		books.DELETE("/:id", admin, h.Book.DeleteBook)
	}

	loans := authed.Group("/loans")
	{
		loans.POST("", h.Loan.CreateLoan)
		loans.GET("", admin, h.Loan.ListLoans)
		loans.GET("/user/:userId", h.Loan.ListUserLoans)
		loans.GET("/:id", h.Loan.GetLoan)
		loans.PUT("/:id", admin, h.Loan.UpdateLoan)
		loans.PATCH("/:id/status", h.Loan.UpdateLoanStatus)
		loans.DELETE("/:id", admin, h.Loan.DeleteLoan)
	}

	return router
}
