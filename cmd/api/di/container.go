package di

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"library-service/cmd/api/infrastructure"
	"library-service/internal/adapter/cache"
	"library-service/internal/adapter/db/postgres"
	ginhandler "library-service/internal/adapter/gin/handler"
	ginrouter "library-service/internal/adapter/gin/router"
	"library-service/internal/adapter/repository/cached"
	"library-service/internal/config"
	"library-service/internal/usecase/auth"
	"library-service/internal/usecase/author"
	"library-service/internal/usecase/book"
	"library-service/internal/usecase/loan"
	"library-service/internal/usecase/user"
	redisclient "library-service/pkg/redis"
	"library-service/pkg/security"
)

// Container holds all application dependencies.
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client
	Tokens      *security.TokenManager

	UserUC   user.Usecase
	AuthorUC author.Usecase
	BookUC   book.Usecase
	LoanUC   loan.Usecase
	AuthUC   auth.Usecase

	Handlers ginrouter.Handlers
}

// NewContainer creates and initializes all application dependencies.
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	rdb, err := infrastructure.NewRedisClient(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	if err := infrastructure.Seed(db, cfg, l); err != nil {
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	userRepo := postgres.NewUserRepoPG(db, l)
	authorRepo := postgres.NewAuthorRepoPG(db, l)
	loanRepo := postgres.NewLoanRepoPG(db, l)

	var bookRepo book.Repository = postgres.NewBookRepoPG(db, l)
	if rdb != nil {
		bookCache := cache.NewRedisBookCache(
			rdb.Client,
			time.Duration(cfg.Redis.CacheTTL)*time.Second,
			l,
		)
		bookRepo = cached.NewCachedBookRepository(bookRepo, bookCache, l)
	}

	tokens := security.NewTokenManager(
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenExpiryHrs)*time.Hour,
	)

	userUC := user.New(userRepo, l)
	authorUC := author.New(authorRepo, l)
	bookUC := book.New(bookRepo, authorRepo, l)
	loanUC := loan.New(loanRepo, bookRepo, userRepo, l)

	creds, err := credentialStore(cfg, userRepo, l)
	if err != nil {
		return nil, err
	}
	authUC := auth.New(userUC, creds, tokens, l)

	handlers := ginrouter.Handlers{
		Auth:   ginhandler.NewAuthHandler(authUC, l),
		User:   ginhandler.NewUserHandler(userUC, l),
		Author: ginhandler.NewAuthorHandler(authorUC, l),
		Book:   ginhandler.NewBookHandler(bookUC, l),
		Loan:   ginhandler.NewLoanHandler(loanUC, l),
	}

	return &Container{
		Config:      cfg,
		Logger:      l,
		DB:          db,
		RedisClient: rdb,
		Tokens:      tokens,
		UserUC:      userUC,
		AuthorUC:    authorUC,
		BookUC:      bookUC,
		LoanUC:      loanUC,
		AuthUC:      authUC,
		Handlers:    handlers,
	}, nil
}

// credentialStore selects the login identity source. Normally the
// database; the in-memory store only when the degraded-mode flag and a
// credentials file are both configured.
func credentialStore(cfg *config.Config, userRepo user.Repository, l *zap.Logger) (auth.CredentialStore, error) {
	if !cfg.Auth.MemoryFallback {
		return auth.NewRepositoryCredentialStore(userRepo), nil
	}

	entries, err := auth.LoadCredentialsFile(cfg.Auth.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load fallback credentials: %w", err)
	}
	return auth.NewMemoryCredentialStore(entries, l), nil
}

// Close closes all resources held by the container.
func (c *Container) Close() error {
	var errs []error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
