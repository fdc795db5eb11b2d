package auth

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "library-service/internal/domain/user"
	"library-service/internal/usecase/user"
	apperrors "library-service/pkg/errors"
	"library-service/pkg/security"
)

// RegisterRequest represents the request payload for self-registration.
// Registration never accepts a role: every registered account starts as
// a regular user.
type RegisterRequest struct {
	Name     string `validate:"required,min=2,max=100"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6,max=72"`
}

// LoginRequest represents the request payload for login.
type LoginRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// LoginResponse carries the signed access token and the authenticated user.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        *domain.User `json:"user"`
}

// Usecase defines the interface for authentication operations.
type Usecase interface {
	Register(ctx context.Context, in RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, in LoginRequest) (*LoginResponse, error)
}

type usecase struct {
	users    user.Usecase
	creds    CredentialStore
	tokens   *security.TokenManager
	log      *zap.Logger
	validate *validator.Validate
}

// New creates the auth usecase. creds is the identity-lookup strategy:
// database-backed in normal operation, in-memory in degraded mode.
func New(users user.Usecase, creds CredentialStore, tokens *security.TokenManager, log *zap.Logger) Usecase {
	return &usecase{users: users, creds: creds, tokens: tokens, log: log, validate: validator.New()}
}

// Register creates a regular-user account.
func (uc *usecase) Register(ctx context.Context, in RegisterRequest) (*domain.User, error) {
	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, apperrors.FromValidator(err)
	}

	return uc.users.Create(ctx, user.CreateRequest{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Role:     string(domain.RoleUser),
	})
}

// Login verifies credentials and issues an access token. The token
// carries the role exactly as stored; auth never upgrades a role. All
// credential failures collapse into the same Unauthorized error so the
// response does not leak which part was wrong.
func (uc *usecase) Login(ctx context.Context, in LoginRequest) (*LoginResponse, error) {
	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, apperrors.FromValidator(err)
	}

	u, err := uc.creds.FindByEmail(ctx, in.Email)
	if err != nil {
		uc.log.Error("credential lookup failed", zap.String("email", in.Email), zap.Error(err))
		return nil, apperrors.NewUnauthorizedError("invalid credentials")
	}
	if u == nil {
		uc.log.Warn("login failed, user not found", zap.String("email", in.Email))
		return nil, apperrors.NewUnauthorizedError("invalid credentials")
	}

	if !security.CheckPassword(u.Password, in.Password) {
		uc.log.Warn("login failed, wrong password", zap.Int64("user_id", u.ID))
		return nil, apperrors.NewUnauthorizedError("invalid credentials")
	}

	token, err := uc.tokens.Generate(u.ID, u.Email, string(u.Role))
	if err != nil {
		uc.log.Error("failed to sign token", zap.Int64("user_id", u.ID), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to sign token", err)
	}

	uc.log.Info("login succeeded", zap.Int64("user_id", u.ID), zap.String("role", string(u.Role)))
	return &LoginResponse{AccessToken: token, User: u}, nil
}
