package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	domain "library-service/internal/domain/user"
	"library-service/internal/usecase/user"
)

// CredentialStore is the identity-lookup strategy behind login. The
// default implementation reads the user table; an in-memory
// implementation exists for the explicitly-labeled degraded mode when
// the database is unreachable. A miss returns (nil, nil).
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// RepositoryCredentialStore serves credentials from the user repository.
type RepositoryCredentialStore struct {
	repo user.Repository
}

// NewRepositoryCredentialStore creates the database-backed credential store.
func NewRepositoryCredentialStore(repo user.Repository) *RepositoryCredentialStore {
	return &RepositoryCredentialStore{repo: repo}
}

// FindByEmail looks up a user by lowercased email.
func (s *RepositoryCredentialStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.GetByEmail(ctx, strings.ToLower(email))
}

// MemoryCredentialStore is the degraded-mode identity lookup: a fixed
// set of injected credentials served from memory. Entries are supplied
// at construction (never compiled in), roles are taken verbatim from
// the entries, and password verification still goes through the normal
// bcrypt comparison. It is never enabled by default.
type MemoryCredentialStore struct {
	mu      sync.RWMutex
	byEmail map[string]domain.User
	log     *zap.Logger
}

// NewMemoryCredentialStore creates the in-memory store from the given
// entries and logs loudly that the service is running degraded.
func NewMemoryCredentialStore(entries []domain.User, log *zap.Logger) *MemoryCredentialStore {
	byEmail := make(map[string]domain.User, len(entries))
	for _, u := range entries {
		byEmail[strings.ToLower(u.Email)] = u
	}

	log.Warn("auth running in DEGRADED mode: logins served from in-memory credential store",
		zap.Int("entries", len(entries)),
	)

	return &MemoryCredentialStore{byEmail: byEmail, log: log}
}

// FindByEmail looks up an injected credential by lowercased email.
func (s *MemoryCredentialStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	cp := u
	return &cp, nil
}

// LoadCredentialsFile reads degraded-mode credential entries from a
// JSON file of the form:
//
//	[{"id":1,"name":"Admin","email":"admin@example.com","password_hash":"$2a$...","role":"admin"}]
func LoadCredentialsFile(path string) ([]domain.User, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var raw []struct {
		ID           int64  `json:"id"`
		Name         string `json:"name"`
		Email        string `json:"email"`
		PasswordHash string `json:"password_hash"`
		Role         string `json:"role"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}

	entries := make([]domain.User, len(raw))
	for i, r := range raw {
		role := domain.Role(r.Role)
		if !role.Valid() {
			return nil, fmt.Errorf("entry %d: invalid role %q", i, r.Role)
		}
		entries[i] = domain.User{
			ID:       r.ID,
			Name:     r.Name,
			Email:    strings.ToLower(r.Email),
			Password: r.PasswordHash,
			Role:     role,
		}
	}
	return entries, nil
}
