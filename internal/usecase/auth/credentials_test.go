package auth_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "library-service/internal/domain/user"
	"library-service/internal/usecase/auth"
)

func TestMemoryCredentialStore_LookupIsCaseInsensitive(t *testing.T) {
	store := auth.NewMemoryCredentialStore([]domain.User{
		{ID: 1, Email: "Admin@Example.com", Role: domain.RoleAdmin},
	}, zaptest.NewLogger(t))

	u, err := store.FindByEmail(context.Background(), "admin@example.COM")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, int64(1), u.ID)
}

func TestMemoryCredentialStore_MissReturnsNilNil(t *testing.T) {
	store := auth.NewMemoryCredentialStore(nil, zaptest.NewLogger(t))

	u, err := store.FindByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestLoadCredentialsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	data := `[
		{"id":1,"name":"Admin","email":"Admin@Example.com","password_hash":"$2a$10$abcdefghijklmnopqrstuv","role":"admin"},
		{"id":2,"name":"Reader","email":"reader@example.com","password_hash":"$2a$10$abcdefghijklmnopqrstuv","role":"user"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	entries, err := auth.LoadCredentialsFile(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "admin@example.com", entries[0].Email)
	assert.Equal(t, domain.RoleAdmin, entries[0].Role)
	assert.Equal(t, domain.RoleUser, entries[1].Role)
}

func TestLoadCredentialsFile_InvalidRole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	data := `[{"id":1,"email":"root@example.com","password_hash":"x","role":"superuser"}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	_, err := auth.LoadCredentialsFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid role")
}

func TestLoadCredentialsFile_Missing(t *testing.T) {
	_, err := auth.LoadCredentialsFile(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
