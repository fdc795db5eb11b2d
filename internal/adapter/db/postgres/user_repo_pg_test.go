package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"library-service/internal/domain/user"
	apperrors "library-service/pkg/errors"
)

func TestUserRepoPG_GetByEmail_MissReturnsNilNil(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepoPG(db, zaptest.NewLogger(t))

	u, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestUserRepoPG_GetByEmail_Hit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepoPG(db, zaptest.NewLogger(t))
	ctx := context.Background()

	id := seedUser(t, db, "reader@example.com")

	u, err := repo.GetByEmail(ctx, "reader@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, user.RoleUser, u.Role)
}

func TestUserRepoPG_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepoPG(db, zaptest.NewLogger(t))

	u, err := repo.GetByID(context.Background(), 999)
	require.Error(t, err)
	assert.Nil(t, u)

	var nf *apperrors.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestUserRepoPG_List_RejectsInjection(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepoPG(db, zaptest.NewLogger(t))

	tests := []struct {
		name  string
		query string
	}{
		{"union", "john UNION SELECT * FROM users"},
		{"or condition", "john OR 1=1"},
		{"drop", "john; DROP TABLE users"},
		{"comment", "john --"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := repo.List(context.Background(), tt.query, 1, 10)
			require.Error(t, err)

			var ve *apperrors.ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
}

func TestUserRepoPG_List_SearchByName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepoPG(db, zaptest.NewLogger(t))
	ctx := context.Background()

	seedUser(t, db, "alice@example.com")
	seedUser(t, db, "bob@example.com")

	users, total, err := repo.List(ctx, "Reader", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, users, 2)
}
