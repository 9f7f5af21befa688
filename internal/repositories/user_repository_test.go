package repositories_test

import (
	"context"
	"errors"
	"testing"

	"modernblog/internal/models"
	"modernblog/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserAndProfileRepositories(t *testing.T) {
	stores := map[string]func(t *testing.T) postStore{
		"gorm-sqlite": func(t *testing.T) postStore { return gormStore(openSQLite(t)) },
		"memory":      func(t *testing.T) postStore { return memoryStore() },
	}

	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			ctx := context.Background()

			user := &models.User{Email: "jane@example.com", Password: "hash"}
			require.NoError(t, s.users.Create(ctx, user))
			assert.NotEmpty(t, user.ID)

			err := s.users.Create(ctx, &models.User{Email: "jane@example.com", Password: "hash"})
			assert.True(t, errors.Is(err, repositories.ErrDuplicate), "duplicate email: %v", err)

			byEmail, err := s.users.GetByEmail(ctx, "jane@example.com")
			require.NoError(t, err)
			assert.Equal(t, user.ID, byEmail.ID)

			_, err = s.users.GetByEmail(ctx, "nobody@example.com")
			assert.True(t, errors.Is(err, repositories.ErrNotFound))

			require.NoError(t, s.profiles.Create(ctx, &models.Profile{ID: user.ID, Username: "jane"}))
			err = s.profiles.Create(ctx, &models.Profile{ID: "other-id", Username: "jane"})
			assert.True(t, errors.Is(err, repositories.ErrDuplicate), "duplicate username: %v", err)

			profile, err := s.profiles.GetByUsername(ctx, "jane")
			require.NoError(t, err)
			assert.Equal(t, user.ID, profile.ID)

			_, err = s.profiles.GetByID(ctx, "missing")
			assert.True(t, errors.Is(err, repositories.ErrNotFound))

			require.NoError(t, s.users.Delete(ctx, user.ID))
			_, err = s.users.GetByID(ctx, user.ID)
			assert.True(t, errors.Is(err, repositories.ErrNotFound))
			assert.True(t, errors.Is(s.users.Delete(ctx, user.ID), repositories.ErrNotFound))
		})
	}
}
