package repositories_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"modernblog/internal/repositories"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startContainer(t *testing.T, req testcontainers.ContainerRequest, port nat.Port) (host, mapped string) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	cont, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("container runtime unavailable: %v", err)
	}
	t.Cleanup(func() { _ = cont.Terminate(ctx) })

	host, err = cont.Host(ctx)
	require.NoError(t, err)
	p, err := cont.MappedPort(ctx, port)
	require.NoError(t, err)
	return host, p.Port()
}

func TestPostgresPostRepository(t *testing.T) {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "blog",
			"POSTGRES_PASSWORD": "blog",
			"POSTGRES_DB":       "blog",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}, "5432/tcp")

	dsn := fmt.Sprintf("host=%s port=%s user=blog password=blog dbname=blog sslmode=disable", host, port)
	db, err := repositories.OpenDatabase("postgres", dsn)
	require.NoError(t, err)
	require.NoError(t, repositories.AutoMigrate(db))

	runPostRepositorySuite(t, func(t *testing.T) postStore {
		require.NoError(t, db.Exec("TRUNCATE posts, profiles, users").Error)
		return gormStore(db)
	})
}

func TestRedisTokenBlacklist(t *testing.T) {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	}, "6379/tcp")

	ctx := context.Background()
	b := repositories.NewRedisTokenBlacklist(repositories.RedisConfig{Addr: host + ":" + port})
	defer b.Close()
	require.NoError(t, b.Ping(ctx))

	revoked, err := b.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, b.Revoke(ctx, "jti-1", time.Now().Add(time.Minute)))
	revoked, err = b.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, b.Revoke(ctx, "jti-2", time.Now().Add(-time.Minute)))
	revoked, err = b.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}
