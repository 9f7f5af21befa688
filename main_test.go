package main

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"modernblog/internal/config"
	"modernblog/internal/models"
	"modernblog/internal/services"
	"modernblog/internal/session"
	"modernblog/pkg/rabbitmq"
)

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(routingKey string, payload interface{}) error {
	args := m.Called(routingKey, payload)
	return args.Error(0)
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("DATABASE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "test_jwt_secret")
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("REDIS_ADDR", "")
	cfg, err := config.Load(viper.New())
	require.NoError(t, err)
	return cfg
}

func TestNewApp_HealthCheck(t *testing.T) {
	app, cleanup, err := NewApp(memoryConfig(t))
	require.NoError(t, err)
	defer cleanup()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "disabled", body["events"])
}

func TestNewApp_UnauthenticatedWrite(t *testing.T) {
	app, cleanup, err := NewApp(memoryConfig(t))
	require.NoError(t, err)
	defer cleanup()

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/posts", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestNewApp_UnsupportedDriver(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.DatabaseDriver = "unknown"

	_, cleanup, err := NewApp(cfg)
	assert.Error(t, err)
	cleanup()
}

func TestSessionLogger(t *testing.T) {
	publisher := new(MockPublisher)
	publisher.On("Publish", services.EventSessionSignedIn, map[string]interface{}{"userID": "u1"}).Return(nil).Once()
	publisher.On("Publish", services.EventSessionSignedOut, map[string]interface{}{"userID": "u1"}).Return(nil).Once()

	fn := sessionLogger(publisher)
	sess := session.WithIdentity(models.Identity{ID: "u1"})
	fn(session.Event{Kind: session.SignedIn, Session: sess, At: time.Now()})
	fn(session.Event{Kind: session.SignedOut, Session: sess, At: time.Now()})
	publisher.AssertExpectations(t)

	// Without a broker events are only logged
	sessionLogger(nil)(session.Event{Kind: session.SignedIn, Session: sess})
}

func TestLogEvent(t *testing.T) {
	assert.NoError(t, logEvent(rabbitmq.Event{Type: services.EventPostCreated, Payload: []byte(`{}`)}))
}
