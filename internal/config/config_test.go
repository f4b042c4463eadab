package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Setenv("AUTH_SECRET", "secret")
	t.Setenv("AUTH_TOKEN_TTL", "1h")
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("HTTP_ADDR", ":3003")
	t.Setenv("HTTP_CORS_ALLOWED_ORIGINS", "http://localhost:5173,https://notes.example.com")
	t.Setenv("MONGO_DATABASE", "testNoteApp")
	t.Setenv("GRPC_MAX_CONN_IDLE", "90s")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Auth.Secret)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, StoreDriverMongo, cfg.Store.Driver)
	assert.Equal(t, ":3003", cfg.HTTP.Addr)
	assert.Equal(t, []string{"http://localhost:5173", "https://notes.example.com"}, cfg.HTTP.CORSAllowedOrigins)
	assert.Equal(t, "testNoteApp", cfg.Mongo.Database)
	assert.Equal(t, 90*time.Second, cfg.GRPC.MaxConnIdle)
	assert.Equal(t, 60*time.Second, cfg.GRPC.KeepaliveTime)
}

func TestParse_MissingSecret(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")
	require.NoError(t, os.Unsetenv("AUTH_SECRET"))

	_, err := Parse()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Store: StoreConfig{Driver: StoreDriverPostgres, ConnectAttempts: 3},
		Auth:  AuthConfig{Secret: "secret"},
	}
	require.NoError(t, valid.Validate())

	unknownDriver := valid
	unknownDriver.Store.Driver = "sqlite"
	require.Error(t, unknownDriver.Validate())

	noAttempts := valid
	noAttempts.Store.ConnectAttempts = 0
	require.Error(t, noAttempts.Validate())

	negativeTTL := valid
	negativeTTL.Auth.TokenTTL = -time.Second
	require.Error(t, negativeTTL.Validate())
}
