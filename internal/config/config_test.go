package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	t.Run("missing JWT secret", func(t *testing.T) {
		cfg := &Config{Port: "8574"}
		assert.Error(t, cfg.Validate())
	})

	t.Run("development defaults pass", func(t *testing.T) {
		cfg := &Config{Port: "8574", JWTSecret: "dev-secret-change-in-production", Env: "development"}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("production rejects default secret", func(t *testing.T) {
		cfg := &Config{Port: "8574", JWTSecret: "dev-secret-change-in-production", Env: "production"}
		assert.Error(t, cfg.Validate())
	})

	t.Run("production requires oauth credentials", func(t *testing.T) {
		cfg := &Config{
			Port:      "8574",
			JWTSecret: "0123456789abcdef0123456789abcdef",
			Env:       "production",
		}
		assert.Error(t, cfg.Validate())

		cfg.GitHubClientID = "id"
		cfg.GitHubClientSecret = "secret"
		assert.NoError(t, cfg.Validate())
	})
}

func TestListParsing(t *testing.T) {
	cfg := &Config{
		AdminUsers:   "alice, bob",
		AllowedUsers: "",
		BlockedUsers: "eve,,  mallory ",
	}

	assert.Equal(t, []string{"alice", "bob"}, cfg.AdminList())
	assert.Nil(t, cfg.AllowList())
	assert.Equal(t, []string{"eve", "mallory"}, cfg.BlockList())
}
