package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"echowall/internal/auth"
	"echowall/internal/config"
	"echowall/internal/database"
	"echowall/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Port:        "0",
		Env:         "test",
		JWTSecret:   "test-secret-not-for-production",
		FrontendURL: "http://localhost:5173",
		AccessMode:  "open",
		UploadDir:   t.TempDir(),
	}
}

// newTestApp wires a server over an isolated in-memory database. Redis is
// left out so every read hits the database.
func newTestApp(t *testing.T) (*fiber.App, *Server, *gorm.DB) {
	t.Helper()
	db := database.OpenTest(t)
	s := NewServerWithDeps(testConfig(t), db, nil)

	app := fiber.New()
	s.SetupRoutes(app)
	return app, s, db
}

func bearerFor(t *testing.T, s *Server, userID, username string) string {
	t.Helper()
	token, err := auth.IssueToken(s.config.JWTSecret, userID, username)
	require.NoError(t, err)
	return "Bearer " + token
}

func createUser(t *testing.T, db *gorm.DB, id, username string) *models.User {
	t.Helper()
	user := &models.User{ID: id, Username: username}
	require.NoError(t, db.Create(user).Error)
	return user
}

func doJSON(t *testing.T, app *fiber.App, method, target, bearer string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) (models.Envelope, map[string]any) {
	t.Helper()
	defer resp.Body.Close()

	var env models.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))

	data, _ := env.Data.(map[string]any)
	return env, data
}
