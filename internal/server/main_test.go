package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"nuvy/internal/config"
	"nuvy/internal/database"
	"nuvy/internal/repository"
	"nuvy/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "SecurePass12!@"

func itoa(id uint) string {
	return fmt.Sprintf("%d", id)
}

// newTestServer builds a server over an in-memory database with routes
// registered but the middleware chain (metrics, limiter) omitted.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	t.Cleanup(func() { sqlDB.Close() })

	s := &Server{
		config: &config.Config{
			JWTSecret: "test-secret-key-of-sufficient-length",
			Env:       "test",
		},
		db:          db,
		userRepo:    repository.NewUserRepository(db),
		postRepo:    repository.NewPostRepository(db),
		commentRepo: repository.NewCommentRepository(db),
		followRepo:  repository.NewFollowRepository(db),
	}
	s.postService = service.NewPostService(s.postRepo, s.followRepo)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo)
	s.userService = service.NewUserService(s.userRepo, s.followRepo)

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// registerUser registers a user through the API and returns their token and ID.
func registerUser(t *testing.T, app *fiber.App, username string) (string, uint) {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"username": username,
		"email":    fmt.Sprintf("%s@example.com", username),
		"password": testPassword,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	user, _ := body["user"].(map[string]any)
	require.NotNil(t, user)
	id, _ := user["id"].(float64)
	require.NotZero(t, id)
	return token, uint(id)
}

// createPost creates a post through the API and returns its ID.
func createPost(t *testing.T, app *fiber.App, token, content string) uint {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/posts", token, fiber.Map{
		"content": content,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	post, _ := body["post"].(map[string]any)
	require.NotNil(t, post)
	id, _ := post["id"].(float64)
	require.NotZero(t, id)
	return uint(id)
}
