package server

import (
	"net/http"
	"testing"

	"nuvy/internal/cache"
	"nuvy/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	s, app := newTestServer(t)

	resp := doJSON(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"username": "alice",
		"email":    "alice@example.com",
		"password": testPassword,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice", user["username"])
	// The password hash must never appear in responses.
	_, exposed := user["password"]
	assert.False(t, exposed)

	var stored models.User
	require.NoError(t, s.db.Where("username = ?", "alice").First(&stored).Error)
	assert.NotEqual(t, testPassword, stored.Password)
}

func TestRegisterDuplicateEmailCreatesNoRecord(t *testing.T) {
	s, app := newTestServer(t)
	registerUser(t, app, "alice")

	resp := doJSON(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"username": "alice2",
		"email":    "alice@example.com",
		"password": testPassword,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	var count int64
	require.NoError(t, s.db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	_, app := newTestServer(t)
	registerUser(t, app, "alice")

	resp := doJSON(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"username": "alice",
		"email":    "elsewhere@example.com",
		"password": testPassword,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestRegisterWeakPassword(t *testing.T) {
	_, app := newTestServer(t)

	resp := doJSON(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestLogin(t *testing.T) {
	_, app := newTestServer(t)
	registerUser(t, app, "alice")

	resp := doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "alice@example.com",
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["token"])
}

func TestLoginBadCredentials(t *testing.T) {
	_, app := newTestServer(t)
	registerUser(t, app, "alice")

	// Wrong password and unknown email must be indistinguishable.
	resp := doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "alice@example.com",
		"password": "WrongPass123!",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	wrongPass := decodeBody(t, resp)

	resp = doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "ghost@example.com",
		"password": testPassword,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	unknownEmail := decodeBody(t, resp)

	assert.Equal(t, wrongPass["error"], unknownEmail["error"])
}

func TestCheck(t *testing.T) {
	_, app := newTestServer(t)
	token, _ := registerUser(t, app, "alice")

	resp := doJSON(t, app, http.MethodGet, "/auth/check", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice", user["username"])

	resp = doJSON(t, app, http.MethodGet, "/auth/check", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestLogoutRevokesToken(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	_, app := newTestServer(t)
	token, _ := registerUser(t, app, "alice")

	resp := doJSON(t, app, http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// The blacklisted token no longer authenticates.
	resp = doJSON(t, app, http.MethodGet, "/auth/check", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestAuthRejectsForgedToken(t *testing.T) {
	_, app := newTestServer(t)
	registerUser(t, app, "alice")

	resp := doJSON(t, app, http.MethodGet, "/auth/check", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestRevokedTokenReadsAreAnonymous(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	_, app := newTestServer(t)
	token, _ := registerUser(t, app, "alice")
	postID := createPost(t, app, token, "hello")

	resp := doJSON(t, app, http.MethodPatch, "/api/posts/"+itoa(postID)+"/like", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/posts/"+itoa(postID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	post := decodeBody(t, resp)["post"].(map[string]any)
	require.Equal(t, true, post["liked"])

	resp = doJSON(t, app, http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Public reads with the revoked token carry no viewer state.
	resp = doJSON(t, app, http.MethodGet, "/api/posts/"+itoa(postID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	post = decodeBody(t, resp)["post"].(map[string]any)
	assert.Equal(t, false, post["liked"])
}
