package server

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateComment(t *testing.T) {
	_, app := newTestServer(t)
	aliceToken, _ := registerUser(t, app, "alice")
	bobToken, _ := registerUser(t, app, "bob")

	postID := createPost(t, app, aliceToken, "commentable")

	resp := doJSON(t, app, http.MethodPost, "/api/comments", bobToken, fiber.Map{
		"post_id": postID,
		"content": "well said",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	comment := body["comment"].(map[string]any)
	assert.Equal(t, "well said", comment["content"])
	assert.Equal(t, "bob", comment["user"].(map[string]any)["username"])
}

func TestCreateCommentMissingPost(t *testing.T) {
	_, app := newTestServer(t)
	token, _ := registerUser(t, app, "alice")

	resp := doJSON(t, app, http.MethodPost, "/api/comments", token, fiber.Map{
		"post_id": 999,
		"content": "into the void",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestListCommentsRequiresPostID(t *testing.T) {
	_, app := newTestServer(t)

	resp := doJSON(t, app, http.MethodGet, "/api/comments", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestListCommentsNewestFirst(t *testing.T) {
	_, app := newTestServer(t)
	token, _ := registerUser(t, app, "alice")
	postID := createPost(t, app, token, "busy post")

	for _, content := range []string{"first", "second"} {
		resp := doJSON(t, app, http.MethodPost, "/api/comments", token, fiber.Map{
			"post_id": postID,
			"content": content,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := doJSON(t, app, http.MethodGet, "/api/comments?postId="+itoa(postID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	comments := body["comments"].([]any)
	require.Len(t, comments, 2)
}

func TestDeleteCommentOwnership(t *testing.T) {
	_, app := newTestServer(t)
	aliceToken, _ := registerUser(t, app, "alice")
	bobToken, _ := registerUser(t, app, "bob")

	postID := createPost(t, app, aliceToken, "a post")
	resp := doJSON(t, app, http.MethodPost, "/api/comments", bobToken, fiber.Map{
		"post_id": postID,
		"content": "bob's comment",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	commentID := uint(body["comment"].(map[string]any)["id"].(float64))

	// The post author still cannot delete someone else's comment.
	resp = doJSON(t, app, http.MethodDelete, "/api/comments/"+itoa(commentID), aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete, "/api/comments/"+itoa(commentID), bobToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Deleting again is a 404.
	resp = doJSON(t, app, http.MethodDelete, "/api/comments/"+itoa(commentID), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
