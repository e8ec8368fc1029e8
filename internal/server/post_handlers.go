package server

import (
	"nuvy/internal/models"
	"nuvy/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts. The response partitions the page into all
// posts and the viewer's own posts.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	viewerID, _ := s.optionalUserID(c)

	feed, err := s.postService.ListFeed(c.Context(), service.ListFeedInput{
		Limit:    page.Limit,
		Offset:   page.Offset,
		ViewerID: viewerID,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"posts": feed.Items,
		"mine":  feed.Mine,
		"pagination": fiber.Map{
			"limit":  page.Limit,
			"offset": page.Offset,
		},
	})
}

// SearchPosts handles GET /api/posts/search?query=...
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	query := c.Query("query")
	page := parsePagination(c, 20)
	viewerID, _ := s.optionalUserID(c)

	posts, err := s.postService.SearchPosts(c.Context(), query, page.Limit, page.Offset, viewerID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// GetPost handles GET /api/posts/:id.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID, _ := s.optionalUserID(c)

	post, err := s.postService.GetPost(c.Context(), id, viewerID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"post": post})
}

// CreatePost handles POST /api/posts.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), userID, req.Content)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"post": post})
}

// DeletePost handles DELETE /api/posts/:id.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), userID, postID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// ToggleLike handles PATCH /api/posts/:id/like. It flips the like and reports
// the new state together with the updated count.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	liked, likeCount, err := s.postService.ToggleLike(c.Context(), userID, postID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"liked":      liked,
		"like_count": likeCount,
	})
}

// GetUserPosts handles GET /api/users/:id/posts.
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	userIDParam, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)
	viewerID, _ := s.optionalUserID(c)

	posts, err := s.postService.ListByUser(c.Context(), userIDParam, page.Limit, page.Offset, viewerID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}
