// Package service holds the domain operations behind the HTTP handlers.
package service

import (
	"context"
	"strings"

	"nuvy/internal/cache"
	"nuvy/internal/models"
	"nuvy/internal/observability"
	"nuvy/internal/repository"
)

// PostService provides post, like and feed business logic.
type PostService struct {
	postRepo   repository.PostRepository
	followRepo repository.FollowRepository
}

// Feed partitions a page of posts for the viewer.
type Feed struct {
	Items []*models.Post `json:"posts"`
	Mine  []*models.Post `json:"mine"`
}

// ListFeedInput carries pagination and the viewer identity.
type ListFeedInput struct {
	Limit    int
	Offset   int
	ViewerID uint
}

// NewPostService returns a new PostService.
func NewPostService(postRepo repository.PostRepository, followRepo repository.FollowRepository) *PostService {
	return &PostService{postRepo: postRepo, followRepo: followRepo}
}

// CreatePost validates and stores a new post for the user.
func (s *PostService) CreatePost(ctx context.Context, userID uint, content string) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len([]rune(content)) > models.MaxPostContentLen {
		return nil, models.NewValidationError("Content too long (max 280 characters)")
	}

	post := &models.Post{Content: content, UserID: userID}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, userID)
}

// GetPost returns a single post with counts and the viewer's liked status.
func (s *PostService) GetPost(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}
	if err := s.expandAuthors(ctx, viewerID, []*models.Post{post}); err != nil {
		return nil, err
	}
	return post, nil
}

// ListFeed assembles a page of posts, newest first, with each author expanded
// so the client can render the follow affordance. Mine holds the viewer's own
// posts from the page.
func (s *PostService) ListFeed(ctx context.Context, in ListFeedInput) (*Feed, error) {
	limit := normalizeLimit(in.Limit)

	var posts []*models.Post
	var err error
	if in.ViewerID == 0 && in.Offset == 0 && limit == defaultPageSize {
		// Only the anonymous first page is shared between viewers.
		err = cache.Aside(ctx, cache.FeedFirstPageKey, &posts, cache.FeedTTL, func() error {
			var fetchErr error
			posts, fetchErr = s.postRepo.List(ctx, limit, 0, 0)
			return fetchErr
		})
	} else {
		posts, err = s.postRepo.List(ctx, limit, in.Offset, in.ViewerID)
	}
	if err != nil {
		return nil, err
	}

	if err := s.expandAuthors(ctx, in.ViewerID, posts); err != nil {
		return nil, err
	}

	feed := &Feed{Items: posts, Mine: []*models.Post{}}
	if in.ViewerID != 0 {
		for _, p := range posts {
			if p.UserID == in.ViewerID {
				feed.Mine = append(feed.Mine, p)
			}
		}
	}
	return feed, nil
}

// SearchPosts finds posts whose content contains the query, case-insensitively.
func (s *PostService) SearchPosts(ctx context.Context, query string, limit, offset int, viewerID uint) ([]*models.Post, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	posts, err := s.postRepo.Search(ctx, query, normalizeLimit(limit), offset, viewerID)
	if err != nil {
		return nil, err
	}
	if err := s.expandAuthors(ctx, viewerID, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ListByUser returns one user's posts, newest first.
func (s *PostService) ListByUser(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID, normalizeLimit(limit), offset, viewerID)
}

// DeletePost removes a post together with its comments and likes. Only the
// author may delete it.
func (s *PostService) DeletePost(ctx context.Context, actorID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return err
	}
	if post.UserID != actorID {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}

// ToggleLike flips the actor's like on the post and reports the new state
// together with the updated like count.
func (s *PostService) ToggleLike(ctx context.Context, actorID, postID uint) (bool, int64, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return false, 0, err
	}

	liked, err := s.postRepo.IsLiked(ctx, actorID, postID)
	if err != nil {
		return false, 0, err
	}

	if liked {
		err = s.postRepo.Unlike(ctx, actorID, postID)
	} else {
		err = s.postRepo.Like(ctx, actorID, postID)
	}
	if err != nil {
		return false, 0, err
	}

	count, err := s.postRepo.CountLikes(ctx, postID)
	if err != nil {
		return false, 0, err
	}
	observability.ToggleOperations.WithLabelValues("like", stateLabel(!liked)).Inc()
	return !liked, count, nil
}

// expandAuthors fills follower counts and followed_by_viewer on each post's
// author. The followed set is one batch query; follower counts run once per
// distinct author, not per row.
func (s *PostService) expandAuthors(ctx context.Context, viewerID uint, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	authorIDs := make([]uint, 0, len(posts))
	seen := make(map[uint]struct{}, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.UserID]; ok {
			continue
		}
		seen[p.UserID] = struct{}{}
		authorIDs = append(authorIDs, p.UserID)
	}

	followed, err := s.followRepo.FollowedSet(ctx, viewerID, authorIDs)
	if err != nil {
		return err
	}

	counts := make(map[uint]int64, len(authorIDs))
	for _, id := range authorIDs {
		n, err := s.followRepo.CountFollowers(ctx, id)
		if err != nil {
			return err
		}
		counts[id] = n
	}

	for _, p := range posts {
		p.User.FollowersCount = counts[p.UserID]
		p.User.FollowedByViewer = followed[p.UserID]
	}
	return nil
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

func stateLabel(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
