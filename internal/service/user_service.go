package service

import (
	"context"
	"strings"

	"nuvy/internal/models"
	"nuvy/internal/observability"
	"nuvy/internal/repository"
	"nuvy/internal/validation"
)

// UserService provides profile and follow business logic.
type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

// UpdateProfileInput carries the editable profile fields. Nil means unchanged.
type UpdateProfileInput struct {
	Username *string `json:"username"`
	Bio      *string `json:"bio"`
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository) *UserService {
	return &UserService{userRepo: userRepo, followRepo: followRepo}
}

// ToggleFollow flips the actor's follow edge to the target and reports whether
// the actor now follows them.
func (s *UserService) ToggleFollow(ctx context.Context, actorID, targetID uint) (bool, error) {
	if actorID == targetID {
		return false, models.NewValidationError("You cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return false, err
	}

	following, err := s.followRepo.Toggle(ctx, actorID, targetID)
	if err != nil {
		return false, err
	}
	observability.ToggleOperations.WithLabelValues("follow", stateLabel(following)).Inc()
	return following, nil
}

// GetProfile returns the user with follower/following counts and, when the
// viewer is known, whether the viewer follows them.
func (s *UserService) GetProfile(ctx context.Context, userID, viewerID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.FollowersCount, err = s.followRepo.CountFollowers(ctx, userID); err != nil {
		return nil, err
	}
	if user.FollowingCount, err = s.followRepo.CountFollowing(ctx, userID); err != nil {
		return nil, err
	}
	if viewerID != 0 && viewerID != userID {
		if user.FollowedByViewer, err = s.followRepo.Exists(ctx, viewerID, userID); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// UpdateProfile applies the given profile changes to the user.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if err := validation.ValidateUsername(username); err != nil {
			return nil, err
		}
		if username != user.Username {
			existing, err := s.userRepo.GetByUsername(ctx, username)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, models.NewValidationError("Username already taken")
			}
			user.Username = username
		}
	}
	if in.Bio != nil {
		bio := strings.TrimSpace(*in.Bio)
		if len([]rune(bio)) > models.MaxBioLen {
			return nil, models.NewValidationError("Bio too long (max 160 characters)")
		}
		user.Bio = bio
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userID, 0)
}

// ListFollowers returns the users following userID, most recent first.
func (s *UserService) ListFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowers(ctx, userID, normalizeLimit(limit), offset)
}

// ListFollowing returns the users userID follows, most recent first.
func (s *UserService) ListFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowing(ctx, userID, normalizeLimit(limit), offset)
}
