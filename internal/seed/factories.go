package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"nuvy/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// demoPassword is the shared password for all seeded accounts.
const demoPassword = "DemoAccount12!"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewFactory creates a Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUsers persists n users with unique usernames and emails.
func (f *Factory) CreateUsers(n int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		username := fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), i)
		user := &models.User{
			Username: sanitizeUsername(username),
			Email:    fmt.Sprintf("%s@example.com", username),
			Password: string(hashed),
			Bio:      gofakeit.Sentence(8),
		}
		if err := f.db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// CreatePosts persists n posts spread across the users with a realistic
// created_at spread over the past 90 days.
func (f *Factory) CreatePosts(users []*models.User, n int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[f.rng.Intn(len(users))]
		post := f.BuildPost(author)
		if err := f.db.Create(post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// BuildPost constructs a post for the user without persisting it.
func (f *Factory) BuildPost(user *models.User, overrides ...func(*models.Post)) *models.Post {
	content := gofakeit.Sentence(6 + f.rng.Intn(12))
	if len([]rune(content)) > models.MaxPostContentLen {
		content = string([]rune(content)[:models.MaxPostContentLen])
	}

	post := &models.Post{
		Content: content,
		UserID:  user.ID,
	}

	daysBack := f.rng.Intn(90)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	post.CreatedAt = time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour -
			time.Duration(hoursBack)*time.Hour -
			time.Duration(minsBack)*time.Minute)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreateComments threads a few comments onto roughly half the posts.
func (f *Factory) CreateComments(users []*models.User, posts []*models.Post) error {
	for _, post := range posts {
		if f.rng.Intn(2) == 0 {
			continue
		}
		for i := 0; i < 1+f.rng.Intn(4); i++ {
			commenter := users[f.rng.Intn(len(users))]
			comment := &models.Comment{
				Content:   gofakeit.Sentence(4 + f.rng.Intn(10)),
				UserID:    commenter.ID,
				PostID:    post.ID,
				CreatedAt: post.CreatedAt.Add(time.Duration(1+f.rng.Intn(600)) * time.Minute),
			}
			if err := f.db.Create(comment).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// CreateLikes sprinkles like edges over the posts. Each user/post pair is
// liked at most once.
func (f *Factory) CreateLikes(users []*models.User, posts []*models.Post) error {
	for _, post := range posts {
		for _, user := range users {
			if f.rng.Intn(5) != 0 {
				continue
			}
			like := &models.Like{UserID: user.ID, PostID: post.ID}
			if err := f.db.Create(like).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// CreateFollows builds a sparse directed follow graph over the users.
func (f *Factory) CreateFollows(users []*models.User) error {
	for _, follower := range users {
		for _, followee := range users {
			if follower.ID == followee.ID || f.rng.Intn(6) != 0 {
				continue
			}
			follow := &models.Follow{FollowerID: follower.ID, FolloweeID: followee.ID}
			if err := f.db.Create(follow).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// sanitizeUsername coerces generated usernames into the accepted charset.
func sanitizeUsername(username string) string {
	var b strings.Builder
	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	out := strings.Trim(b.String(), "_-")
	if len(out) < 3 {
		out = "user" + out
	}
	return out
}
