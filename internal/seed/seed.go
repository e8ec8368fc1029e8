// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"

	"nuvy/internal/models"

	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seed populates the database with generated users, posts, comments, likes
// and follow edges.
func Seed(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 20
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = 100
	}
	log.Printf("Seeding database with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("clearing existing data: %w", err)
		}
	}

	f := NewFactory(db)

	users, err := f.CreateUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("creating users: %w", err)
	}

	posts, err := f.CreatePosts(users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("creating posts: %w", err)
	}

	if err := f.CreateComments(users, posts); err != nil {
		return fmt.Errorf("creating comments: %w", err)
	}
	if err := f.CreateLikes(users, posts); err != nil {
		return fmt.Errorf("creating likes: %w", err)
	}
	if err := f.CreateFollows(users); err != nil {
		return fmt.Errorf("creating follows: %w", err)
	}

	log.Printf("Seeding complete: %d users, %d posts", len(users), len(posts))
	return nil
}

func clearData(db *gorm.DB) error {
	// Reverse dependency order so foreign keys never dangle.
	for _, model := range []any{
		&models.Like{},
		&models.Comment{},
		&models.Follow{},
		&models.Post{},
		&models.User{},
	} {
		if err := db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
