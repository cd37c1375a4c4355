package seed

import (
	"fmt"
	"log"

	"vueblog/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	f := NewFactory(db)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create users: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("✓ %d test users created", len(users))

	if len(users) == 0 {
		return nil
	}

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[f.r.Intn(len(users))]
		posts = append(posts, f.BuildPost(author))
	}
	if err := f.CreatePostsBatch(posts); err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	reviews := 0
	for _, post := range posts {
		for i := 0; i < f.r.Intn(5); i++ {
			reviewer := users[f.r.Intn(len(users))]
			if _, err := f.CreateReview(post, reviewer); err != nil {
				return fmt.Errorf("failed to create reviews: %w", err)
			}
			reviews++
		}
	}
	log.Printf("✓ %d reviews created", reviews)

	log.Println("🎉 Database seeding completed!")
	return nil
}

// clearData removes seedable rows, children before parents.
func clearData(db *gorm.DB) error {
	for _, model := range []any{
		&models.Review{},
		&models.Post{},
		&models.AuthToken{},
		&models.User{},
	} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
