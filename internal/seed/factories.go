// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"vueblog/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser constructs and persists a sample user. All generated users
// share the password "password123" so seeded accounts are usable.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:  gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Email:     gofakeit.Email(),
		Password:  string(hash),
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// BuildPost constructs a post for the given author without persisting it.
// Titles carry a random suffix to stay clear of the unique constraint.
func (f *Factory) BuildPost(author *models.User, overrides ...func(*models.Post)) *models.Post {
	title := fmt.Sprintf("%s %d", gofakeit.Sentence(4), gofakeit.Number(100, 9999))
	post := &models.Post{
		Title:      title,
		Slug:       slug.Make(title),
		Body:       gofakeit.Paragraph(2, 4, 8, "\n\n"),
		Image:      models.PlaceholderImage,
		IsFeatured: f.r.Intn(4) == 0,
		IsVerified: f.r.Intn(10) != 0,
		Viewcount:  f.r.Intn(500),
		AuthorID:   author.ID,
	}

	// realistic created spread over the past 90 days
	daysBack := f.r.Intn(90)
	hoursBack := f.r.Intn(24)
	minsBack := f.r.Intn(60)
	post.Created = time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists multiple posts in a single DB call.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return f.db.Create(&posts).Error
}

// CreateReview constructs and persists a review on the given post.
func (f *Factory) CreateReview(post *models.Post, author *models.User, overrides ...func(*models.Review)) (*models.Review, error) {
	rating := decimal.NewFromFloat(float64(f.r.Intn(90)+10) / 10.0).Round(1)
	review := &models.Review{
		PostID:     post.ID,
		AuthorID:   author.ID,
		Title:      gofakeit.Sentence(3),
		Body:       gofakeit.Sentence(12),
		Rating:     rating,
		IsApproved: f.r.Intn(5) != 0,
		Created:    post.Created.Add(time.Duration(f.r.Intn(72)) * time.Hour),
	}

	for _, override := range overrides {
		override(review)
	}

	if err := f.db.Create(review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return review, nil
}
