package service

import (
	"context"
	"time"
	"unicode/utf8"

	"vueblog/internal/models"
	"vueblog/internal/repository"
	"vueblog/internal/validation"

	"github.com/shopspring/decimal"
)

const (
	maxReviewTitleLen = 80
	maxReviewBodyLen  = 200
)

// ReviewService implements review creation and deletion under a parent
// post.
type ReviewService struct {
	reviewRepo repository.ReviewRepository
	postRepo   repository.PostRepository
}

// CreateReviewInput carries the review form. Rating is a pointer so a
// missing field is distinguishable from a zero rating.
type CreateReviewInput struct {
	AuthorID uint
	PostID   uint
	Title    string
	Body     string
	Rating   *decimal.Decimal
}

// NewReviewService creates a new review service.
func NewReviewService(reviewRepo repository.ReviewRepository, postRepo repository.PostRepository) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, postRepo: postRepo}
}

// CreateReview validates the per-field required rules, attaches the caller
// as author and the path post as parent, and persists with the server
// timestamp.
func (s *ReviewService) CreateReview(ctx context.Context, in CreateReviewInput) (*models.Review, error) {
	var errs models.FieldErrors
	if in.Title == "" {
		errs = append(errs, models.FieldError{Field: "title", Message: validation.RequiredMessage})
	} else if utf8.RuneCountInString(in.Title) > maxReviewTitleLen {
		errs = append(errs, models.FieldError{Field: "title", Message: "Ensure this field has no more than 80 characters."})
	}
	if in.Body == "" {
		errs = append(errs, models.FieldError{Field: "body", Message: validation.RequiredMessage})
	} else if utf8.RuneCountInString(in.Body) > maxReviewBodyLen {
		errs = append(errs, models.FieldError{Field: "body", Message: "Ensure this field has no more than 200 characters."})
	}
	if in.Rating == nil {
		errs = append(errs, models.FieldError{Field: "rating", Message: validation.RequiredMessage})
	} else if in.Rating.IsNegative() || in.Rating.GreaterThanOrEqual(decimal.NewFromInt(10)) {
		// decimal(2,1): at most one digit before the point
		errs = append(errs, models.FieldError{Field: "rating", Message: "Ensure that there are no more than 2 digits in total."})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	review := &models.Review{
		AuthorID: in.AuthorID,
		PostID:   in.PostID,
		Title:    in.Title,
		Body:     in.Body,
		Rating:   in.Rating.Round(1),
		Created:  time.Now(),
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, models.NewInternalError(err)
	}

	created, err := s.reviewRepo.GetByID(ctx, review.ID)
	if err != nil {
		return nil, err
	}
	created.Decorate()
	return created, nil
}

// DeleteReview removes one review by id.
func (s *ReviewService) DeleteReview(ctx context.Context, id uint) error {
	if _, err := s.reviewRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
