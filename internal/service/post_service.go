package service

import (
	"context"
	"unicode/utf8"

	"vueblog/internal/models"
	"vueblog/internal/repository"

	"github.com/gosimple/slug"
)

const (
	maxTitleLen = 100

	// authorPostsLimit caps the my-posts and related-posts listings.
	authorPostsLimit = 5
	// frontPageLimit caps the latest and featured listings.
	frontPageLimit = 5
)

// PostService implements post CRUD, the derived slug, the viewcount side
// effect, and the read-only listings.
type PostService struct {
	postRepo repository.PostRepository
	images   *ImageService
}

// CreatePostInput carries the multipart create form. Image is the raw
// uploaded file content, empty when the client sent none.
type CreatePostInput struct {
	AuthorID uint
	Title    string
	Body     string
	Image    []byte
}

// UpdatePostInput carries the partial update form; empty fields keep their
// stored values.
type UpdatePostInput struct {
	PostID uint
	Title  string
	Body   string
	Image  []byte
}

// NewPostService creates a new post service.
func NewPostService(postRepo repository.PostRepository, images *ImageService) *PostService {
	return &PostService{postRepo: postRepo, images: images}
}

// CreatePost validates the form, derives the slug from the title, stores
// the resized image (or the placeholder), and persists the post.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	var errs models.FieldErrors
	if in.Title == "" {
		errs = append(errs, models.FieldError{Field: "title", Message: "This field is required"})
	} else if utf8.RuneCountInString(in.Title) > maxTitleLen {
		errs = append(errs, models.FieldError{Field: "title", Message: "Ensure this field has no more than 100 characters."})
	}
	if in.Body == "" {
		errs = append(errs, models.FieldError{Field: "body", Message: "This field is required"})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	taken, err := s.postRepo.TitleExists(ctx, in.Title, 0)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if taken {
		return nil, models.NewFieldError("title", "post with this title already exists.")
	}

	imagePath := models.PlaceholderImage
	if len(in.Image) > 0 {
		imagePath, err = s.images.Store(in.Image)
		if err != nil {
			return nil, err
		}
	}

	post := &models.Post{
		Title:    in.Title,
		Slug:     slug.Make(in.Title),
		Body:     in.Body,
		Image:    imagePath,
		AuthorID: in.AuthorID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}

	created, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	created.Decorate()
	return created, nil
}

// GetPost retrieves one post, bumping its viewcount first so the returned
// serialization reflects this fetch.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	if err := s.postRepo.IncrementViewcount(ctx, id); err != nil {
		return nil, models.NewInternalError(err)
	}
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Decorate()
	return post, nil
}

// UpdatePost applies a partial update. A new title re-derives the slug; a
// new image replaces the stored file.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	if in.Title != "" && in.Title != post.Title {
		if utf8.RuneCountInString(in.Title) > maxTitleLen {
			return nil, models.NewFieldError("title", "Ensure this field has no more than 100 characters.")
		}
		taken, err := s.postRepo.TitleExists(ctx, in.Title, post.ID)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		if taken {
			return nil, models.NewFieldError("title", "post with this title already exists.")
		}
		post.Title = in.Title
		post.Slug = slug.Make(in.Title)
	}
	if in.Body != "" {
		post.Body = in.Body
	}
	if len(in.Image) > 0 {
		newPath, err := s.images.Store(in.Image)
		if err != nil {
			return nil, err
		}
		oldPath := post.Image
		post.Image = newPath
		if oldPath != newPath {
			_ = s.images.Remove(oldPath)
		}
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	post.Decorate()
	return post, nil
}

// DeletePost removes the post, its reviews, and finally its image file.
// The file removal is the explicit post-delete hook; it runs after the row
// delete succeeds.
func (s *PostService) DeletePost(ctx context.Context, id uint) error {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return models.NewInternalError(err)
	}
	return s.images.Remove(post.Image)
}

// ListPosts runs the paginated, searchable, orderable post listing and
// returns the page plus the total match count.
func (s *PostService) ListPosts(ctx context.Context, q repository.ListQuery) ([]*models.Post, int64, error) {
	posts, total, err := s.postRepo.List(ctx, q)
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	models.DecoratePosts(posts)
	return posts, total, nil
}

// MyPosts returns the caller's five most recent posts.
func (s *PostService) MyPosts(ctx context.Context, authorID uint) ([]*models.Post, error) {
	return s.decorated(s.postRepo.ByAuthor(ctx, authorID, authorPostsLimit))
}

// RelatedPosts returns up to five other posts by the same author.
func (s *PostService) RelatedPosts(ctx context.Context, postID uint) ([]*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.decorated(s.postRepo.Related(ctx, post.AuthorID, post.ID, authorPostsLimit))
}

// PostsByAuthor returns every post by the given author.
func (s *PostService) PostsByAuthor(ctx context.Context, authorID uint) ([]*models.Post, error) {
	return s.decorated(s.postRepo.ByAuthor(ctx, authorID, 0))
}

// LatestPosts returns the five newest posts.
func (s *PostService) LatestPosts(ctx context.Context) ([]*models.Post, error) {
	return s.decorated(s.postRepo.Latest(ctx, frontPageLimit))
}

// FeaturedPosts returns the five newest featured posts.
func (s *PostService) FeaturedPosts(ctx context.Context) ([]*models.Post, error) {
	return s.decorated(s.postRepo.Featured(ctx, frontPageLimit))
}

func (s *PostService) decorated(posts []*models.Post, err error) ([]*models.Post, error) {
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	models.DecoratePosts(posts)
	return posts, nil
}
