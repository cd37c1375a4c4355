package repository

import (
	"context"
	"errors"
	"strings"

	"vueblog/internal/models"

	"gorm.io/gorm"
)

// ListQuery carries the search, ordering, and pagination parameters of the
// post list endpoint.
type ListQuery struct {
	Search   string
	Ordering string
	Limit    int
	Offset   int
}

// orderings whitelists the columns accepted by the ?ordering= parameter.
// A leading "-" reverses the direction.
var orderings = map[string]string{
	"created":   "created",
	"title":     "title",
	"viewcount": "viewcount",
	"id":        "id",
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	TitleExists(ctx context.Context, title string, excludeID uint) (bool, error)
	List(ctx context.Context, q ListQuery) ([]*models.Post, int64, error)
	ByAuthor(ctx context.Context, authorID uint, limit int) ([]*models.Post, error)
	Related(ctx context.Context, authorID, excludeID uint, limit int) ([]*models.Post, error)
	Latest(ctx context.Context, limit int) ([]*models.Post, error)
	Featured(ctx context.Context, limit int) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	IncrementViewcount(ctx context.Context, id uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// withAssociations preloads the author and the reviews (newest first, with
// their authors) that the serialized post embeds.
func withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("created DESC")
		}).
		Preload("Reviews.Author")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := withAssociations(r.db.WithContext(ctx)).First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) TitleExists(ctx context.Context, title string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Post{}).Where("title = ?", title)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *postRepository) List(ctx context.Context, q ListQuery) ([]*models.Post, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Post{})

	if q.Search != "" {
		like := "%" + strings.ToLower(q.Search) + "%"
		base = base.
			Joins("JOIN users ON users.id = posts.author_id").
			Where(
				"LOWER(posts.title) LIKE ? OR LOWER(posts.body) LIKE ? OR LOWER(users.username) LIKE ? OR LOWER(users.first_name) LIKE ? OR LOWER(users.last_name) LIKE ?",
				like, like, like, like, like,
			)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*models.Post
	err := withAssociations(base.Select("posts.*")).
		Order(orderClause(q.Ordering)).
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// orderClause resolves the ?ordering= value against the whitelist, falling
// back to the model's default created DESC order.
func orderClause(ordering string) string {
	desc := strings.HasPrefix(ordering, "-")
	col, ok := orderings[strings.TrimPrefix(ordering, "-")]
	if !ok {
		return "posts.created DESC"
	}
	if desc {
		return "posts." + col + " DESC"
	}
	return "posts." + col
}

func (r *postRepository) ByAuthor(ctx context.Context, authorID uint, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	q := withAssociations(r.db.WithContext(ctx)).
		Where("author_id = ?", authorID).
		Order("created DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return posts, q.Find(&posts).Error
}

func (r *postRepository) Related(ctx context.Context, authorID, excludeID uint, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := withAssociations(r.db.WithContext(ctx)).
		Where("author_id = ? AND id <> ?", authorID, excludeID).
		Order("created DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Latest(ctx context.Context, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := withAssociations(r.db.WithContext(ctx)).
		Order("created DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Featured(ctx context.Context, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := withAssociations(r.db.WithContext(ctx)).
		Where("is_featured = ?", true).
		Order("created DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

// Delete removes the post and its reviews in one transaction. The review
// cascade is explicit so it does not depend on foreign keys being enforced
// by the connected store.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}

// IncrementViewcount bumps the counter atomically at the store layer, so
// concurrent retrievals cannot lose increments.
func (r *postRepository) IncrementViewcount(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("viewcount", gorm.Expr("viewcount + ?", 1)).Error
}
