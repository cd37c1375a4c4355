// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlaceholderImage is the relative media path served for posts uploaded
// without an image. It is shared by every such post and must never be
// deleted from disk.
const PlaceholderImage = "images/no_image.png"

// Post is a blog entry. Slug is derived from Title on every write.
// Date and Ratings are not persisted; Decorate fills them before
// serialization.
type Post struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	Title      string   `gorm:"size:100;uniqueIndex;not null" json:"title"`
	Slug       string   `gorm:"size:120;not null;index" json:"slug"`
	Body       string   `gorm:"type:text;not null" json:"body"`
	Image      string   `gorm:"size:255;default:images/no_image.png" json:"image"`
	IsFeatured bool     `gorm:"default:true" json:"is_featured"`
	IsVerified bool     `gorm:"default:true" json:"is_verified"`
	Viewcount  int      `gorm:"default:0" json:"viewcount"`
	AuthorID   uint     `gorm:"not null;index" json:"-"`
	Author     User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	Reviews    []Review `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"reviews"`
	// Date is the formatted publish date, computed at serialization time
	Date string `gorm:"-" json:"date"`
	// Ratings is the rounded review rating average, computed at serialization time
	Ratings   int       `gorm:"-" json:"ratings"`
	Created   time.Time `gorm:"autoCreateTime;index" json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// PubDate formats the creation timestamp for display, e.g. "August 31, 2026".
func (p *Post) PubDate() string {
	return p.Created.Format("January 02, 2006")
}

// RatingAverage returns the mean of the post's review ratings rounded to the
// nearest integer, or 0 when the post has no reviews.
func (p *Post) RatingAverage() int {
	if len(p.Reviews) == 0 {
		return 0
	}
	total := decimal.Zero
	for _, review := range p.Reviews {
		total = total.Add(review.Rating)
	}
	// banker's rounding: a mean of 2.5 yields 2, 3.5 yields 4
	mean := total.Div(decimal.NewFromInt(int64(len(p.Reviews))))
	return int(mean.RoundBank(0).IntPart())
}

// Decorate fills the computed serialization fields on the post and its
// nested reviews.
func (p *Post) Decorate() {
	p.Date = p.PubDate()
	p.Ratings = p.RatingAverage()
	for i := range p.Reviews {
		p.Reviews[i].Decorate()
	}
}

// DecoratePosts decorates a slice of posts in place.
func DecoratePosts(posts []*Post) {
	for _, p := range posts {
		p.Decorate()
	}
}
