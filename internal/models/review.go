package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Review is a rated comment attached to a post. Rating carries one decimal
// place and at most two digits (0.0–9.9). The serialized "created" field is
// the formatted publish date, filled by Decorate.
type Review struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	AuthorID   uint            `gorm:"not null;index" json:"-"`
	Author     User            `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	PostID     uint            `gorm:"not null;index" json:"-"`
	Title      string          `gorm:"size:80;not null" json:"title"`
	Body       string          `gorm:"size:200;not null" json:"body"`
	Rating     decimal.Decimal `gorm:"type:decimal(2,1);not null" json:"rating"`
	IsApproved bool            `gorm:"default:false" json:"is_approved"`
	Created    time.Time       `gorm:"autoCreateTime;index" json:"-"`
	// Date is the formatted publish date, computed at serialization time
	Date string `gorm:"-" json:"created"`
}

// PubDate formats the creation timestamp for display.
func (r *Review) PubDate() string {
	return r.Created.Format("January 02, 2006")
}

// Decorate fills the computed serialization fields.
func (r *Review) Decorate() {
	r.Date = r.PubDate()
}
