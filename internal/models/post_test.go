package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func ratings(values ...float64) []Review {
	reviews := make([]Review, 0, len(values))
	for _, v := range values {
		reviews = append(reviews, Review{Rating: decimal.NewFromFloat(v)})
	}
	return reviews
}

func TestPostRatingAverage(t *testing.T) {
	tests := []struct {
		name     string
		reviews  []Review
		expected int
	}{
		{"no reviews", nil, 0},
		{"single review", ratings(4.0), 4},
		{"mean rounds up", ratings(2.0, 3.0, 3.0), 3},
		{"mean rounds down", ratings(2.0, 2.0, 3.0), 2},
		{"halfway rounds to even below", ratings(2.0, 3.0), 2},
		{"halfway rounds to even above", ratings(3.0, 4.0), 4},
		{"halfway from decimals", ratings(1.0, 2.0, 1.5), 2},
		{"decimal ratings", ratings(4.4, 4.8), 5},
		{"all zero", ratings(0.0, 0.0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Post{Reviews: tt.reviews}
			assert.Equal(t, tt.expected, p.RatingAverage())
		})
	}
}

func TestPostPubDate(t *testing.T) {
	p := Post{Created: time.Date(2024, time.March, 5, 10, 30, 0, 0, time.UTC)}
	assert.Equal(t, "March 05, 2024", p.PubDate())
}

func TestPostDecorate(t *testing.T) {
	created := time.Date(2023, time.December, 25, 0, 0, 0, 0, time.UTC)
	p := Post{
		Created: created,
		Reviews: []Review{
			{Rating: decimal.NewFromFloat(5.0), Created: created},
		},
	}
	p.Decorate()

	assert.Equal(t, "December 25, 2023", p.Date)
	assert.Equal(t, 5, p.Ratings)
	assert.Equal(t, "December 25, 2023", p.Reviews[0].Date, "nested reviews are decorated too")
}

func TestDecoratePosts(t *testing.T) {
	posts := []*Post{
		{Created: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{Created: time.Date(2024, time.February, 2, 0, 0, 0, 0, time.UTC)},
	}
	DecoratePosts(posts)
	assert.Equal(t, "January 01, 2024", posts[0].Date)
	assert.Equal(t, "February 02, 2024", posts[1].Date)
}
