package models

import "time"

// Category classifies a community post.
type Category string

const (
	CategoryDanger   Category = "danger"
	CategoryTip      Category = "tip"
	CategoryQuestion Category = "question"
)

// ParseCategory maps free-form input to a known category. Unknown
// values fall back to the question category, matching how the feed
// renders unrecognized tags.
func ParseCategory(s string) Category {
	switch Category(s) {
	case CategoryDanger, CategoryTip, CategoryQuestion:
		return Category(s)
	default:
		return CategoryQuestion
	}
}

// Tag returns the display label shown on the feed for the category.
func (c Category) Tag() string {
	switch c {
	case CategoryDanger:
		return "BREACH ALERT"
	case CategoryTip:
		return "SECURITY TIP"
	default:
		return "GENERAL QUERY"
	}
}

// Post is the persisted community submission. The JSON field names are
// the on-disk contract and must not change.
type Post struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	GuardianID    string    `json:"guardianId"`
	Category      Category  `json:"category"`
	Timestamp     time.Time `json:"timestamp"`
	UserSessionID string    `json:"userSessionId"`
}

// CreatePostEvent fired when a new post is submitted to the feed
type CreatePostEvent struct {
	Post Post `json:"post"`
}

// DeletePostEvent fired when a post is removed from the feed
type DeletePostEvent struct {
	ID string `json:"id"`
}
