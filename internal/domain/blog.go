package domain

import "time"

// BlogStatus represents the publication state of a blog post.
type BlogStatus string

const (
	BlogStatusDraft     BlogStatus = "draft"
	BlogStatusPublished BlogStatus = "published"
)

// IsValid checks if the blog status is one of the known values.
func (s BlogStatus) IsValid() bool {
	return s == BlogStatusDraft || s == BlogStatusPublished
}

// Blog represents a blog post. Drafts are visible to volunteers and admins
// only; published posts are publicly readable.
type Blog struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Thumbnail   string     `json:"thumbnail,omitempty"`
	Content     string     `json:"content"`
	Status      BlogStatus `json:"status"`
	AuthorEmail string     `json:"authorEmail"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
