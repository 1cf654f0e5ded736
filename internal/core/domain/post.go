package domain

import "time"

// Post is a published entry that members can comment on.
type Post struct {
	ID        int64     `json:"postId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Like      int       `json:"like"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
