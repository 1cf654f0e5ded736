package domain

import "time"

// Comment is the single comment a user keeps on a post. A (UserID, PostID)
// pair identifies at most one comment.
type Comment struct {
	UserID    int64     `json:"userId"`
	PostID    int64     `json:"postId"`
	Content   string    `json:"contentComment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
