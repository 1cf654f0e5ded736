package domain

import "time"

// User models a registered member of the board.
type User struct {
	ID           int64     `json:"userId"`
	Nickname     string    `json:"nickname"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
