package store

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a referenced document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateID is returned when a max-plus-one id assignment lost
	// the race and hit the unique index. Callers retry with a fresh max.
	ErrDuplicateID = errors.New("duplicate id")
)

// User is a registered account. Score only ever grows, by likes
// received on the user's topics and comments.
type User struct {
	UserID       int64
	Username     string
	Email        string
	PasswordHash string
	Avatar       string
	Score        int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Topic is a discussion thread. CommentCount is denormalized and is
// recomputed from the comments table after every comment mutation.
type Topic struct {
	ID            string
	Title         string
	CreatorUserID int64
	Timestamp     time.Time
	CommentCount  int
	Likes         []int64
}

// Comment belongs to exactly one topic.
type Comment struct {
	ID              string
	TopicID         string
	Text            string
	CommenterUserID int64
	Timestamp       time.Time
	Likes           []int64
}

// Review is a restaurant review. ReviewID is a densely-increasing
// integer visible to clients.
type Review struct {
	ReviewID     int64
	UserID       int64
	RestaurantID string
	Review       string
	Grade        int
	Likes        int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
