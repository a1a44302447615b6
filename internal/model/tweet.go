package model

import (
	"time"

	"github.com/google/uuid"
)

// Tweet is a short photo/text post attached to a channel.
type Tweet struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"ownerId"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl"`
	ImageKey  string    `json:"-"`
	LikeCount int64     `json:"likeCount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type TweetWithOwner struct {
	Tweet
	Owner PublicUser `json:"owner"`
}

type CreateTweetRequest struct {
	Content string `json:"content" form:"content"`
}

type UpdateTweetRequest struct {
	Content string `json:"content"`
}
