package model

import (
	"time"

	"github.com/google/uuid"
)

// Comment targets exactly one video or tweet, via the same tagged-kind
// scheme as Like.
type Comment struct {
	ID         uuid.UUID  `json:"id"`
	OwnerID    uuid.UUID  `json:"ownerId"`
	Content    string     `json:"content"`
	TargetKind TargetKind `json:"targetKind"`
	TargetID   uuid.UUID  `json:"targetId"`
	ParentID   *uuid.UUID `json:"parentId,omitempty"`
	LikeCount  int64      `json:"likeCount"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type CommentWithOwner struct {
	Comment
	Owner PublicUser `json:"owner"`
}

type CreateCommentRequest struct {
	Content  string     `json:"content"`
	ParentID *uuid.UUID `json:"parentId"`
}

type UpdateCommentRequest struct {
	Content string `json:"content"`
}
