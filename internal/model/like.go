package model

import (
	"time"

	"github.com/google/uuid"
)

// TargetKind tags the polymorphic reference carried by likes and comments.
// A tagged kind plus one id column; there is no "all references null"
// state to defend against.
type TargetKind string

const (
	TargetVideo   TargetKind = "video"
	TargetComment TargetKind = "comment"
	TargetTweet   TargetKind = "tweet"
)

// Valid reports whether k is one of the known kinds.
func (k TargetKind) Valid() bool {
	switch k {
	case TargetVideo, TargetComment, TargetTweet:
		return true
	}
	return false
}

// CommentTargetKinds are the kinds a comment may attach to.
func (k TargetKind) Commentable() bool {
	return k == TargetVideo || k == TargetTweet
}

// Like is a join record: at most one per (user, kind, target).
type Like struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"userId"`
	TargetKind TargetKind `json:"targetKind"`
	TargetID   uuid.UUID  `json:"targetId"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// ToggleResult reports the relation state after a toggle.
type ToggleResult struct {
	IsLiked bool `json:"isliked"`
}

// LikeStatus pairs the viewer's relation state with the live count from
// the relation table. The status read reports `isLiked`; the toggle
// keeps its historical lowercase `isliked` key.
type LikeStatus struct {
	IsLiked   bool  `json:"isLiked"`
	LikeCount int64 `json:"likeCount"`
}
