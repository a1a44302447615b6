package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotifyLike         NotificationType = "LIKE"
	NotifyComment      NotificationType = "COMMENT"
	NotifySubscription NotificationType = "SUBSCRIPTION"
	NotifyVideoUpload  NotificationType = "VIDEO_UPLOAD"
)

type Notification struct {
	ID          uuid.UUID        `json:"id"`
	RecipientID uuid.UUID        `json:"recipientId"`
	SenderID    *uuid.UUID       `json:"senderId,omitempty"`
	Type        NotificationType `json:"type"`
	VideoID     *uuid.UUID       `json:"videoId,omitempty"`
	CommentID   *uuid.UUID       `json:"commentId,omitempty"`
	Message     string           `json:"message"`
	IsRead      bool             `json:"isRead"`
	ReadAt      *time.Time       `json:"readAt,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// EngagementEvent is the payload published on the engagement_events
// channel inside toggle/comment/upload transactions. The notification
// worker turns these into Notification rows.
type EngagementEvent struct {
	Type        NotificationType `json:"type"`
	ActorID     uuid.UUID        `json:"actorId"`
	RecipientID uuid.UUID        `json:"recipientId"`
	VideoID     *uuid.UUID       `json:"videoId,omitempty"`
	CommentID   *uuid.UUID       `json:"commentId,omitempty"`
	Message     string           `json:"message"`
}
