package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidora/vidora-go/internal/apperr"
	"github.com/vidora/vidora-go/internal/model"
)

type NotificationRepo struct {
	pool *pgxpool.Pool
}

func NewNotificationRepo(pool *pgxpool.Pool) *NotificationRepo {
	return &NotificationRepo{pool: pool}
}

// Insert stores one notification row (called by the notification worker).
func (r *NotificationRepo) Insert(ctx context.Context, n *model.Notification) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notifications (recipient_id, sender_id, type, video_id, comment_id, message)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		n.RecipientID, n.SenderID, n.Type, n.VideoID, n.CommentID, n.Message)
	return err
}

// InsertForSubscribers fans a VIDEO_UPLOAD event out to every subscriber
// of the channel in a single statement.
func (r *NotificationRepo) InsertForSubscribers(ctx context.Context, channelID uuid.UUID, videoID *uuid.UUID, message string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO notifications (recipient_id, sender_id, type, video_id, message)
		SELECT s.subscriber_id, $1, $2, $3, $4
		FROM subscriptions s
		WHERE s.channel_id = $1`,
		channelID, model.NotifyVideoUpload, videoID, message)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListResult is a notification page plus the recipient's unread count.
type ListResult struct {
	Page        *Page[model.Notification]
	UnreadCount int64
}

// List returns the recipient's notifications, newest first, optionally
// filtered by read state, always accompanied by the live unread count.
func (r *NotificationRepo) List(ctx context.Context, recipientID uuid.UUID, isRead *bool, params PageParams) (*ListResult, error) {
	q := NewJoinQuery("notifications",
		"notifications.id", "notifications.recipient_id", "notifications.sender_id",
		"notifications.type", "notifications.video_id", "notifications.comment_id",
		"notifications.message", "notifications.is_read", "notifications.read_at",
		"notifications.created_at").
		Where("notifications.recipient_id = ?", recipientID)
	if isRead != nil {
		q.Where("notifications.is_read = ?", *isRead)
	}
	q.OrderBy("notifications.created_at", true).OrderBy("notifications.id", true)

	page, err := Paginate(ctx, r.pool, q, params, "notifications", func(rows pgx.Rows) (model.Notification, error) {
		var n model.Notification
		err := rows.Scan(
			&n.ID, &n.RecipientID, &n.SenderID, &n.Type, &n.VideoID,
			&n.CommentID, &n.Message, &n.IsRead, &n.ReadAt, &n.CreatedAt,
		)
		return n, err
	})
	if err != nil {
		return nil, err
	}

	var unread int64
	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM notifications
		WHERE recipient_id = $1 AND NOT is_read`, recipientID).Scan(&unread)
	if err != nil {
		return nil, err
	}

	return &ListResult{Page: page, UnreadCount: unread}, nil
}

// MarkRead flags one notification; only the recipient may flip it.
func (r *NotificationRepo) MarkRead(ctx context.Context, recipientID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE notifications SET is_read = true, read_at = $3
		WHERE id = $2 AND recipient_id = $1 AND NOT is_read`,
		recipientID, id, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Distinguish absent from already-read.
		var exists bool
		if err := r.pool.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM notifications WHERE id = $2 AND recipient_id = $1)`,
			recipientID, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return apperr.NotFound("notification not found")
		}
	}
	return nil
}

// MarkAllRead flags every unread notification for the recipient and
// returns how many flipped.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE notifications SET is_read = true, read_at = $2
		WHERE recipient_id = $1 AND NOT is_read`,
		recipientID, time.Now())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Delete removes one notification; only the recipient may delete it.
func (r *NotificationRepo) Delete(ctx context.Context, recipientID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM notifications WHERE id = $2 AND recipient_id = $1`,
		recipientID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("notification not found")
	}
	return nil
}
