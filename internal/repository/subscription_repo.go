package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidora/vidora-go/internal/apperr"
	"github.com/vidora/vidora-go/internal/model"
)

type SubscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepo(pool *pgxpool.Pool) *SubscriptionRepo {
	return &SubscriptionRepo{pool: pool}
}

// Toggle follows/unfollows a channel, mirroring users.subscriber_count in
// the same transaction. Same shape as LikeRepo.Toggle.
func (r *SubscriptionRepo) Toggle(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	if subscriberID == channelID {
		return false, apperr.Invalid("cannot subscribe to your own channel")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var username string
	err = tx.QueryRow(ctx, `SELECT username FROM users WHERE id = $1`, channelID).Scan(&username)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, apperr.NotFound("channel not found")
	}
	if err != nil {
		return false, err
	}

	tag, err := tx.Exec(ctx, `
		DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2`,
		subscriberID, channelID)
	if err != nil {
		return false, err
	}

	subscribed := false
	if tag.RowsAffected() > 0 {
		_, err = tx.Exec(ctx, `
			UPDATE users SET subscriber_count = subscriber_count - 1
			WHERE id = $1 AND subscriber_count > 0`, channelID)
		if err != nil {
			return false, err
		}
	} else {
		tag, err = tx.Exec(ctx, `
			INSERT INTO subscriptions (subscriber_id, channel_id)
			VALUES ($1, $2)
			ON CONFLICT (subscriber_id, channel_id) DO NOTHING`,
			subscriberID, channelID)
		if err != nil {
			return false, err
		}
		subscribed = true

		if tag.RowsAffected() > 0 {
			_, err = tx.Exec(ctx, `
				UPDATE users SET subscriber_count = subscriber_count + 1
				WHERE id = $1`, channelID)
			if err != nil {
				return false, err
			}

			if err := notifyEngagement(ctx, tx, model.EngagementEvent{
				Type:        model.NotifySubscription,
				ActorID:     subscriberID,
				RecipientID: channelID,
				Message:     "subscribed to your channel",
			}); err != nil {
				return false, err
			}
		}
	}

	return subscribed, tx.Commit(ctx)
}

// Status reads the relation state; an unknown channel reads false.
func (r *SubscriptionRepo) Status(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	var subscribed bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2
		)`, subscriberID, channelID).Scan(&subscribed)
	return subscribed, err
}

// Subscriptions lists the channels a user follows, newest first.
func (r *SubscriptionRepo) Subscriptions(ctx context.Context, subscriberID uuid.UUID, params PageParams) (*Page[model.PublicUser], error) {
	q := NewJoinQuery("subscriptions",
		"users.id", "users.username", "users.full_name", "users.avatar_url").
		Join(JoinSpec{Table: "users", LocalKey: "subscriptions.channel_id", ForeignKey: "id"}).
		Where("subscriptions.subscriber_id = ?", subscriberID).
		OrderBy("subscriptions.created_at", true).
		OrderBy("subscriptions.id", true)

	return Paginate(ctx, r.pool, q, params, "channels", scanPublicUser)
}

// Subscribers lists the followers of a channel, newest first.
func (r *SubscriptionRepo) Subscribers(ctx context.Context, channelID uuid.UUID, params PageParams) (*Page[model.PublicUser], error) {
	q := NewJoinQuery("subscriptions",
		"users.id", "users.username", "users.full_name", "users.avatar_url").
		Join(JoinSpec{Table: "users", LocalKey: "subscriptions.subscriber_id", ForeignKey: "id"}).
		Where("subscriptions.channel_id = ?", channelID).
		OrderBy("subscriptions.created_at", true).
		OrderBy("subscriptions.id", true)

	return Paginate(ctx, r.pool, q, params, "subscribers", scanPublicUser)
}

// CountForChannel recounts the relation table for reconciliation.
func (r *SubscriptionRepo) CountForChannel(ctx context.Context, channelID uuid.UUID) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1`, channelID).Scan(&n)
	return n, err
}

// ChannelIDsOf returns the ids of all channels a user follows (used by the
// subscriptions feed).
func (r *SubscriptionRepo) ChannelIDsOf(ctx context.Context, subscriberID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT channel_id FROM subscriptions WHERE subscriber_id = $1`, subscriberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanPublicUser(rows pgx.Rows) (model.PublicUser, error) {
	var u model.PublicUser
	err := rows.Scan(&u.ID, &u.Username, &u.FullName, &u.AvatarURL)
	return u, err
}
