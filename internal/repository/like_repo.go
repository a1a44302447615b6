package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidora/vidora-go/internal/apperr"
	"github.com/vidora/vidora-go/internal/model"
)

// targetTables maps a like/comment target kind to its table. The counter
// column is like_count on every target table.
var targetTables = map[model.TargetKind]string{
	model.TargetVideo:   "videos",
	model.TargetComment: "comments",
	model.TargetTweet:   "tweets",
}

type LikeRepo struct {
	pool *pgxpool.Pool
}

func NewLikeRepo(pool *pgxpool.Pool) *LikeRepo {
	return &LikeRepo{pool: pool}
}

// Toggle creates or removes the (user, kind, target) like inside one
// transaction, mirroring the target's like_count in the same transaction.
// Returns the resulting relation state. Concurrent duplicate toggles are
// absorbed by the unique index: the losing insert is a no-op and does not
// bump the counter, so counter == count(likes) holds under races.
func (r *LikeRepo) Toggle(ctx context.Context, userID uuid.UUID, kind model.TargetKind, targetID uuid.UUID) (bool, error) {
	table, ok := targetTables[kind]
	if !ok {
		return false, apperr.Invalid("unknown like target kind %q", kind)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	// Target must exist; its owner receives the notification.
	var ownerID uuid.UUID
	err = tx.QueryRow(ctx,
		fmt.Sprintf(`SELECT owner_id FROM %s WHERE id = $1`, table),
		targetID).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, apperr.NotFound("%s not found", kind)
	}
	if err != nil {
		return false, err
	}

	tag, err := tx.Exec(ctx, `
		DELETE FROM likes
		WHERE user_id = $1 AND target_kind = $2 AND target_id = $3`,
		userID, kind, targetID)
	if err != nil {
		return false, err
	}

	liked := false
	if tag.RowsAffected() > 0 {
		_, err = tx.Exec(ctx,
			fmt.Sprintf(`UPDATE %s SET like_count = like_count - 1 WHERE id = $1 AND like_count > 0`, table),
			targetID)
		if err != nil {
			return false, err
		}
	} else {
		tag, err = tx.Exec(ctx, `
			INSERT INTO likes (user_id, target_kind, target_id)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, target_kind, target_id) DO NOTHING`,
			userID, kind, targetID)
		if err != nil {
			return false, err
		}
		liked = true

		if tag.RowsAffected() > 0 {
			_, err = tx.Exec(ctx,
				fmt.Sprintf(`UPDATE %s SET like_count = like_count + 1 WHERE id = $1`, table),
				targetID)
			if err != nil {
				return false, err
			}

			if ownerID != userID {
				if err := notifyEngagement(ctx, tx, model.EngagementEvent{
					Type:        model.NotifyLike,
					ActorID:     userID,
					RecipientID: ownerID,
					VideoID:     videoRef(kind, targetID),
					CommentID:   commentRef(kind, targetID),
					Message:     fmt.Sprintf("liked your %s", kind),
				}); err != nil {
					return false, err
				}
			}
		}
	}

	return liked, tx.Commit(ctx)
}

// Status is a pure read of the relation state. An absent target simply
// reads false; the UI polls this before the target page may even load.
func (r *LikeRepo) Status(ctx context.Context, userID uuid.UUID, kind model.TargetKind, targetID uuid.UUID) (bool, error) {
	if !kind.Valid() {
		return false, apperr.Invalid("unknown like target kind %q", kind)
	}
	var liked bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM likes
			WHERE user_id = $1 AND target_kind = $2 AND target_id = $3
		)`, userID, kind, targetID).Scan(&liked)
	return liked, err
}

// LikedVideos returns the videos a user has liked, newest like first.
// Likes whose video has been deleted drop out via the inner join; likes on
// since-unpublished videos are filtered in the base predicate so the count
// cannot reveal them.
func (r *LikeRepo) LikedVideos(ctx context.Context, userID uuid.UUID, params PageParams) (*Page[model.VideoWithOwner], error) {
	q := NewJoinQuery("likes", videoWithOwnerColumns...).
		Join(JoinSpec{Table: "videos", LocalKey: "likes.target_id", ForeignKey: "id"}).
		Join(JoinSpec{Table: "users", LocalKey: "videos.owner_id", ForeignKey: "id"}).
		Where("likes.user_id = ?", userID).
		Where("likes.target_kind = ?", model.TargetVideo).
		Where("videos.is_published").
		OrderBy("likes.created_at", true).
		OrderBy("likes.id", true)

	return Paginate(ctx, r.pool, q, params, "videos", scanVideoWithOwner)
}

// LikedTweets returns the tweets a user has liked, newest like first.
func (r *LikeRepo) LikedTweets(ctx context.Context, userID uuid.UUID, params PageParams) (*Page[model.TweetWithOwner], error) {
	q := NewJoinQuery("likes", tweetWithOwnerColumns...).
		Join(JoinSpec{Table: "tweets", LocalKey: "likes.target_id", ForeignKey: "id"}).
		Join(JoinSpec{Table: "users", LocalKey: "tweets.owner_id", ForeignKey: "id"}).
		Where("likes.user_id = ?", userID).
		Where("likes.target_kind = ?", model.TargetTweet).
		OrderBy("likes.created_at", true).
		OrderBy("likes.id", true)

	return Paginate(ctx, r.pool, q, params, "tweets", scanTweetWithOwner)
}

// LikedComments returns the comments a user has liked, newest like first.
func (r *LikeRepo) LikedComments(ctx context.Context, userID uuid.UUID, params PageParams) (*Page[model.CommentWithOwner], error) {
	q := NewJoinQuery("likes", commentWithOwnerColumns...).
		Join(JoinSpec{Table: "comments", LocalKey: "likes.target_id", ForeignKey: "id"}).
		Join(JoinSpec{Table: "users", LocalKey: "comments.owner_id", ForeignKey: "id"}).
		Where("likes.user_id = ?", userID).
		Where("likes.target_kind = ?", model.TargetComment).
		OrderBy("likes.created_at", true).
		OrderBy("likes.id", true)

	return Paginate(ctx, r.pool, q, params, "comments", scanCommentWithOwner)
}

// CountForTarget recounts the relation table for one target. The relation
// table is the source of truth; the reconcile worker uses this to repair
// counter drift.
func (r *LikeRepo) CountForTarget(ctx context.Context, kind model.TargetKind, targetID uuid.UUID) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM likes WHERE target_kind = $1 AND target_id = $2`,
		kind, targetID).Scan(&n)
	return n, err
}

func notifyEngagement(ctx context.Context, tx pgx.Tx, ev model.EngagementEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `SELECT pg_notify('engagement_events', $1)`, string(payload))
	return err
}

func videoRef(kind model.TargetKind, id uuid.UUID) *uuid.UUID {
	if kind == model.TargetVideo {
		return &id
	}
	return nil
}

func commentRef(kind model.TargetKind, id uuid.UUID) *uuid.UUID {
	if kind == model.TargetComment {
		return &id
	}
	return nil
}
