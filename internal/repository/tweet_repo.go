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

type TweetRepo struct {
	pool *pgxpool.Pool
}

func NewTweetRepo(pool *pgxpool.Pool) *TweetRepo {
	return &TweetRepo{pool: pool}
}

const tweetColumns = `
	id, owner_id, content, image_url, image_key, like_count, created_at, updated_at`

func scanTweet(row pgx.Row) (*model.Tweet, error) {
	var t model.Tweet
	err := row.Scan(
		&t.ID, &t.OwnerID, &t.Content, &t.ImageURL, &t.ImageKey,
		&t.LikeCount, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("tweet not found")
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TweetRepo) Create(ctx context.Context, t *model.Tweet) (*model.Tweet, error) {
	return scanTweet(r.pool.QueryRow(ctx, `
		INSERT INTO tweets (owner_id, content, image_url, image_key)
		VALUES ($1, $2, $3, $4)
		RETURNING`+tweetColumns,
		t.OwnerID, t.Content, t.ImageURL, t.ImageKey))
}

func (r *TweetRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Tweet, error) {
	return scanTweet(r.pool.QueryRow(ctx,
		`SELECT`+tweetColumns+` FROM tweets WHERE id = $1`, id))
}

func (r *TweetRepo) UpdateContent(ctx context.Context, id uuid.UUID, content string) (*model.Tweet, error) {
	return scanTweet(r.pool.QueryRow(ctx, `
		UPDATE tweets SET content = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING`+tweetColumns, id, content))
}

// Delete removes the tweet and queues its image for remote cleanup.
func (r *TweetRepo) Delete(ctx context.Context, id uuid.UUID, bucket string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var imageKey string
	err = tx.QueryRow(ctx, `
		DELETE FROM tweets WHERE id = $1 RETURNING image_key`, id).Scan(&imageKey)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("tweet not found")
	}
	if err != nil {
		return err
	}

	if imageKey != "" {
		_, err = tx.Exec(ctx, `
			INSERT INTO asset_cleanup_queue (object_key, bucket) VALUES ($1, $2)`,
			imageKey, bucket)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// ByOwner lists a user's tweets, newest first.
func (r *TweetRepo) ByOwner(ctx context.Context, ownerID uuid.UUID, params PageParams) (*Page[model.TweetWithOwner], error) {
	q := NewJoinQuery("tweets", tweetWithOwnerColumns...).
		Join(JoinSpec{Table: "users", LocalKey: "tweets.owner_id", ForeignKey: "id"}).
		Where("tweets.owner_id = ?", ownerID).
		OrderBy("tweets.created_at", true).
		OrderBy("tweets.id", true)

	return Paginate(ctx, r.pool, q, params, "tweets", scanTweetWithOwner)
}

// Feed lists tweets from the given channels, newest first.
func (r *TweetRepo) Feed(ctx context.Context, channelIDs []uuid.UUID, params PageParams) (*Page[model.TweetWithOwner], error) {
	q := NewJoinQuery("tweets", tweetWithOwnerColumns...).
		Join(JoinSpec{Table: "users", LocalKey: "tweets.owner_id", ForeignKey: "id"}).
		Where("tweets.owner_id = ANY(?)", channelIDs).
		OrderBy("tweets.created_at", true).
		OrderBy("tweets.id", true)

	return Paginate(ctx, r.pool, q, params, "tweets", scanTweetWithOwner)
}
