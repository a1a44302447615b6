package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidora/vidora-go/internal/apperr"
	"github.com/vidora/vidora-go/internal/model"
)

type VideoRepo struct {
	pool *pgxpool.Pool
}

func NewVideoRepo(pool *pgxpool.Pool) *VideoRepo {
	return &VideoRepo{pool: pool}
}

const videoColumns = `
	id, owner_id, title, description, video_url, video_key, thumbnail_url,
	thumbnail_key, duration, category, tags, view_count, like_count,
	is_published, created_at, updated_at`

func scanVideo(row pgx.Row) (*model.Video, error) {
	var v model.Video
	err := row.Scan(
		&v.ID, &v.OwnerID, &v.Title, &v.Description, &v.VideoURL, &v.VideoKey,
		&v.ThumbnailURL, &v.ThumbnailKey, &v.Duration, &v.Category, &v.Tags,
		&v.ViewCount, &v.LikeCount, &v.IsPublished, &v.CreatedAt, &v.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("video not found")
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Create inserts the video and, when it is born published, emits the
// upload event the notification worker fans out to subscribers.
func (r *VideoRepo) Create(ctx context.Context, v *model.Video) (*model.Video, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		INSERT INTO videos (owner_id, title, description, video_url, video_key,
		                    thumbnail_url, thumbnail_key, duration, category, tags, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING`+videoColumns,
		v.OwnerID, v.Title, v.Description, v.VideoURL, v.VideoKey,
		v.ThumbnailURL, v.ThumbnailKey, v.Duration, v.Category, v.Tags, v.IsPublished)

	created, err := scanVideo(row)
	if err != nil {
		return nil, err
	}

	if created.IsPublished {
		if err := notifyEngagement(ctx, tx, model.EngagementEvent{
			Type:        model.NotifyVideoUpload,
			ActorID:     created.OwnerID,
			RecipientID: created.OwnerID, // worker expands to subscribers
			VideoID:     &created.ID,
			Message:     fmt.Sprintf("uploaded a new video: %s", created.Title),
		}); err != nil {
			return nil, err
		}
	}

	return created, tx.Commit(ctx)
}

func (r *VideoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	return scanVideo(r.pool.QueryRow(ctx,
		`SELECT`+videoColumns+` FROM videos WHERE id = $1`, id))
}

// IncrementView bumps the view counter with a store-level atomic add.
func (r *VideoRepo) IncrementView(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE videos SET view_count = view_count + 1 WHERE id = $1`, id)
	return err
}

func (r *VideoRepo) Update(ctx context.Context, id uuid.UUID, req model.UpdateVideoRequest) (*model.Video, error) {
	return scanVideo(r.pool.QueryRow(ctx, `
		UPDATE videos SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			category = COALESCE($4, category),
			tags = COALESCE($5, tags),
			updated_at = NOW()
		WHERE id = $1
		RETURNING`+videoColumns,
		id, req.Title, req.Description, req.Category, req.Tags))
}

// UpdateThumbnail swaps the thumbnail asset, returning the previous key
// for cleanup.
func (r *VideoRepo) UpdateThumbnail(ctx context.Context, id uuid.UUID, url, key string) (oldKey string, err error) {
	err = r.pool.QueryRow(ctx, `
		UPDATE videos v SET thumbnail_url = $2, thumbnail_key = $3, updated_at = NOW()
		FROM (SELECT thumbnail_key FROM videos WHERE id = $1) prev
		WHERE v.id = $1
		RETURNING prev.thumbnail_key`, id, url, key).Scan(&oldKey)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperr.NotFound("video not found")
	}
	return oldKey, err
}

// SetPublished flips the publish flag. Publishing emits the upload event;
// unpublishing is silent.
func (r *VideoRepo) SetPublished(ctx context.Context, id uuid.UUID, published bool) (*model.Video, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		UPDATE videos SET is_published = $2, updated_at = NOW()
		WHERE id = $1 AND is_published <> $2
		RETURNING`+videoColumns, id, published)

	v, err := scanVideo(row)
	if apperr.IsKind(err, apperr.KindNotFound) {
		// No flip needed; report current state.
		return r.FindByID(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	if published {
		if err := notifyEngagement(ctx, tx, model.EngagementEvent{
			Type:        model.NotifyVideoUpload,
			ActorID:     v.OwnerID,
			RecipientID: v.OwnerID,
			VideoID:     &v.ID,
			Message:     fmt.Sprintf("uploaded a new video: %s", v.Title),
		}); err != nil {
			return nil, err
		}
	}

	return v, tx.Commit(ctx)
}

// Delete removes the record and queues its remote assets for deletion in
// the same transaction. The reconcile worker performs the actual remote
// deletes, so a crash after commit cannot orphan objects and a crash
// before commit leaves everything intact.
func (r *VideoRepo) Delete(ctx context.Context, id uuid.UUID, bucket string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// The FK cascade drops membership rows silently, so the mirrored
	// playlist counts are adjusted before the delete, in the same tx.
	_, err = tx.Exec(ctx, `
		UPDATE playlists p SET video_count = p.video_count - 1, updated_at = NOW()
		FROM playlist_videos pv
		WHERE pv.playlist_id = p.id AND pv.video_id = $1 AND p.video_count > 0`, id)
	if err != nil {
		return err
	}

	var videoKey, thumbKey string
	err = tx.QueryRow(ctx, `
		DELETE FROM videos WHERE id = $1
		RETURNING video_key, thumbnail_key`, id).Scan(&videoKey, &thumbKey)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("video not found")
	}
	if err != nil {
		return err
	}

	for _, key := range []string{videoKey, thumbKey} {
		if key == "" {
			continue
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO asset_cleanup_queue (object_key, bucket) VALUES ($1, $2)`,
			key, bucket)
		if err != nil {
			return err
		}
	}

	// Dangling likes/comments/playlist rows simply drop out of joined
	// listings; the reconcile worker sweeps the relation rows themselves.
	return tx.Commit(ctx)
}

// ByOwner lists a channel's videos, newest first. Unpublished videos are
// filtered out in the base predicate unless the requester owns the channel.
func (r *VideoRepo) ByOwner(ctx context.Context, ownerID uuid.UUID, includeUnpublished bool, params PageParams) (*Page[model.VideoWithOwner], error) {
	q := NewJoinQuery("videos", videoWithOwnerColumns...).
		Join(JoinSpec{Table: "users", LocalKey: "videos.owner_id", ForeignKey: "id"}).
		Where("videos.owner_id = ?", ownerID)
	if !includeUnpublished {
		q.Where("videos.is_published")
	}
	q.OrderBy("videos.created_at", true).OrderBy("videos.id", true)

	return Paginate(ctx, r.pool, q, params, "videos", scanVideoWithOwner)
}

// searchSortColumns is the closed sortBy contract: every client value maps
// to a fixed ORDER BY column, never a raw field passthrough.
var searchSortColumns = map[model.VideoSortKey]string{
	model.SortNewest:   "videos.created_at",
	model.SortOldest:   "videos.created_at",
	model.SortViews:    "videos.view_count",
	model.SortLikes:    "videos.like_count",
	model.SortDuration: "videos.duration",
}

// Search runs the public catalog search. Only published videos are
// visible; all range filters are inclusive.
func (r *VideoRepo) Search(ctx context.Context, p model.SearchParams, params PageParams) (*Page[model.VideoWithOwner], error) {
	q := NewJoinQuery("videos", videoWithOwnerColumns...).
		Join(JoinSpec{Table: "users", LocalKey: "videos.owner_id", ForeignKey: "id"}).
		Where("videos.is_published")

	if p.Query != "" {
		q.Where(`(to_tsvector('english', videos.title || ' ' || videos.description)
			@@ plainto_tsquery('english', ?) OR videos.title ILIKE '%' || ? || '%')`,
			p.Query, p.Query)
	}
	if p.Category != "" {
		q.Where("videos.category = ?", p.Category)
	}
	if p.StartDate != nil {
		q.Where("videos.created_at >= ?", *p.StartDate)
	}
	if p.EndDate != nil {
		q.Where("videos.created_at <= ?", *p.EndDate)
	}
	if p.MinDuration != nil {
		q.Where("videos.duration >= ?", *p.MinDuration)
	}
	if p.MaxDuration != nil {
		q.Where("videos.duration <= ?", *p.MaxDuration)
	}

	switch p.SortBy {
	case model.SortOldest:
		q.OrderBy(searchSortColumns[p.SortBy], false)
	case model.SortViews, model.SortLikes, model.SortDuration:
		q.OrderBy(searchSortColumns[p.SortBy], true)
	case model.SortRelevance:
		if p.Query != "" {
			q.OrderByExpr(`ts_rank(to_tsvector('english', videos.title || ' ' || videos.description),
				plainto_tsquery('english', ?)) DESC`, p.Query)
		} else {
			q.OrderBy("videos.created_at", true)
		}
	default:
		q.OrderBy("videos.created_at", true)
	}
	q.OrderBy("videos.id", true)

	return Paginate(ctx, r.pool, q, params, "videos", scanVideoWithOwner)
}

// FromChannels lists published videos from a set of channels (the
// subscriptions feed), newest first.
func (r *VideoRepo) FromChannels(ctx context.Context, channelIDs []uuid.UUID, params PageParams) (*Page[model.VideoWithOwner], error) {
	q := NewJoinQuery("videos", videoWithOwnerColumns...).
		Join(JoinSpec{Table: "users", LocalKey: "videos.owner_id", ForeignKey: "id"}).
		Where("videos.owner_id = ANY(?)", channelIDs).
		Where("videos.is_published").
		OrderBy("videos.created_at", true).
		OrderBy("videos.id", true)

	return Paginate(ctx, r.pool, q, params, "videos", scanVideoWithOwner)
}
