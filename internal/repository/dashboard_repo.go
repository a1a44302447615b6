package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidora/vidora-go/internal/model"
)

// DashboardRepo runs the read-only reporting queries behind the creator
// dashboard. Like totals are counted from the likes relation table, not
// the denormalized mirrors, so drifted counters cannot skew the report.
type DashboardRepo struct {
	pool *pgxpool.Pool
}

func NewDashboardRepo(pool *pgxpool.Pool) *DashboardRepo {
	return &DashboardRepo{pool: pool}
}

// Totals are the whole-history aggregates for a channel.
type Totals struct {
	Videos      int64
	Views       int64
	VideoLikes  int64
	Comments    int64
	Subscribers int64
	Tweets      int64
}

// WindowCounts are the trailing-30-day and prior-30-day figures used for
// the growth deltas.
type WindowCounts struct {
	ViewsLast30 int64
	ViewsPrior30 int64
	SubsLast30  int64
	SubsPrior30 int64
}

func (r *DashboardRepo) Totals(ctx context.Context, ownerID uuid.UUID) (*Totals, error) {
	var t Totals
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM videos WHERE owner_id = $1),
			(SELECT COALESCE(SUM(view_count), 0) FROM videos WHERE owner_id = $1),
			(SELECT COUNT(*) FROM likes l
			   JOIN videos v ON l.target_id = v.id
			   WHERE l.target_kind = 'video' AND v.owner_id = $1),
			(SELECT COUNT(*) FROM comments c
			   JOIN videos v ON c.target_id = v.id
			   WHERE c.target_kind = 'video' AND v.owner_id = $1),
			(SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1),
			(SELECT COUNT(*) FROM tweets WHERE owner_id = $1)`,
		ownerID).Scan(&t.Videos, &t.Views, &t.VideoLikes, &t.Comments, &t.Subscribers, &t.Tweets)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Windows computes both 30-day windows in one round trip. Views are
// attributed to the month a video was uploaded; there is no per-view
// event log to window over.
func (r *DashboardRepo) Windows(ctx context.Context, ownerID uuid.UUID) (*WindowCounts, error) {
	var w WindowCounts
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COALESCE(SUM(view_count), 0) FROM videos
			   WHERE owner_id = $1 AND created_at >= NOW() - INTERVAL '30 days'),
			(SELECT COALESCE(SUM(view_count), 0) FROM videos
			   WHERE owner_id = $1
			     AND created_at >= NOW() - INTERVAL '60 days'
			     AND created_at <  NOW() - INTERVAL '30 days'),
			(SELECT COUNT(*) FROM subscriptions
			   WHERE channel_id = $1 AND created_at >= NOW() - INTERVAL '30 days'),
			(SELECT COUNT(*) FROM subscriptions
			   WHERE channel_id = $1
			     AND created_at >= NOW() - INTERVAL '60 days'
			     AND created_at <  NOW() - INTERVAL '30 days')`,
		ownerID).Scan(&w.ViewsLast30, &w.ViewsPrior30, &w.SubsLast30, &w.SubsPrior30)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// MonthlyViews buckets view totals by upload month over the past year.
func (r *DashboardRepo) MonthlyViews(ctx context.Context, ownerID uuid.UUID) ([]model.MonthBucket, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT date_trunc('month', created_at) AS month, COALESCE(SUM(view_count), 0)
		FROM videos
		WHERE owner_id = $1 AND created_at >= NOW() - INTERVAL '12 months'
		GROUP BY month
		ORDER BY month`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBuckets(rows)
}

// MonthlySubscribers buckets new-subscriber counts by month over the past
// year.
func (r *DashboardRepo) MonthlySubscribers(ctx context.Context, channelID uuid.UUID) ([]model.MonthBucket, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT date_trunc('month', created_at) AS month, COUNT(*)
		FROM subscriptions
		WHERE channel_id = $1 AND created_at >= NOW() - INTERVAL '12 months'
		GROUP BY month
		ORDER BY month`, channelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBuckets(rows)
}

func scanBuckets(rows pgx.Rows) ([]model.MonthBucket, error) {
	buckets := []model.MonthBucket{}
	for rows.Next() {
		var b model.MonthBucket
		if err := rows.Scan(&b.Month, &b.Count); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// Videos returns the per-video dashboard table, newest first, with live
// comment counts.
func (r *DashboardRepo) Videos(ctx context.Context, ownerID uuid.UUID, params PageParams) (*Page[model.DashboardVideo], error) {
	q := NewJoinQuery("videos",
		"videos.id", "videos.title", "videos.thumbnail_url", "videos.is_published",
		"videos.view_count", "videos.like_count",
		`(SELECT COUNT(*) FROM comments c
		   WHERE c.target_kind = 'video' AND c.target_id = videos.id)`,
		"videos.created_at").
		Where("videos.owner_id = ?", ownerID).
		OrderBy("videos.created_at", true).
		OrderBy("videos.id", true)

	return Paginate(ctx, r.pool, q, params, "videos", func(rows pgx.Rows) (model.DashboardVideo, error) {
		var v model.DashboardVideo
		err := rows.Scan(
			&v.ID, &v.Title, &v.ThumbnailURL, &v.IsPublished,
			&v.ViewCount, &v.LikeCount, &v.CommentCount, &v.CreatedAt,
		)
		return v, err
	})
}
