package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidora/vidora-go/internal/model"
)

// MaintenanceRepo backs the reconcile worker: counter repair from the
// relation tables, dangling-relation sweeps, and the asset cleanup queue.
type MaintenanceRepo struct {
	pool *pgxpool.Pool
}

func NewMaintenanceRepo(pool *pgxpool.Pool) *MaintenanceRepo {
	return &MaintenanceRepo{pool: pool}
}

// ReconcileLikeCounters rewrites any like_count that has drifted from the
// relation-table count. Returns the number of repaired rows.
func (r *MaintenanceRepo) ReconcileLikeCounters(ctx context.Context) (int64, error) {
	var repaired int64
	for kind, table := range targetTables {
		tag, err := r.pool.Exec(ctx, fmt.Sprintf(`
			UPDATE %s t SET like_count = actual.n
			FROM (
				SELECT t2.id, COALESCE(l.n, 0) AS n
				FROM %s t2
				LEFT JOIN (
					SELECT target_id, COUNT(*) AS n
					FROM likes WHERE target_kind = $1
					GROUP BY target_id
				) l ON l.target_id = t2.id
			) actual
			WHERE t.id = actual.id AND t.like_count <> actual.n`, table, table),
			kind)
		if err != nil {
			return repaired, err
		}
		repaired += tag.RowsAffected()
	}
	return repaired, nil
}

// ReconcileSubscriberCounts repairs users.subscriber_count the same way.
func (r *MaintenanceRepo) ReconcileSubscriberCounts(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users u SET subscriber_count = actual.n
		FROM (
			SELECT u2.id, COALESCE(s.n, 0) AS n
			FROM users u2
			LEFT JOIN (
				SELECT channel_id, COUNT(*) AS n
				FROM subscriptions GROUP BY channel_id
			) s ON s.channel_id = u2.id
		) actual
		WHERE u.id = actual.id AND u.subscriber_count <> actual.n`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ReconcilePlaylistCounts repairs playlists.video_count against the
// membership table.
func (r *MaintenanceRepo) ReconcilePlaylistCounts(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE playlists p SET video_count = actual.n
		FROM (
			SELECT p2.id, COALESCE(pv.n, 0) AS n
			FROM playlists p2
			LEFT JOIN (
				SELECT playlist_id, COUNT(*) AS n
				FROM playlist_videos GROUP BY playlist_id
			) pv ON pv.playlist_id = p2.id
		) actual
		WHERE p.id = actual.id AND p.video_count <> actual.n`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// SweepDanglingRelations removes likes and comments whose target row no
// longer exists. Listings already drop them via inner joins; the sweep
// keeps the relation tables from accumulating dead rows.
func (r *MaintenanceRepo) SweepDanglingRelations(ctx context.Context) (int64, error) {
	var removed int64
	for kind, table := range targetTables {
		tag, err := r.pool.Exec(ctx, fmt.Sprintf(`
			DELETE FROM likes l
			WHERE l.target_kind = $1
			  AND NOT EXISTS (SELECT 1 FROM %s t WHERE t.id = l.target_id)`, table),
			kind)
		if err != nil {
			return removed, err
		}
		removed += tag.RowsAffected()
	}

	for _, kind := range []model.TargetKind{model.TargetVideo, model.TargetTweet} {
		tag, err := r.pool.Exec(ctx, fmt.Sprintf(`
			DELETE FROM comments c
			WHERE c.target_kind = $1
			  AND NOT EXISTS (SELECT 1 FROM %s t WHERE t.id = c.target_id)`, targetTables[kind]),
			kind)
		if err != nil {
			return removed, err
		}
		removed += tag.RowsAffected()
	}

	return removed, nil
}

// CleanupItem is one queued remote-asset deletion.
type CleanupItem struct {
	ID        int64
	ObjectKey string
	Bucket    string
	Attempts  int
}

// QueueAsset schedules a remote object for deletion outside any owning
// transaction (asset swaps: old avatar, replaced thumbnail).
func (r *MaintenanceRepo) QueueAsset(ctx context.Context, objectKey, bucket string) error {
	if objectKey == "" {
		return nil
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO asset_cleanup_queue (object_key, bucket) VALUES ($1, $2)`,
		objectKey, bucket)
	return err
}

// PendingAssets returns the oldest queue entries, capped at limit.
func (r *MaintenanceRepo) PendingAssets(ctx context.Context, limit int) ([]CleanupItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, object_key, bucket, attempts
		FROM asset_cleanup_queue
		ORDER BY queued_at
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []CleanupItem
	for rows.Next() {
		var it CleanupItem
		if err := rows.Scan(&it.ID, &it.ObjectKey, &it.Bucket, &it.Attempts); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ResolveAsset drops a queue entry after the remote delete succeeded.
func (r *MaintenanceRepo) ResolveAsset(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM asset_cleanup_queue WHERE id = $1`, id)
	return err
}

// MarkAssetAttempt records a failed remote delete so the entry retries
// later instead of spinning.
func (r *MaintenanceRepo) MarkAssetAttempt(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE asset_cleanup_queue SET attempts = attempts + 1, queued_at = NOW()
		WHERE id = $1`, id)
	return err
}
