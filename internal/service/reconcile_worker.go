package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vidora/vidora-go/internal/repository"
)

const maxCleanupAttempts = 5

// ReconcileWorker is a periodic background job with two duties: repairing
// denormalized counters against the relation tables, and draining the
// asset cleanup queue by deleting the queued objects from remote storage.
type ReconcileWorker struct {
	maintenance *repository.MaintenanceRepo
	assets      *AssetService
	interval    time.Duration
	stopCh      chan struct{}
}

func NewReconcileWorker(maintenance *repository.MaintenanceRepo, assets *AssetService, interval time.Duration) *ReconcileWorker {
	return &ReconcileWorker{
		maintenance: maintenance,
		assets:      assets,
		interval:    interval,
		stopCh:      make(chan struct{}),
	}
}

// Start runs one tick immediately, then every interval, until ctx is
// cancelled or Stop is called.
func (w *ReconcileWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("reconcile-worker: starting")

	w.tick(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.tick(ctx)
		case <-ctx.Done():
			log.Info().Msg("reconcile-worker: stopping")
			return
		case <-w.stopCh:
			log.Info().Msg("reconcile-worker: stopping")
			return
		}
	}
}

// Stop signals the worker to stop.
func (w *ReconcileWorker) Stop() {
	close(w.stopCh)
}

func (w *ReconcileWorker) tick(ctx context.Context) {
	start := time.Now()

	likes, err := w.maintenance.ReconcileLikeCounters(ctx)
	if err != nil {
		log.Error().Err(err).Msg("reconcile-worker: like counter repair failed")
	}

	subs, err := w.maintenance.ReconcileSubscriberCounts(ctx)
	if err != nil {
		log.Error().Err(err).Msg("reconcile-worker: subscriber count repair failed")
	}

	playlists, err := w.maintenance.ReconcilePlaylistCounts(ctx)
	if err != nil {
		log.Error().Err(err).Msg("reconcile-worker: playlist count repair failed")
	}

	swept, err := w.maintenance.SweepDanglingRelations(ctx)
	if err != nil {
		log.Error().Err(err).Msg("reconcile-worker: dangling relation sweep failed")
	}

	reaped := w.reapAssets(ctx)

	if likes+subs+playlists+swept > 0 || reaped > 0 {
		log.Info().
			Int64("like_counters", likes).
			Int64("subscriber_counts", subs).
			Int64("playlist_counts", playlists).
			Int64("dangling_relations", swept).
			Int("assets_reaped", reaped).
			Dur("elapsed", time.Since(start).Round(time.Millisecond)).
			Msg("reconcile-worker: tick complete")
	}
}

// reapAssets drains the cleanup queue. Entries that keep failing are
// left in place past maxCleanupAttempts so an operator can inspect them;
// they no longer consume delete calls.
func (w *ReconcileWorker) reapAssets(ctx context.Context) int {
	items, err := w.maintenance.PendingAssets(ctx, 100)
	if err != nil {
		log.Error().Err(err).Msg("reconcile-worker: cleanup queue read failed")
		return 0
	}

	reaped := 0
	for _, it := range items {
		if it.Attempts >= maxCleanupAttempts {
			continue
		}
		if err := w.assets.Delete(ctx, it.Bucket, it.ObjectKey); err != nil {
			log.Warn().Err(err).Str("key", it.ObjectKey).Msg("reconcile-worker: remote delete failed")
			if err := w.maintenance.MarkAssetAttempt(ctx, it.ID); err != nil {
				log.Error().Err(err).Msg("reconcile-worker: attempt bump failed")
			}
			continue
		}
		if err := w.maintenance.ResolveAsset(ctx, it.ID); err != nil {
			log.Error().Err(err).Msg("reconcile-worker: queue resolve failed")
			continue
		}
		reaped++
	}
	return reaped
}
