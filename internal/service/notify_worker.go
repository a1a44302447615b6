package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/vidora/vidora-go/internal/model"
	"github.com/vidora/vidora-go/internal/repository"
)

// NotifyWorker listens for PostgreSQL NOTIFY on the 'engagement_events'
// channel and turns the events into notification rows. Events are
// published inside the transactions that caused them, so a committed
// like/comment/upload is never silently lost, and a rolled-back one is
// never delivered.
type NotifyWorker struct {
	pool          *pgxpool.Pool
	notifications *repository.NotificationRepo
	batchWindow   time.Duration

	mu      sync.Mutex
	pending []model.EngagementEvent
}

func NewNotifyWorker(pool *pgxpool.Pool, notifications *repository.NotificationRepo) *NotifyWorker {
	return &NotifyWorker{
		pool:          pool,
		notifications: notifications,
		batchWindow:   2 * time.Second,
	}
}

// Start blocks until ctx is cancelled, reconnecting on listen errors.
func (w *NotifyWorker) Start(ctx context.Context) {
	log.Info().Dur("batch_window", w.batchWindow).Msg("notify-worker: starting")

	for {
		if err := w.listenLoop(ctx); err != nil {
			if ctx.Err() != nil {
				log.Info().Msg("notify-worker: stopping")
				return
			}
			log.Error().Err(err).Msg("notify-worker: listen error, reconnecting in 5s")
			select {
			case <-time.After(5 * time.Second):
			case <-ctx.Done():
				log.Info().Msg("notify-worker: stopping")
				return
			}
		}
	}
}

func (w *NotifyWorker) listenLoop(ctx context.Context) error {
	conn, err := w.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN engagement_events"); err != nil {
		return err
	}
	log.Info().Msg("notify-worker: listening on engagement_events")

	flushCtx, flushCancel := context.WithCancel(ctx)
	defer flushCancel()
	go w.flushLoop(flushCtx)

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}

		var ev model.EngagementEvent
		if err := json.Unmarshal([]byte(notification.Payload), &ev); err != nil {
			log.Warn().Err(err).Str("payload", notification.Payload).Msg("notify-worker: bad event payload")
			continue
		}

		w.mu.Lock()
		w.pending = append(w.pending, ev)
		w.mu.Unlock()
	}
}

func (w *NotifyWorker) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(w.batchWindow)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.flush(ctx)
		case <-ctx.Done():
			// Final flush before exit
			w.flush(context.Background())
			return
		}
	}
}

func (w *NotifyWorker) flush(ctx context.Context) {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	batch := w.pending
	w.pending = nil
	w.mu.Unlock()

	delivered := 0
	for _, ev := range batch {
		n, err := w.deliver(ctx, ev)
		if err != nil {
			log.Error().Err(err).Str("type", string(ev.Type)).Msg("notify-worker: delivery failed")
			continue
		}
		delivered += n
	}

	if delivered > 0 {
		log.Debug().Int("delivered", delivered).Int("events", len(batch)).Msg("notify-worker: batch complete")
	}
}

// deliver writes the notification rows for one event. Self-notification
// is suppressed: liking or commenting on your own content is silent.
// VIDEO_UPLOAD fans out to the channel's subscribers.
func (w *NotifyWorker) deliver(ctx context.Context, ev model.EngagementEvent) (int, error) {
	if ev.Type == model.NotifyVideoUpload {
		n, err := w.notifications.InsertForSubscribers(ctx, ev.RecipientID, ev.VideoID, ev.Message)
		return int(n), err
	}

	if ev.ActorID == ev.RecipientID {
		return 0, nil
	}

	actorID := ev.ActorID
	err := w.notifications.Insert(ctx, &model.Notification{
		RecipientID: ev.RecipientID,
		SenderID:    &actorID,
		Type:        ev.Type,
		VideoID:     ev.VideoID,
		CommentID:   ev.CommentID,
		Message:     ev.Message,
	})
	if err != nil {
		return 0, err
	}
	return 1, nil
}
