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

type PlaylistRepo struct {
	pool *pgxpool.Pool
}

func NewPlaylistRepo(pool *pgxpool.Pool) *PlaylistRepo {
	return &PlaylistRepo{pool: pool}
}

const playlistColumns = `
	id, owner_id, name, description, is_public, video_count, created_at, updated_at`

func scanPlaylist(row pgx.Row) (*model.Playlist, error) {
	var p model.Playlist
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.IsPublic,
		&p.VideoCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("playlist not found")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PlaylistRepo) Create(ctx context.Context, p *model.Playlist) (*model.Playlist, error) {
	return scanPlaylist(r.pool.QueryRow(ctx, `
		INSERT INTO playlists (owner_id, name, description, is_public)
		VALUES ($1, $2, $3, $4)
		RETURNING`+playlistColumns,
		p.OwnerID, p.Name, p.Description, p.IsPublic))
}

func (r *PlaylistRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Playlist, error) {
	return scanPlaylist(r.pool.QueryRow(ctx,
		`SELECT`+playlistColumns+` FROM playlists WHERE id = $1`, id))
}

func (r *PlaylistRepo) Update(ctx context.Context, id uuid.UUID, req model.UpdatePlaylistRequest) (*model.Playlist, error) {
	return scanPlaylist(r.pool.QueryRow(ctx, `
		UPDATE playlists SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			is_public = COALESCE($4, is_public),
			updated_at = NOW()
		WHERE id = $1
		RETURNING`+playlistColumns,
		id, req.Name, req.Description, req.IsPublic))
}

func (r *PlaylistRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("playlist not found")
	}
	return nil
}

// AddVideo appends a published video with set semantics: a duplicate add
// is a Conflict, never a second row. Membership and video_count move in
// one transaction.
func (r *PlaylistRepo) AddVideo(ctx context.Context, playlistID, videoID uuid.UUID) (*model.Playlist, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var isPublished bool
	err = tx.QueryRow(ctx, `SELECT is_published FROM videos WHERE id = $1`, videoID).Scan(&isPublished)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("video not found")
	}
	if err != nil {
		return nil, err
	}
	if !isPublished {
		return nil, apperr.Invalid("cannot add an unpublished video to a playlist")
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO playlist_videos (playlist_id, video_id, position)
		SELECT $1, $2, COALESCE(MAX(position), 0) + 1
		FROM playlist_videos WHERE playlist_id = $1
		ON CONFLICT (playlist_id, video_id) DO NOTHING`,
		playlistID, videoID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, apperr.Conflict("video already in playlist")
	}

	row := tx.QueryRow(ctx, `
		UPDATE playlists SET video_count = video_count + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING`+playlistColumns, playlistID)
	p, err := scanPlaylist(row)
	if err != nil {
		return nil, err
	}

	return p, tx.Commit(ctx)
}

// RemoveVideo drops the membership row and mirrors video_count.
func (r *PlaylistRepo) RemoveVideo(ctx context.Context, playlistID, videoID uuid.UUID) (*model.Playlist, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		DELETE FROM playlist_videos WHERE playlist_id = $1 AND video_id = $2`,
		playlistID, videoID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, apperr.NotFound("video not in playlist")
	}

	row := tx.QueryRow(ctx, `
		UPDATE playlists SET video_count = video_count - 1, updated_at = NOW()
		WHERE id = $1 AND video_count > 0
		RETURNING`+playlistColumns, playlistID)
	p, err := scanPlaylist(row)
	if err != nil {
		return nil, err
	}

	return p, tx.Commit(ctx)
}

// Videos lists a playlist's videos in insertion order, owner-enriched.
// Memberships whose video has been deleted drop out via the inner join.
func (r *PlaylistRepo) Videos(ctx context.Context, playlistID uuid.UUID, params PageParams) (*Page[model.VideoWithOwner], error) {
	q := NewJoinQuery("playlist_videos", videoWithOwnerColumns...).
		Join(JoinSpec{Table: "videos", LocalKey: "playlist_videos.video_id", ForeignKey: "id"}).
		Join(JoinSpec{Table: "users", LocalKey: "videos.owner_id", ForeignKey: "id"}).
		Where("playlist_videos.playlist_id = ?", playlistID).
		OrderBy("playlist_videos.position", false).
		OrderBy("playlist_videos.added_at", false)

	return Paginate(ctx, r.pool, q, params, "videos", scanVideoWithOwner)
}

// ByOwner lists a user's playlists. Private playlists appear only when
// the requester is the owner; the predicate lives in the base filter so
// pagination metadata cannot leak private counts.
func (r *PlaylistRepo) ByOwner(ctx context.Context, ownerID uuid.UUID, requesterIsOwner bool, params PageParams) (*Page[model.Playlist], error) {
	q := NewJoinQuery("playlists", "playlists.id", "playlists.owner_id",
		"playlists.name", "playlists.description", "playlists.is_public",
		"playlists.video_count", "playlists.created_at", "playlists.updated_at").
		Where("playlists.owner_id = ?", ownerID)
	if !requesterIsOwner {
		q.Where("playlists.is_public")
	}
	q.OrderBy("playlists.created_at", true).OrderBy("playlists.id", true)

	return Paginate(ctx, r.pool, q, params, "playlists", func(rows pgx.Rows) (model.Playlist, error) {
		var p model.Playlist
		err := rows.Scan(
			&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.IsPublic,
			&p.VideoCount, &p.CreatedAt, &p.UpdatedAt,
		)
		return p, err
	})
}

// ContainsVideo reports membership (used by the UI save dialog).
func (r *PlaylistRepo) ContainsVideo(ctx context.Context, playlistID, videoID uuid.UUID) (bool, error) {
	var present bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM playlist_videos WHERE playlist_id = $1 AND video_id = $2
		)`, playlistID, videoID).Scan(&present)
	return present, err
}
