package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidora/vidora-go/internal/apperr"
	"github.com/vidora/vidora-go/internal/model"
)

const uniqueViolation = "23505"

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `
	id, username, email, full_name, password_hash, avatar_url, avatar_key,
	cover_url, cover_key, refresh_token, subscriber_count, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.FullName, &u.PasswordHash,
		&u.AvatarURL, &u.AvatarKey, &u.CoverURL, &u.CoverKey,
		&u.RefreshToken, &u.SubscriberCount, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Create(ctx context.Context, u *model.User) (*model.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, full_name, password_hash, avatar_url, avatar_key, cover_url, cover_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING`+userColumns,
		u.Username, u.Email, u.FullName, u.PasswordHash,
		u.AvatarURL, u.AvatarKey, u.CoverURL, u.CoverKey)

	created, err := scanUser(row)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return nil, apperr.Conflict("username or email already in use")
	}
	return created, err
}

func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT`+userColumns+` FROM users WHERE id = $1`, id))
}

// FindByIdentifier resolves a login identifier that may be a username or
// an email address.
func (r *UserRepo) FindByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT`+userColumns+` FROM users WHERE username = $1 OR email = $1`, identifier))
}

func (r *UserRepo) UpdateRefreshToken(ctx context.Context, id uuid.UUID, token string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET refresh_token = $2, updated_at = NOW() WHERE id = $1`, id, token)
	return err
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET password_hash = $2, refresh_token = '', updated_at = NOW()
		WHERE id = $1`, id, passwordHash)
	return err
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, fullName, email *string) (*model.User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users SET
			full_name = COALESCE($2, full_name),
			email = COALESCE($3, email),
			updated_at = NOW()
		WHERE id = $1
		RETURNING`+userColumns, id, fullName, email)

	u, err := scanUser(row)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return nil, apperr.Conflict("email already in use")
	}
	return u, err
}

// UpdateAvatar swaps the avatar asset, returning the previous object key
// so the caller can queue the old asset for deletion.
func (r *UserRepo) UpdateAvatar(ctx context.Context, id uuid.UUID, url, key string) (oldKey string, err error) {
	err = r.pool.QueryRow(ctx, `
		UPDATE users u SET avatar_url = $2, avatar_key = $3, updated_at = NOW()
		FROM (SELECT avatar_key FROM users WHERE id = $1) prev
		WHERE u.id = $1
		RETURNING prev.avatar_key`, id, url, key).Scan(&oldKey)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperr.NotFound("user not found")
	}
	return oldKey, err
}

// UpdateCover swaps the cover asset, returning the previous object key.
func (r *UserRepo) UpdateCover(ctx context.Context, id uuid.UUID, url, key string) (oldKey string, err error) {
	err = r.pool.QueryRow(ctx, `
		UPDATE users u SET cover_url = $2, cover_key = $3, updated_at = NOW()
		FROM (SELECT cover_key FROM users WHERE id = $1) prev
		WHERE u.id = $1
		RETURNING prev.cover_key`, id, url, key).Scan(&oldKey)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperr.NotFound("user not found")
	}
	return oldKey, err
}

// ChannelProfile loads a channel page for a viewer: public fields, video
// count (published only) and the viewer's subscription state.
func (r *UserRepo) ChannelProfile(ctx context.Context, username string, viewerID *uuid.UUID) (*model.ChannelProfile, error) {
	var p model.ChannelProfile
	err := r.pool.QueryRow(ctx, `
		SELECT u.id, u.username, u.full_name, u.avatar_url, u.cover_url,
		       u.subscriber_count,
		       (SELECT COUNT(*) FROM videos v WHERE v.owner_id = u.id AND v.is_published),
		       CASE WHEN $2::uuid IS NULL THEN false ELSE EXISTS (
		           SELECT 1 FROM subscriptions s
		           WHERE s.subscriber_id = $2 AND s.channel_id = u.id
		       ) END
		FROM users u
		WHERE u.username = $1`, username, viewerID).Scan(
		&p.ID, &p.Username, &p.FullName, &p.AvatarURL, &p.CoverURL,
		&p.SubscriberCount, &p.VideoCount, &p.IsSubscribed,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("channel not found")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
