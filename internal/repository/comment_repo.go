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

type CommentRepo struct {
	pool *pgxpool.Pool
}

func NewCommentRepo(pool *pgxpool.Pool) *CommentRepo {
	return &CommentRepo{pool: pool}
}

const commentColumns = `
	id, owner_id, content, target_kind, target_id, parent_id, like_count,
	created_at, updated_at`

func scanComment(row pgx.Row) (*model.Comment, error) {
	var c model.Comment
	err := row.Scan(
		&c.ID, &c.OwnerID, &c.Content, &c.TargetKind, &c.TargetID,
		&c.ParentID, &c.LikeCount, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("comment not found")
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create validates the target inside the transaction, inserts the comment
// and emits the engagement event for the content owner.
func (r *CommentRepo) Create(ctx context.Context, c *model.Comment) (*model.Comment, error) {
	if !c.TargetKind.Commentable() {
		return nil, apperr.Invalid("comments may target a video or a tweet, not %q", c.TargetKind)
	}
	table := targetTables[c.TargetKind]

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var contentOwner uuid.UUID
	err = tx.QueryRow(ctx,
		fmt.Sprintf(`SELECT owner_id FROM %s WHERE id = $1`, table),
		c.TargetID).Scan(&contentOwner)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("%s not found", c.TargetKind)
	}
	if err != nil {
		return nil, err
	}

	if c.ParentID != nil {
		var parentTarget uuid.UUID
		err = tx.QueryRow(ctx,
			`SELECT target_id FROM comments WHERE id = $1`, *c.ParentID).Scan(&parentTarget)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("parent comment not found")
		}
		if err != nil {
			return nil, err
		}
		if parentTarget != c.TargetID {
			return nil, apperr.Invalid("parent comment belongs to a different %s", c.TargetKind)
		}
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO comments (owner_id, content, target_kind, target_id, parent_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING`+commentColumns,
		c.OwnerID, c.Content, c.TargetKind, c.TargetID, c.ParentID)

	created, err := scanComment(row)
	if err != nil {
		return nil, err
	}

	if contentOwner != created.OwnerID {
		if err := notifyEngagement(ctx, tx, model.EngagementEvent{
			Type:        model.NotifyComment,
			ActorID:     created.OwnerID,
			RecipientID: contentOwner,
			VideoID:     videoRef(created.TargetKind, created.TargetID),
			CommentID:   &created.ID,
			Message:     fmt.Sprintf("commented on your %s", created.TargetKind),
		}); err != nil {
			return nil, err
		}
	}

	return created, tx.Commit(ctx)
}

func (r *CommentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	return scanComment(r.pool.QueryRow(ctx,
		`SELECT`+commentColumns+` FROM comments WHERE id = $1`, id))
}

func (r *CommentRepo) UpdateContent(ctx context.Context, id uuid.UUID, content string) (*model.Comment, error) {
	return scanComment(r.pool.QueryRow(ctx, `
		UPDATE comments SET content = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING`+commentColumns, id, content))
}

func (r *CommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("comment not found")
	}
	return nil
}

// ForTarget lists top-level comments on a video or tweet, newest first,
// with the reduced owner projection.
func (r *CommentRepo) ForTarget(ctx context.Context, kind model.TargetKind, targetID uuid.UUID, params PageParams) (*Page[model.CommentWithOwner], error) {
	if !kind.Commentable() {
		return nil, apperr.Invalid("comments may target a video or a tweet, not %q", kind)
	}

	q := NewJoinQuery("comments", commentWithOwnerColumns...).
		Join(JoinSpec{Table: "users", LocalKey: "comments.owner_id", ForeignKey: "id"}).
		Where("comments.target_kind = ?", kind).
		Where("comments.target_id = ?", targetID).
		Where("comments.parent_id IS NULL").
		OrderBy("comments.created_at", true).
		OrderBy("comments.id", true)

	return Paginate(ctx, r.pool, q, params, "comments", scanCommentWithOwner)
}

// Replies lists the children of a comment, oldest first (thread order).
func (r *CommentRepo) Replies(ctx context.Context, parentID uuid.UUID, params PageParams) (*Page[model.CommentWithOwner], error) {
	q := NewJoinQuery("comments", commentWithOwnerColumns...).
		Join(JoinSpec{Table: "users", LocalKey: "comments.owner_id", ForeignKey: "id"}).
		Where("comments.parent_id = ?", parentID).
		OrderBy("comments.created_at", false).
		OrderBy("comments.id", false)

	return Paginate(ctx, r.pool, q, params, "comments", scanCommentWithOwner)
}
