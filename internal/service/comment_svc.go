package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/vidora/vidora-go/internal/apperr"
	"github.com/vidora/vidora-go/internal/model"
	"github.com/vidora/vidora-go/internal/repository"
)

type CommentService struct {
	comments *repository.CommentRepo
	videos   *repository.VideoRepo
}

func NewCommentService(comments *repository.CommentRepo, videos *repository.VideoRepo) *CommentService {
	return &CommentService{comments: comments, videos: videos}
}

// Create attaches a comment to a video or tweet.
func (s *CommentService) Create(ctx context.Context, ownerID uuid.UUID, kind model.TargetKind, targetID uuid.UUID, req model.CreateCommentRequest) (*model.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperr.Invalid("comment content is required")
	}
	if len(content) > 1000 {
		return nil, apperr.Invalid("comment must be at most 1000 characters")
	}

	return s.comments.Create(ctx, &model.Comment{
		OwnerID:    ownerID,
		Content:    content,
		TargetKind: kind,
		TargetID:   targetID,
		ParentID:   req.ParentID,
	})
}

func (s *CommentService) ForTarget(ctx context.Context, kind model.TargetKind, targetID uuid.UUID, params repository.PageParams) (*repository.Page[model.CommentWithOwner], error) {
	return s.comments.ForTarget(ctx, kind, targetID, params)
}

func (s *CommentService) Replies(ctx context.Context, parentID uuid.UUID, params repository.PageParams) (*repository.Page[model.CommentWithOwner], error) {
	return s.comments.Replies(ctx, parentID, params)
}

// Update is restricted to the comment author.
func (s *CommentService) Update(ctx context.Context, id, requesterID uuid.UUID, req model.UpdateCommentRequest) (*model.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperr.Invalid("comment content is required")
	}

	c, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != requesterID {
		return nil, apperr.Forbidden("only the author may edit this comment")
	}

	return s.comments.UpdateContent(ctx, id, content)
}

// Delete is allowed for the comment author, or for the owner of the video
// the comment sits on (channel moderation).
func (s *CommentService) Delete(ctx context.Context, id, requesterID uuid.UUID) error {
	c, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if c.OwnerID != requesterID {
		allowed := false
		if c.TargetKind == model.TargetVideo {
			v, err := s.videos.FindByID(ctx, c.TargetID)
			if err == nil && v.OwnerID == requesterID {
				allowed = true
			}
		}
		if !allowed {
			return apperr.Forbidden("not allowed to delete this comment")
		}
	}

	return s.comments.Delete(ctx, id)
}
