package repository

import (
	"github.com/jackc/pgx/v5"

	"github.com/vidora/vidora-go/internal/model"
)

// Shared projections and row scanners for owner-enriched listings. Every
// projection carries the owner columns needed for privacy checks and the
// reduced owner object the clients render.

var videoWithOwnerColumns = []string{
	"videos.id", "videos.owner_id", "videos.title", "videos.description",
	"videos.video_url", "videos.thumbnail_url", "videos.duration",
	"videos.category", "videos.tags", "videos.view_count", "videos.like_count",
	"videos.is_published", "videos.created_at", "videos.updated_at",
	"users.id", "users.username", "users.full_name", "users.avatar_url",
}

func scanVideoWithOwner(rows pgx.Rows) (model.VideoWithOwner, error) {
	var v model.VideoWithOwner
	err := rows.Scan(
		&v.ID, &v.OwnerID, &v.Title, &v.Description,
		&v.VideoURL, &v.ThumbnailURL, &v.Duration,
		&v.Category, &v.Tags, &v.ViewCount, &v.LikeCount,
		&v.IsPublished, &v.CreatedAt, &v.UpdatedAt,
		&v.Owner.ID, &v.Owner.Username, &v.Owner.FullName, &v.Owner.AvatarURL,
	)
	return v, err
}

var tweetWithOwnerColumns = []string{
	"tweets.id", "tweets.owner_id", "tweets.content", "tweets.image_url",
	"tweets.like_count", "tweets.created_at", "tweets.updated_at",
	"users.id", "users.username", "users.full_name", "users.avatar_url",
}

func scanTweetWithOwner(rows pgx.Rows) (model.TweetWithOwner, error) {
	var t model.TweetWithOwner
	err := rows.Scan(
		&t.ID, &t.OwnerID, &t.Content, &t.ImageURL,
		&t.LikeCount, &t.CreatedAt, &t.UpdatedAt,
		&t.Owner.ID, &t.Owner.Username, &t.Owner.FullName, &t.Owner.AvatarURL,
	)
	return t, err
}

var commentWithOwnerColumns = []string{
	"comments.id", "comments.owner_id", "comments.content",
	"comments.target_kind", "comments.target_id", "comments.parent_id",
	"comments.like_count", "comments.created_at", "comments.updated_at",
	"users.id", "users.username", "users.full_name", "users.avatar_url",
}

func scanCommentWithOwner(rows pgx.Rows) (model.CommentWithOwner, error) {
	var c model.CommentWithOwner
	err := rows.Scan(
		&c.ID, &c.OwnerID, &c.Content,
		&c.TargetKind, &c.TargetID, &c.ParentID,
		&c.LikeCount, &c.CreatedAt, &c.UpdatedAt,
		&c.Owner.ID, &c.Owner.Username, &c.Owner.FullName, &c.Owner.AvatarURL,
	)
	return c, err
}
