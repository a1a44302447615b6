package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/vidora/vidora-go/internal/handler"
	"github.com/vidora/vidora-go/internal/middleware"
	"github.com/vidora/vidora-go/pkg/token"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Video        *handler.VideoHandler
	Like         *handler.LikeHandler
	Comment      *handler.CommentHandler
	Tweet        *handler.TweetHandler
	Playlist     *handler.PlaylistHandler
	Subscription *handler.SubscriptionHandler
	Notification *handler.NotificationHandler
	Dashboard    *handler.DashboardHandler
	Health       *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given
// Fiber app.
func Setup(app *fiber.App, h *Handlers, tm *token.Manager, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(middleware.NewCORS(corsOrigins))
	app.Use(handler.MetricsMiddleware())

	required := middleware.RequireAuth(tm)
	optional := middleware.OptionalAuth(tm)

	authLimit := middleware.NewAuthRateLimiter().Handler()
	uploadLimit := middleware.NewUploadRateLimiter().Handler()
	writeLimit := middleware.NewWriteRateLimiter().Handler()
	exportLimit := middleware.NewExportRateLimiter().Handler()

	// Probes and metrics (no auth)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	api := app.Group("/api/v1")

	// Auth
	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.Register, authLimit)
	auth.Post("/login", h.Auth.Login, authLimit)
	auth.Post("/refresh", h.Auth.Refresh, authLimit)
	auth.Post("/logout", h.Auth.Logout, required)
	auth.Post("/change-password", h.Auth.ChangePassword, required)

	// Current user
	users := api.Group("/users")
	users.Get("/me", h.User.Me, required)
	users.Patch("/me", h.User.UpdateProfile, required)
	users.Patch("/me/avatar", h.User.UpdateAvatar, required, writeLimit)
	users.Patch("/me/cover", h.User.UpdateCover, required, writeLimit)
	users.Get("/:userId/tweets", h.Tweet.ByUser, optional)
	users.Get("/:userId/playlists", h.Playlist.ByUser, optional)

	// Channels (public pages)
	channels := api.Group("/channels")
	channels.Get("/:username", h.User.Channel, optional)
	channels.Get("/:channelId/videos", h.Video.ByChannel, optional)
	channels.Get("/:channelId/subscribers", h.Subscription.Subscribers, optional)

	// Videos
	videos := api.Group("/videos")
	videos.Post("/", h.Video.Upload, required, uploadLimit)
	videos.Get("/feed", h.Video.Feed, required)
	videos.Get("/:id", h.Video.Get, optional)
	videos.Patch("/:id", h.Video.Update, required, writeLimit)
	videos.Patch("/:id/thumbnail", h.Video.UpdateThumbnail, required, writeLimit)
	videos.Patch("/:id/publish", h.Video.TogglePublish, required, writeLimit)
	videos.Delete("/:id", h.Video.Delete, required)

	// Search
	api.Get("/search", h.Video.Search, optional)

	// Likes
	likes := api.Group("/likes", required)
	likes.Get("/videos", h.Like.Videos)
	likes.Get("/tweets", h.Like.Tweets)
	likes.Get("/comments", h.Like.Comments)
	likes.Post("/:kind/:id", h.Like.Toggle, writeLimit)
	likes.Get("/:kind/:id/status", h.Like.Status)

	// Comments
	comments := api.Group("/comments")
	comments.Post("/:kind/:id", h.Comment.Create, required, writeLimit)
	comments.Get("/:id/replies", h.Comment.Replies, optional)
	comments.Get("/:kind/:id", h.Comment.ForTarget, optional)
	comments.Patch("/:id", h.Comment.Update, required, writeLimit)
	comments.Delete("/:id", h.Comment.Delete, required)

	// Tweets
	tweets := api.Group("/tweets")
	tweets.Post("/", h.Tweet.Create, required, writeLimit)
	tweets.Get("/feed", h.Tweet.Feed, required)
	tweets.Get("/:id", h.Tweet.Get, optional)
	tweets.Patch("/:id", h.Tweet.Update, required, writeLimit)
	tweets.Delete("/:id", h.Tweet.Delete, required)

	// Playlists
	playlists := api.Group("/playlists")
	playlists.Post("/", h.Playlist.Create, required, writeLimit)
	playlists.Get("/:id", h.Playlist.Get, optional)
	playlists.Patch("/:id", h.Playlist.Update, required, writeLimit)
	playlists.Delete("/:id", h.Playlist.Delete, required)
	playlists.Post("/:id/videos/:videoId", h.Playlist.AddVideo, required, writeLimit)
	playlists.Get("/:id/videos/:videoId", h.Playlist.ContainsVideo, optional)
	playlists.Delete("/:id/videos/:videoId", h.Playlist.RemoveVideo, required)

	// Subscriptions
	subs := api.Group("/subscriptions", required)
	subs.Get("/", h.Subscription.Mine)
	subs.Post("/:channelId", h.Subscription.Toggle, writeLimit)
	subs.Get("/:channelId/status", h.Subscription.Status)

	// Notifications
	notifications := api.Group("/notifications", required)
	notifications.Get("/", h.Notification.List)
	notifications.Patch("/read-all", h.Notification.MarkAllRead)
	notifications.Patch("/:id/read", h.Notification.MarkRead)
	notifications.Delete("/:id", h.Notification.Delete)

	// Dashboard (owner-only report)
	dashboard := api.Group("/dashboard", required)
	dashboard.Get("/stats/:channelId", h.Dashboard.Stats)
	dashboard.Get("/videos", h.Dashboard.Videos)
	dashboard.Get("/export", h.Dashboard.Export, exportLimit)
}
