package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"vidhub/internal/core"
	"vidhub/pkg/config"
	"vidhub/pkg/logger"
)

// Server manages the REST API surface.
type Server struct {
	router          *gin.Engine
	config          *config.Config
	authSvc         core.AuthService
	videoSvc        core.VideoService
	commentSvc      core.CommentService
	likeSvc         core.LikeService
	playlistSvc     core.PlaylistService
	subscriptionSvc core.SubscriptionService
	notificationSvc core.NotificationService
	channelSvc      core.ChannelService
}

// NewServer creates the HTTP server with all handlers registered.
func NewServer(
	cfg *config.Config,
	authSvc core.AuthService,
	videoSvc core.VideoService,
	commentSvc core.CommentService,
	likeSvc core.LikeService,
	playlistSvc core.PlaylistService,
	subscriptionSvc core.SubscriptionService,
	notificationSvc core.NotificationService,
	channelSvc core.ChannelService,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())
	router.Use(CORSMiddleware())
	if cfg.Server.RateLimit > 0 {
		router.Use(RateLimitMiddleware(cfg.Server.RateLimit, cfg.Server.RateBurst))
	}

	s := &Server{
		router:          router,
		config:          cfg,
		authSvc:         authSvc,
		videoSvc:        videoSvc,
		commentSvc:      commentSvc,
		likeSvc:         likeSvc,
		playlistSvc:     playlistSvc,
		subscriptionSvc: subscriptionSvc,
		notificationSvc: notificationSvc,
		channelSvc:      channelSvc,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)

	v1 := s.router.Group("/api/v1")
	requireAuth := AuthMiddleware(s.authSvc)
	optionalAuth := OptionalAuthMiddleware(s.authSvc)

	auth := v1.Group("/auth")
	{
		auth.POST("/register", s.register)
		auth.POST("/login", s.login)
		auth.POST("/refresh", s.refreshTokens)

		protected := auth.Group("", requireAuth)
		{
			protected.POST("/logout", s.logout)
			protected.GET("/me", s.getCurrentUser)
			protected.POST("/change-password", s.changePassword)
			protected.PATCH("/account", s.updateAccount)
			protected.PATCH("/avatar", s.updateAvatar)
			protected.PATCH("/cover-image", s.updateCoverImage)
		}
	}

	videos := v1.Group("/videos")
	{
		videos.GET("", optionalAuth, s.listVideos)
		videos.POST("", requireAuth, s.publishVideo)
		videos.GET("/:id", optionalAuth, s.getVideo)
		videos.PATCH("/:id", requireAuth, s.updateVideo)
		videos.PATCH("/:id/thumbnail", requireAuth, s.updateThumbnail)
		videos.DELETE("/:id", requireAuth, s.deleteVideo)
		videos.PATCH("/:id/toggle-publish", requireAuth, s.togglePublish)
		videos.POST("/:id/share", optionalAuth, s.shareVideo)

		videos.GET("/:id/comments", s.listComments)
		videos.POST("/:id/comments", requireAuth, s.addComment)
	}

	v1.GET("/watch-history", requireAuth, s.watchHistory)

	comments := v1.Group("/comments")
	{
		comments.PATCH("/:id", requireAuth, s.updateComment)
		comments.DELETE("/:id", requireAuth, s.deleteComment)
		comments.GET("/:id/replies", s.listReplies)
	}

	likes := v1.Group("/likes")
	{
		likes.POST("/videos/:id/toggle", requireAuth, s.toggleVideoLike)
		likes.POST("/comments/:id/toggle", requireAuth, s.toggleCommentLike)
		likes.GET("/videos", requireAuth, s.listLikedVideos)
		likes.GET("/videos/:id", s.listVideoLikers)
		likes.GET("/comments/:id", s.listCommentLikers)
	}

	playlists := v1.Group("/playlists")
	{
		playlists.POST("", requireAuth, s.createPlaylist)
		playlists.GET("/:id", optionalAuth, s.getPlaylist)
		playlists.PATCH("/:id", requireAuth, s.updatePlaylist)
		playlists.DELETE("/:id", requireAuth, s.deletePlaylist)
		playlists.POST("/:id/videos/:video_id", requireAuth, s.addPlaylistVideo)
		playlists.DELETE("/:id/videos/:video_id", requireAuth, s.removePlaylistVideo)
	}

	users := v1.Group("/users")
	{
		users.GET("/:user_id/playlists", optionalAuth, s.listUserPlaylists)
		users.GET("/:user_id/videos", optionalAuth, s.listUserVideos)
	}

	subscriptions := v1.Group("/subscriptions")
	{
		subscriptions.POST("/:channel_id", requireAuth, s.subscribe)
		subscriptions.DELETE("/:channel_id", requireAuth, s.unsubscribe)
		subscriptions.GET("", requireAuth, s.listSubscriptions)
	}

	channels := v1.Group("/channels")
	{
		channels.GET("/:username", optionalAuth, s.getChannel)
		channels.GET("/:username/subscribers", optionalAuth, s.listChannelSubscribers)
	}

	channel := v1.Group("/channel", requireAuth)
	{
		channel.PATCH("", s.updateChannelInfo)
		channel.GET("/notification-settings", s.getNotificationSettings)
		channel.PATCH("/notification-settings", s.updateNotificationSettings)
	}

	notifications := v1.Group("/notifications", requireAuth)
	{
		notifications.GET("", s.listNotifications)
		notifications.PATCH("/read-all", s.markAllNotificationsRead)
		notifications.PATCH("/:id/read", s.markNotificationRead)
		notifications.DELETE("/:id", s.deleteNotification)
	}
}

// Start runs the HTTP server on addr.
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}

// Router returns the gin engine, for testing and embedding in an
// http.Server.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// requestLogger logs each handled request through the shared logger.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.HTTP(c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Milliseconds())
	}
}
