package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/staffhub/staffhub-server/internal/auth"
	"github.com/staffhub/staffhub-server/internal/config"
	"github.com/staffhub/staffhub-server/internal/core"
	"github.com/staffhub/staffhub-server/internal/store"
)

// NewServer builds the HTTP server: REST API, health check, and the
// WebSocket endpoint for chat and change notifications.
func NewServer(hub *core.Hub, authService *auth.Service, st store.Store, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})

	router.GET("/ws", gin.WrapH(NewWSHandler(hub, authService, cfg.WSRateLimit, logger)))

	apiHandlers := NewAPIHandlers(authService, logger)
	assetHandlers := NewAssetHandlers(st, st, hub, logger)
	announcementHandlers := NewAnnouncementHandlers(st, hub, logger)
	publicationHandlers := NewPublicationHandlers(st, hub, logger)
	grievanceHandlers := NewGrievanceHandlers(st, hub, logger)
	keyMomentHandlers := NewKeyMomentHandlers(st, hub, logger)

	api := router.Group("/api")
	{
		api.POST("/auth/register", apiHandlers.Register)
		api.POST("/auth/login", apiHandlers.Login)

		authed := api.Group("")
		authed.Use(AuthMiddleware(authService, logger))
		{
			authed.GET("/assets/mine", assetHandlers.ListMyAssets)
			authed.GET("/announcements", announcementHandlers.ListAnnouncements)
			authed.GET("/publications", publicationHandlers.ListPublications)
			authed.GET("/key-moments", keyMomentHandlers.ListKeyMoments)
			authed.POST("/grievances", grievanceHandlers.SubmitGrievance)

			admin := authed.Group("")
			admin.Use(RequireAdmin())
			{
				admin.GET("/assets", assetHandlers.ListAssets)
				admin.POST("/assets", assetHandlers.CreateAsset)
				admin.PUT("/assets/:id/assign", assetHandlers.AssignAsset)
				admin.DELETE("/assets/:id", assetHandlers.DeleteAsset)

				admin.POST("/announcements", announcementHandlers.CreateAnnouncement)
				admin.DELETE("/announcements/:id", announcementHandlers.DeleteAnnouncement)

				admin.POST("/publications", publicationHandlers.CreatePublication)
				admin.DELETE("/publications/:id", publicationHandlers.DeletePublication)

				admin.GET("/grievances", grievanceHandlers.ListGrievances)
				admin.PUT("/grievances/:id/status", grievanceHandlers.UpdateGrievanceStatus)

				admin.POST("/key-moments", keyMomentHandlers.CreateKeyMoment)
				admin.DELETE("/key-moments/:id", keyMomentHandlers.DeleteKeyMoment)
			}
		}
	}

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
