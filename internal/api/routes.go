package api

import (
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shopadmin-backend-go/internal/core"
	"shopadmin-backend-go/internal/middleware"
)

// SetupRoutes configures the application routes. Global middleware (request
// IDs, logging, recovery, CORS) is applied to the router in main before this
// function is called.
func SetupRoutes(
	router *gin.Engine,
	logger *zap.Logger,
	authClient *auth.Client,
	settingService core.SettingService,
) {
	authMW := middleware.NewAuthMiddleware(authClient)
	settingHandler := NewSettingHandler(settingService, logger)

	apiV1 := router.Group("/api/v1", authMW.VerifyToken())
	{
		settings := apiV1.Group("/settings")
		{
			settings.GET("", settingHandler.ListSettings)
			settings.POST("", settingHandler.CreateSetting)
			settings.GET("/:key", settingHandler.GetSetting)
			settings.PUT("/:key", settingHandler.UpdateSetting)
			settings.DELETE("/:key", settingHandler.DeleteSetting)
			settings.POST("/:key/test", settingHandler.TestConnection)
		}

		// Masked listing of active third-party integrations for the admin UI.
		apiV1.GET("/integrations/active", settingHandler.ListActiveIntegrations)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	logger.Info("API routes configured", zap.String("base", "/api/v1"))
}
