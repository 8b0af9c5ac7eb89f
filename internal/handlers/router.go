package handlers

import (
	"time"

	"github.com/SAP-F-2025/exam-prep-service/internal/services"
	"github.com/SAP-F-2025/exam-prep-service/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterConfig holds the HTTP settings that come from configuration.
type RouterConfig struct {
	UserIDHeader   string
	DefaultLocale  string
	AllowedOrigins []string
}

type HandlerManager struct {
	statsHandler     *StatsHandler
	dashboardHandler *DashboardHandler
	profileHandler   *ProfileHandler
	config           RouterConfig
	logger           utils.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	config RouterConfig,
	logger utils.Logger,
) *HandlerManager {
	if config.UserIDHeader == "" {
		config.UserIDHeader = "X-User-ID"
	}
	locales := NewLocaleResolver(config.DefaultLocale)

	return &HandlerManager{
		statsHandler:     NewStatsHandler(serviceManager.Stats(), locales, logger),
		dashboardHandler: NewDashboardHandler(serviceManager.Dashboard(), locales, logger),
		profileHandler:   NewProfileHandler(serviceManager.Profile(), locales, logger),
		config:           config,
		logger:           logger,
	}
}

// corsConfig allows the browser app to send the identity header and read the
// download filename.
func (hm *HandlerManager) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Accept-Language", utils.RequestIDHeader, hm.config.UserIDHeader},
		ExposeHeaders:    []string{"Content-Disposition", "X-Record-Count", utils.RequestIDHeader},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}
	if len(hm.config.AllowedOrigins) == 0 || (len(hm.config.AllowedOrigins) == 1 && hm.config.AllowedOrigins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = hm.config.AllowedOrigins
	}
	return cfg
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.Use(cors.New(hm.corsConfig()))
	router.Use(UserIDMiddleware(hm.config.UserIDHeader))
	router.Use(utils.ContextLogger(hm.logger))

	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		statsGroup := v1.Group("/stats")
		{
			statsGroup.GET("/overview", hm.statsHandler.GetOverview)
			statsGroup.GET("/summary", hm.statsHandler.GetSummary)
			statsGroup.GET("/chart", hm.statsHandler.GetChart)
			statsGroup.GET("/weekly", hm.statsHandler.GetWeekly)
			statsGroup.GET("/distribution", hm.statsHandler.GetDistribution)
			statsGroup.GET("/attempts", hm.statsHandler.GetAttempts)
			statsGroup.GET("/export", hm.statsHandler.Export)
		}

		v1.GET("/dashboard", hm.dashboardHandler.GetDashboard)

		profile := v1.Group("/profile")
		{
			profile.GET("", hm.profileHandler.GetProfile)
			profile.PUT("", hm.profileHandler.UpdateProfile)
			profile.PUT("/settings", hm.profileHandler.UpdateSettings)
			profile.GET("/achievements", hm.profileHandler.GetAchievements)
			profile.GET("/export", hm.profileHandler.ExportData)
		}
	}
}
