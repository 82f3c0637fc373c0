// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/api/handlers"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/api/middleware"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/auth"
)

// TokenService issues tokens at login and validates them on every request.
type TokenService interface {
	handlers.TokenIssuer
	middleware.TokenParser
}

type Services struct {
	Dashboard     handlers.DashboardService
	Authenticator auth.Authenticator
	Tokens        TokenService
	AdminToken    string
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.AdminTokenHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.Authenticator != nil && services.Tokens != nil {
			authHandler := handlers.NewAuthHandler(services.Authenticator, services.Tokens)
			apiGroup.POST("/auth/login", authHandler.Login)
		}

		if services.Dashboard != nil && services.Tokens != nil {
			dashboardHandler := handlers.NewDashboardHandler(services.Dashboard)
			dashboardGroup := apiGroup.Group("/dashboard", middleware.Auth(services.Tokens))
			{
				dashboardGroup.GET("", dashboardHandler.GetDashboard)
				dashboardGroup.GET("/filters", dashboardHandler.GetFilterOptions)
				dashboardGroup.GET("/export", dashboardHandler.ExportCSV)
			}

			adminGroup := apiGroup.Group("/admin", middleware.AdminToken(services.AdminToken))
			{
				adminGroup.POST("/reload", dashboardHandler.Reload)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
