// Package router assembles the Gin engine from the registered modules.
package router

import (
	"net/http"
	"time"

	apphttp "yuvna_backend/internal/http"
	"yuvna_backend/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// New builds the HTTP engine: middleware chain, health endpoint, and one
// RegisterRoutes call per module.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(corsMiddleware(app))

	engine.GET("/api/health", healthHandler(app))

	limiter := httpkit.NewIPRateLimiter(rate.Every(time.Second), 20, app.Logger)
	authMiddleware := httpkit.AgentAuth(app.Config)

	v1 := engine.Group("/api/v1")
	agent := v1.Group("/agent")
	agent.Use(authMiddleware)

	ctx := &apphttp.RouterContext{
		Engine:         engine,
		Public:         v1,
		Agent:          agent,
		Config:         app.Config,
		AuthMiddleware: authMiddleware,
		RateLimiter:    limiter,
	}

	for _, module := range app.Modules {
		module.RegisterRoutes(ctx)
		app.Logger.Info("registered module routes", "module", module.Name())
	}

	return engine
}

func corsMiddleware(app *apphttp.App) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if app.Config.GetCORSAllowAll() {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = app.Config.GetCORSOrigins()
	}
	return cors.New(cfg)
}

// healthHandler reports process liveness, database reachability, and which
// advisory providers carry credentials.
func healthHandler(app *apphttp.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ok"
		dbStatus := "ok"

		if err := app.Health.Ping(c.Request.Context()); err != nil {
			status = "degraded"
			dbStatus = "unreachable"
			app.Logger.DatabaseError("health ping", err)
		}

		code := http.StatusOK
		if status != "ok" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"database":  dbStatus,
			"providers": app.AIProviders,
			"time":      time.Now().UTC().Format(time.RFC3339),
		})
	}
}
