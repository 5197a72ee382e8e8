// Package server wires the HTTP handlers into one gin engine.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-menu-service/internal/auth"
	categoryhandler "github.com/fekuna/omnipos-menu-service/internal/category/handler"
	heroimagehandler "github.com/fekuna/omnipos-menu-service/internal/heroimage/handler"
	menuhandler "github.com/fekuna/omnipos-menu-service/internal/menu/handler"
	menuitemhandler "github.com/fekuna/omnipos-menu-service/internal/menuitem/handler"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/healthcheck"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/middleware"
)

type Handlers struct {
	Category  *categoryhandler.CategoryHandler
	MenuItem  *menuitemhandler.ItemHandler
	HeroImage *heroimagehandler.HeroImageHandler
	Menu      *menuhandler.MenuHandler
}

type Options struct {
	CORSOrigins []string
	// Verifier gates every write route. nil leaves them open.
	Verifier auth.TokenVerifier
	// DB backs GET /health. nil reports healthy without checking.
	DB healthcheck.Pinger
}

func NewRouter(h Handlers, opts Options, log logger.ZapLogger) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
		cors.New(corsConfig(opts.CORSOrigins)),
	)

	if opts.Verifier == nil {
		log.Warn("auth verifier not configured, write endpoints are open")
	}

	r.GET("/health", healthHandler(opts.DB, log))

	public := r.Group("/")
	admin := r.Group("/", auth.RequireUser(opts.Verifier))

	h.Category.Register(public, admin)
	h.MenuItem.Register(public, admin)
	h.HeroImage.Register(public, admin)
	h.Menu.Register(public)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func healthHandler(db healthcheck.Pinger, log logger.ZapLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				log.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
	}
}
