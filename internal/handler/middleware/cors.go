package middleware

import (
	"log/slog"

	"hotel-reservation-engine/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     cfg.AllowHeaders,
		ExposeHeaders:    append(cfg.ExposeHeaders, "X-RateLimit-Limit", "Retry-After"),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	slog.Info("CORS middleware initialized", "origins", cfg.AllowOrigins, "expose", corsCfg.ExposeHeaders)
	return cors.New(corsCfg)
}
