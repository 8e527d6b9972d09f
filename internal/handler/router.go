package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"hotel-reservation-engine/internal/handler/api"
	reqdto "hotel-reservation-engine/internal/handler/dto/request"
	"hotel-reservation-engine/internal/handler/middleware"
	"hotel-reservation-engine/internal/pkg/config"
	"hotel-reservation-engine/internal/pkg/jwt"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

const createBookingScope = "booking:create"

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	logger *slog.Logger,
	bookingHandler *api.BookingHandler,
	ownerHandler *api.OwnerHandler,
	authMiddleware *middleware.AuthMiddleware,
	limiter middleware.RateLimiter,
) error {
	if err := reqdto.RegisterValidators(); err != nil {
		return err
	}
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, bookingHandler, ownerHandler, authMiddleware, limiter)
	return nil
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(logger))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	bookingHandler *api.BookingHandler,
	ownerHandler *api.OwnerHandler,
	authMiddleware *middleware.AuthMiddleware,
	limiter middleware.RateLimiter,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		bookings := apiGroup.Group("/bookings")
		bookings.Use(authMiddleware.OptionalAuth())
		{
			addRoutes(bookings, []route{
				{
					Method:  http.MethodPost,
					Path:    "",
					Handler: bookingHandler.Create,
					Mw:      []gin.HandlerFunc{middleware.RateLimit(limiter, createBookingScope)},
				},
				{Method: http.MethodPost, Path: "/quote", Handler: bookingHandler.Quote},
				{Method: http.MethodGet, Path: "/email/:action/:id", Handler: bookingHandler.EmailAction},
				{Method: http.MethodGet, Path: "/:id", Handler: bookingHandler.Get},
				{Method: http.MethodPost, Path: "/:id/confirm", Handler: bookingHandler.Confirm},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: bookingHandler.Cancel},
			})
		}

		owner := apiGroup.Group("/owner")
		owner.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRole(jwt.RoleOwner, jwt.RoleAdmin))
		{
			addRoutes(owner, []route{
				{Method: http.MethodGet, Path: "/hotels/:hotelId/bookings", Handler: ownerHandler.List},
				{Method: http.MethodPost, Path: "/bookings/:id/confirm", Handler: ownerHandler.Confirm},
				{Method: http.MethodPost, Path: "/bookings/:id/cancel", Handler: ownerHandler.Cancel},
				{Method: http.MethodPost, Path: "/bookings/:id/check-in", Handler: ownerHandler.CheckIn},
				{Method: http.MethodPost, Path: "/bookings/:id/check-out", Handler: ownerHandler.CheckOut},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
