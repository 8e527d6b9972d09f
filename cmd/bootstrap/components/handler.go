package components

import (
	"hotel-reservation-engine/internal/handler"
	"hotel-reservation-engine/internal/handler/api"
	"hotel-reservation-engine/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewOwnerHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
