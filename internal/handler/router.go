package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"coach-booking/internal/domain/user"
	"coach-booking/internal/handler/api"
	reqdto "coach-booking/internal/handler/dto/request"
	"coach-booking/internal/handler/middleware"
	"coach-booking/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *slog.Logger, authHandler *api.AuthHandler, bookingHandler *api.BookingHandler, authMiddleware *middleware.AuthMiddleware) {
	reqdto.RegisterValidators()
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, authHandler, bookingHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.Recovery(logger))
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS, logger))
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, authHandler *api.AuthHandler, bookingHandler *api.BookingHandler, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		users := apiGroup.Group("/users")
		{
			addRoutes(users, []route{
				{Method: http.MethodPost, Path: "/register", Handler: authHandler.Register},
				{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
			})

			authRequired := users.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodGet, Path: "/me", Handler: authHandler.Me},
			})
		}

		seats := apiGroup.Group("/seats")
		seats.Use(authMiddleware.RequireAuth())
		{
			addRoutes(seats, []route{
				{Method: http.MethodGet, Path: "", Handler: bookingHandler.SeatStatus},
				{Method: http.MethodGet, Path: "/all-booked-seats", Handler: bookingHandler.SeatStatus},
				{Method: http.MethodPost, Path: "/bookings", Handler: bookingHandler.CreateBooking},
				{Method: http.MethodPost, Path: "/create-book", Handler: bookingHandler.CreateBooking},
				{Method: http.MethodGet, Path: "/bookings/me", Handler: bookingHandler.MyBookings},
				{
					Method:  http.MethodDelete,
					Path:    "/reset",
					Handler: bookingHandler.Reset,
					Mw:      []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(user.RoleAdmin)},
				},
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
