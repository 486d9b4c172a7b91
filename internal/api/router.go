package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nekogravitycat/car-rental-backend/internal/auth"
	"github.com/nekogravitycat/car-rental-backend/internal/bookedcar"
	bookedCarHttp "github.com/nekogravitycat/car-rental-backend/internal/bookedcar/http"
	"github.com/nekogravitycat/car-rental-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/car-rental-backend/internal/booking/http"
	"github.com/nekogravitycat/car-rental-backend/internal/car"
	carHttp "github.com/nekogravitycat/car-rental-backend/internal/car/http"
	"github.com/nekogravitycat/car-rental-backend/internal/pkg/logger"
	"github.com/nekogravitycat/car-rental-backend/internal/user"
	userHttp "github.com/nekogravitycat/car-rental-backend/internal/user/http"
)

// Config holds the services and settings the router is assembled from.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Logger       *zap.Logger

	UserService      user.Service
	CarService       car.Service
	BookingService   booking.Service
	BookedCarService bookedcar.Service
	JWTManager       *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	if err := RegisterValidators(); err != nil {
		cfg.Logger.Fatal("failed to register validators", zap.Error(err))
	}

	r := gin.New()

	// Global Middleware:
	// - Logger: one structured line per request, tagged with a request id.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(logger.Middleware(cfg.Logger), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	config := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		config.AllowOrigins = splitOrigins(cfg.ProdOrigins)
	} else {
		config.AllowOrigins = []string{
			"http://localhost:3000",
			"http://localhost:8081", // Swagger
		}
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", logger.RequestIDHeader}
	config.ExposeHeaders = []string{logger.RequestIDHeader}
	r.Use(cors.New(config))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// adminMiddleware: Further checks if the authenticated user has the Admin role.
	adminMiddleware := RequireAdmin()

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewUserHandler(cfg.UserService, cfg.JWTManager)
	carHandler := carHttp.NewHandler(cfg.CarService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	bookedCarHandler := bookedCarHttp.NewHandler(cfg.BookedCarService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, adminMiddleware)
		carHttp.RegisterRoutes(v1, carHandler, authMiddleware, adminMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, adminMiddleware)
		bookedCarHttp.RegisterRoutes(v1, bookedCarHandler, authMiddleware, adminMiddleware)
	}

	return r
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
