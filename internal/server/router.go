// Package server wires the HTTP routes of the order intake API.
package server

import (
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "artistic-unity-backend/docs"
	"artistic-unity-backend/internal/handlers"
	"artistic-unity-backend/internal/logging"
	"artistic-unity-backend/internal/middleware"
)

type Deps struct {
	Orders handlers.OrderWorkflow
	Logger *slog.Logger

	// Gatherer backs /metrics. The route is not registered when nil.
	Gatherer prometheus.Gatherer

	// AdminJWTSecret enables GET /api/orders when set.
	AdminJWTSecret     string
	CORSAllowedOrigins []string
	StaticDir          string
}

func NewRouter(deps Deps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(cors.New(corsConfig(deps.CORSAllowedOrigins)))

	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/", handlers.HealthHandler)

	orderHandler := handlers.NewOrderHandler(deps.Orders, logger)
	api := router.Group("/api")
	api.POST("/submit-order", orderHandler.SubmitOrder)
	api.GET("/order/:orderId", orderHandler.GetOrder)
	if deps.AdminJWTSecret != "" {
		api.GET("/orders", middleware.AdminAuth(deps.AdminJWTSecret), orderHandler.ListOrders)
	} else {
		logger.Info("admin order listing disabled, ADMIN_JWT_SECRET not set")
	}

	if deps.StaticDir != "" {
		router.NoRoute(staticFiles(deps.StaticDir))
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader}
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader}
	return cfg
}

// staticFiles serves files below dir for unmatched GET and HEAD requests.
// Directories resolve to their index.html.
func staticFiles(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}

		name := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+c.Request.URL.Path)))
		info, err := os.Stat(name)
		if err == nil && info.IsDir() {
			name = filepath.Join(name, "index.html")
			info, err = os.Stat(name)
		}
		if err != nil || !info.Mode().IsRegular() {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		c.File(name)
	}
}
