package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RouterConfig carries the HTTP-facing settings.
type RouterConfig struct {
	CORSOrigins []string // empty or "*" allows all origins
	RateLimit   float64  // requests per second per client IP; 0 disables
	Burst       int
}

// SetupRouter creates and configures the Gin router.
func SetupRouter(h *Handler, cfg RouterConfig) *gin.Engine {

	router := gin.Default()

	// Setup CORS middleware.
	corsConfig := cors.DefaultConfig()
	if allowAll(cfg.CORSOrigins) {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	}
	router.Use(cors.New(corsConfig))

	// Health check and metrics are not rate limited.
	router.GET("/health", h.HealthCheck)
	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	// API v1 routes.
	v1 := router.Group("/v1")
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		v1.Use(NewIPRateLimiter(rate.Limit(cfg.RateLimit), burst).Middleware())
	}

	v1.GET("/bodies", h.ListBodies)
	v1.GET("/crossing", h.GetCrossing)

	returns := v1.Group("/returns")
	returns.GET("/nth", h.GetNthReturn)
	returns.GET("/nearest", h.GetNearestReturn)

	v1.GET("/phases/next", h.GetNextPhase)

	return router
}

func allowAll(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
