package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/acgeners/amor-saude/handlers"
	"github.com/acgeners/amor-saude/middleware"
	"github.com/acgeners/amor-saude/utils"
)

// RegisterAgendaRoutes sets up the scheduling endpoints.
func RegisterAgendaRoutes(r *gin.Engine, h *handlers.AgendaHandler) {
	api := r.Group("/amor-saude")
	{
		api.Use(middleware.RateLimitMiddleware())
		api.POST("/find_slot", h.FindSlotHandler)
		api.POST("/make_appointment", h.MakeAppointmentHandler)
	}
}

// RegisterPingRoute registers the liveness endpoint the frontend polls.
func RegisterPingRoute(r *gin.Engine) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterHealthRoute registers a health-check endpoint reporting the last
// dependency probe.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, h *handlers.AgendaHandler) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAgendaRoutes(r, h)
	RegisterPingRoute(r)
	RegisterHealthRoute(r)
}
