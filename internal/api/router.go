package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lodgekeep/inquiries/internal/api/handlers"
	"lodgekeep/inquiries/internal/api/middleware"
	"lodgekeep/inquiries/internal/config"
	"lodgekeep/inquiries/internal/services"
)

// SetupRouter configures and returns the main Gin engine. The submission
// endpoint is public (rate-limited); the review workflow sits behind JWT
// auth with per-action capability checks.
func SetupRouter(cfg *config.Config, inquiryService services.IInquiryService) *gin.Engine {
	r := gin.Default()

	rateLimiter := middleware.NewRateLimiterMiddleware(cfg)
	r.Use(middleware.CORSMiddleware())

	inquiryHandler := handlers.NewRestInquiryHandler(cfg, inquiryService)

	v1 := r.Group("/v1")
	{
		v1.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})

		// Public submission
		v1.POST("/inquiry", rateLimiter.Limit(), inquiryHandler.Submit)

		// Staff review workflow
		staff := v1.Group("/inquiry", middleware.AuthMiddleware(cfg.JwtSecret))
		{
			staff.GET("", middleware.RequireAction(services.ActionList), inquiryHandler.List)
			staff.GET("/:id", middleware.RequireAction(services.ActionView), inquiryHandler.Show)
			staff.PUT("/:id", middleware.RequireAction(services.ActionEdit), inquiryHandler.Update)
			staff.POST("/:id/approve", middleware.RequireAction(services.ActionApprove), inquiryHandler.Approve)
			staff.DELETE("/:id", inquiryHandler.Destroy)
			staff.POST("/:id/restore", inquiryHandler.Restore)
		}
	}

	return r
}
