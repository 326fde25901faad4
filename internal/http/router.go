package http

import (
	"time"

	"github.com/adconnect/backend/internal/auth"
	"github.com/adconnect/backend/internal/config"
	"github.com/adconnect/backend/internal/http/handlers"
	"github.com/adconnect/backend/internal/middleware"
	"github.com/adconnect/backend/internal/models"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewApp builds the fiber app with the JSON error handler installed.
func NewApp(cfg *config.Config, log *zap.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      "adconnect",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: middleware.ErrorHandler(log),
	})
}

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	verifier auth.Verifier,
	authHandler *handlers.AuthHandler,
	campaignHandler *handlers.CampaignHandler,
	adRequestHandler *handlers.AdRequestHandler,
	influencerHandler *handlers.InfluencerHandler,
	adminHandler *handlers.AdminHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(rdb, cfg.RateLimitPerMinute, time.Minute))

	// Auth (public)
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)

	// Protected endpoints
	protected := api.Group("", middleware.AuthMiddleware(verifier, log))
	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/me", authHandler.Me)

	sponsor := middleware.RequireRole(models.RoleSponsor)
	influencer := middleware.RequireRole(models.RoleInfluencer)
	admin := middleware.RequireRole(models.RoleAdmin)
	sponsorOrAdmin := middleware.RequireRole(models.RoleSponsor, models.RoleAdmin)

	// Campaigns
	protected.Get("/sponsor/dashboard", sponsor, campaignHandler.SponsorDashboard)
	protected.Post("/campaigns", sponsor, campaignHandler.CreateCampaign)
	protected.Get("/campaigns", campaignHandler.ListCampaigns)
	protected.Get("/campaigns/:id", campaignHandler.GetCampaign)
	protected.Put("/campaigns/:id", sponsorOrAdmin, campaignHandler.UpdateCampaign)
	protected.Delete("/campaigns/:id", sponsorOrAdmin, campaignHandler.DeleteCampaign)

	// Ad requests; /public is registered before /:id
	protected.Get("/ad-requests/public", influencer, adRequestHandler.ListPublicAdRequests)
	protected.Post("/ad-requests", sponsor, adRequestHandler.CreateAdRequest)
	protected.Get("/ad-requests/:id", adRequestHandler.GetAdRequest)
	protected.Put("/ad-requests/:id", sponsorOrAdmin, adRequestHandler.UpdateAdRequest)
	protected.Delete("/ad-requests/:id", sponsorOrAdmin, adRequestHandler.DeleteAdRequest)
	protected.Post("/ad-requests/:id/accept", influencer, adRequestHandler.AcceptAdRequest)
	protected.Post("/ad-requests/:id/reject", influencer, adRequestHandler.RejectAdRequest)
	protected.Post("/ad-requests/:id/negotiate", influencer, adRequestHandler.NegotiateAdRequest)

	// Influencers
	protected.Get("/influencer/dashboard", influencer, adRequestHandler.InfluencerDashboard)
	protected.Get("/influencer/profile", influencer, influencerHandler.GetProfile)
	protected.Put("/influencer/profile", influencer, influencerHandler.UpdateProfile)
	protected.Get("/influencers", sponsorOrAdmin, influencerHandler.ListInfluencers)
	protected.Get("/influencers/:id", sponsorOrAdmin, influencerHandler.GetInfluencer)

	// Admin
	protected.Get("/admin/dashboard", admin, adminHandler.Dashboard)
	protected.Post("/admin/users/:id/flag", admin, adminHandler.FlagUser)
	protected.Post("/admin/campaigns/:id/flag", admin, adminHandler.FlagCampaign)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
