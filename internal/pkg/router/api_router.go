package router

import (
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/storage/redis"

	"github.com/VeluraLiving/Velura/app/controllers"
	"github.com/VeluraLiving/Velura/internal/pkg/cache"
	"github.com/VeluraLiving/Velura/internal/pkg/env"
	"github.com/VeluraLiving/Velura/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		Storage:    newLimiterStorage(),
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Velura API",
		})
	})

	v1 := api.Group("/v1")

	// Stripe calls this endpoint directly; it authenticates via the
	// signature header, not an API key.
	v1.Post("/webhooks/stripe", controllers.HandleStripeWebhook)

	authed := v1.Group("", middleware.APIKeyAuthMiddleware())
	authed.Post("/checkout/sessions", controllers.HandleCreateCheckoutSession)
	authed.Get("/ads", controllers.HandleListMyAds)
	authed.Get("/ads/:uuid", controllers.HandleGetMyAd)
	authed.Post("/ads/:uuid/submit", controllers.HandleSubmitAd)
	authed.Get("/payments", controllers.HandleListMyPayments)
	authed.Get("/payments/:id", controllers.HandleGetMyPayment)

	admin := authed.Group("/admin", middleware.RequireAdminAPI())
	admin.Get("/ads", controllers.HandleAdminListAds)
	admin.Get("/suppliers", controllers.HandleAdminListSuppliers)
	admin.Put("/suppliers/:id/kyc", controllers.HandleAdminUpdateKYC)
	admin.Post("/ads/expire-sweep", controllers.HandleAdminExpireSweep)
	admin.Post("/ads/:id/moderate", controllers.HandleModerateAd)
	admin.Put("/ads/moderate", controllers.HandleBulkModerateAds)
}

// newLimiterStorage backs the rate limiter with the shared Redis instance so
// limits hold across app instances. DB 1 keeps limiter keys away from the
// cache keys in DB 0.
func newLimiterStorage() fiber.Storage {
	host := env.GetEnv("CACHE_HOST", "localhost")
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")

	if cacheClient := cache.GetClient(); cacheClient != nil {
		addr := cacheClient.Options().Addr
		if h, p, err := net.SplitHostPort(addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		if p := cacheClient.Options().Password; p != "" {
			password = p
		}
	}

	return redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: 1,
	})
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
