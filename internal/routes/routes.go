package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/social-feed/internal/config"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	postHandler *handlers.PostHandler,
	activityHandler *handlers.ActivityHandler,
	adminHandler *handlers.AdminHandler,
	healthHandler *handlers.HealthHandler,
) {
	app.Get("/health", healthHandler.Check)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	api.Use(rateLimit(cfg.RateLimitPerMinute))
	api.Get("/health", healthHandler.Check)

	// Auth, with a stricter limit on the public endpoints
	auth := api.Group("/auth")
	authLimit := rateLimit(cfg.AuthRateLimitPerMinute)
	auth.Post("/signup", authLimit, authHandler.Signup)
	auth.Post("/login", authLimit, authHandler.Login)
	auth.Get("/me", middleware.JWTProtected(cfg), authHandler.Me)

	users := api.Group("/users", middleware.JWTProtected(cfg))
	users.Get("/profile", userHandler.Profile)
	users.Put("/profile", userHandler.UpdateProfile)
	users.Get("/:id", userHandler.GetUser)
	users.Post("/follow/:id", userHandler.Follow)
	users.Delete("/unfollow/:id", userHandler.Unfollow)
	users.Post("/block/:id", userHandler.Block)
	users.Delete("/unblock/:id", userHandler.Unblock)

	posts := api.Group("/posts", middleware.JWTProtected(cfg))
	posts.Post("/", postHandler.Create)
	posts.Get("/", postHandler.List)
	posts.Get("/:id", postHandler.Get)
	posts.Delete("/:id", postHandler.Delete)
	posts.Post("/:id/like", postHandler.Like)
	posts.Delete("/:id/unlike", postHandler.Unlike)

	api.Get("/activities", middleware.JWTProtected(cfg), activityHandler.List)

	// Admin and owner
	admin := api.Group("/admin", middleware.JWTProtected(cfg))
	admin.Delete("/users/:id", middleware.AdminRequired(), adminHandler.DeleteUser)
	admin.Delete("/likes/:id", middleware.AdminRequired(), adminHandler.DeleteLike)
	admin.Post("/promote/:id", middleware.OwnerRequired(), adminHandler.Promote)
	admin.Delete("/demote/:id", middleware.OwnerRequired(), adminHandler.Demote)

	app.Use(handlers.NotFound)
}

// rateLimit allows perMinute requests per IP over a sliding window. Zero
// disables the limit.
func rateLimit(perMinute int) fiber.Handler {
	if perMinute <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:               perMinute,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}
