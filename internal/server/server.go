package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/vishwam-chepuri/matching-app/internal/handler"
	"github.com/vishwam-chepuri/matching-app/internal/middleware"
	"github.com/vishwam-chepuri/matching-app/internal/models"
	"github.com/vishwam-chepuri/matching-app/internal/service"
	"github.com/vishwam-chepuri/matching-app/pkg/storage"
	"go.uber.org/zap"
)

type Config struct {
	FrontendURL   string
	BodyLimitMB   int
	AuthRateLimit int
	// UploadDir is served under UploadPrefix when set.
	UploadDir    string
	UploadPrefix string
}

type Services struct {
	Auth     *service.AuthService
	Users    *service.UserService
	Profiles *service.ProfileService
	Photos   *service.PhotoService
}

// New builds the HTTP app with every route mounted.
func New(cfg Config, svc Services, log *zap.Logger) *fiber.App {
	bodyLimit := cfg.BodyLimitMB
	if bodyLimit <= 0 {
		bodyLimit = 80
	}

	app := fiber.New(fiber.Config{
		AppName:      "matching-app",
		BodyLimit:    bodyLimit << 20,
		ErrorHandler: handler.ErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(corsMiddleware(cfg.FrontendURL))

	if cfg.UploadDir != "" {
		prefix := cfg.UploadPrefix
		if prefix == "" {
			prefix = storage.DefaultLocalPrefix
		}
		app.Static(prefix, cfg.UploadDir)
	}

	authHandler := handler.NewAuthHandler(svc.Auth, log)
	userHandler := handler.NewUserHandler(svc.Users, log)
	profileHandler := handler.NewProfileHandler(svc.Profiles, log)
	photoHandler := handler.NewPhotoHandler(svc.Photos, log)

	app.Get("/health", handler.Health)
	app.Get("/up", handler.Health)

	api := app.Group("/api/v1")
	api.Get("/health", handler.Health)

	// Public routes
	authLimit := authLimiter(cfg.AuthRateLimit)
	api.Post("/register", authLimit, authHandler.Register)
	api.Post("/login", authLimit, authHandler.Login)

	// Protected routes
	authMW := middleware.AuthMiddleware(svc.Auth, log)
	api.Delete("/logout", authMW, authHandler.Logout)
	api.Get("/me", authMW, authHandler.Me)

	users := api.Group("/users", authMW, middleware.AdminOnly())
	users.Get("/", userHandler.List)
	users.Patch("/:id", userHandler.Update)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	profiles := api.Group("/profiles", authMW)
	profiles.Get("/", profileHandler.List)
	profiles.Post("/", profileHandler.Create)
	profiles.Get("/:id", profileHandler.Get)
	profiles.Patch("/:id", profileHandler.Update)
	profiles.Put("/:id", profileHandler.Update)
	profiles.Delete("/:id", profileHandler.Delete)
	profiles.Post("/:id/photos", photoHandler.Upload)
	profiles.Delete("/:id/photos/:photoId", photoHandler.Delete)

	return app
}

func corsMiddleware(frontendURL string) fiber.Handler {
	cfg := cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}
	if frontendURL != "" {
		cfg.AllowOrigins = frontendURL
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

func authLimiter(max int) fiber.Handler {
	if max <= 0 {
		max = 20
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse("Too many requests"))
		},
	})
}
