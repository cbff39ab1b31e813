// Package routes builds the fiber application: global middleware, the
// service graph and the API route table.
package routes

import (
	"errors"
	"strings"
	"time"

	"topup/internal/config"
	"topup/internal/events"
	"topup/internal/handlers"
	"topup/internal/middleware"
	"topup/internal/models"
	"topup/internal/repositories"
	"topup/internal/services/auth"
	"topup/internal/services/payment"
	"topup/internal/services/recharge"
	"topup/internal/services/user"
	"topup/internal/services/wallet"
	"topup/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"
)

// Deps are the long-lived resources the API is built on.
type Deps struct {
	Config    config.Config
	Log       *logrus.Logger
	Store     repositories.Store
	Cache     repositories.CacheRepository
	Publisher events.Publisher
	// AuthRateLimit is the per-IP request budget per minute for register
	// and login. Zero means 5.
	AuthRateLimit int
}

// NewApp creates the fiber application with global middleware applied.
func NewApp(cfg config.Config, log *logrus.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "topup",
		DisableStartupMessage: cfg.IsProduction(),
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return utils.Message(c, fe.Code, fe.Message)
			}
			log.WithError(err).WithField("path", c.Path()).Error("unhandled error")
			return utils.InternalError(c)
		},
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		Output: log.Out,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.CORSOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	return app
}

// NewGateways builds the payment registry for every supported method.
func NewGateways(cfg config.Config, walletService wallet.Service, log *logrus.Logger) *payment.Registry {
	return payment.NewRegistry(
		payment.NewWalletGateway(walletService),
		payment.NewCardGateway(payment.CardConfig{
			SecretKey: cfg.StripeSecretKey,
			APIURL:    cfg.StripeAPIURL,
			Currency:  cfg.Currency,
		}, log),
		payment.NewUPIGateway(),
	)
}

// Setup wires services and handlers and registers every route on app.
func Setup(app *fiber.App, deps Deps) {
	cfg, log := deps.Config, deps.Log

	authService := auth.NewService(
		deps.Store.Users(),
		deps.Cache,
		utils.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL),
		auth.Config{InitialBalance: cfg.InitialBalance, UserCacheTTL: cfg.UserCacheTTL},
		log,
	)
	walletService := wallet.NewService(
		deps.Store,
		deps.Cache,
		deps.Publisher,
		wallet.Config{MaxTransactionAmount: cfg.MaxTransactionAmount},
		log,
	)
	gateways := NewGateways(cfg, walletService, log)
	rechargeService := recharge.NewService(walletService, gateways, log)
	userService := user.NewService(deps.Store.Users(), deps.Cache, log)

	healthHandler := handlers.NewHealthHandler(deps.Store, deps.Cache, log)
	authHandler := handlers.NewAuthHandler(authService, userService, log)
	walletHandler := handlers.NewWalletHandler(walletService, log)
	rechargeHandler := handlers.NewRechargeHandler(rechargeService, log)
	userHandler := handlers.NewUserHandler(userService, log)
	adminHandler := handlers.NewAdminHandler(userService, walletService, log)

	authMiddleware := middleware.NewAuthMiddleware(authService, log)
	idempotent := middleware.Idempotency(deps.Cache, cfg.IdempotencyTTL, log)

	rateLimit := deps.AuthRateLimit
	if rateLimit <= 0 {
		rateLimit = 5
	}
	authLimiter := limiter.New(limiter.Config{
		Max:        rateLimit,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return utils.Message(c, fiber.StatusTooManyRequests, "Too many requests, please try again later")
		},
	})

	app.Get("/health", healthHandler.Check)

	api := app.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", authLimiter, authHandler.Register)
	authRoutes.Post("/login", authLimiter, authHandler.Login)
	authRoutes.Get("/me", authMiddleware.Handler, authHandler.Me)
	authRoutes.Put("/password", authMiddleware.Handler, authHandler.ChangePassword)

	walletRoutes := api.Group("/wallet", authMiddleware.Handler)
	walletRoutes.Get("/balance", walletHandler.Balance)
	walletRoutes.Post("/add", idempotent, walletHandler.AddMoney)
	walletRoutes.Get("/all-transactions", walletHandler.Transactions)

	rechargeRoutes := api.Group("/recharge", authMiddleware.Handler)
	rechargeRoutes.Post("/process", idempotent, rechargeHandler.Process)
	rechargeRoutes.Get("/history", rechargeHandler.History)

	userRoutes := api.Group("/user", authMiddleware.Handler)
	userRoutes.Get("/profile", userHandler.GetProfile)
	userRoutes.Put("/profile", userHandler.UpdateProfile)
	userRoutes.Get("/favorites", userHandler.GetFavorites)
	userRoutes.Post("/favorites", userHandler.AddFavorite)
	userRoutes.Delete("/favorites/:number", userHandler.RemoveFavorite)

	adminRoutes := api.Group("/admin", authMiddleware.Handler, middleware.RequireRole(models.RoleAdmin))
	adminRoutes.Get("/users", adminHandler.ListUsers)
	adminRoutes.Get("/transactions", adminHandler.ListTransactions)

	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFound(c, "Route not found")
	})

	log.WithField("payment_methods", gateways.Methods()).Info("routes registered")
}
