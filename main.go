package main

import (
	"log"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"

	"github.com/dariomolina/intranet-auth/apperr"
	"github.com/dariomolina/intranet-auth/auth"
	"github.com/dariomolina/intranet-auth/config"
	"github.com/dariomolina/intranet-auth/controllers"
	"github.com/dariomolina/intranet-auth/cron"
	"github.com/dariomolina/intranet-auth/db"
	"github.com/dariomolina/intranet-auth/logger"
	"github.com/dariomolina/intranet-auth/mail"
	"github.com/dariomolina/intranet-auth/middleware"
	"github.com/dariomolina/intranet-auth/ratelimit"
	"github.com/dariomolina/intranet-auth/rbac"
	"github.com/dariomolina/intranet-auth/routes"
	"github.com/dariomolina/intranet-auth/store"
	"github.com/dariomolina/intranet-auth/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration: ", err)
	}

	appLogger := logger.New(cfg.LogLevel, cfg.IsProduction())
	slog.SetDefault(appLogger)

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database: ", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal("failed to run migrations: ", err)
	}
	if cfg.SeedOnStart {
		if err := db.Seed(gdb, appLogger); err != nil {
			log.Fatal("failed to seed database: ", err)
		}
	}

	userStore := store.NewUserStore(gdb)
	roleStore := store.NewRoleStore(gdb)
	permissionStore := store.NewPermissionStore(gdb)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	limiter := ratelimit.NewLoginLimiter(redisClient, appLogger, cfg.LoginMaxAttempts, cfg.LoginWindow)

	var mailer mail.Mailer
	if cfg.IsProduction() {
		mailer = mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass, cfg.FrontendURL)
	} else {
		mailer = mail.NewLogMailer(appLogger, cfg.FrontendURL)
	}

	issuer := token.NewIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authService := auth.NewService(userStore, roleStore, issuer, mailer, appLogger, cfg.ResetTokenTTL)
	engine := rbac.NewEngine(userStore)

	authController := controllers.NewAuthController(authService, limiter)
	usersController := controllers.NewUsersController(userStore)
	rolesController := controllers.NewRolesController(roleStore)
	permissionsController := controllers.NewPermissionsController(permissionStore)

	app := fiber.New(fiber.Config{
		ErrorHandler: apperr.ErrorHandler,
	})
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(appLogger))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	routes.SetupAuthRoutes(app, authController, cfg.JWTSecret)
	routes.SetupUserRoutes(app, usersController, engine, cfg.JWTSecret)
	routes.SetupRBACRoutes(app, rolesController, permissionsController, engine, cfg.JWTSecret)

	scheduler := cron.StartJobs(userStore, appLogger)
	defer scheduler.Stop()

	appLogger.Info("server starting", "addr", cfg.AppAddr, "env", cfg.AppEnv)
	if err := app.Listen(cfg.AppAddr); err != nil {
		log.Fatal("server stopped: ", err)
	}
}
