package main

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"

	"github.com/bzinkan/pass-pilot-sub001/app/config"
	"github.com/bzinkan/pass-pilot-sub001/app/database"
	"github.com/bzinkan/pass-pilot-sub001/app/routes/auth"
	"github.com/bzinkan/pass-pilot-sub001/app/routes/billing"
	"github.com/bzinkan/pass-pilot-sub001/app/routes/passes"
	"github.com/bzinkan/pass-pilot-sub001/app/routes/register"
	"github.com/bzinkan/pass-pilot-sub001/app/routes/schools"
	"github.com/bzinkan/pass-pilot-sub001/app/services"
)

// apiErrorHandler converts Fiber errors to the JSON error shape every
// handler uses.
func apiErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
		"code":    code,
	})
}

func main() {
	// The nightly reset fires at local midnight, so the process
	// timezone matters. Defaults to the host zone; override with TZ.
	if tz := os.Getenv("TZ"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			log.Printf("Warning: failed to load timezone %s, using host default: %v", tz, err)
		} else {
			time.Local = loc
		}
	}
	log.Printf("Application time zone set to: %s", time.Local.String())

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger := services.NewLogger(cfg.Environment)
	defer logger.Sync()

	if err := cfg.InitDB(); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer cfg.DB.Close()

	if err := database.RunMigrations(cfg.DB); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// External collaborators
	billingClient := services.NewBillingClient(cfg.Stripe)
	mailer := services.NewEmailSender(cfg.SendGrid, logger)

	// Nightly pass reset
	scheduler := services.NewPassResetScheduler(cfg.DB, logger)
	scheduler.Start()
	defer scheduler.Stop()

	app := fiber.New(fiber.Config{
		ErrorHandler: apiErrorHandler,
	})

	app.Use(fiberlogger.New())
	app.Use(cors.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	auth.SetupAuthRoutes(app, billingClient, mailer, logger)
	register.SetupRegisterRoutes(app, billingClient, mailer, logger)
	billing.SetupBillingRoutes(app, billingClient, logger)
	passes.SetupPassesRoutes(app, scheduler, logger)
	schools.SetupSchoolsRoutes(app, mailer, logger)

	// Catch-all for unknown routes (must be last)
	app.Use("*", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not found")
	})

	logger.Info("server starting", zap.String("port", cfg.Port))
	log.Fatal(app.Listen(":" + cfg.Port))
}
