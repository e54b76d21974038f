package auth

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/bzinkan/pass-pilot-sub001/app/services"
)

var (
	billing services.BillingClient
	mailer  services.EmailSender
	logger  *zap.Logger
)

func SetupAuthRoutes(app *fiber.App, billingClient services.BillingClient, emailSender services.EmailSender, log *zap.Logger) {
	billing = billingClient
	mailer = emailSender
	logger = log

	api := app.Group("/api/auth")

	// Public routes
	api.Post("/register-school", RegisterSchoolAPI)
	api.Post("/login", LoginAPI)
	api.Post("/logout", LogoutAPI)

	// Protected routes
	api.Get("/me", AuthMiddleware, MeAPI)
}
