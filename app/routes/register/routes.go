package register

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

// SetupRegisterRoutes mounts the async checkout-driven registration
// endpoints. All of them are public: the caller has no session yet.
func SetupRegisterRoutes(app *fiber.App, billingClient services.BillingClient, emailSender services.EmailSender, log *zap.Logger) {
	billing = billingClient
	mailer = emailSender
	logger = log

	api := app.Group("/api/register")
	api.Post("/init", InitRegistrationAPI)
	api.Get("/status", RegistrationStatusAPI)
	api.Get("/complete", CompleteRegistrationAPI)
}
