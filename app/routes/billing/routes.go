package billing

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/bzinkan/pass-pilot-sub001/app/routes/auth"
	"github.com/bzinkan/pass-pilot-sub001/app/services"
)

var (
	billing services.BillingClient
	logger  *zap.Logger
)

func SetupBillingRoutes(app *fiber.App, billingClient services.BillingClient, log *zap.Logger) {
	billing = billingClient
	logger = log

	// Raw-body endpoint, signature-checked; must stay outside auth.
	app.Post("/api/stripe/webhook", StripeWebhookAPI)

	app.Post("/api/schools/upgrade", auth.AuthMiddleware, auth.AdminMiddleware, UpgradeSchoolAPI)
}
