package passes

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/bzinkan/pass-pilot-sub001/app/routes/auth"
	"github.com/bzinkan/pass-pilot-sub001/app/services"
)

var (
	scheduler *services.PassResetScheduler
	logger    *zap.Logger
)

func SetupPassesRoutes(app *fiber.App, resetScheduler *services.PassResetScheduler, log *zap.Logger) {
	scheduler = resetScheduler
	logger = log

	api := app.Group("/api/passes")
	api.Use(auth.AuthMiddleware)

	api.Post("/", CreatePassAPI)
	api.Get("/", ListPassesAPI)
	api.Get("/active", ListActivePassesAPI)
	api.Post("/:id/return", ReturnPassAPI)

	api.Post("/reset-daily", auth.AdminMiddleware, ResetDailyAPI)
	api.Get("/reset-status", ResetStatusAPI)
}
