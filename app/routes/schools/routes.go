package schools

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/bzinkan/pass-pilot-sub001/app/routes/auth"
	"github.com/bzinkan/pass-pilot-sub001/app/services"
)

var (
	mailer services.EmailSender
	logger *zap.Logger
)

func SetupSchoolsRoutes(app *fiber.App, emailSender services.EmailSender, log *zap.Logger) {
	mailer = emailSender
	logger = log

	school := app.Group("/api/schools", auth.AuthMiddleware)
	school.Get("/me", GetSchoolAPI)
	school.Delete("/me", auth.AdminMiddleware, DeleteSchoolAPI)

	users := app.Group("/api/users", auth.AuthMiddleware)
	users.Get("/", ListUsersAPI)
	users.Post("/invite", auth.AdminMiddleware, InviteUserAPI)
	users.Patch("/:id/role", auth.AdminMiddleware, SetUserRoleAPI)
	users.Delete("/:id", auth.AdminMiddleware, RemoveUserAPI)

	grades := app.Group("/api/grades", auth.AuthMiddleware)
	grades.Get("/", ListGradesAPI)
	grades.Post("/", auth.AdminMiddleware, CreateGradeAPI)

	students := app.Group("/api/students", auth.AuthMiddleware)
	students.Get("/", ListStudentsAPI)
	students.Post("/", CreateStudentAPI)
}
