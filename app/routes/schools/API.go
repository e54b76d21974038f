package schools

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/bzinkan/pass-pilot-sub001/app/config"
	"github.com/bzinkan/pass-pilot-sub001/app/database"
	"github.com/bzinkan/pass-pilot-sub001/app/models"
)

func GetSchoolAPI(c *fiber.Ctx) error {
	schoolID := c.Locals("school_id").(string)

	school, err := database.GetSchoolByID(config.GetDB(), schoolID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "School not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}

	plan, planErr := models.PlanByID(school.Plan)
	if planErr != nil {
		plan = models.Plan{ID: school.Plan}
	}

	return c.JSON(fiber.Map{
		"school": school,
		"plan":   plan,
	})
}

// DeleteSchoolAPI removes the tenant and, via cascade, every row it
// owns. This is the only way pass history is ever destroyed.
func DeleteSchoolAPI(c *fiber.Ctx) error {
	schoolID := c.Locals("school_id").(string)

	if err := database.DeleteSchool(config.GetDB(), schoolID); err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "School not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete school"})
	}

	logger.Info("school deleted", zap.String("school_id", schoolID))
	return c.JSON(fiber.Map{"message": "School deleted"})
}
