package passes

import (
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/bzinkan/pass-pilot-sub001/app/config"
	"github.com/bzinkan/pass-pilot-sub001/app/database"
	"github.com/bzinkan/pass-pilot-sub001/app/models"
)

// CreatePassAPI checks a student out. One active pass per student.
func CreatePassAPI(c *fiber.Ctx) error {
	type CreateRequest struct {
		StudentID string `json:"student_id"`
		PassType  string `json:"pass_type,omitempty"`
	}

	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.StudentID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "student_id is required"})
	}

	schoolID := c.Locals("school_id").(string)
	teacherID := c.Locals("user_id").(string)
	db := config.GetDB()

	student, err := database.GetStudentByID(db, req.StudentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Student not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	if student.SchoolID != schoolID {
		return c.Status(404).JSON(fiber.Map{"error": "Student not found"})
	}

	passType := req.PassType
	if passType == "" {
		passType = "general"
	}

	pass := &models.Pass{
		SchoolID:     schoolID,
		StudentID:    req.StudentID,
		TeacherID:    teacherID,
		PassType:     passType,
		Status:       models.PassOut,
		CheckoutTime: time.Now(),
	}
	if err := database.CreatePass(db, pass); err != nil {
		if err.Error() == "student already has an active pass" {
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create pass"})
	}

	return c.Status(201).JSON(fiber.Map{"pass": pass})
}

// ReturnPassAPI marks a pass returned. Duration is computed here and
// only here; a second return is a 409.
func ReturnPassAPI(c *fiber.Ctx) error {
	passID := c.Params("id")
	schoolID := c.Locals("school_id").(string)
	db := config.GetDB()

	existing, err := database.GetPassByID(db, passID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Pass not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	if existing.SchoolID != schoolID {
		return c.Status(404).JSON(fiber.Map{"error": "Pass not found"})
	}

	pass, err := database.ReturnPass(db, passID, time.Now())
	if err != nil {
		if err == database.ErrPassAlreadyReturned {
			return c.Status(409).JSON(fiber.Map{"error": "Pass already returned"})
		}
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Pass not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to return pass"})
	}

	return c.JSON(fiber.Map{"pass": pass})
}

func ListActivePassesAPI(c *fiber.Ctx) error {
	schoolID := c.Locals("school_id").(string)

	passes, err := database.GetActivePasses(config.GetDB(), schoolID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch passes"})
	}

	return c.JSON(fiber.Map{
		"passes": passes,
		"count":  len(passes),
	})
}

func ListPassesAPI(c *fiber.Ctx) error {
	schoolID := c.Locals("school_id").(string)
	limit := c.QueryInt("limit", 100)

	passes, err := database.GetPassHistory(config.GetDB(), schoolID, limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch passes"})
	}

	return c.JSON(fiber.Map{
		"passes": passes,
		"count":  len(passes),
	})
}

// ResetDailyAPI is the manual "reset now" trigger for the caller's own
// school. Passes in other schools are untouched.
func ResetDailyAPI(c *fiber.Ctx) error {
	schoolID := c.Locals("school_id").(string)

	count, err := scheduler.ResetSchool(schoolID)
	if err != nil {
		logger.Error("manual reset failed", zap.String("school_id", schoolID), zap.Error(err))
		return c.Status(500).JSON(fiber.Map{"error": "Reset failed"})
	}

	return c.JSON(fiber.Map{
		"message":         "Daily reset completed",
		"passes_returned": count,
	})
}

// ResetStatusAPI reports when the next automatic reset runs.
func ResetStatusAPI(c *fiber.Ctx) error {
	nextRun, remaining := scheduler.Status()

	return c.JSON(fiber.Map{
		"next_run":          nextRun,
		"hours_remaining":   int(remaining.Hours()),
		"minutes_remaining": int(remaining.Minutes()) % 60,
	})
}
