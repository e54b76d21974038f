package schools

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bzinkan/pass-pilot-sub001/app/config"
	"github.com/bzinkan/pass-pilot-sub001/app/database"
	"github.com/bzinkan/pass-pilot-sub001/app/models"
)

func ListGradesAPI(c *fiber.Ctx) error {
	schoolID := c.Locals("school_id").(string)

	grades, err := database.GetGradesBySchool(config.GetDB(), schoolID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch grades"})
	}

	return c.JSON(fiber.Map{
		"grades": grades,
		"count":  len(grades),
	})
}

func CreateGradeAPI(c *fiber.Ctx) error {
	type GradeRequest struct {
		Name string `json:"name"`
	}

	var req GradeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Grade name is required"})
	}

	schoolID := c.Locals("school_id").(string)
	grade := &models.Grade{SchoolID: schoolID, Name: req.Name}
	if err := database.CreateGrade(config.GetDB(), grade); err != nil {
		if err.Error() == "grade already exists" {
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create grade"})
	}

	return c.Status(201).JSON(fiber.Map{"grade": grade})
}

func ListStudentsAPI(c *fiber.Ctx) error {
	schoolID := c.Locals("school_id").(string)

	students, err := database.GetStudentsBySchool(config.GetDB(), schoolID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch students"})
	}

	return c.JSON(fiber.Map{
		"students": students,
		"count":    len(students),
	})
}

// CreateStudentAPI adds one roster entry, subject to the plan's student
// seat limit.
func CreateStudentAPI(c *fiber.Ctx) error {
	type StudentRequest struct {
		FirstName string  `json:"first_name"`
		LastName  string  `json:"last_name"`
		GradeID   *string `json:"grade_id,omitempty"`
		StudentNo *string `json:"student_no,omitempty"`
	}

	var req StudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.FirstName == "" || req.LastName == "" {
		return c.Status(400).JSON(fiber.Map{"error": "First and last name are required"})
	}

	schoolID := c.Locals("school_id").(string)
	db := config.GetDB()

	school, err := database.GetSchoolByID(db, schoolID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	if school.MaxStudents != models.UnlimitedSeats {
		count, err := database.CountStudents(db, schoolID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Database error"})
		}
		if count >= school.MaxStudents {
			return c.Status(403).JSON(fiber.Map{"error": "Student limit reached for this plan"})
		}
	}

	student := &models.Student{
		SchoolID:  schoolID,
		GradeID:   req.GradeID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		StudentNo: req.StudentNo,
	}
	if err := database.CreateStudent(db, student); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create student"})
	}

	return c.Status(201).JSON(fiber.Map{"student": student})
}
