package schools

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bzinkan/pass-pilot-sub001/app/config"
	"github.com/bzinkan/pass-pilot-sub001/app/database"
	"github.com/bzinkan/pass-pilot-sub001/app/models"
	"github.com/bzinkan/pass-pilot-sub001/app/utils"
)

func ListUsersAPI(c *fiber.Ctx) error {
	schoolID := c.Locals("school_id").(string)

	users, err := database.GetUsersBySchool(config.GetDB(), schoolID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch users"})
	}

	return c.JSON(fiber.Map{
		"users": users,
		"count": len(users),
	})
}

// InviteUserAPI creates a pending teacher account, subject to the
// plan's seat limit. The invitee activates and picks a permanent
// password on first login.
func InviteUserAPI(c *fiber.Ctx) error {
	type InviteRequest struct {
		Email          string   `json:"email"`
		FirstName      string   `json:"first_name"`
		LastName       string   `json:"last_name"`
		IsAdmin        bool     `json:"is_admin"`
		AssignedGrades []string `json:"assigned_grades,omitempty"`
		KioskPIN       *string  `json:"kiosk_pin,omitempty"`
	}

	var req InviteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Email == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Email is required"})
	}

	schoolID := c.Locals("school_id").(string)
	db := config.GetDB()

	school, err := database.GetSchoolByID(db, schoolID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}

	if school.MaxTeachers != models.UnlimitedSeats {
		seats, err := database.CountTeachers(db, schoolID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Database error"})
		}
		if seats >= school.MaxTeachers {
			return c.Status(403).JSON(fiber.Map{"error": "Teacher seat limit reached for this plan"})
		}
	}

	tempPassword := uuid.NewString()[:8]
	hashed, err := utils.HashPassword(tempPassword)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	user := &models.User{
		SchoolID:       &schoolID,
		Email:          req.Email,
		Password:       hashed,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		IsAdmin:        req.IsAdmin,
		Status:         models.UserPending,
		AssignedGrades: req.AssignedGrades,
		KioskPIN:       req.KioskPIN,
	}
	if err := database.CreateUser(db, user); err != nil {
		if err.Error() == "email already registered for this school" {
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create user"})
	}

	if err := mailer.SendInvite(req.Email, school.Name, tempPassword); err != nil {
		logger.Error("invite email failed", zap.String("email", req.Email), zap.Error(err))
	}

	logger.Info("user invited", zap.String("school_id", schoolID), zap.String("user_id", user.ID))
	return c.Status(201).JSON(fiber.Map{"user": user})
}

// SetUserRoleAPI promotes or demotes a member. Demoting the last admin
// is rejected: every school must retain at least one.
func SetUserRoleAPI(c *fiber.Ctx) error {
	type RoleRequest struct {
		IsAdmin bool `json:"is_admin"`
	}

	var req RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	userID := c.Params("id")
	schoolID := c.Locals("school_id").(string)
	db := config.GetDB()

	user, err := database.GetUserByID(db, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	if user.SchoolID == nil || *user.SchoolID != schoolID {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	if user.IsAdmin && !req.IsAdmin {
		admins, err := database.CountAdmins(db, schoolID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Database error"})
		}
		if admins <= 1 {
			return c.Status(400).JSON(fiber.Map{"error": "A school must retain at least one admin"})
		}
	}

	if err := database.SetUserRole(db, userID, req.IsAdmin); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update role"})
	}

	return c.JSON(fiber.Map{"message": "Role updated"})
}

// RemoveUserAPI deletes a member, with the same last-admin guard.
func RemoveUserAPI(c *fiber.Ctx) error {
	userID := c.Params("id")
	schoolID := c.Locals("school_id").(string)
	db := config.GetDB()

	user, err := database.GetUserByID(db, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	if user.SchoolID == nil || *user.SchoolID != schoolID {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	if user.IsAdmin {
		admins, err := database.CountAdmins(db, schoolID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Database error"})
		}
		if admins <= 1 {
			return c.Status(400).JSON(fiber.Map{"error": "A school must retain at least one admin"})
		}
	}

	if err := database.DeleteUser(db, userID); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to remove user"})
	}

	logger.Info("user removed", zap.String("school_id", schoolID), zap.String("user_id", userID))
	return c.JSON(fiber.Map{"message": "User removed"})
}
