package auth

import (
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/bzinkan/pass-pilot-sub001/app/config"
	"github.com/bzinkan/pass-pilot-sub001/app/database"
	"github.com/bzinkan/pass-pilot-sub001/app/models"
	"github.com/bzinkan/pass-pilot-sub001/app/routes/register"
	"github.com/bzinkan/pass-pilot-sub001/app/utils"
)

const trialDays = 14

// RegisterSchoolAPI handles school registration for every tier:
//   - trial: school and admin are created active immediately and a
//     session is issued, no payment gate;
//   - paid, fresh email: delegates to the checkout-driven flow and
//     returns the external checkout URL;
//   - paid, known email: treated as an upgrade of the caller's existing
//     school, which keeps its id and only changes plan/limits/name.
func RegisterSchoolAPI(c *fiber.Ctx) error {
	type RegisterRequest struct {
		SchoolName    string `json:"school_name"`
		AdminEmail    string `json:"admin_email"`
		AdminPassword string `json:"admin_password"`
		FirstName     string `json:"first_name"`
		LastName      string `json:"last_name"`
		Plan          string `json:"plan"`
	}

	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	plan, err := models.PlanByID(models.NormalizePlanID(req.Plan))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Unknown plan"})
	}
	if req.AdminEmail == "" || req.AdminPassword == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Admin email and password are required"})
	}

	slug, ok := utils.ValidateSchoolName(req.SchoolName)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "School name must be 2-100 characters"})
	}

	db := config.GetDB()

	if plan.ID == models.PlanTrial {
		return registerTrial(c, db, req.SchoolName, slug, plan, req.AdminEmail, req.AdminPassword, req.FirstName, req.LastName)
	}

	// A known email on a paid plan signals an upgrade of the existing
	// school rather than a new tenant.
	existing, err := database.GetUsersByEmail(db, req.AdminEmail)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	if admin := firstAdmin(existing); admin != nil && admin.SchoolID != nil {
		if err := database.UpgradeSchoolPlan(db, *admin.SchoolID, plan, req.SchoolName); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to upgrade school"})
		}
		logger.Info("school upgraded via re-registration",
			zap.String("school_id", *admin.SchoolID), zap.String("plan", string(plan.ID)))
		return c.JSON(fiber.Map{
			"upgraded":       true,
			"school_id":      *admin.SchoolID,
			"plan":           plan.ID,
			"requires_login": true,
		})
	}

	hashed, err := utils.HashPassword(req.AdminPassword)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to hash password"})
	}
	admin := &models.User{
		Email:     req.AdminEmail,
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsAdmin:   true,
	}

	school, checkoutURL, err := register.StartPaidRegistration(db, billing, logger, req.SchoolName, slug, plan, admin)
	if err != nil {
		if err == database.ErrDuplicateSlug {
			return c.Status(409).JSON(fiber.Map{"error": "A school with this name already exists"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Registration failed"})
	}

	return c.JSON(fiber.Map{
		"school_id":    school.ID,
		"status":       school.Status,
		"checkout_url": checkoutURL,
	})
}

func registerTrial(c *fiber.Ctx, db *sql.DB, name, slug string, plan models.Plan, email, password, firstName, lastName string) error {
	taken, err := database.HasTrialAccount(db, email)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	if taken {
		return c.Status(409).JSON(fiber.Map{"error": "Email already registered"})
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	now := time.Now()
	trialEnd := now.Add(trialDays * 24 * time.Hour)
	school := &models.School{
		Name:           name,
		Slug:           slug,
		Plan:           plan.ID,
		Status:         models.SchoolActive, // trials are auto-verified and auto-activated
		MaxTeachers:    plan.MaxTeachers,
		MaxStudents:    plan.MaxStudents,
		AdminEmail:     email,
		Verified:       true,
		TrialStartDate: &now,
		TrialEndDate:   &trialEnd,
	}
	admin := &models.User{
		Email:     email,
		Password:  hashed,
		FirstName: firstName,
		LastName:  lastName,
		IsAdmin:   true,
		Status:    models.UserActive,
	}

	if err := database.CreateSchoolWithAdmin(db, school, admin); err != nil {
		if err == database.ErrDuplicateSlug {
			return c.Status(409).JSON(fiber.Map{"error": "A school with this name already exists"})
		}
		logger.Error("trial registration failed", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{"error": "Registration failed"})
	}

	if err := SetSessionCookie(c, admin); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create session"})
	}

	if err := mailer.SendWelcome(email, name); err != nil {
		logger.Error("welcome email failed", zap.String("email", email), zap.Error(err))
	}

	logger.Info("trial school registered", zap.String("school_id", school.ID), zap.String("slug", slug))
	return c.JSON(fiber.Map{
		"school": school,
		"user":   admin,
	})
}

func firstAdmin(users []*models.User) *models.User {
	for _, user := range users {
		if user.IsAdmin {
			return user
		}
	}
	return nil
}

// LoginAPI authenticates a teacher or admin. The same email can exist
// in several schools; without a school_id the response is a picker list
// rather than a session. A pending user's first successful login is
// where they set their permanent password.
func LoginAPI(c *fiber.Ctx) error {
	type LoginRequest struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		SchoolID    string `json:"school_id,omitempty"`
		NewPassword string `json:"new_password,omitempty"`
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Email == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Email is required"})
	}

	db := config.GetDB()
	users, err := database.GetUsersByEmail(db, req.Email)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	if len(users) == 0 {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	var user *models.User
	if req.SchoolID != "" {
		for _, candidate := range users {
			if candidate.SchoolID != nil && *candidate.SchoolID == req.SchoolID {
				user = candidate
				break
			}
		}
		if user == nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid credentials"})
		}
	} else if len(users) > 1 {
		type schoolChoice struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}
		choices := make([]schoolChoice, 0, len(users))
		for _, candidate := range users {
			if candidate.SchoolID == nil {
				continue
			}
			school, err := database.GetSchoolByID(db, *candidate.SchoolID)
			if err != nil {
				continue
			}
			choices = append(choices, schoolChoice{ID: school.ID, Name: school.Name})
		}
		return c.JSON(fiber.Map{"action": "choose_school", "schools": choices})
	} else {
		user = users[0]
	}

	if user.SchoolID != nil {
		school, err := database.GetSchoolByID(db, *user.SchoolID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Database error"})
		}
		if status := schoolLoginBlock(school, time.Now()); status != "" {
			return c.Status(403).JSON(fiber.Map{"error": status})
		}
	}

	if user.Status == models.UserPending {
		if req.NewPassword == "" {
			return c.JSON(fiber.Map{"action": "set_password"})
		}
		// The invite's temporary password (or the password chosen at
		// paid-registration init) gates the permanent one.
		if !utils.CheckPassword(req.Password, user.Password) {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid credentials"})
		}
		hashed, err := utils.HashPassword(req.NewPassword)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to hash password"})
		}
		if err := database.ActivateUser(db, user.ID, hashed); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to activate account"})
		}
		user.Status = models.UserActive
	} else {
		if user.Status == models.UserSuspended {
			return c.Status(403).JSON(fiber.Map{"error": "Account suspended"})
		}
		if !utils.CheckPassword(req.Password, user.Password) {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid credentials"})
		}
	}

	if err := SetSessionCookie(c, user); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create session"})
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user":    user,
	})
}

// schoolLoginBlock returns a user-facing message when the school's
// state forbids login, or "" when login may proceed.
func schoolLoginBlock(school *models.School, now time.Time) string {
	switch school.Status {
	case models.SchoolPending:
		return "Registration is pending payment"
	case models.SchoolExpired:
		return "Trial has expired"
	case models.SchoolCancelled:
		if school.SubscriptionEndsAt != nil && now.Before(*school.SubscriptionEndsAt) {
			return "" // grace window
		}
		return "Subscription has been cancelled"
	}
	// The nightly sweep flips overdue trials to EXPIRED, but a login
	// between expiry and the sweep must not slip through.
	if school.Plan == models.PlanTrial && !school.OnTrial(now) {
		return "Trial has expired"
	}
	return ""
}

func LogoutAPI(c *fiber.Ctx) error {
	ClearSessionCookie(c)
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// MeAPI returns the authenticated user and their school.
func MeAPI(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	db := config.GetDB()
	user, err := database.GetUserByID(db, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(401).JSON(fiber.Map{"error": "Account no longer exists"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}

	var school *models.School
	if user.SchoolID != nil {
		school, err = database.GetSchoolByID(db, *user.SchoolID)
		if err != nil && err != sql.ErrNoRows {
			return c.Status(500).JSON(fiber.Map{"error": "Database error"})
		}
	}

	return c.JSON(fiber.Map{
		"user":   user,
		"school": school,
	})
}
