package register

import (
	"database/sql"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"

	"github.com/bzinkan/pass-pilot-sub001/app/config"
	"github.com/bzinkan/pass-pilot-sub001/app/database"
	"github.com/bzinkan/pass-pilot-sub001/app/models"
	"github.com/bzinkan/pass-pilot-sub001/app/services"
	"github.com/bzinkan/pass-pilot-sub001/app/utils"
)

// StartPaidRegistration creates the PENDING school and pending admin in
// one transaction, then walks the Stripe side: customer, checkout
// session. If Stripe fails after the rows exist, the school row is
// deleted again (cascade removes the admin) so no orphan tenant is left
// behind.
func StartPaidRegistration(
	db *sql.DB,
	billingClient services.BillingClient,
	log *zap.Logger,
	schoolName, slug string,
	plan models.Plan,
	admin *models.User,
) (*models.School, string, error) {
	school := &models.School{
		Name:        schoolName,
		Slug:        slug,
		Plan:        plan.ID,
		Status:      models.SchoolPending,
		MaxTeachers: plan.MaxTeachers,
		MaxStudents: plan.MaxStudents,
		AdminEmail:  admin.Email,
	}
	admin.Status = models.UserPending

	if err := database.CreateSchoolWithAdmin(db, school, admin); err != nil {
		return nil, "", err
	}

	rollback := func(stage string, cause error) {
		log.Error("paid registration failed, rolling back school",
			zap.String("school_id", school.ID), zap.String("stage", stage), zap.Error(cause))
		if err := database.DeleteSchool(db, school.ID); err != nil {
			log.Error("rollback failed, orphan school left behind",
				zap.String("school_id", school.ID), zap.Error(err))
		}
	}

	customerID, err := billingClient.CreateCustomer(admin.Email, schoolName, school.ID)
	if err != nil {
		rollback("create_customer", err)
		return nil, "", fmt.Errorf("billing customer creation failed: %w", err)
	}
	if err := database.SetSchoolCustomerID(db, school.ID, customerID); err != nil {
		rollback("store_customer", err)
		return nil, "", err
	}

	baseURL := config.AppConfig.BaseURL
	successURL := baseURL + "/api/register/complete?session_id={CHECKOUT_SESSION_ID}"
	cancelURL := baseURL + "/register/cancelled"

	sess, err := billingClient.CreateCheckoutSession(customerID, plan.StripePriceID, school.ID, successURL, cancelURL)
	if err != nil {
		rollback("create_checkout_session", err)
		return nil, "", fmt.Errorf("checkout session creation failed: %w", err)
	}

	log.Info("paid registration started",
		zap.String("school_id", school.ID),
		zap.String("plan", string(plan.ID)),
		zap.String("checkout_session", sess.ID),
	)
	return school, sess.URL, nil
}

// InitRegistrationAPI starts a paid registration. The school stays
// PENDING until the webhook confirms payment; the response carries the
// external checkout URL to redirect to.
func InitRegistrationAPI(c *fiber.Ctx) error {
	type InitRequest struct {
		SchoolName    string `json:"school_name"`
		AdminEmail    string `json:"admin_email"`
		AdminPassword string `json:"admin_password"`
		FirstName     string `json:"first_name"`
		LastName      string `json:"last_name"`
		Plan          string `json:"plan"`
	}

	var req InitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	plan, err := models.PlanByID(models.NormalizePlanID(req.Plan))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Unknown plan"})
	}
	if plan.ID == models.PlanTrial {
		return c.Status(400).JSON(fiber.Map{"error": "Trial registration does not go through checkout"})
	}
	if req.AdminEmail == "" || req.AdminPassword == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Admin email and password are required"})
	}

	slug, ok := utils.ValidateSchoolName(req.SchoolName)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "School name must be 2-100 characters"})
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

	school, checkoutURL, err := StartPaidRegistration(config.GetDB(), billing, logger, req.SchoolName, slug, plan, admin)
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

// RegistrationStatusAPI lets the client poll local state while the
// checkout completes in another tab.
func RegistrationStatusAPI(c *fiber.Ctx) error {
	schoolID := c.Query("school_id")
	if schoolID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "school_id is required"})
	}

	school, err := database.GetSchoolByID(config.GetDB(), schoolID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "School not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(fiber.Map{
		"school_id": school.ID,
		"status":    school.Status,
		"plan":      school.Plan,
		"verified":  school.Verified,
	})
}

// CompleteRegistrationAPI is the checkout success redirect. It re-reads
// the session from the billing side and reports state, applying the
// same idempotent activation the webhook performs. It never issues a
// session cookie: the redirect can be skipped or tampered with, so the
// admin logs in with the password they chose at init.
func CompleteRegistrationAPI(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "session_id is required"})
	}

	sess, err := billing.RetrieveCheckoutSession(sessionID)
	if err != nil {
		logger.Error("failed to retrieve checkout session", zap.String("session_id", sessionID), zap.Error(err))
		return c.Status(500).JSON(fiber.Map{"error": "Failed to verify checkout session"})
	}

	schoolID := sess.Metadata["school_id"]
	if schoolID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Checkout session has no school reference"})
	}

	db := config.GetDB()
	school, err := database.GetSchoolByID(db, schoolID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "School not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}

	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return c.JSON(fiber.Map{
			"school_id":      school.ID,
			"status":         school.Status,
			"payment_status": sess.PaymentStatus,
		})
	}

	subscriptionID := ""
	if sess.Subscription != nil {
		subscriptionID = sess.Subscription.ID
	}
	customerID := ""
	if sess.Customer != nil {
		customerID = sess.Customer.ID
	}

	if err := database.ActivateSchool(db, school.ID, customerID, subscriptionID); err != nil {
		logger.Error("failed to activate school from redirect", zap.String("school_id", school.ID), zap.Error(err))
		return c.Status(500).JSON(fiber.Map{"error": "Failed to activate school"})
	}
	if err := database.ActivateSchoolAdmins(db, school.ID); err != nil {
		logger.Error("failed to activate admins from redirect", zap.String("school_id", school.ID), zap.Error(err))
	}

	return c.JSON(fiber.Map{
		"school_id":      school.ID,
		"status":         models.SchoolActive,
		"requires_login": true,
	})
}
