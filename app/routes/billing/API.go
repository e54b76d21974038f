package billing

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"

	"github.com/bzinkan/pass-pilot-sub001/app/config"
	"github.com/bzinkan/pass-pilot-sub001/app/database"
	"github.com/bzinkan/pass-pilot-sub001/app/models"
)

// cancellationGrace is how long a cancelled school keeps working after
// the subscription ends.
const cancellationGrace = 30 * 24 * time.Hour

// StripeWebhookAPI is the authoritative reconciliation path: the client
// redirect can be skipped or tampered with, the signed webhook cannot.
// Handlers treat "already in target state" as success; a missing school
// is logged and the event dropped.
func StripeWebhookAPI(c *fiber.Ctx) error {
	event, err := billing.VerifyWebhookSignature(c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		logger.Warn("webhook signature verification failed", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{"error": "Invalid signature"})
	}

	db := config.GetDB()

	switch event.Type {
	case "checkout.session.completed":
		err = handleCheckoutCompleted(db, event)
	case "customer.subscription.updated":
		err = handleSubscriptionUpdated(db, event)
	case "customer.subscription.deleted":
		err = handleSubscriptionDeleted(db, event)
	case "invoice.payment_failed":
		logger.Warn("invoice payment failed", zap.String("event_id", event.ID))
	default:
		logger.Debug("ignoring webhook event", zap.String("type", string(event.Type)))
	}

	if err != nil {
		logger.Error("webhook handling failed", zap.String("type", string(event.Type)), zap.Error(err))
		return c.Status(500).JSON(fiber.Map{"error": "Webhook handling failed"})
	}
	return c.JSON(fiber.Map{"received": true})
}

func handleCheckoutCompleted(db *sql.DB, event stripe.Event) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return fmt.Errorf("unmarshal checkout session: %w", err)
	}

	schoolID := sess.Metadata["school_id"]
	if schoolID == "" {
		logger.Warn("checkout session without school metadata, skipping", zap.String("session_id", sess.ID))
		return nil
	}
	school, err := database.GetSchoolByID(db, schoolID)
	if err != nil {
		if err == sql.ErrNoRows {
			logger.Warn("checkout completed for unknown school, skipping", zap.String("school_id", schoolID))
			return nil
		}
		return err
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
		return err
	}
	if err := database.ActivateSchoolAdmins(db, school.ID); err != nil {
		return err
	}

	inserted, err := database.InsertPayment(db, &models.Payment{
		SchoolID:        school.ID,
		StripeSessionID: sess.ID,
		AmountTotal:     sess.AmountTotal,
		Currency:        string(sess.Currency),
		Plan:            school.Plan,
	})
	if err != nil {
		return err
	}
	if !inserted {
		logger.Info("duplicate checkout webhook, payment already recorded", zap.String("session_id", sess.ID))
	}

	logger.Info("school activated via webhook",
		zap.String("school_id", school.ID), zap.String("subscription_id", subscriptionID))
	return database.InsertSubscriptionEvent(db, &models.SubscriptionEvent{
		SchoolID:  &school.ID,
		EventType: string(event.Type),
		StripeID:  sess.ID,
		Detail:    "school activated",
	})
}

func handleSubscriptionUpdated(db *sql.DB, event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("unmarshal subscription: %w", err)
	}

	school, err := database.GetSchoolBySubscriptionID(db, sub.ID)
	if err != nil {
		if err == sql.ErrNoRows {
			logger.Warn("subscription update for unknown school, skipping", zap.String("subscription_id", sub.ID))
			return nil
		}
		return err
	}

	if sub.Items == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0].Price == nil {
		logger.Warn("subscription update without price item, skipping", zap.String("subscription_id", sub.ID))
		return nil
	}
	priceID := sub.Items.Data[0].Price.ID
	plan, err := models.PlanByPriceID(priceID)
	if err != nil {
		logger.Warn("subscription update with unmapped price, skipping",
			zap.String("subscription_id", sub.ID), zap.String("price_id", priceID))
		return nil
	}

	if err := database.UpgradeSchoolPlan(db, school.ID, plan, ""); err != nil {
		return err
	}

	logger.Info("school plan remapped via webhook",
		zap.String("school_id", school.ID), zap.String("plan", string(plan.ID)))
	return database.InsertSubscriptionEvent(db, &models.SubscriptionEvent{
		SchoolID:  &school.ID,
		EventType: string(event.Type),
		StripeID:  sub.ID,
		Detail:    "plan remapped to " + string(plan.ID),
	})
}

func handleSubscriptionDeleted(db *sql.DB, event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("unmarshal subscription: %w", err)
	}

	school, err := database.GetSchoolBySubscriptionID(db, sub.ID)
	if err != nil {
		if err == sql.ErrNoRows {
			logger.Warn("subscription delete for unknown school, skipping", zap.String("subscription_id", sub.ID))
			return nil
		}
		return err
	}

	endsAt := time.Now().Add(cancellationGrace)
	if err := database.CancelSchoolSubscription(db, school.ID, endsAt); err != nil {
		return err
	}

	logger.Info("school subscription cancelled",
		zap.String("school_id", school.ID), zap.Time("ends_at", endsAt))
	return database.InsertSubscriptionEvent(db, &models.SubscriptionEvent{
		SchoolID:  &school.ID,
		EventType: string(event.Type),
		StripeID:  sub.ID,
		Detail:    "cancelled, grace until " + endsAt.Format(time.RFC3339),
	})
}

// UpgradeSchoolAPI lets an authenticated admin move their school to a
// new paid tier. The school row keeps its id; only plan, limits and
// optionally the name change. Entitlements live in the session, so the
// client is told to log in again rather than silently refreshing.
func UpgradeSchoolAPI(c *fiber.Ctx) error {
	type UpgradeRequest struct {
		Plan       string `json:"plan"`
		SchoolName string `json:"school_name,omitempty"`
	}

	var req UpgradeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	plan, err := models.PlanByID(models.NormalizePlanID(req.Plan))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Unknown plan"})
	}
	if plan.ID == models.PlanTrial {
		return c.Status(400).JSON(fiber.Map{"error": "Cannot upgrade to trial"})
	}

	schoolID, _ := c.Locals("school_id").(string)
	if schoolID == "" {
		return c.Status(403).JSON(fiber.Map{"error": "No school in session"})
	}

	if err := database.UpgradeSchoolPlan(config.GetDB(), schoolID, plan, req.SchoolName); err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "School not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to upgrade school"})
	}

	logger.Info("school upgraded", zap.String("school_id", schoolID), zap.String("plan", string(plan.ID)))
	return c.JSON(fiber.Map{
		"school_id":      schoolID,
		"plan":           plan.ID,
		"requires_login": true,
	})
}
