package auth

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bzinkan/pass-pilot-sub001/app/models"
)

func postJSON(t *testing.T, app *fiber.App, path, body string) int {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp.StatusCode
}

func TestRegisterSchoolValidation(t *testing.T) {
	app := fiber.New()
	app.Post("/api/auth/register-school", RegisterSchoolAPI)

	cases := map[string]string{
		"unknown plan":     `{"school_name":"Lincoln Elementary","admin_email":"a@b.edu","admin_password":"secret1","plan":"MEGA"}`,
		"missing email":    `{"school_name":"Lincoln Elementary","admin_password":"secret1","plan":"TRIAL"}`,
		"missing password": `{"school_name":"Lincoln Elementary","admin_email":"a@b.edu","plan":"TRIAL"}`,
		"short name":       `{"school_name":"L","admin_email":"a@b.edu","admin_password":"secret1","plan":"TRIAL"}`,
		"empty-slug name":  `{"school_name":"!!","admin_email":"a@b.edu","admin_password":"secret1","plan":"TRIAL"}`,
	}
	for name, body := range cases {
		if code := postJSON(t, app, "/api/auth/register-school", body); code != 400 {
			t.Fatalf("%s: expected 400, got %d", name, code)
		}
	}
}

func TestLoginValidation(t *testing.T) {
	app := fiber.New()
	app.Post("/api/auth/login", LoginAPI)

	if code := postJSON(t, app, "/api/auth/login", `{"password":"secret1"}`); code != 400 {
		t.Fatalf("expected 400 for missing email, got %d", code)
	}
}

func TestSchoolLoginBlock(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	pending := &models.School{Status: models.SchoolPending}
	if msg := schoolLoginBlock(pending, now); msg == "" {
		t.Fatalf("expected pending school to block login")
	}

	expired := &models.School{Status: models.SchoolExpired}
	if msg := schoolLoginBlock(expired, now); msg == "" {
		t.Fatalf("expected expired school to block login")
	}

	inGrace := &models.School{Status: models.SchoolCancelled, SubscriptionEndsAt: &future}
	if msg := schoolLoginBlock(inGrace, now); msg != "" {
		t.Fatalf("expected cancelled school inside grace to allow login, got %q", msg)
	}

	pastGrace := &models.School{Status: models.SchoolCancelled, SubscriptionEndsAt: &past}
	if msg := schoolLoginBlock(pastGrace, now); msg == "" {
		t.Fatalf("expected cancelled school past grace to block login")
	}

	// Overdue trial still marked ACTIVE: the nightly sweep hasn't run
	// yet, but login must not slip through.
	overdue := &models.School{Status: models.SchoolActive, Plan: models.PlanTrial, TrialEndDate: &past}
	if msg := schoolLoginBlock(overdue, now); msg == "" {
		t.Fatalf("expected overdue trial to block login")
	}

	live := &models.School{Status: models.SchoolActive, Plan: models.PlanTrial, TrialEndDate: &future}
	if msg := schoolLoginBlock(live, now); msg != "" {
		t.Fatalf("expected live trial to allow login, got %q", msg)
	}

	paid := &models.School{Status: models.SchoolActive, Plan: models.PlanSmallSchool}
	if msg := schoolLoginBlock(paid, now); msg != "" {
		t.Fatalf("expected active paid school to allow login, got %q", msg)
	}
}
