package register

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestInitRegistrationValidation(t *testing.T) {
	app := fiber.New()
	app.Post("/api/register/init", InitRegistrationAPI)

	cases := map[string]string{
		"unknown plan":   `{"school_name":"Lincoln Elementary","admin_email":"a@b.edu","admin_password":"secret1","plan":"MEGA"}`,
		"trial via init": `{"school_name":"Lincoln Elementary","admin_email":"a@b.edu","admin_password":"secret1","plan":"TRIAL"}`,
		"legacy trial":   `{"school_name":"Lincoln Elementary","admin_email":"a@b.edu","admin_password":"secret1","plan":"free_trial"}`,
		"missing email":  `{"school_name":"Lincoln Elementary","admin_password":"secret1","plan":"SMALL_SCHOOL"}`,
		"short name":     `{"school_name":"L","admin_email":"a@b.edu","admin_password":"secret1","plan":"SMALL_SCHOOL"}`,
	}
	for name, body := range cases {
		req := httptest.NewRequest("POST", "/api/register/init", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: request failed: %v", name, err)
		}
		if resp.StatusCode != 400 {
			t.Fatalf("%s: expected 400, got %d", name, resp.StatusCode)
		}
	}
}

func TestRegistrationStatusRequiresSchoolID(t *testing.T) {
	app := fiber.New()
	app.Get("/api/register/status", RegistrationStatusAPI)

	req := httptest.NewRequest("GET", "/api/register/status", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400 without school_id, got %d", resp.StatusCode)
	}
}

func TestCompleteRegistrationRequiresSessionID(t *testing.T) {
	app := fiber.New()
	app.Get("/api/register/complete", CompleteRegistrationAPI)

	req := httptest.NewRequest("GET", "/api/register/complete", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400 without session_id, got %d", resp.StatusCode)
	}
}
