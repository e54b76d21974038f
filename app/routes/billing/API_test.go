package billing

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestUpgradeSchoolValidation(t *testing.T) {
	app := fiber.New()
	app.Post("/api/schools/upgrade", UpgradeSchoolAPI)

	cases := map[string]struct {
		body   string
		expect int
	}{
		"unknown plan": {`{"plan":"MEGA"}`, 400},
		"trial target": {`{"plan":"TRIAL"}`, 400},
		"legacy trial": {`{"plan":"free_trial"}`, 400},
		"no session":   {`{"plan":"SMALL_SCHOOL"}`, 403},
	}
	for name, tc := range cases {
		req := httptest.NewRequest("POST", "/api/schools/upgrade", strings.NewReader(tc.body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: request failed: %v", name, err)
		}
		if resp.StatusCode != tc.expect {
			t.Fatalf("%s: expected %d, got %d", name, tc.expect, resp.StatusCode)
		}
	}
}
