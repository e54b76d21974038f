package utils

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Lincoln Elementary":     "lincoln-elementary",
		"  Lincoln Elementary  ": "lincoln-elementary",
		"Lincoln   Elementary":   "lincoln-elementary",
		"St. Mary's School":      "st-mary-s-school",
		"PS_118 (Queens)":        "ps-118-queens",
		"ÉCOLE":                  "cole",
		"---":                    "",
	}
	for input, expect := range cases {
		if got := Slugify(input); got != expect {
			t.Fatalf("Slugify(%q) = %q, expected %q", input, got, expect)
		}
	}
}

func TestSlugCollisions(t *testing.T) {
	// Names that differ only in case, spacing, or punctuation must
	// collide, since the slug is the duplicate-detection key.
	if Slugify("Lincoln Elementary") != Slugify("LINCOLN   elementary!") {
		t.Fatalf("expected equivalent names to produce the same slug")
	}
}

func TestValidateSchoolName(t *testing.T) {
	if _, ok := ValidateSchoolName("A"); ok {
		t.Fatalf("expected single-character name to be rejected")
	}
	if _, ok := ValidateSchoolName(strings.Repeat("x", 101)); ok {
		t.Fatalf("expected 101-character name to be rejected")
	}
	if _, ok := ValidateSchoolName("!!"); ok {
		t.Fatalf("expected name with empty slug to be rejected")
	}

	slug, ok := ValidateSchoolName("Lincoln Elementary")
	if !ok || slug != "lincoln-elementary" {
		t.Fatalf("expected valid name to pass, got %q ok=%v", slug, ok)
	}
	if _, ok := ValidateSchoolName(strings.Repeat("x", 100)); !ok {
		t.Fatalf("expected 100-character name to pass")
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "secret1" {
		t.Fatalf("password must not be stored in plaintext")
	}
	if !CheckPassword("secret1", hash) {
		t.Fatalf("expected matching password to verify")
	}
	if CheckPassword("wrong", hash) {
		t.Fatalf("expected wrong password to fail")
	}
}
