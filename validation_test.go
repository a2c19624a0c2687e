package authkit

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeEmail(t *testing.T) {
	cases := map[string]string{
		"Alice@Example.com":  "alice@example.com",
		"  a@x.com  ":        "a@x.com",
		"\tUPPER@X.COM\n":    "upper@x.com",
		"already@lower.case": "already@lower.case",
	}
	for in, want := range cases {
		if got := NormalizeEmail(in); got != want {
			t.Fatalf("NormalizeEmail(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"a@x.com",
		"first.last@example.org",
		"user+tag@sub.example.com",
	}
	for _, email := range valid {
		if err := ValidateEmail(email); err != nil {
			t.Fatalf("ValidateEmail(%q) = %v, want nil", email, err)
		}
	}

	invalid := []string{
		"",
		"not-an-email",
		"a b@x.com",
		"Alice <a@x.com>", // display names are not bare addresses
		"@x.com",
		strings.Repeat("a", 250) + "@x.com",
	}
	for _, email := range invalid {
		if err := ValidateEmail(email); !errors.Is(err, ErrEmailInvalid) {
			t.Fatalf("ValidateEmail(%q) = %v, want ErrEmailInvalid", email, err)
		}
	}
}

func TestValidateName(t *testing.T) {
	for _, name := range []string{"Alice", "  Bob  ", "名前"} {
		if err := ValidateName(name); err != nil {
			t.Fatalf("ValidateName(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{"", "   ", "\t\n", strings.Repeat("n", 129)}
	for _, name := range invalid {
		if err := ValidateName(name); !errors.Is(err, ErrNameInvalid) {
			t.Fatalf("ValidateName(%q) = %v, want ErrNameInvalid", name, err)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	valid := []string{
		"Passw0rd!",
		"Aa1!aaaa",
		"Sup3r$ecretPhrase",
	}
	for _, pw := range valid {
		if err := ValidatePassword(pw); err != nil {
			t.Fatalf("ValidatePassword(%q) = %v, want nil", pw, err)
		}
	}

	invalid := []string{
		"Aa1!aaa",                         // 7 chars
		"passw0rd!",                       // no upper
		"PASSW0RD!",                       // no lower
		"Password!",                       // no digit
		"Passw0rdd",                       // no symbol
		"Aa1!" + strings.Repeat("a", 253), // over length cap
	}
	for _, pw := range invalid {
		if err := ValidatePassword(pw); !errors.Is(err, ErrPasswordPolicy) {
			t.Fatalf("ValidatePassword(%q) = %v, want ErrPasswordPolicy", pw, err)
		}
	}
}
