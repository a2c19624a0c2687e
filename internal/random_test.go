package internal

import (
	"testing"
)

func TestNewOTPStaysInRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		otp, err := NewOTP(6)
		if err != nil {
			t.Fatalf("NewOTP failed: %v", err)
		}
		if len(otp) != 6 {
			t.Fatalf("expected 6 digits, got %q", otp)
		}
		// Codes span 100000-999999: never a leading zero.
		if otp[0] < '1' || otp[0] > '9' {
			t.Fatalf("unexpected leading digit in %q", otp)
		}
		for j := 1; j < len(otp); j++ {
			if otp[j] < '0' || otp[j] > '9' {
				t.Fatalf("non-digit in %q", otp)
			}
		}
	}
}

func TestNewOTPRejectsBadDigitCounts(t *testing.T) {
	for _, digits := range []int{0, 5, 11} {
		if _, err := NewOTP(digits); err == nil {
			t.Fatalf("expected error for %d digits", digits)
		}
	}
}

func TestResetTokenRoundTrip(t *testing.T) {
	rid, err := NewResetID()
	if err != nil {
		t.Fatalf("NewResetID failed: %v", err)
	}
	secret, err := NewResetSecret()
	if err != nil {
		t.Fatalf("NewResetSecret failed: %v", err)
	}

	token, err := EncodeResetToken(rid.String(), secret)
	if err != nil {
		t.Fatalf("EncodeResetToken failed: %v", err)
	}

	gotID, gotSecret, err := DecodeResetToken(token)
	if err != nil {
		t.Fatalf("DecodeResetToken failed: %v", err)
	}
	if gotID != rid.String() || gotSecret != secret {
		t.Fatal("decoded token does not match its inputs")
	}
}
