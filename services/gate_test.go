package services

import (
	"testing"
	"time"

	"github.com/johnwmail/clipshare/models"
)

func intPtr(v int) *int { return &v }

func TestEvaluateOpenShare(t *testing.T) {
	share := &models.Share{Content: "x"}
	if v := Evaluate(share, time.Now(), ""); v != VerdictAllow {
		t.Fatalf("expected allow, got %v", v)
	}
}

func TestEvaluateExpired(t *testing.T) {
	past := time.Now().Add(-time.Minute)
	share := &models.Share{Content: "x", ExpireAt: &past}
	if v := Evaluate(share, time.Now(), ""); v != VerdictExpired {
		t.Fatalf("expected expired, got %v", v)
	}
}

func TestEvaluateExhausted(t *testing.T) {
	share := &models.Share{Content: "x", MaxViews: intPtr(2), Views: 2}
	if v := Evaluate(share, time.Now(), ""); v != VerdictExhausted {
		t.Fatalf("expected exhausted, got %v", v)
	}
}

func TestEvaluatePassword(t *testing.T) {
	share := &models.Share{Content: "x", Password: "p1"}

	if v := Evaluate(share, time.Now(), ""); v != VerdictPasswordRequired {
		t.Errorf("missing password: expected password_required, got %v", v)
	}
	if v := Evaluate(share, time.Now(), "wrong"); v != VerdictPasswordRejected {
		t.Errorf("wrong password: expected password_rejected, got %v", v)
	}
	if v := Evaluate(share, time.Now(), "p1"); v != VerdictAllow {
		t.Errorf("correct password: expected allow, got %v", v)
	}
}

// Expiry and exhaustion take precedence over the password check: an expired
// password-protected link never prompts for a password.
func TestEvaluateOrder(t *testing.T) {
	past := time.Now().Add(-time.Minute)

	expired := &models.Share{Content: "x", Password: "p1", ExpireAt: &past}
	if v := Evaluate(expired, time.Now(), ""); v != VerdictExpired {
		t.Errorf("expected expired before password_required, got %v", v)
	}

	exhausted := &models.Share{Content: "x", Password: "p1", MaxViews: intPtr(1), Views: 1}
	if v := Evaluate(exhausted, time.Now(), ""); v != VerdictExhausted {
		t.Errorf("expected exhausted before password_required, got %v", v)
	}

	// Expired beats exhausted as well
	both := &models.Share{Content: "x", ExpireAt: &past, MaxViews: intPtr(1), Views: 1}
	if v := Evaluate(both, time.Now(), ""); v != VerdictExpired {
		t.Errorf("expected expired before exhausted, got %v", v)
	}
}

func TestEvaluateDoesNotMutate(t *testing.T) {
	share := &models.Share{Content: "x", Views: 3}
	Evaluate(share, time.Now(), "")
	if share.Views != 3 {
		t.Fatalf("gate must not mutate the record, views=%d", share.Views)
	}
}
