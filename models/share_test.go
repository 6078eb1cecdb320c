package models

import (
	"strings"
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func TestEncodeDecodeShare(t *testing.T) {
	expires := time.Now().Add(time.Hour).Truncate(time.Second)
	share := &Share{
		ID:        "note1",
		Content:   "hello",
		MaxViews:  intPtr(5),
		Views:     2,
		ExpireAt:  &expires,
		Password:  "p1",
		CreatedAt: time.Now().Truncate(time.Second),
	}

	raw, err := EncodeShare(share)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := DecodeShare(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.Content != "hello" || decoded.Views != 2 || decoded.Password != "p1" {
		t.Errorf("decoded record mismatch: %+v", decoded)
	}
	if decoded.MaxViews == nil || *decoded.MaxViews != 5 {
		t.Errorf("expected maxViews 5, got %v", decoded.MaxViews)
	}
	if decoded.ExpireAt == nil || !decoded.ExpireAt.Equal(expires) {
		t.Errorf("expected expireAt %v, got %v", expires, decoded.ExpireAt)
	}
}

func TestEncodeOmitsAbsentFields(t *testing.T) {
	share := &Share{ID: "x", Content: "y", CreatedAt: time.Now()}
	raw, err := EncodeShare(share)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	for _, field := range []string{"maxViews", "expireAt", "password"} {
		if strings.Contains(raw, field) {
			t.Errorf("expected %s to be omitted from %s", field, raw)
		}
	}
}

func TestDecodeShareCorrupt(t *testing.T) {
	if _, err := DecodeShare("{not json"); err != ErrCorruptRecord {
		t.Fatalf("expected ErrCorruptRecord, got %v", err)
	}
}

func TestDecodeShareNormalizesUnlimited(t *testing.T) {
	// Explicit zero and explicit null both mean unlimited
	for _, raw := range []string{
		`{"content":"x","maxViews":0,"views":1}`,
		`{"content":"x","maxViews":null,"views":1}`,
		`{"content":"x","views":1}`,
	} {
		share, err := DecodeShare(raw)
		if err != nil {
			t.Fatalf("decode %s failed: %v", raw, err)
		}
		if share.MaxViews != nil {
			t.Errorf("expected nil maxViews for %s, got %v", raw, *share.MaxViews)
		}
		if share.IsExhausted() {
			t.Errorf("unlimited share must never be exhausted: %s", raw)
		}
	}
}

func TestIsExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	if (&Share{}).IsExpired(now) {
		t.Error("share without deadline must not expire")
	}
	if !(&Share{ExpireAt: &past}).IsExpired(now) {
		t.Error("share past its deadline must be expired")
	}
	if (&Share{ExpireAt: &future}).IsExpired(now) {
		t.Error("share before its deadline must not be expired")
	}
}

func TestIsExhausted(t *testing.T) {
	if (&Share{Views: 100}).IsExhausted() {
		t.Error("unlimited share must not exhaust")
	}
	if (&Share{MaxViews: intPtr(3), Views: 2}).IsExhausted() {
		t.Error("share below its limit must not be exhausted")
	}
	if !(&Share{MaxViews: intPtr(3), Views: 3}).IsExhausted() {
		t.Error("share at its limit must be exhausted")
	}
	if !(&Share{MaxViews: intPtr(3), Views: 7}).IsExhausted() {
		t.Error("share over its limit must be exhausted")
	}
}

func TestNormalizeMaxViews(t *testing.T) {
	if NormalizeMaxViews(nil) != nil {
		t.Error("nil must stay nil")
	}
	if NormalizeMaxViews(intPtr(0)) != nil {
		t.Error("zero means unlimited")
	}
	if NormalizeMaxViews(intPtr(-1)) != nil {
		t.Error("negative means unlimited")
	}
	if v := NormalizeMaxViews(intPtr(4)); v == nil || *v != 4 {
		t.Errorf("expected 4, got %v", v)
	}
}
