package services

import (
	"time"

	"github.com/johnwmail/clipshare/models"
)

// Verdict is the outcome of evaluating a share record against the current
// time and the password supplied with the request.
type Verdict int

const (
	// VerdictAllow permits content delivery.
	VerdictAllow Verdict = iota
	// VerdictExpired means the deadline has passed.
	VerdictExpired
	// VerdictExhausted means the view limit has been reached.
	VerdictExhausted
	// VerdictPasswordRequired means the record is password protected and no
	// password was supplied.
	VerdictPasswordRequired
	// VerdictPasswordRejected means the supplied password does not match.
	VerdictPasswordRejected
)

// String returns the verdict name for logs and metrics labels.
func (v Verdict) String() string {
	switch v {
	case VerdictAllow:
		return "allow"
	case VerdictExpired:
		return "expired"
	case VerdictExhausted:
		return "exhausted"
	case VerdictPasswordRequired:
		return "password_required"
	case VerdictPasswordRejected:
		return "password_rejected"
	default:
		return "unknown"
	}
}

// Evaluate runs the access gate over a share record. Expiry and exhaustion
// are checked before the password, so an expired password-protected link
// never prompts for a password. The gate is stateless; it never mutates the
// record.
func Evaluate(share *models.Share, now time.Time, suppliedPassword string) Verdict {
	if share.IsExpired(now) {
		return VerdictExpired
	}
	if share.IsExhausted() {
		return VerdictExhausted
	}
	if share.HasPassword() {
		switch suppliedPassword {
		case "":
			return VerdictPasswordRequired
		case share.Password:
			return VerdictAllow
		default:
			return VerdictPasswordRejected
		}
	}
	return VerdictAllow
}
