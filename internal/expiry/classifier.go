// Package expiry derives expiration classifications and summary statistics
// from document expiry dates.
//
// Every screen used to carry its own inconsistent copy of this logic; the
// classifier here is the single shared implementation all call sites consume.
package expiry

import (
	"fmt"
	"time"
)

// Bucket is the derived expiration classification of a document.
type Bucket string

const (
	BucketExpired       Bucket = "expired"
	BucketCritical      Bucket = "critical"
	BucketWarning       Bucket = "warning"
	BucketNormal        Bucket = "normal"
	BucketNotApplicable Bucket = "not_applicable"
)

// Classification is the derived, never-stored expiration state.
// DaysRemaining is nil for documents with no expiration concept.
type Classification struct {
	Bucket        Bucket `json:"bucket"`
	DaysRemaining *int   `json:"days_remaining,omitempty"`
	DaysText      string `json:"days_text,omitempty"`
}

// Thresholds are the bucket boundaries in whole days.
// The defaults are the contract; a deployment overriding them owns the change
// as tested behavior.
type Thresholds struct {
	CriticalDays int
	WarningDays  int
}

// DefaultThresholds returns the standard 7/30-day windows.
func DefaultThresholds() Thresholds {
	return Thresholds{CriticalDays: 7, WarningDays: 30}
}

// Classifier buckets expiry dates relative to a supplied "now".
// The zero-value config falls back to DefaultThresholds.
type Classifier struct {
	thresholds Thresholds
}

func NewClassifier(thresholds Thresholds) *Classifier {
	if thresholds.CriticalDays <= 0 || thresholds.WarningDays <= thresholds.CriticalDays {
		thresholds = DefaultThresholds()
	}
	return &Classifier{thresholds: thresholds}
}

// Classify is a pure function of (expiry, now): identical inputs always yield
// identical output.
//
//	expiry == nil        -> not_applicable
//	days < 0             -> expired
//	0 <= days <= critical-> critical
//	critical < days <= warning -> warning
//	days > warning       -> normal
//
// where days = floor((expiry - now) in whole days).
func (c *Classifier) Classify(expiry *time.Time, now time.Time) Classification {
	if expiry == nil {
		return Classification{Bucket: BucketNotApplicable}
	}
	days := daysRemaining(*expiry, now)
	result := Classification{
		DaysRemaining: &days,
		DaysText:      DaysText(days),
	}
	switch {
	case days < 0:
		result.Bucket = BucketExpired
	case days <= c.thresholds.CriticalDays:
		result.Bucket = BucketCritical
	case days <= c.thresholds.WarningDays:
		result.Bucket = BucketWarning
	default:
		result.Bucket = BucketNormal
	}
	return result
}

// DaysText renders the day count the same way everywhere. Divergent copies of
// this phrase were the main source of inconsistency across the old screens.
func DaysText(days int) string {
	switch {
	case days < 0:
		if days == -1 {
			return "expired 1 day ago"
		}
		return fmt.Sprintf("expired %d days ago", -days)
	case days == 0:
		return "expires today"
	case days == 1:
		return "expires in 1 day"
	default:
		return fmt.Sprintf("expires in %d days", days)
	}
}

// daysRemaining floors the signed difference to whole days, so 2025-01-02T01:00
// against a now of 2025-01-01T12:00 is 0 days, not 1.
func daysRemaining(expiry, now time.Time) int {
	diff := expiry.Sub(now)
	days := int(diff / (24 * time.Hour))
	if diff < 0 && diff%(24*time.Hour) != 0 {
		days--
	}
	return days
}
