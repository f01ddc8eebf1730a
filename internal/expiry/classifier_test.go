package expiry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func days(n int) *time.Time {
	t := now.Add(time.Duration(n) * 24 * time.Hour)
	return &t
}

func TestClassifyBuckets(t *testing.T) {
	c := NewClassifier(DefaultThresholds())

	tests := []struct {
		name     string
		expiry   *time.Time
		want     Bucket
		wantDays int
	}{
		{name: "expired yesterday", expiry: days(-1), want: BucketExpired, wantDays: -1},
		{name: "long expired", expiry: days(-40), want: BucketExpired, wantDays: -40},
		{name: "expires today", expiry: days(0), want: BucketCritical, wantDays: 0},
		{name: "three days left", expiry: days(3), want: BucketCritical, wantDays: 3},
		{name: "critical boundary", expiry: days(7), want: BucketCritical, wantDays: 7},
		{name: "just past critical", expiry: days(8), want: BucketWarning, wantDays: 8},
		{name: "fifteen days left", expiry: days(15), want: BucketWarning, wantDays: 15},
		{name: "warning boundary", expiry: days(30), want: BucketWarning, wantDays: 30},
		{name: "comfortably valid", expiry: days(60), want: BucketNormal, wantDays: 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.expiry, now)
			assert.Equal(t, tt.want, got.Bucket)
			require.NotNil(t, got.DaysRemaining)
			assert.Equal(t, tt.wantDays, *got.DaysRemaining)
		})
	}
}

func TestClassifyNoExpiryConcept(t *testing.T) {
	c := NewClassifier(DefaultThresholds())
	got := c.Classify(nil, now)
	assert.Equal(t, BucketNotApplicable, got.Bucket)
	assert.Nil(t, got.DaysRemaining)
	assert.Empty(t, got.DaysText)
}

// Partial days floor toward the past: expiring tomorrow morning counts as 0
// whole days, and a document a few hours past expiry is already expired.
func TestClassifyFloorsPartialDays(t *testing.T) {
	c := NewClassifier(DefaultThresholds())

	soon := now.Add(13 * time.Hour)
	got := c.Classify(&soon, now)
	assert.Equal(t, BucketCritical, got.Bucket)
	assert.Equal(t, 0, *got.DaysRemaining)

	justPast := now.Add(-2 * time.Hour)
	got = c.Classify(&justPast, now)
	assert.Equal(t, BucketExpired, got.Bucket)
	assert.Equal(t, -1, *got.DaysRemaining)
}

func TestClassifyIsPure(t *testing.T) {
	c := NewClassifier(DefaultThresholds())
	expiry := days(3)
	first := c.Classify(expiry, now)
	second := c.Classify(expiry, now)
	assert.Equal(t, first, second)
}

func TestCustomThresholds(t *testing.T) {
	c := NewClassifier(Thresholds{CriticalDays: 3, WarningDays: 14})

	assert.Equal(t, BucketCritical, c.Classify(days(3), now).Bucket)
	assert.Equal(t, BucketWarning, c.Classify(days(4), now).Bucket)
	assert.Equal(t, BucketWarning, c.Classify(days(14), now).Bucket)
	assert.Equal(t, BucketNormal, c.Classify(days(15), now).Bucket)
}

func TestInvalidThresholdsFallBackToDefaults(t *testing.T) {
	c := NewClassifier(Thresholds{CriticalDays: 30, WarningDays: 7})
	assert.Equal(t, BucketCritical, c.Classify(days(7), now).Bucket)
	assert.Equal(t, BucketWarning, c.Classify(days(8), now).Bucket)
}

func TestDaysText(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{days: -5, want: "expired 5 days ago"},
		{days: -1, want: "expired 1 day ago"},
		{days: 0, want: "expires today"},
		{days: 1, want: "expires in 1 day"},
		{days: 3, want: "expires in 3 days"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DaysText(tt.days))
	}
}
