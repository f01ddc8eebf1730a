package expiry

import (
	"time"

	"docgate/internal/document/models"
)

// Stats is the dashboard summary derived from the current document set.
// expires_soon merges the critical and warning buckets; detailed screens keep
// them separate.
type Stats struct {
	Total       int `json:"total"`
	Valid       int `json:"valid"`
	ExpiresSoon int `json:"expires_soon"`
	Expired     int `json:"expired"`
}

// Summarize computes counts for the given document set. Side-effect free and
// recomputed on demand; any caching belongs to the caller, invalidated when a
// document's expiry date or existence changes.
func (c *Classifier) Summarize(docs []*models.Document, now time.Time) Stats {
	stats := Stats{Total: len(docs)}
	for _, doc := range docs {
		switch c.Classify(doc.ExpiryDate, now).Bucket {
		case BucketExpired:
			stats.Expired++
		case BucketCritical, BucketWarning:
			stats.ExpiresSoon++
		}
	}
	stats.Valid = stats.Total - stats.Expired - stats.ExpiresSoon
	return stats
}
