package entities

import (
	"fmt"
	"strings"
	"time"
)

// Granularity selects the bucket width for trend aggregation.
type Granularity string

const (
	GranularityYear  Granularity = "year"
	GranularityMonth Granularity = "month"
)

// ParseGranularity validates a user-supplied granularity name.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(strings.ToLower(strings.TrimSpace(s))) {
	case GranularityYear:
		return GranularityYear, nil
	case GranularityMonth:
		return GranularityMonth, nil
	default:
		return "", fmt.Errorf("unsupported granularity %q, expected year or month", s)
	}
}

// BucketLabel derives the period label for a visit date: "2019" for year
// granularity, "2019-03" for month. Labels sort lexicographically in
// chronological order.
func (g Granularity) BucketLabel(t time.Time) string {
	if g == GranularityMonth {
		return t.Format("2006-01")
	}
	return t.Format("2006")
}

// TrendBucket is one period of the visit-count series. Buckets are produced
// per query and never cached; only periods with at least one visit appear.
type TrendBucket struct {
	Period string `json:"period"`
	Count  int    `json:"count"`
}
