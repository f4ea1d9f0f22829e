package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/clinvue/visitinsights/internal/domain/entities"
	"github.com/clinvue/visitinsights/internal/domain/policy"
	"github.com/clinvue/visitinsights/internal/infrastructure/observability"
	apperrors "github.com/clinvue/visitinsights/pkg/errors"
)

// TrendService buckets visit records by period and produces ordered count
// series for trend reporting. Buckets are regenerated on every call; nothing
// is cached.
type TrendService struct {
	gate
	data *Dataset
}

// NewTrendService wires the temporal aggregator.
func NewTrendService(data *Dataset, pol *policy.Policy, sessions *SessionService, audit *AuditService, metrics *observability.Metrics) *TrendService {
	return &TrendService{
		gate: gate{sessions: sessions, policy: pol, audit: audit, metrics: metrics},
		data: data,
	}
}

// Aggregate counts visits per year or per month, ascending by period. Periods
// with zero visits are never synthesized. Visits whose timestamp cannot be
// parsed are not silently dropped: they are skipped and tallied in the second
// return value. An empty store is an error; a department filter that matches
// nothing is an empty series.
func (s *TrendService) Aggregate(ctx context.Context, granularity entities.Granularity, department string) ([]entities.TrendBucket, int, error) {
	sess, err := s.authorize(ctx, policy.OpAggregateTrends)
	if err != nil {
		return nil, 0, err
	}

	if s.data.Empty() {
		return nil, 0, apperrors.NewEmptyDatasetError()
	}

	counts := make(map[string]int)
	skipped := 0
	for _, v := range s.data.Visits() {
		if department != "" && !strings.EqualFold(department, v.Department) {
			continue
		}
		date, ok := v.VisitDate()
		if !ok {
			skipped++
			continue
		}
		counts[granularity.BucketLabel(date)]++
	}

	buckets := make([]entities.TrendBucket, 0, len(counts))
	for period, count := range counts {
		buckets = append(buckets, entities.TrendBucket{Period: period, Count: count})
	}
	// Period labels are zero-padded, so lexicographic order is chronological.
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Period < buckets[j].Period })

	detail := fmt.Sprintf("%s granularity=%s", policy.OpAggregateTrends, granularity)
	if department != "" {
		detail += " department=" + department
	}
	if auditErr := s.recordSuccess(ctx, sess, policy.OpAggregateTrends, detail); auditErr != nil {
		return buckets, skipped, auditErr
	}
	return buckets, skipped, nil
}
