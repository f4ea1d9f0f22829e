package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinvue/visitinsights/internal/domain/entities"
	apperrors "github.com/clinvue/visitinsights/pkg/errors"
)

func TestTrendService_YearlyBucketsAscending(t *testing.T) {
	h := newHarness(t, testVisits(), testNotes())
	h.loginAs(t, "mona", "mgr-pw")

	buckets, skipped, err := h.trends.Aggregate(context.Background(), entities.GranularityYear, "")
	require.NoError(t, err)
	assert.Equal(t, []entities.TrendBucket{
		{Period: "2019", Count: 2},
		{Period: "2021", Count: 2},
	}, buckets)
	// The 2020 gap is not filled with a zero bucket.
	assert.Equal(t, 1, skipped)
}

func TestTrendService_MonthlyBuckets(t *testing.T) {
	h := newHarness(t, testVisits(), testNotes())
	h.loginAs(t, "mona", "mgr-pw")

	buckets, _, err := h.trends.Aggregate(context.Background(), entities.GranularityMonth, "")
	require.NoError(t, err)
	assert.Equal(t, []entities.TrendBucket{
		{Period: "2019-03", Count: 2},
		{Period: "2021-07", Count: 1},
		{Period: "2021-08", Count: 1},
	}, buckets)
}

func TestTrendService_DepartmentFilter(t *testing.T) {
	h := newHarness(t, testVisits(), testNotes())
	h.loginAs(t, "mona", "mgr-pw")
	ctx := context.Background()

	buckets, skipped, err := h.trends.Aggregate(ctx, entities.GranularityYear, "PEDIATRICS")
	require.NoError(t, err)
	assert.Equal(t, []entities.TrendBucket{
		{Period: "2019", Count: 1},
		{Period: "2021", Count: 1},
	}, buckets)
	assert.Zero(t, skipped)

	// A filter matching nothing is an empty series, not an error.
	empty, _, err := h.trends.Aggregate(ctx, entities.GranularityYear, "Radiology")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTrendService_EmptyStoreIsAnError(t *testing.T) {
	h := newHarness(t, nil, nil)
	h.loginAs(t, "mona", "mgr-pw")

	_, _, err := h.trends.Aggregate(context.Background(), entities.GranularityYear, "")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeAggregation))
	assert.Equal(t, apperrors.CodeEmptyDataset, apperrors.CodeOf(err))
}

func TestTrendService_RequiresManager(t *testing.T) {
	h := newHarness(t, testVisits(), testNotes())
	h.loginAs(t, "carl", "clin-pw")

	_, _, err := h.trends.Aggregate(context.Background(), entities.GranularityYear, "")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypePermission))

	events := h.sink.recorded()
	require.Len(t, events, 2)
	assert.Equal(t, entities.EventDenied, events[1].Kind)
}

func TestTrendService_AdminAllowed(t *testing.T) {
	h := newHarness(t, testVisits(), testNotes())
	h.loginAs(t, "ada", "admin-pw")

	_, _, err := h.trends.Aggregate(context.Background(), entities.GranularityYear, "")
	assert.NoError(t, err)
}

func TestTrendService_JournalsDetail(t *testing.T) {
	h := newHarness(t, testVisits(), testNotes())
	h.loginAs(t, "mona", "mgr-pw")

	_, _, err := h.trends.Aggregate(context.Background(), entities.GranularityMonth, "Pediatrics")
	require.NoError(t, err)

	events := h.sink.recorded()
	require.Len(t, events, 2)
	assert.Equal(t, entities.EventAction, events[1].Kind)
	assert.Equal(t, "aggregate_trends granularity=month department=Pediatrics", events[1].Detail)
}
