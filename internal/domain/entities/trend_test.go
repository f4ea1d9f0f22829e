package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGranularity(t *testing.T) {
	g, err := ParseGranularity("Year")
	require.NoError(t, err)
	assert.Equal(t, GranularityYear, g)

	g, err = ParseGranularity(" month ")
	require.NoError(t, err)
	assert.Equal(t, GranularityMonth, g)

	_, err = ParseGranularity("week")
	assert.Error(t, err)
}

func TestBucketLabel(t *testing.T) {
	march := time.Date(2019, time.March, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "2019", GranularityYear.BucketLabel(march))
	assert.Equal(t, "2019-03", GranularityMonth.BucketLabel(march))
}

func TestVisitDate(t *testing.T) {
	v := &VisitRecord{VisitTime: "03/15/2019"}
	date, ok := v.VisitDate()
	require.True(t, ok)
	assert.Equal(t, time.Date(2019, time.March, 15, 0, 0, 0, 0, time.UTC), date)

	for _, input := range []string{"", "13/40/2020", "2019-03-15"} {
		v := &VisitRecord{VisitTime: input}
		_, ok := v.VisitDate()
		assert.False(t, ok, input)
	}
}
