package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentmarket/internal/pkg/apperr"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate("date", s)
	require.NoError(t, err)
	return d
}

func TestComputeCost(t *testing.T) {
	d := date(t, "2024-05-01")

	tests := []struct {
		name  string
		price float64
		start time.Time
		end   time.Time
		want  Quote
	}{
		{"same day charges one day", 100, d, d, Quote{Days: 1, TotalCost: 100}},
		{"three days", 100, d, d.AddDate(0, 0, 3), Quote{Days: 3, TotalCost: 300}},
		{"partial day rounds up", 20, d, d.Add(25 * time.Hour), Quote{Days: 2, TotalCost: 40}},
		{"under a day", 20, d, d.Add(2 * time.Hour), Quote{Days: 1, TotalCost: 20}},
		{"cents", 19.99, d, d.AddDate(0, 0, 3), Quote{Days: 3, TotalCost: 59.97}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeCost(tt.price, tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeCost_Rejects(t *testing.T) {
	d := date(t, "2024-05-10")

	_, err := ComputeCost(100, d, d.AddDate(0, 0, -1))
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "endDate", ve.Field)

	_, err = ComputeCost(0, d, d)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "price", ve.Field)

	_, err = ComputeCost(10, time.Time{}, d)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "startDate", ve.Field)
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("startDate", "2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseDate("startDate", "2024-02-29T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, got.Hour())

	_, err = ParseDate("endDate", "29/02/2024")
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "endDate", ve.Field)

	_, err = ParseDate("endDate", " ")
	assert.True(t, apperr.IsValidation(err))
}
