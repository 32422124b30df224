package internal

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthWindow(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		ref        time.Time
		start, end time.Time
	}{
		{
			ref:   time.Date(2024, 8, 20, 9, 0, 0, 0, ny),
			start: time.Date(2024, 7, 1, 0, 0, 0, 0, ny),
			end:   time.Date(2024, 9, 30, 23, 59, 59, 0, ny),
		},
		{
			ref:   time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC),
			start: time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC),
		},
		{
			ref:   time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
			start: time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.ref.String(), func(t *testing.T) {
			iv := MonthWindow(tt.ref)
			assert.True(t, tt.start.Equal(iv.Start), "start %s", iv.Start)
			assert.True(t, tt.end.Equal(iv.End), "end %s", iv.End)
			assert.True(t, iv.Contains(tt.ref))
		})
	}
}

func TestInterval_Overlaps(t *testing.T) {
	base := time.Date(2024, 8, 20, 0, 0, 0, 0, time.UTC)
	iv := Interval{Start: base, End: base.Add(24 * time.Hour)}

	assert.True(t, iv.Overlaps(base.Add(-time.Hour), base))
	assert.True(t, iv.Overlaps(base.Add(time.Hour), base.Add(2*time.Hour)))
	assert.True(t, iv.Overlaps(base.Add(-time.Hour), base.Add(48*time.Hour)))
	assert.False(t, iv.Overlaps(base.Add(-2*time.Hour), base.Add(-time.Hour)))
	assert.False(t, iv.Overlaps(base.Add(25*time.Hour), base.Add(26*time.Hour)))
	assert.False(t, Interval{}.Contains(base))
	assert.True(t, Interval{}.IsZero())
}
