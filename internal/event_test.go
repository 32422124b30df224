package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("meeting")
	require.NoError(t, err)
	assert.Equal(t, CategoryMeeting, c)

	_, err = ParseCategory("Holiday")
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("Coming")
	require.NoError(t, err)
	assert.Equal(t, StatusComing, s)

	_, err = ParseStatus("future")
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestStatusAt(t *testing.T) {
	now := time.Date(2024, 8, 20, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		start, end time.Time
		want       Status
	}{
		{"ended", now.Add(-2 * time.Hour), now.Add(-time.Hour), StatusPast},
		{"ends now", now.Add(-time.Hour), now, StatusPast},
		{"running", now.Add(-time.Hour), now.Add(time.Hour), StatusOngoing},
		{"starts now", now, now.Add(time.Hour), StatusOngoing},
		{"later", now.Add(time.Hour), now.Add(2 * time.Hour), StatusComing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusAt(tt.start, tt.end, now))
		})
	}
}
