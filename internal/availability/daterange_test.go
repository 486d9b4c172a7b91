package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("calendar date", func(t *testing.T) {
		got, err := ParseDate("2024-06-03")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("timestamp is truncated to its UTC date", func(t *testing.T) {
		got, err := ParseDate("2024-06-03T23:30:00-02:00")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC), got)
	})

	for _, bad := range []string{"", "tomorrow", "2024-13-01", "2024-02-30", "03/06/2024"} {
		t.Run("rejects "+bad, func(t *testing.T) {
			_, err := ParseDate(bad)
			assert.ErrorIs(t, err, ErrInvalidDate)
		})
	}
}

func TestParseRange(t *testing.T) {
	r, err := ParseRange("2024-06-03", "2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, 7, r.Nights())
	assert.Equal(t, "2024-06-03..2024-06-10", r.String())

	_, err = ParseRange("2024-06-10", "2024-06-03")
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = ParseRange("2024-06-10", "2024-06-10")
	assert.ErrorIs(t, err, ErrInvalidRange, "same-day checkin and checkout is not a valid range")

	_, err = ParseRange("2024-06-10", "soon")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDateRange_ValidateZero(t *testing.T) {
	assert.ErrorIs(t, DateRange{}.Validate(), ErrInvalidRange)
}
