package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDayBareClock(t *testing.T) {
	tod, err := ParseTimeOfDay("14:00")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 14, Minute: 0}, tod)
	assert.Equal(t, "14:00", tod.String())

	tod, err = ParseTimeOfDay("09:05:30")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 9, Minute: 5}, tod)
}

func TestParseTimeOfDayDateTimeKeepsClockOnly(t *testing.T) {
	cases := []string{
		"2024-03-18T14:00:00Z",
		"2024-03-18T14:00:00",
		"2024-03-18T14:00",
		"2024-03-18 14:00:00",
		"2024-03-18 14:00",
	}
	for _, raw := range cases {
		tod, err := ParseTimeOfDay(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, TimeOfDay{Hour: 14, Minute: 0}, tod, raw)
	}
}

func TestParseTimeOfDayRoundTrip(t *testing.T) {
	bare, err := ParseTimeOfDay("14:00")
	require.NoError(t, err)
	full, err := ParseTimeOfDay("2023-11-02T14:00:00Z")
	require.NoError(t, err)

	assert.Equal(t, bare, full)
	assert.Equal(t, bare.Anchor(), full.Anchor())
	assert.Equal(t, bare.Minutes(), full.Minutes())
}

func TestParseTimeOfDayRejectsMalformedInput(t *testing.T) {
	cases := []string{
		"",
		"noon",
		"14",
		"14:0a",
		"24:00",
		"-1:30",
		"12:60",
		"12:345",
		"12:30:45:59",
		"2024-13-99 99:99",
	}
	for _, raw := range cases {
		_, err := ParseTimeOfDay(raw)
		require.Error(t, err, raw)
		assert.ErrorIs(t, err, ErrInvalidTimeFormat, raw)
	}
}

func TestAnchorUsesReferenceDate(t *testing.T) {
	tod := TimeOfDay{Hour: 8, Minute: 30}
	anchored := tod.Anchor()

	assert.Equal(t, ReferenceDate.Year(), anchored.Year())
	assert.Equal(t, ReferenceDate.Month(), anchored.Month())
	assert.Equal(t, ReferenceDate.Day(), anchored.Day())
	assert.Equal(t, 8, anchored.Hour())
	assert.Equal(t, 30, anchored.Minute())
	assert.Equal(t, tod, FromInstant(anchored))
}

func TestTimeOfDayOrdering(t *testing.T) {
	early := TimeOfDay{Hour: 9, Minute: 0}
	late := TimeOfDay{Hour: 9, Minute: 30}

	assert.True(t, early.Before(late))
	assert.True(t, late.After(early))
	assert.False(t, early.Before(early))
	assert.False(t, early.After(early))
}
