package timeutil

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ScheduleSync/internal/model"
)

func TestNormalize_AbsoluteInstants(t *testing.T) {
	n := MustNew()

	cases := []struct {
		name string
		raw  string
		zone string
		want string
	}{
		{"offset during DST", "2024-05-01T19:05:00-04:00", "", "2024-05-01 19:05 EST"},
		{"UTC Z from stats api", "2024-05-01T23:05:00Z", "", "2024-05-01 19:05 EST"},
		{"UTC past midnight rolls back a day", "2024-05-02T01:40:00Z", "", "2024-05-01 21:40 EST"},
		{"winter offset", "2024-01-15T13:00:00-05:00", "", "2024-01-15 13:00 EST"},
		{"no seconds", "2024-05-01T16:10-07:00", "", "2024-05-01 19:10 EST"},
		{"fractional seconds", "2024-05-01T23:05:00.000Z", "", "2024-05-01 19:05 EST"},
		{"offset wins over declared zone", "2024-05-01T19:05:00-04:00", "America/Los_Angeles", "2024-05-01 19:05 EST"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := n.Normalize(tc.raw, tc.zone)
			require.NoError(t, err)
			assert.Equal(t, tc.want, n.Format(got))
		})
	}
}

func TestNormalize_LocalWithSourceZone(t *testing.T) {
	n := MustNew()

	got, err := n.Normalize("2024-05-01 18:10", "America/Chicago")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01 19:10 EST", n.Format(got))

	got, err = n.Normalize("2024-05-01T23:05:00", "UTC")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01 19:05 EST", n.Format(got))

	got, err = n.Normalize("2024-05-01T20:05:00", "-03:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01 19:05 EST", n.Format(got))
}

func TestNormalize_Malformed(t *testing.T) {
	n := MustNew()

	cases := []struct {
		name string
		raw  string
		zone string
	}{
		{"empty", "", ""},
		{"garbage", "tomorrow evening", ""},
		{"local without zone", "2024-05-01T19:05:00", ""},
		{"unknown zone", "2024-05-01T19:05:00", "Mars/Olympus"},
		{"bad offset", "2024-05-01T19:05:00", "+99:99:99"},
		{"ambiguous fall back hour", "2024-11-03 01:30", "America/New_York"},
		{"nonexistent spring forward", "2024-03-10 02:30", "America/New_York"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := n.Normalize(tc.raw, tc.zone)
			require.Error(t, err)
			var mt *model.MalformedTimestamp
			assert.True(t, errors.As(err, &mt), "want MalformedTimestamp, got %T", err)
		})
	}
}

func TestNormalize_Pure(t *testing.T) {
	n := MustNew()
	a, err := n.Normalize("2024-05-01T23:05:00Z", "")
	require.NoError(t, err)
	b, err := n.Normalize("2024-05-01T23:05:00Z", "")
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
	assert.Equal(t, n.Format(a), n.Format(b))
}

func TestCalendarDateAndWindow(t *testing.T) {
	n := MustNew()

	instant, err := n.Normalize("2024-05-02T02:10:00Z", "")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", n.CalendarDate(instant))

	day, err := n.ParseDate("2024-05-01")
	require.NoError(t, err)
	start, end := n.DayWindow(day)
	assert.Equal(t, time.Date(2024, 5, 1, 4, 0, 0, 0, time.UTC), start.UTC())
	assert.Equal(t, time.Date(2024, 5, 2, 4, 0, 0, 0, time.UTC), end.UTC())

	_, err = n.ParseDate("05/01/2024")
	assert.Error(t, err)

	today := n.Today(time.Date(2024, 5, 2, 3, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-05-01", today.Format(DateLayout))
}
