package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseDate_RFC3339String_ReturnsUTCTime(t *testing.T) {
	parsed, err := ParseDate("2023-06-15T10:30:00Z")

	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 6, 15, 10, 30, 0, 0, time.UTC), parsed)
}

func Test_ParseDate_DateOnlyString_ReturnsMidnight(t *testing.T) {
	parsed, err := ParseDate("2023-01-31")

	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC), parsed)
}

func Test_ParseDate_SpaceSeparatedString_Parses(t *testing.T) {
	parsed, err := ParseDate("2023-06-15 10:30:00")

	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 6, 15, 10, 30, 0, 0, time.UTC), parsed)
}

func Test_ParseDate_UnixSeconds_Parses(t *testing.T) {
	parsed, err := ParseDate("1686825000")

	require.NoError(t, err)
	assert.Equal(t, int64(1686825000), parsed.Unix())
}

func Test_ParseDate_UnixMilliseconds_Parses(t *testing.T) {
	parsed, err := ParseDate("1686825000000")

	require.NoError(t, err)
	assert.Equal(t, int64(1686825000), parsed.Unix())
}

func Test_ParseDate_EmptyString_ReturnsError(t *testing.T) {
	_, err := ParseDate("")

	assert.Error(t, err)
}

func Test_ParseDate_Garbage_ReturnsError(t *testing.T) {
	_, err := ParseDate("not-a-date")

	assert.Error(t, err)
}

func Test_DayBounds_MiddleOfDay_ReturnsFullDay(t *testing.T) {
	at := time.Date(2023, 6, 15, 13, 45, 12, 0, time.UTC)

	start, end := DayBounds(at)

	assert.Equal(t, time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2023, 6, 15, 23, 59, 59, int(999*time.Millisecond), time.UTC), end)
}

func Test_WeekStart_OnSunday_ReturnsPrecedingMonday(t *testing.T) {
	// 2023-06-18 was a Sunday
	at := time.Date(2023, 6, 18, 12, 0, 0, 0, time.UTC)

	start := WeekStart(at)

	assert.Equal(t, time.Date(2023, 6, 12, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Monday, start.Weekday())
}

func Test_WeekStart_OnMonday_ReturnsSameDay(t *testing.T) {
	at := time.Date(2023, 6, 12, 23, 0, 0, 0, time.UTC)

	start := WeekStart(at)

	assert.Equal(t, time.Date(2023, 6, 12, 0, 0, 0, 0, time.UTC), start)
}

func Test_MonthStart_MidMonth_ReturnsFirstDay(t *testing.T) {
	at := time.Date(2023, 6, 15, 13, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), MonthStart(at))
}

func Test_YearStart_MidYear_ReturnsJanuaryFirst(t *testing.T) {
	at := time.Date(2023, 6, 15, 13, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), YearStart(at))
}
