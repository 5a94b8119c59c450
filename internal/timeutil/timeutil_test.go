package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "10:00", want: "10:00"},
		{in: "09:05", want: "09:05"},
		{in: "23:59:59", want: "23:59"},
		{in: " 7:30 ", want: "07:30"},
		{in: "24:00", wantErr: true},
		{in: "10:60", wantErr: true},
		{in: "10", wantErr: true},
		{in: "ab:cd", wantErr: true},
		{in: "10:00:61", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestTimeOfDayText(t *testing.T) {
	var tod TimeOfDay
	require.NoError(t, tod.UnmarshalText([]byte("14:30:12")))
	assert.Equal(t, 14, tod.Hour())
	assert.Equal(t, 30, tod.Minute())

	b, err := tod.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "14:30", string(b))
}

func TestCombine(t *testing.T) {
	date := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	got := Combine(date, MustTimeOfDay("10:00"))
	assert.Equal(t, time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC), got)
}

func TestDateOfIgnoresClock(t *testing.T) {
	in := time.Date(2030, 3, 4, 18, 22, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2030, 3, 4, 0, 0, 0, 0, time.UTC), DateOf(in))
	assert.Equal(t, MustTimeOfDay("18:22"), TimeOfDayOf(in))
}

func TestFixedClock(t *testing.T) {
	start := time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)
	c := NewFixedClock(start)
	c.Advance(90 * time.Minute)
	assert.Equal(t, start.Add(90*time.Minute), c.Now())
}

func TestLocationFallsBack(t *testing.T) {
	assert.True(t, IsValidTimezone("Europe/Lisbon"))
	assert.False(t, IsValidTimezone(""))
	assert.False(t, IsValidTimezone("Mars/Olympus"))
	assert.Equal(t, time.UTC, Location("Mars/Olympus"))
}

func TestClockFor(t *testing.T) {
	assert.Equal(t, RealClock{}, ClockFor(""))
	assert.Equal(t, RealClock{}, ClockFor("UTC"))

	shop, ok := ClockFor("America/Sao_Paulo").(ShopClock)
	require.True(t, ok)
	assert.Equal(t, "America/Sao_Paulo", shop.loc.String())
}

func TestWallUTC(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	instant := time.Date(2030, 1, 2, 1, 30, 0, 0, time.UTC)

	got := WallUTC(instant, loc)
	assert.Equal(t, time.Date(2030, 1, 1, 22, 30, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())
}
