package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderDelay(t *testing.T) {
	at := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)

	d, ok := ReminderDelay(at, at.Add(-5*time.Hour), ReminderLead)
	require.True(t, ok)
	assert.Equal(t, 3*time.Hour, d)

	_, ok = ReminderDelay(at, at.Add(-2*time.Hour), ReminderLead)
	assert.False(t, ok, "reminder moment equal to now is not scheduled")

	_, ok = ReminderDelay(at, at.Add(-time.Hour), ReminderLead)
	assert.False(t, ok)
}

func TestMessages(t *testing.T) {
	at := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t,
		"Dear ann, your appointment is confirmed for Tuesday, January 01, 2030 at 10:00 AM. We look forward to seeing you!",
		ConfirmationMessage("ann", at),
	)
	assert.Contains(t, ReminderMessage("ann", at), "10:00 AM")
}

func TestContactFromDetails(t *testing.T) {
	_, err := ContactFromDetails("  ", "+15550000")
	assert.ErrorIs(t, err, ErrContactRequired)

	_, err = ContactFromDetails("Ann", "")
	assert.ErrorIs(t, err, ErrContactRequired)

	c, err := ContactFromDetails(" Ann ", "+15550000")
	require.NoError(t, err)
	assert.Nil(t, c.ClientID)
	assert.Equal(t, "Ann", c.Name)
}
