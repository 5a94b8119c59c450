package appointment

import (
	"context"
	"fmt"
	"time"
)

// ReminderLead is how long before the appointment the reminder goes out.
const ReminderLead = 2 * time.Hour

// Notifier delivers SMS messages. Implementations queue the work and return;
// they never wait for delivery.
type Notifier interface {
	SendNow(ctx context.Context, recipient, message string) error
	SendAt(ctx context.Context, recipient, message string, delay time.Duration) error
}

const messageTimeLayout = "Monday, January 02, 2006 at 03:04 PM"

func ConfirmationMessage(name string, at time.Time) string {
	return fmt.Sprintf(
		"Dear %s, your appointment is confirmed for %s. We look forward to seeing you!",
		name, at.Format(messageTimeLayout),
	)
}

func ReminderMessage(name string, at time.Time) string {
	return fmt.Sprintf(
		"Reminder: Dear %s, you have an appointment today at %s. See you soon!",
		name, at.Format("03:04 PM"),
	)
}

// ReminderDelay returns how long to wait before sending the reminder, and
// false when the reminder moment has already passed.
func ReminderDelay(appointmentAt, now time.Time, lead time.Duration) (time.Duration, bool) {
	delay := appointmentAt.Add(-lead).Sub(now)
	if delay <= 0 {
		return 0, false
	}
	return delay, true
}
