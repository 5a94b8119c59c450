package testutil

import (
	"context"
	"sync"
	"time"
)

type SentMessage struct {
	Recipient string
	Message   string
	Delay     time.Duration
}

// RecordingNotifier captures messages instead of sending them. Err, when
// set, is returned from every call after recording.
type RecordingNotifier struct {
	mu   sync.Mutex
	Now  []SentMessage
	Late []SentMessage
	Err  error
}

func (n *RecordingNotifier) SendNow(_ context.Context, recipient, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Now = append(n.Now, SentMessage{Recipient: recipient, Message: message})
	return n.Err
}

func (n *RecordingNotifier) SendAt(_ context.Context, recipient, message string, delay time.Duration) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Late = append(n.Late, SentMessage{Recipient: recipient, Message: message, Delay: delay})
	return n.Err
}

func (n *RecordingNotifier) Counts() (now, late int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Now), len(n.Late)
}
