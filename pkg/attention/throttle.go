package attention

import "time"

// AlertKind identifies which alert fired. The zero value means none.
type AlertKind string

const (
	AlertNone       AlertKind = ""
	AlertSleepy     AlertKind = "sleepy"
	AlertDistracted AlertKind = "distracted"
)

// AlertFor returns the alert kind for a stable mood, or AlertNone when the
// mood is not alertable.
func AlertFor(m Mood) AlertKind {
	switch m {
	case MoodSleepy:
		return AlertSleepy
	case MoodDistracted:
		return AlertDistracted
	default:
		return AlertNone
	}
}

// Message returns the phrase spoken for this alert.
func (k AlertKind) Message() string {
	switch k {
	case AlertSleepy:
		return "Please wake up"
	case AlertDistracted:
		return "You're distracted"
	default:
		return ""
	}
}

// Throttler gates alerts per track with a cooldown.
type Throttler struct {
	interval time.Duration
}

// NewThrottler creates a throttler with the given cooldown.
func NewThrottler(interval time.Duration) Throttler {
	return Throttler{interval: interval}
}

// Evaluate decides whether t fires an alert at now and updates its cooldown.
// A non-alertable stable mood clears the cooldown so a relapse alerts at once.
func (th Throttler) Evaluate(t *Track, now time.Time) AlertKind {
	kind := AlertFor(t.StableMood)
	if kind == AlertNone {
		t.LastAlertAt = time.Time{}
		return AlertNone
	}

	if t.CoolingDown() && now.Sub(t.LastAlertAt) < th.interval {
		return AlertNone
	}

	t.LastAlertAt = now
	return kind
}
