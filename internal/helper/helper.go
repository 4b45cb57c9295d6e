package helper

import (
	"fmt"
	"time"
)

// FormatCooldown renders a remaining duration as "2h 5m", "4m 10s" or "9s".
func FormatCooldown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)

	switch {
	case d >= time.Hour:
		return fmt.Sprintf("%dh %dm", h, m)
	case d >= time.Minute:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// UTCStamp is the timestamp layout used in trade logs.
func UTCStamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}
