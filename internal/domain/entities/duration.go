package entities

import (
	"fmt"
	"time"
)

// PrettyDuration renders d down to the minute, e.g. "1d 2h 3m" or "4h 5m". Durations under a
// minute are rendered in seconds.
func PrettyDuration(d time.Duration) string {
	seconds := int64(d / time.Second)

	days := seconds / 86400
	seconds %= 86400
	hours := seconds / 3600
	seconds %= 3600
	minutes := seconds / 60
	seconds %= 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm", minutes)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// HowLongAgo renders the time elapsed between start and now.
func HowLongAgo(start, now time.Time) string {
	return PrettyDuration(now.Sub(start))
}
