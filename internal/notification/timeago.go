package notification

import (
	"fmt"
	"time"
)

// TimeAgo renders the age of a timestamp as a coarse display label:
// under a minute is "just now", then minutes, hours, and days.
func TimeAgo(createdAt, now time.Time) string {
	elapsed := now.Sub(createdAt)

	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return plural(int(elapsed.Minutes()), "minute")
	case elapsed < 24*time.Hour:
		return plural(int(elapsed.Hours()), "hour")
	default:
		return plural(int(elapsed.Hours()/24), "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
