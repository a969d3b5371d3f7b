package feed

import (
	"fmt"
	"time"
)

// RelativeAge maps the elapsed time since a post was created to the
// label shown next to it. Anything older than a week gets a short
// absolute date instead.
func RelativeAge(timestamp, now time.Time) string {
	elapsed := now.Sub(timestamp)

	switch {
	case elapsed < time.Minute:
		return "Just now"
	case elapsed < time.Hour:
		return pluralize(int(elapsed.Minutes()), "minute")
	case elapsed < 24*time.Hour:
		return pluralize(int(elapsed.Hours()), "hour")
	case elapsed < 7*24*time.Hour:
		return pluralize(int(elapsed.Hours()/24), "day")
	default:
		return timestamp.Format("Jan 2, 2006")
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
