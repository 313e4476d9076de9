package order

import (
	"fmt"
	"time"
)

// WaitTime renders the elapsed time between start and end in whole minutes,
// e.g. "2 hora(s) 45 minuto(s)". The hour part is omitted under an hour.
func WaitTime(start, end time.Time) string {
	minutes := int(end.Sub(start) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}

	hours := minutes / 60
	minutes %= 60
	if hours == 0 {
		return fmt.Sprintf("%d minuto(s)", minutes)
	}

	return fmt.Sprintf("%d hora(s) %d minuto(s)", hours, minutes)
}
