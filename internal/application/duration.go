package application

import (
	"fmt"
	"math"
	"time"
)

// dateLayout formats the calendar day a session belongs to.
const dateLayout = "2006-01-02"

// RoundedMinutes is the persisted duration of a completed session: elapsed
// time rounded to the nearest minute, never negative.
func RoundedMinutes(start, end time.Time) int {
	elapsed := end.Sub(start)
	if elapsed <= 0 {
		return 0
	}
	return int(math.Round(elapsed.Minutes()))
}

// ElapsedMinutes is the live duration of an active session in whole minutes.
func ElapsedMinutes(start, now time.Time) int {
	elapsed := now.Sub(start)
	if elapsed <= 0 {
		return 0
	}
	return int(elapsed / time.Minute)
}

// FormatMinutes renders minutes as "{h}h {m}m".
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// averageMinutes returns total/count rounded to the nearest minute, or 0 when
// count is 0.
func averageMinutes(total, count int) int {
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(count)))
}
