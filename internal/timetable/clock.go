package timetable

import (
	"strconv"
	"strings"
	"time"
)

// unparsedMinutes places malformed times after every valid time of day.
const unparsedMinutes = 24 * 60

// Minutes converts "HH:MM" to minutes since midnight.
func Minutes(hhmm string) int {
	h, m, ok := strings.Cut(hhmm, ":")
	if !ok {
		return unparsedMinutes
	}
	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 || hours > 23 {
		return unparsedMinutes
	}
	mins, err := strconv.Atoi(m)
	if err != nil || mins < 0 || mins > 59 {
		return unparsedMinutes
	}
	return hours*60 + mins
}

// ValidClock reports whether s is a well-formed "HH:MM" 24-hour time.
func ValidClock(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// Format12h renders "HH:MM" as "h:MM AM". Malformed input is returned as is.
func Format12h(hhmm string) string {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return hhmm
	}
	return t.Format("3:04 PM")
}
