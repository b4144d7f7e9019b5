package timer

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseClock reads "M" or "M:SS" as a duration in seconds.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	minPart, secPart, hasSec := strings.Cut(s, ":")

	minutes, err := strconv.Atoi(minPart)
	if err != nil {
		return 0, fmt.Errorf("parsing minutes %q: %w", minPart, err)
	}
	seconds := 0
	if hasSec {
		seconds, err = strconv.Atoi(secPart)
		if err != nil {
			return 0, fmt.Errorf("parsing seconds %q: %w", secPart, err)
		}
		if seconds > 59 {
			return 0, fmt.Errorf("seconds %d out of range", seconds)
		}
	}
	if minutes < 0 || seconds < 0 {
		return 0, ErrInvalidDuration
	}
	return minutes*60 + seconds, nil
}

// FormatClock renders seconds as MM:SS.
func FormatClock(seconds int) string {
	seconds = max(seconds, 0)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
