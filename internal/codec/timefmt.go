package codec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// FormatSeconds renders a cue time as HH:MM:SS.
func FormatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// ParseSeconds parses HH:MM:SS, MM:SS or a plain number of seconds.
func ParseSeconds(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("time %q: %w", s, ErrInvalidValue)
	}
	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("time %q: %w", s, ErrInvalidValue)
		}
		total = total*60 + n
	}
	return total, nil
}

var hoursPattern = regexp.MustCompile(`\d+`)

// FormatOnTime renders the device power-on counter ("1200h") with its week and
// day equivalents.
func FormatOnTime(raw string) string {
	hours := 0
	if m := hoursPattern.FindString(raw); m != "" {
		hours, _ = strconv.Atoi(m)
	}
	days := hours / 24
	weeks := days / 7
	return fmt.Sprintf("%dh (%d week%s, or %d day%s)", hours, weeks, plural(weeks), days, plural(days))
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}
