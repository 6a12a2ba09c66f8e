// Package timecode converts between seconds-since-midnight values and the
// HH:MM:SS wall-clock labels used throughout the recording timeline.
package timecode

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse converts an "HH:MM:SS" label to seconds since midnight.
func Parse(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timecode %q: expected HH:MM:SS", s)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid timecode %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid timecode %q: %w", s, err)
	}
	sec, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, fmt.Errorf("invalid timecode %q: %w", s, err)
	}

	if h < 0 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("invalid timecode %q: field out of range", s)
	}

	return float64(h*3600 + m*60 + sec), nil
}

// Format converts seconds since midnight to an "HH:MM:SS" label. Fractional
// seconds are truncated; values past 24:00:00 keep counting hours upward so
// the overrun band after midnight reads 24:MM:SS rather than wrapping.
func Format(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
