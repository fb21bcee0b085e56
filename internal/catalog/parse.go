package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseClock12 converts a 12-hour clock string such as "07:00 PM" into
// minutes since midnight.  "12:xx AM" maps to 0..59 and "12:xx PM" to
// 720..779.  Leading/trailing whitespace is ignored.  Malformed input
// returns an error rather than a guessed value.
func ParseClock12(s string) (int, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 2 {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	hm := strings.SplitN(fields[0], ":", 2)
	if len(hm) != 2 {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	h, err := strconv.Atoi(hm[0])
	if err != nil || h < 1 || h > 12 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(hm[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	switch strings.ToUpper(fields[1]) {
	case "AM":
		if h == 12 {
			h = 0
		}
	case "PM":
		if h != 12 {
			h += 12
		}
	default:
		return 0, fmt.Errorf("invalid meridiem in %q", s)
	}
	return h*60 + m, nil
}

// ParseWindowLabel splits a display label such as "07:00 PM - 08:00 PM" into
// start and end minutes of day.  Labels with a single time ("07:00 PM") are
// accepted; the end then equals the start.
func ParseWindowLabel(label string) (start, end int, err error) {
	parts := strings.Split(label, " - ")
	switch len(parts) {
	case 1:
		start, err = ParseClock12(parts[0])
		return start, start, err
	case 2:
		if start, err = ParseClock12(parts[0]); err != nil {
			return 0, 0, err
		}
		if end, err = ParseClock12(parts[1]); err != nil {
			return 0, 0, err
		}
		return start, end, nil
	default:
		return 0, 0, fmt.Errorf("invalid window label %q", label)
	}
}
