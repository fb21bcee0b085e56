// Package utils provides small stateless helpers: calendar deep-links and
// admin token issuance.
package utils

import (
	"fmt"
	"net/url"
	"time"
)

// CalendarLink renders a Google Calendar prefill URL for a booked time
// range.  Pure string formatting, no state.  date is "2006-01-02" and the
// minutes are minutes of day in the business timezone loc; the link carries
// UTC instants so it renders correctly in any viewer.  An invalid date
// returns the empty string.
func CalendarLink(title, date string, startMinute, endMinute int, loc *time.Location) string {
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return ""
	}
	start := day.Add(time.Duration(startMinute) * time.Minute)
	end := day.Add(time.Duration(endMinute) * time.Minute)
	if !end.After(start) {
		end = start.Add(time.Hour)
	}
	const stamp = "20060102T150405Z"
	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", title)
	q.Set("dates", fmt.Sprintf("%s/%s", start.UTC().Format(stamp), end.UTC().Format(stamp)))
	return "https://calendar.google.com/calendar/render?" + q.Encode()
}
