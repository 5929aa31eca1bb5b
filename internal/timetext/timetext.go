// Package timetext parses loosely-formatted prayer time strings.
//
// Upstream sources disagree on shape: the Al Adhan API returns "15:02" or
// "15:02 (BST)", the app's display layer stores 12-hour Arabic strings like
// "4:57 ص", and synthetic schedules use "3:45 PM". Parse tries a fixed
// priority order of layouts before falling back to manual token splitting.
package timetext

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock24 is a wall-clock time of day in 24-hour form.
type Clock24 struct {
	Hour   int // 0..23
	Minute int // 0..59
}

// layouts tried before the manual fallback, in priority order.
// The first successful layout wins.
var layouts = []string{
	"3:04 PM",  // 12-hour with meridiem marker
	"15:04",    // 24-hour
	"15:04:05", // 24-hour with seconds (seconds discarded)
}

// meridiem maps the Arabic markers onto their Latin equivalents so that a
// single layout set covers both. ص is AM, م is PM.
var meridiem = strings.NewReplacer("ص", "AM", "م", "PM")

// Parse converts a time string into a Clock24. Meridiem markers are matched
// case-insensitively, and the Arabic glyphs ص/م are treated as AM/PM. It
// reports false when no strategy yields an in-range hour and minute.
func Parse(text string) (Clock24, bool) {
	s := strings.TrimSpace(text)
	norm := strings.ToUpper(meridiem.Replace(s))

	for _, layout := range layouts {
		if t, err := time.Parse(layout, norm); err == nil {
			return Clock24{Hour: t.Hour(), Minute: t.Minute()}, true
		}
	}

	return parseManual(s)
}

// parseManual is the last-resort strategy: strip any trailing parenthesized
// timezone annotation, split on ":", take the first two tokens as hour and
// minute, and treat a trailing whitespace-delimited token as a meridiem
// marker.
func parseManual(raw string) (Clock24, bool) {
	s := strings.TrimSpace(raw)
	if i := strings.Index(s, "("); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}

	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Clock24{}, false
	}

	parts := strings.Split(fields[0], ":")
	if len(parts) < 2 {
		return Clock24{}, false
	}

	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Clock24{}, false
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Clock24{}, false
	}

	if len(fields) > 1 {
		marker := strings.ToLower(fields[1])
		switch {
		case strings.Contains(marker, "am") || strings.Contains(marker, "ص"):
			if hour == 12 {
				hour = 0
			}
		case strings.Contains(marker, "pm") || strings.Contains(marker, "م"):
			if hour < 12 {
				hour += 12
			}
		}
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Clock24{}, false
	}

	return Clock24{Hour: hour, Minute: minute}, true
}

// FormatArabic12 renders a Clock24 in the 12-hour Arabic form the app
// displays, e.g. "4:57 ص" or "6:34 م".
func FormatArabic12(c Clock24) string {
	marker := "ص"
	if c.Hour >= 12 {
		marker = "م"
	}

	h := c.Hour % 12
	if h == 0 {
		h = 12
	}

	return fmt.Sprintf("%d:%02d %s", h, c.Minute, marker)
}
