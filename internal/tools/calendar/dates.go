package calendar

import (
	"fmt"
	"strings"
	"time"

	gcal "google.golang.org/api/calendar/v3"
)

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime accepts RFC3339 or a zone-less layout interpreted in loc.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

// RollForward pushes t one week ahead when it is earlier than now.
// A date-only start for today parses as midnight and is therefore rolled too.
func RollForward(t, now time.Time) (time.Time, bool) {
	if t.Before(now) {
		return t.AddDate(0, 0, 7), true
	}
	return t, false
}

// ContextWindow maps phrases in text to a local-time window.
// Unrecognized text covers now through seven days ahead.
func ContextWindow(text string, now time.Time, loc *time.Location) (string, time.Time, time.Time) {
	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "tomorrow"):
		start := midnight.AddDate(0, 0, 1)
		return "tomorrow", start, start.AddDate(0, 0, 1)
	case strings.Contains(lower, "today"):
		return "today", midnight, midnight.AddDate(0, 0, 1)
	case strings.Contains(lower, "next week"):
		offset := (8 - int(local.Weekday())) % 7
		if offset == 0 {
			offset = 7
		}
		start := midnight.AddDate(0, 0, offset)
		return "next week", start, start.AddDate(0, 0, 7)
	}
	return "upcoming", local, local.AddDate(0, 0, 7)
}

// FormatEvents renders events for speech.
func FormatEvents(events []*gcal.Event, loc *time.Location) string {
	if len(events) == 0 {
		return "You have no events."
	}
	parts := make([]string, 0, len(events))
	for _, ev := range events {
		title := ev.Summary
		if title == "" {
			title = "Untitled event"
		}
		part := fmt.Sprintf("%s at %s", title, formatStart(ev.Start, loc))
		if ev.Location != "" {
			part += " at " + ev.Location
		}
		parts = append(parts, part)
	}
	noun := "events"
	if len(events) == 1 {
		noun = "event"
	}
	return fmt.Sprintf("You have %d %s: %s", len(events), noun, strings.Join(parts, ", "))
}

func formatStart(start *gcal.EventDateTime, loc *time.Location) string {
	if start == nil {
		return "an unknown time"
	}
	if start.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, start.DateTime); err == nil {
			return t.In(loc).Format("Mon 2 Jan 3:04 PM")
		}
		return start.DateTime
	}
	if t, err := time.ParseInLocation("2006-01-02", start.Date, loc); err == nil {
		return t.Format("Mon 2 Jan") + " (all day)"
	}
	return start.Date
}
