package domain

import "time"

type Partitioned struct {
	Upcoming []Event `json:"upcoming"`
	Past     []Event `json:"past"`
}

// Partition splits events around now. Events without a datetime land in
// neither list. A past event is only kept when the viewer is an officer or
// attended it; otherwise it is dropped silently. Order follows the input.
func Partition(events []Event, userID string, isOfficer bool, now time.Time) Partitioned {
	p := Partitioned{
		Upcoming: []Event{},
		Past:     []Event{},
	}

	for _, e := range events {
		if !e.HasDatetime() {
			continue
		}

		if e.IsUpcoming(now) {
			p.Upcoming = append(p.Upcoming, e)
			continue
		}

		if isOfficer || (userID != "" && e.HasAttendee(userID)) {
			p.Past = append(p.Past, e)
		}
	}

	return p
}

// FilterByCategory keeps the events whose category matches exactly.
// CategoryAll returns events as given, nil included.
func FilterByCategory(events []Event, category string) []Event {
	if events == nil || category == CategoryAll {
		return events
	}

	filtered := make([]Event, 0, len(events))
	for _, e := range events {
		if e.Category == category {
			filtered = append(filtered, e)
		}
	}

	return filtered
}
