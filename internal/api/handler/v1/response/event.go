package response

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/aisclub/clubevents/internal/domain"
)

// RedirectAfterMs is how long the client shows the check-in confirmation
// before following RedirectURL.
const RedirectAfterMs = 2000

type Event struct {
	ID                   string          `json:"id"`
	Title                string          `json:"title"`
	Description          string          `json:"description"`
	Location             string          `json:"location"`
	Category             string          `json:"category"`
	ImgURL               string          `json:"img_url"`
	PhotoURLs            []string        `json:"photo_urls"`
	ExternalURL          string          `json:"external_url"`
	Datetime             *time.Time      `json:"datetime"`
	EventDuration        decimal.Decimal `json:"event_duration"`
	AttendeeCount        int             `json:"attendee_count"`
	AdditionalAttendance int             `json:"additional_attendance"`
	TotalAttendance      int             `json:"total_attendance"`
	Attended             bool            `json:"attended"`

	// Officer only.
	UserAttendees []string `json:"user_attendees,omitempty"`
	CheckInURL    string   `json:"checkin_url,omitempty"`
}

// NewEvent shapes e for viewer. Attendee ids and the check-in link are only
// included for officers.
func NewEvent(e domain.Event, viewer domain.User, publicBaseURL string) Event {
	resp := Event{
		ID:                   e.ID,
		Title:                e.Title,
		Description:          e.Description,
		Location:             e.Location,
		Category:             e.Category,
		ImgURL:               e.ImgURL,
		PhotoURLs:            e.PhotoURLs,
		ExternalURL:          e.ExternalURL,
		EventDuration:        e.EventDuration,
		AttendeeCount:        e.AttendeeCount(),
		AdditionalAttendance: e.AdditionalAttendance,
		TotalAttendance:      e.TotalAttendance(),
		Attended:             viewer.ID != "" && e.HasAttendee(viewer.ID),
	}

	if resp.PhotoURLs == nil {
		resp.PhotoURLs = []string{}
	}
	if e.HasDatetime() {
		at := e.Datetime
		resp.Datetime = &at
	}
	if viewer.IsOfficer {
		resp.UserAttendees = e.UserAttendees
		resp.CheckInURL = CheckInURL(publicBaseURL, e.ID)
	}

	return resp
}

func NewEvents(events []domain.Event, viewer domain.User, publicBaseURL string) []Event {
	resp := make([]Event, 0, len(events))
	for _, e := range events {
		resp = append(resp, NewEvent(e, viewer, publicBaseURL))
	}
	return resp
}

// CheckInURL is the deep link encoded in an event's QR code.
func CheckInURL(publicBaseURL, eventID string) string {
	return publicBaseURL + "/event/" + eventID
}

type EventList struct {
	Category string  `json:"category"`
	Upcoming []Event `json:"upcoming"`
	Past     []Event `json:"past"`
}

// CheckInEvent is what an anonymous visitor of a check-in link sees.
type CheckInEvent struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Location      string          `json:"location"`
	Category      string          `json:"category"`
	ImgURL        string          `json:"img_url"`
	PhotoURLs     []string        `json:"photo_urls"`
	Datetime      *time.Time      `json:"datetime"`
	EventDuration decimal.Decimal `json:"event_duration"`
}

func NewCheckInEvent(e domain.Event) CheckInEvent {
	resp := CheckInEvent{
		ID:            e.ID,
		Title:         e.Title,
		Description:   e.Description,
		Location:      e.Location,
		Category:      e.Category,
		ImgURL:        e.ImgURL,
		PhotoURLs:     e.PhotoURLs,
		EventDuration: e.EventDuration,
	}

	if resp.PhotoURLs == nil {
		resp.PhotoURLs = []string{}
	}
	if e.HasDatetime() {
		at := e.Datetime
		resp.Datetime = &at
	}

	return resp
}

type CheckIn struct {
	EventID         string `json:"event_id"`
	PlusOne         bool   `json:"plus_one"`
	RedirectURL     string `json:"redirect_url"`
	RedirectAfterMs int    `json:"redirect_after_ms"`
}
