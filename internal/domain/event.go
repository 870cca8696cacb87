package domain

import (
	"errors"
	"slices"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/shopspring/decimal"
)

// HomeRoute is where the client lands after a check-in when the event has no
// external URL.
const HomeRoute = "/"

// MaxEventHours bounds an event's duration; the column holds numeric(6,2).
var MaxEventHours = decimal.NewFromInt(1000)

var (
	errNonPositiveDuration = errors.New("must be a positive number of hours")
	errDurationTooLong     = errors.New("must be at most 1000 hours")
	errDurationPrecision   = errors.New("must have at most 2 decimal places")
	errZeroDatetime        = errors.New("cannot be blank")
)

type Event struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Category    string   `json:"category"`
	ImgURL      string   `json:"img_url"`
	PhotoURLs   []string `json:"photo_urls"`
	ExternalURL string   `json:"external_url"`
	// Datetime is the zero time when the record carries no date.
	Datetime      time.Time       `json:"datetime"`
	EventDuration decimal.Decimal `json:"event_duration"`
	UserAttendees []string        `json:"user_attendees"`
	// AdditionalAttendance counts plus-ones. It is bumped once per plus-one
	// check-in and is never derived from UserAttendees.
	AdditionalAttendance int       `json:"additional_attendance"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (e Event) HasDatetime() bool {
	return !e.Datetime.IsZero()
}

// IsUpcoming is true only when the event starts strictly after now.
func (e Event) IsUpcoming(now time.Time) bool {
	return e.HasDatetime() && e.Datetime.After(now)
}

func (e Event) HasAttendee(userID string) bool {
	return slices.Contains(e.UserAttendees, userID)
}

func (e Event) AttendeeCount() int {
	return len(e.UserAttendees)
}

func (e Event) TotalAttendance() int {
	return e.AttendeeCount() + e.AdditionalAttendance
}

func (e Event) EndsAt() time.Time {
	minutes := e.EventDuration.Mul(decimal.NewFromInt(60)).Round(0).IntPart()
	return e.Datetime.Add(time.Duration(minutes) * time.Minute)
}

func (e Event) RedirectURL() string {
	if e.ExternalURL != "" {
		return e.ExternalURL
	}
	return HomeRoute
}

// WithDefaults fills every field left empty on e with the value from f.
func (e Event) WithDefaults(f EventFields) Event {
	if e.Title == "" {
		e.Title = f.Title
	}
	if e.Description == "" {
		e.Description = f.Description
	}
	if e.Location == "" {
		e.Location = f.Location
	}
	if e.Category == "" {
		e.Category = f.Category
	}
	if e.ImgURL == "" {
		e.ImgURL = f.ImgURL
	}
	if len(e.PhotoURLs) == 0 {
		e.PhotoURLs = slices.Clone(f.PhotoURLs)
	}
	if e.ExternalURL == "" {
		e.ExternalURL = f.ExternalURL
	}
	if e.EventDuration.IsZero() {
		e.EventDuration = f.EventDuration
	}
	if e.AdditionalAttendance == 0 {
		e.AdditionalAttendance = f.AdditionalAttendance
	}
	return e
}

// Validate checks that e is complete enough to be stored.
func (e Event) Validate() error {
	return validation.ValidateStruct(
		&e,
		validation.Field(&e.Title, validation.Required, validation.Length(1, 120)),
		validation.Field(&e.Description, validation.Length(0, 5000)),
		validation.Field(&e.Location, validation.Length(0, 200)),
		validation.Field(&e.Category, validation.Required, validation.In(categoryValues()...)),
		validation.Field(&e.ExternalURL, is.URL),
		validation.Field(&e.Datetime, validation.Required),
		validation.Field(&e.EventDuration, validation.By(positiveHours)),
		validation.Field(&e.AdditionalAttendance, validation.Min(0)),
	)
}

// EventPatch is a partial update. Nil fields are left untouched. Attendance
// is never patched; it only changes through check-in.
type EventPatch struct {
	Title         *string          `json:"title,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Location      *string          `json:"location,omitempty"`
	Category      *string          `json:"category,omitempty"`
	ExternalURL   *string          `json:"external_url,omitempty"`
	Datetime      *time.Time       `json:"datetime,omitempty"`
	EventDuration *decimal.Decimal `json:"event_duration,omitempty"`
}

func (p EventPatch) IsEmpty() bool {
	return p == EventPatch{}
}

func (p EventPatch) Validate() error {
	return validation.ValidateStruct(
		&p,
		validation.Field(&p.Title, validation.NilOrNotEmpty, validation.Length(1, 120)),
		validation.Field(&p.Description, validation.Length(0, 5000)),
		validation.Field(&p.Location, validation.Length(0, 200)),
		validation.Field(&p.Category, validation.NilOrNotEmpty, validation.In(categoryValues()...)),
		validation.Field(&p.ExternalURL, is.URL),
		validation.Field(&p.Datetime, validation.By(nonZeroTime)),
		validation.Field(&p.EventDuration, validation.By(positiveHours)),
	)
}

// EventFields are the non-temporal, non-attendance fields of an event, as
// produced by EventTemplate.Materialize.
type EventFields struct {
	Title                string          `json:"title"`
	Description          string          `json:"description"`
	Location             string          `json:"location"`
	ImgURL               string          `json:"img_url"`
	PhotoURLs            []string        `json:"photo_urls"`
	ExternalURL          string          `json:"external_url"`
	Category             string          `json:"category"`
	EventDuration        decimal.Decimal `json:"event_duration"`
	AdditionalAttendance int             `json:"additional_attendance"`
}

// PhotoFile is an uploaded image waiting to be written to object storage.
type PhotoFile struct {
	Name string
	Data []byte
}

// CheckIn is published after an attendance registration succeeds.
type CheckIn struct {
	EventID string    `json:"event_id"`
	UserID  string    `json:"user_id"`
	PlusOne bool      `json:"plus_one"`
	At      time.Time `json:"at"`
}

func positiveHours(value interface{}) error {
	switch d := value.(type) {
	case decimal.Decimal:
		return ValidateHours(d)
	case *decimal.Decimal:
		if d != nil {
			return ValidateHours(*d)
		}
	}
	return nil
}

// ValidateHours accepts durations in (0, MaxEventHours] with at most two
// decimal places.
func ValidateHours(d decimal.Decimal) error {
	switch {
	case !d.IsPositive():
		return errNonPositiveDuration
	case d.GreaterThan(MaxEventHours):
		return errDurationTooLong
	case !d.Equal(d.Round(2)):
		return errDurationPrecision
	}
	return nil
}

func nonZeroTime(value interface{}) error {
	if t, ok := value.(*time.Time); ok && t != nil && t.IsZero() {
		return errZeroDatetime
	}
	return nil
}
