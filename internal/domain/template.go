package domain

import (
	"slices"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/shopspring/decimal"
)

// EventTemplate pre-fills the non-temporal fields of a new event. Name is
// only shown to officers and is never copied onto an event.
type EventTemplate struct {
	ID                   string           `json:"id"`
	Name                 string           `json:"name"`
	Title                *string          `json:"title,omitempty"`
	Description          *string          `json:"description,omitempty"`
	Location             *string          `json:"location,omitempty"`
	ImgURL               *string          `json:"img_url,omitempty"`
	PhotoURLs            []string         `json:"photo_urls,omitempty"`
	ExternalURL          *string          `json:"external_url,omitempty"`
	Category             *string          `json:"category,omitempty"`
	EventDuration        *decimal.Decimal `json:"event_duration,omitempty"`
	AdditionalAttendance *int             `json:"additional_attendance,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// Materialize copies every set field and substitutes defaults for the rest.
func (t EventTemplate) Materialize() EventFields {
	f := EventFields{
		Title:                deref(t.Title),
		Description:          deref(t.Description),
		Location:             deref(t.Location),
		ImgURL:               deref(t.ImgURL),
		PhotoURLs:            []string{},
		ExternalURL:          deref(t.ExternalURL),
		Category:             deref(t.Category),
		EventDuration:        decimal.NewFromInt(1),
		AdditionalAttendance: 0,
	}

	if t.PhotoURLs != nil {
		f.PhotoURLs = slices.Clone(t.PhotoURLs)
	}
	if t.EventDuration != nil {
		f.EventDuration = *t.EventDuration
	}
	if t.AdditionalAttendance != nil {
		f.AdditionalAttendance = *t.AdditionalAttendance
	}

	return f
}

func (t EventTemplate) Validate() error {
	return validation.ValidateStruct(
		&t,
		validation.Field(&t.Name, validation.Required, validation.Length(1, 80)),
		validation.Field(&t.Title, validation.Length(0, 120)),
		validation.Field(&t.Description, validation.Length(0, 5000)),
		validation.Field(&t.Location, validation.Length(0, 200)),
		validation.Field(&t.ImgURL, is.URL),
		validation.Field(&t.PhotoURLs, validation.By(urlList)),
		validation.Field(&t.ExternalURL, is.URL),
		validation.Field(&t.Category, validation.In(categoryValues()...)),
		validation.Field(&t.EventDuration, validation.By(positiveHours)),
		validation.Field(&t.AdditionalAttendance, validation.Min(0)),
	)
}

func urlList(value interface{}) error {
	urls, _ := value.([]string)
	for _, u := range urls {
		if err := is.URL.Validate(u); err != nil {
			return err
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
