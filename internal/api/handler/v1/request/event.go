package request

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/shopspring/decimal"

	"github.com/aisclub/clubevents/internal/domain"
)

var (
	errEmptyUpdate = errors.New("nothing to update")
	errEmptyURL    = errors.New("must be a valid URL")
)

type CreateEventRequest struct {
	TemplateID    string           `json:"template_id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Location      string           `json:"location"`
	Category      string           `json:"category"`
	ExternalURL   string           `json:"external_url"`
	PhotoURLs     []string         `json:"photo_urls"`
	Datetime      *time.Time       `json:"datetime"`
	EventDuration *decimal.Decimal `json:"event_duration"`
}

// Validate checks the request shape. Fields a template may supply are
// checked again on the assembled event.
func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.TemplateID, is.UUID),
		validation.Field(&req.Title, validation.Length(0, 120)),
		validation.Field(&req.Category, validation.In(categories()...)),
		validation.Field(&req.ExternalURL, is.URL),
		validation.Field(&req.PhotoURLs, validation.By(urlList)),
		validation.Field(&req.Datetime, validation.Required),
		validation.Field(&req.EventDuration, validation.By(positive)),
	)
}

func (req *CreateEventRequest) ToDomain() domain.Event {
	event := domain.Event{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Category:    req.Category,
		ExternalURL: req.ExternalURL,
		PhotoURLs:   req.PhotoURLs,
	}

	if req.Datetime != nil {
		event.Datetime = req.Datetime.UTC()
	}
	if req.EventDuration != nil {
		event.EventDuration = *req.EventDuration
	}

	return event
}

type UpdateEventRequest struct {
	Title         *string          `json:"title"`
	Description   *string          `json:"description"`
	Location      *string          `json:"location"`
	Category      *string          `json:"category"`
	ExternalURL   *string          `json:"external_url"`
	Datetime      *time.Time       `json:"datetime"`
	EventDuration *decimal.Decimal `json:"event_duration"`
}

func (req *UpdateEventRequest) ToPatch() domain.EventPatch {
	patch := domain.EventPatch{
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		Category:      req.Category,
		ExternalURL:   req.ExternalURL,
		EventDuration: req.EventDuration,
	}

	if req.Datetime != nil {
		at := req.Datetime.UTC()
		patch.Datetime = &at
	}

	return patch
}

func (req *UpdateEventRequest) Validate() error {
	patch := req.ToPatch()
	if patch.IsEmpty() {
		return errEmptyUpdate
	}

	return patch.Validate()
}

type DeletePhotoRequest struct {
	URL string `json:"url"`
}

func (req *DeletePhotoRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.URL, validation.Required, is.URL),
	)
}

type CheckInRequest struct {
	PlusOne bool `json:"plus_one"`
}

type ListEventsQuery struct {
	Category string `form:"category"`
}

func (q *ListEventsQuery) Validate() error {
	if q.Category == "" {
		q.Category = domain.CategoryAll
	}

	return validation.ValidateStruct(
		q,
		validation.Field(&q.Category, validation.In(append(categories(), domain.CategoryAll)...)),
	)
}

func categories() []interface{} {
	values := make([]interface{}, 0, len(domain.Categories()))
	for _, c := range domain.Categories() {
		values = append(values, c)
	}
	return values
}

func urlList(value interface{}) error {
	urls, _ := value.([]string)
	for _, u := range urls {
		if u == "" {
			return errEmptyURL
		}
		if err := is.URL.Validate(u); err != nil {
			return err
		}
	}
	return nil
}

func positive(value interface{}) error {
	if d, ok := value.(*decimal.Decimal); ok && d != nil {
		return domain.ValidateHours(*d)
	}
	return nil
}
