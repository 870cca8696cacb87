package request

import (
	"github.com/shopspring/decimal"

	"github.com/aisclub/clubevents/internal/domain"
)

// TemplateRequest is validated by domain.EventTemplate.Validate once
// converted.
type TemplateRequest struct {
	Name                 string           `json:"name"`
	Title                *string          `json:"title"`
	Description          *string          `json:"description"`
	Location             *string          `json:"location"`
	ImgURL               *string          `json:"img_url"`
	PhotoURLs            []string         `json:"photo_urls"`
	ExternalURL          *string          `json:"external_url"`
	Category             *string          `json:"category"`
	EventDuration        *decimal.Decimal `json:"event_duration"`
	AdditionalAttendance *int             `json:"additional_attendance"`
}

func (req *TemplateRequest) ToDomain() domain.EventTemplate {
	return domain.EventTemplate{
		Name:                 req.Name,
		Title:                req.Title,
		Description:          req.Description,
		Location:             req.Location,
		ImgURL:               req.ImgURL,
		PhotoURLs:            req.PhotoURLs,
		ExternalURL:          req.ExternalURL,
		Category:             req.Category,
		EventDuration:        req.EventDuration,
		AdditionalAttendance: req.AdditionalAttendance,
	}
}
