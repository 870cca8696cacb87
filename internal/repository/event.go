package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aisclub/clubevents/internal/domain"
	"github.com/aisclub/clubevents/internal/repository/dao"
)

var (
	ErrEventNotFound = dao.ErrEventNotFound
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByID(ctx context.Context, id string) (dao.Event, error)
	FindAll(ctx context.Context) ([]dao.Event, error)
	FindBetween(ctx context.Context, from, to time.Time) ([]dao.Event, error)
	UpdateColumns(ctx context.Context, id string, columns map[string]interface{}) error
	UpdatePhotos(ctx context.Context, id string, photoURLs []string, imgURL string) error
	Delete(ctx context.Context, id string) error
	AddAttendee(ctx context.Context, eventID, userID string) error
	IncrementAdditionalAttendance(ctx context.Context, eventID string, by int) error
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *EventRepository) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *EventRepository) ListEvents(ctx context.Context) ([]domain.Event, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	events := make([]domain.Event, 0, len(found))
	for _, e := range found {
		events = append(events, r.daoToDomain(e))
	}

	return events, nil
}

// ListEventsBetween returns events starting in (from, to], without attendees.
func (r *EventRepository) ListEventsBetween(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	found, err := r.dao.FindBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindBetween -> %w", err)
	}

	events := make([]domain.Event, 0, len(found))
	for _, e := range found {
		events = append(events, r.daoToDomain(e))
	}

	return events, nil
}

func (r *EventRepository) UpdateEventFields(ctx context.Context, id string, patch domain.EventPatch) error {
	columns := patchColumns(patch)
	if len(columns) == 0 {
		return nil
	}

	if err := r.dao.UpdateColumns(ctx, id, columns); err != nil {
		return fmt.Errorf("r.dao.UpdateColumns -> %w", err)
	}

	return nil
}

// UpdateEventPhotos replaces the photo list and points the cover image at
// its first entry, or clears it when the list is empty.
func (r *EventRepository) UpdateEventPhotos(ctx context.Context, id string, photoURLs []string) error {
	if photoURLs == nil {
		photoURLs = []string{}
	}

	imgURL := ""
	if len(photoURLs) > 0 {
		imgURL = photoURLs[0]
	}

	if err := r.dao.UpdatePhotos(ctx, id, photoURLs, imgURL); err != nil {
		return fmt.Errorf("r.dao.UpdatePhotos -> %w", err)
	}

	return nil
}

func (r *EventRepository) DeleteEvent(ctx context.Context, id string) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *EventRepository) AddAttendee(ctx context.Context, eventID, userID string) error {
	if err := r.dao.AddAttendee(ctx, eventID, userID); err != nil {
		return fmt.Errorf("r.dao.AddAttendee -> %w", err)
	}

	return nil
}

func (r *EventRepository) IncrementPlusOneCount(ctx context.Context, eventID string) error {
	if err := r.dao.IncrementAdditionalAttendance(ctx, eventID, 1); err != nil {
		return fmt.Errorf("r.dao.IncrementAdditionalAttendance -> %w", err)
	}

	return nil
}

func patchColumns(p domain.EventPatch) map[string]interface{} {
	columns := map[string]interface{}{}

	if p.Title != nil {
		columns["title"] = *p.Title
	}
	if p.Description != nil {
		columns["description"] = *p.Description
	}
	if p.Location != nil {
		columns["location"] = *p.Location
	}
	if p.Category != nil {
		columns["category"] = *p.Category
	}
	if p.ExternalURL != nil {
		columns["external_url"] = *p.ExternalURL
	}
	if p.Datetime != nil {
		columns["datetime"] = p.Datetime.UTC()
	}
	if p.EventDuration != nil {
		columns["event_duration"] = *p.EventDuration
	}

	return columns
}

func (r *EventRepository) domainToDao(e domain.Event) dao.Event {
	event := dao.Event{
		ID:                   e.ID,
		Title:                e.Title,
		Description:          e.Description,
		Location:             e.Location,
		Category:             e.Category,
		ImgURL:               e.ImgURL,
		PhotoURLs:            e.PhotoURLs,
		ExternalURL:          e.ExternalURL,
		EventDuration:        e.EventDuration,
		AdditionalAttendance: e.AdditionalAttendance,
	}

	if event.PhotoURLs == nil {
		event.PhotoURLs = []string{}
	}
	if e.HasDatetime() {
		at := e.Datetime.UTC()
		event.Datetime = &at
	}

	return event
}

func (r *EventRepository) daoToDomain(e dao.Event) domain.Event {
	event := domain.Event{
		ID:                   e.ID,
		Title:                e.Title,
		Description:          e.Description,
		Location:             e.Location,
		Category:             e.Category,
		ImgURL:               e.ImgURL,
		PhotoURLs:            e.PhotoURLs,
		ExternalURL:          e.ExternalURL,
		EventDuration:        e.EventDuration,
		UserAttendees:        make([]string, 0, len(e.Attendees)),
		AdditionalAttendance: e.AdditionalAttendance,
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
	}

	if event.PhotoURLs == nil {
		event.PhotoURLs = []string{}
	}
	if e.Datetime != nil {
		event.Datetime = *e.Datetime
	}
	for _, a := range e.Attendees {
		event.UserAttendees = append(event.UserAttendees, a.UserID)
	}

	return event
}
