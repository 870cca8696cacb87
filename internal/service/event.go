package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/aisclub/clubevents/internal/domain"
	"github.com/aisclub/clubevents/internal/metrics"
	"github.com/aisclub/clubevents/internal/repository"
)

var (
	ErrEventNotFound     = repository.ErrEventNotFound
	ErrInvalidAttendance = errors.New("event id and user id are required")
	ErrInvalidCategory   = errors.New("unknown category")
	ErrInvalidEvent      = errors.New("invalid event")
	ErrPhotoNotFound     = errors.New("photo does not belong to event")
)

type EventRepository interface {
	CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
	GetEvent(ctx context.Context, id string) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	ListEventsBetween(ctx context.Context, from, to time.Time) ([]domain.Event, error)
	UpdateEventFields(ctx context.Context, id string, patch domain.EventPatch) error
	UpdateEventPhotos(ctx context.Context, id string, photoURLs []string) error
	DeleteEvent(ctx context.Context, id string) error
	AddAttendee(ctx context.Context, eventID, userID string) error
	IncrementPlusOneCount(ctx context.Context, eventID string) error
}

type TemplateReader interface {
	GetTemplate(ctx context.Context, id string) (domain.EventTemplate, error)
}

type CheckInNotifier interface {
	Publish(checkIn domain.CheckIn)
}

type EventService struct {
	repo      EventRepository
	templates TemplateReader
	photos    *PhotoService
	notifier  CheckInNotifier
	now       func() time.Time
}

func NewEventService(repo EventRepository, templates TemplateReader, photos *PhotoService, notifier CheckInNotifier) *EventService {
	return &EventService{
		repo:      repo,
		templates: templates,
		photos:    photos,
		notifier:  notifier,
		now:       time.Now,
	}
}

// RegisterAttendance adds userID to the event's attendees and, when
// hasPlusOne is set, bumps the plus-one tally by exactly one. The tally is
// bumped even if the user had already checked in. Store errors are returned
// as they come; a failed increment leaves the attendee in place.
func (s *EventService) RegisterAttendance(ctx context.Context, eventID, userID string, hasPlusOne bool) error {
	if eventID == "" || userID == "" {
		return ErrInvalidAttendance
	}

	if err := s.repo.AddAttendee(ctx, eventID, userID); err != nil {
		return fmt.Errorf("s.repo.AddAttendee -> %w", err)
	}

	if hasPlusOne {
		if err := s.repo.IncrementPlusOneCount(ctx, eventID); err != nil {
			return fmt.Errorf("s.repo.IncrementPlusOneCount -> %w", err)
		}
	}

	metrics.CheckIn(hasPlusOne)
	if s.notifier != nil {
		s.notifier.Publish(domain.CheckIn{
			EventID: eventID,
			UserID:  userID,
			PlusOne: hasPlusOne,
			At:      s.now().UTC(),
		})
	}

	return nil
}

// GetEvent reports found=false instead of an error when no event has id.
func (s *EventService) GetEvent(ctx context.Context, id string) (domain.Event, bool, error) {
	event, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Event{}, false, nil
		}

		return domain.Event{}, false, fmt.Errorf("s.repo.GetEvent -> %w", err)
	}

	return event, true, nil
}

// ListForViewer re-reads every event, splits them around now for viewer and
// keeps the ones in category.
func (s *EventService) ListForViewer(ctx context.Context, viewer domain.User, category string, now time.Time) (domain.Partitioned, error) {
	if !domain.IsCategoryFilter(category) {
		return domain.Partitioned{}, ErrInvalidCategory
	}

	events, err := s.repo.ListEvents(ctx)
	if err != nil {
		return domain.Partitioned{}, fmt.Errorf("s.repo.ListEvents -> %w", err)
	}

	p := domain.Partition(events, viewer.ID, viewer.IsOfficer, now)
	p.Upcoming = domain.FilterByCategory(p.Upcoming, category)
	p.Past = domain.FilterByCategory(p.Past, category)

	return p, nil
}

// ListUpcoming returns the events starting within horizon after now.
func (s *EventService) ListUpcoming(ctx context.Context, now time.Time, horizon time.Duration) ([]domain.Event, error) {
	events, err := s.repo.ListEventsBetween(ctx, now, now.Add(horizon))
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListEventsBetween -> %w", err)
	}

	return events, nil
}

// CreateEvent stores a new event with no attendees. When templateID is set
// the template fills every field event leaves empty.
func (s *EventService) CreateEvent(ctx context.Context, event domain.Event, templateID string) (domain.Event, error) {
	if templateID != "" {
		template, err := s.templates.GetTemplate(ctx, templateID)
		if err != nil {
			return domain.Event{}, fmt.Errorf("s.templates.GetTemplate -> %w", err)
		}

		event = event.WithDefaults(template.Materialize())
	}

	event.ID = ""
	event.UserAttendees = []string{}
	if event.PhotoURLs == nil {
		event.PhotoURLs = []string{}
	}
	if event.ImgURL == "" && len(event.PhotoURLs) > 0 {
		event.ImgURL = event.PhotoURLs[0]
	}

	if err := event.Validate(); err != nil {
		return domain.Event{}, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	created, err := s.repo.CreateEvent(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.CreateEvent -> %w", err)
	}

	zap.L().Info("event created", zap.String("event_id", created.ID), zap.String("category", created.Category))

	return created, nil
}

func (s *EventService) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (domain.Event, error) {
	if err := patch.Validate(); err != nil {
		return domain.Event{}, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	if err := s.repo.UpdateEventFields(ctx, id, patch); err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.UpdateEventFields -> %w", err)
	}

	event, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.GetEvent -> %w", err)
	}

	return event, nil
}

// DeleteEvent removes the record first, then its photos. A failed photo
// cleanup is logged and does not fail the call.
func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	event, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.GetEvent -> %w", err)
	}

	if err = s.repo.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("s.repo.DeleteEvent -> %w", err)
	}

	if err = s.photos.DeleteEventPhotos(ctx, event.PhotoURLs); err != nil {
		zap.L().Error("failed to delete photos of deleted event", zap.String("event_id", id), zap.Error(err))
	}

	return nil
}

// AddPhotos uploads files and appends their URLs to the event's photos.
func (s *EventService) AddPhotos(ctx context.Context, id string, files []domain.PhotoFile) (domain.Event, error) {
	event, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.GetEvent -> %w", err)
	}

	urls, err := s.photos.UploadEventPhotos(ctx, id, files)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.photos.UploadEventPhotos -> %w", err)
	}

	photoURLs := append(slices.Clone(event.PhotoURLs), urls...)
	if err = s.repo.UpdateEventPhotos(ctx, id, photoURLs); err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.UpdateEventPhotos -> %w", err)
	}

	event.PhotoURLs = photoURLs
	event.ImgURL = photoURLs[0]

	return event, nil
}

func (s *EventService) RemovePhoto(ctx context.Context, id, url string) (domain.Event, error) {
	event, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.GetEvent -> %w", err)
	}

	i := slices.Index(event.PhotoURLs, url)
	if i < 0 {
		return domain.Event{}, ErrPhotoNotFound
	}

	if err = s.photos.DeleteEventPhotos(ctx, []string{url}); err != nil {
		return domain.Event{}, fmt.Errorf("s.photos.DeleteEventPhotos -> %w", err)
	}

	photoURLs := slices.Delete(slices.Clone(event.PhotoURLs), i, i+1)
	if err = s.repo.UpdateEventPhotos(ctx, id, photoURLs); err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.UpdateEventPhotos -> %w", err)
	}

	event.PhotoURLs = photoURLs
	event.ImgURL = ""
	if len(photoURLs) > 0 {
		event.ImgURL = photoURLs[0]
	}

	return event, nil
}
