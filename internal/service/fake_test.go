package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aisclub/clubevents/internal/domain"
	"github.com/aisclub/clubevents/internal/repository"
)

// memStore is an in-memory EventRepository and TemplateReader.
type memStore struct {
	mu        sync.Mutex
	events    map[string]domain.Event
	templates map[string]domain.EventTemplate
	nextID    int
	calls     int

	addErr  error
	incErr  error
	listErr error
}

func newMemStore(events ...domain.Event) *memStore {
	s := &memStore{
		events:    make(map[string]domain.Event),
		templates: make(map[string]domain.EventTemplate),
	}
	for _, e := range events {
		s.events[e.ID] = e
	}
	return s
}

func (s *memStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *memStore) event(id string) domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.events[id])
}

func clone(e domain.Event) domain.Event {
	e.UserAttendees = slices.Clone(e.UserAttendees)
	e.PhotoURLs = slices.Clone(e.PhotoURLs)
	return e
}

func (s *memStore) CreateEvent(_ context.Context, event domain.Event) (domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	s.nextID++
	event.ID = fmt.Sprintf("e%d", s.nextID)
	s.events[event.ID] = clone(event)

	return event, nil
}

func (s *memStore) GetEvent(_ context.Context, id string) (domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	e, ok := s.events[id]
	if !ok {
		return domain.Event{}, fmt.Errorf("memStore -> %w", repository.ErrEventNotFound)
	}
	return clone(e), nil
}

func (s *memStore) ListEvents(_ context.Context) ([]domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	if s.listErr != nil {
		return nil, s.listErr
	}

	events := make([]domain.Event, 0, len(s.events))
	for _, e := range s.events {
		events = append(events, clone(e))
	}
	slices.SortFunc(events, func(a, b domain.Event) int { return a.Datetime.Compare(b.Datetime) })

	return events, nil
}

func (s *memStore) ListEventsBetween(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	all, err := s.ListEvents(ctx)
	if err != nil {
		return nil, err
	}

	events := make([]domain.Event, 0, len(all))
	for _, e := range all {
		if e.Datetime.After(from) && !e.Datetime.After(to) {
			events = append(events, e)
		}
	}
	return events, nil
}

func (s *memStore) UpdateEventFields(_ context.Context, id string, patch domain.EventPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	e, ok := s.events[id]
	if !ok {
		return repository.ErrEventNotFound
	}
	if patch.Title != nil {
		e.Title = *patch.Title
	}
	if patch.Category != nil {
		e.Category = *patch.Category
	}
	if patch.Datetime != nil {
		e.Datetime = *patch.Datetime
	}
	s.events[id] = e

	return nil
}

func (s *memStore) UpdateEventPhotos(_ context.Context, id string, photoURLs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	e, ok := s.events[id]
	if !ok {
		return repository.ErrEventNotFound
	}
	e.PhotoURLs = slices.Clone(photoURLs)
	e.ImgURL = ""
	if len(photoURLs) > 0 {
		e.ImgURL = photoURLs[0]
	}
	s.events[id] = e

	return nil
}

func (s *memStore) DeleteEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	if _, ok := s.events[id]; !ok {
		return repository.ErrEventNotFound
	}
	delete(s.events, id)

	return nil
}

func (s *memStore) AddAttendee(_ context.Context, eventID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	if s.addErr != nil {
		return s.addErr
	}
	e, ok := s.events[eventID]
	if !ok {
		return repository.ErrEventNotFound
	}
	if !slices.Contains(e.UserAttendees, userID) {
		e.UserAttendees = append(e.UserAttendees, userID)
	}
	s.events[eventID] = e

	return nil
}

func (s *memStore) IncrementPlusOneCount(_ context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	if s.incErr != nil {
		return s.incErr
	}
	e, ok := s.events[eventID]
	if !ok {
		return repository.ErrEventNotFound
	}
	e.AdditionalAttendance++
	s.events[eventID] = e

	return nil
}

func (s *memStore) GetTemplate(_ context.Context, id string) (domain.EventTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	t, ok := s.templates[id]
	if !ok {
		return domain.EventTemplate{}, repository.ErrTemplateNotFound
	}
	return t, nil
}

// memObjects is an in-memory ObjectStore.
type memObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string

	uploadErr error
	deleteErr error
	// block makes Upload hang, ignoring ctx, until the channel is closed.
	block chan struct{}
}

func newMemObjects() *memObjects {
	return &memObjects{objects: make(map[string][]byte)}
}

func (m *memObjects) Upload(_ context.Context, objectPath string, data []byte) (string, error) {
	if m.block != nil {
		<-m.block
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	url := "https://cdn.test/" + objectPath
	m.objects[url] = data

	return url, nil
}

func (m *memObjects) Delete(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.objects, url)
	m.deleted = append(m.deleted, url)

	return nil
}

func (m *memObjects) Owns(url string) bool {
	return strings.HasPrefix(url, "https://cdn.test/")
}

type recordingNotifier struct {
	mu       sync.Mutex
	checkIns []domain.CheckIn
}

func (n *recordingNotifier) Publish(c domain.CheckIn) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.checkIns = append(n.checkIns, c)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.checkIns)
}
