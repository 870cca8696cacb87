package dao

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEvent(t *testing.T, d *EventDAO) Event {
	t.Helper()

	at := time.Date(2030, 5, 1, 18, 0, 0, 0, time.UTC)
	event, err := d.Insert(context.Background(), Event{
		Title:         "Board game night",
		Category:      "Socialize",
		Datetime:      &at,
		EventDuration: decimal.RequireFromString("1.5"),
		PhotoURLs:     []string{},
	})
	require.NoError(t, err)
	require.NotEmpty(t, event.ID)

	return event
}

func TestEventDAO_InsertAndFind(t *testing.T) {
	d := NewEventDAO(requireDB(t))
	ctx := context.Background()

	created := newTestEvent(t, d)

	got, err := d.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Board game night", got.Title)
	assert.True(t, got.EventDuration.Equal(decimal.RequireFromString("1.5")))
	assert.Empty(t, got.Attendees)

	_, err = d.FindByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestEventDAO_AddAttendeeIsIdempotent(t *testing.T) {
	d := NewEventDAO(requireDB(t))
	ctx := context.Background()
	event := newTestEvent(t, d)

	require.NoError(t, d.AddAttendee(ctx, event.ID, "u1"))
	require.NoError(t, d.AddAttendee(ctx, event.ID, "u1"))
	require.NoError(t, d.AddAttendee(ctx, event.ID, "u2"))

	got, err := d.FindByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, got.Attendees, 2)
}

func TestEventDAO_AddAttendeeUnknownEvent(t *testing.T) {
	d := NewEventDAO(requireDB(t))

	err := d.AddAttendee(context.Background(), "00000000-0000-0000-0000-000000000000", "u1")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestEventDAO_ConcurrentIncrements(t *testing.T) {
	d := NewEventDAO(requireDB(t))
	ctx := context.Background()
	event := newTestEvent(t, d)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, d.IncrementAdditionalAttendance(ctx, event.ID, 1))
		}()
	}
	wg.Wait()

	got, err := d.FindByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, n, got.AdditionalAttendance)
}

func TestEventDAO_UpdatePhotosAndDelete(t *testing.T) {
	d := NewEventDAO(requireDB(t))
	ctx := context.Background()
	event := newTestEvent(t, d)
	require.NoError(t, d.AddAttendee(ctx, event.ID, "u1"))

	require.NoError(t, d.UpdatePhotos(ctx, event.ID, []string{"a", "b"}, "a"))
	got, err := d.FindByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.PhotoURLs)
	assert.Equal(t, "a", got.ImgURL)

	require.NoError(t, d.Delete(ctx, event.ID))
	assert.ErrorIs(t, d.Delete(ctx, event.ID), ErrEventNotFound)

	var count int64
	require.NoError(t, testDB.Model(&EventAttendee{}).Where("event_id = ?", event.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestEventDAO_UpdateColumnsUnknownEvent(t *testing.T) {
	d := NewEventDAO(requireDB(t))

	err := d.UpdateColumns(context.Background(), "00000000-0000-0000-0000-000000000000", map[string]interface{}{"title": "x"})
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestEventDAO_FindBetween(t *testing.T) {
	d := NewEventDAO(requireDB(t))
	ctx := context.Background()

	insertAt := func(at time.Time) string {
		event, err := d.Insert(ctx, Event{Title: "window", Category: "Learn", Datetime: &at, EventDuration: decimal.NewFromInt(1), PhotoURLs: []string{}})
		require.NoError(t, err)
		return event.ID
	}

	from := time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	atStart := insertAt(from)
	inside := insertAt(from.Add(time.Hour))
	atEnd := insertAt(to)
	after := insertAt(to.Add(time.Minute))

	got, err := d.FindBetween(ctx, from, to)
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, e := range got {
		ids = append(ids, e.ID)
	}
	assert.Contains(t, ids, inside)
	assert.Contains(t, ids, atEnd)
	assert.NotContains(t, ids, atStart)
	assert.NotContains(t, ids, after)
}
