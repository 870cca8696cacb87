package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEventNotFound = errors.New("event not found")
)

type Event struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	Title       string `gorm:"not null"`
	Description string
	Location    string
	Category    string   `gorm:"not null;index"`
	ImgURL      string   `gorm:"column:img_url"`
	PhotoURLs   []string `gorm:"column:photo_urls;serializer:json"`
	ExternalURL string   `gorm:"column:external_url"`
	Datetime    *time.Time
	// Hours, fractional values allowed.
	EventDuration        decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	Attendees            []EventAttendee `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	AdditionalAttendance int             `gorm:"not null;default:0"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// EventAttendee is one checked-in member. The composite key makes a repeated
// check-in a no-op.
type EventAttendee struct {
	EventID   string `gorm:"primaryKey;type:varchar(36)"`
	UserID    string `gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time
}

func (e *Event) BeforeCreate(_ *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	event.Attendees = nil

	result := d.db.WithContext(ctx).Create(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id string) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).
		Preload("Attendees", func(db *gorm.DB) *gorm.DB { return db.Order("created_at, user_id") }).
		First(&event, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindAll(ctx context.Context) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Preload("Attendees", func(db *gorm.DB) *gorm.DB { return db.Order("created_at, user_id") }).
		Order("datetime DESC NULLS LAST").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) FindBetween(ctx context.Context, from, to time.Time) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Where("datetime > ? AND datetime <= ?", from, to).
		Order("datetime").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

// UpdateColumns writes the given columns only. Keys are column names.
func (d *EventDAO) UpdateColumns(ctx context.Context, id string, columns map[string]interface{}) error {
	result := d.db.WithContext(ctx).Model(&Event{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

func (d *EventDAO) UpdatePhotos(ctx context.Context, id string, photoURLs []string, imgURL string) error {
	result := d.db.WithContext(ctx).
		Model(&Event{}).
		Where("id = ?", id).
		Select("photo_urls", "img_url").
		Updates(&Event{PhotoURLs: photoURLs, ImgURL: imgURL})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

func (d *EventDAO) Delete(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Delete(&Event{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

// AddAttendee inserts the membership row, doing nothing if it is already
// there. Concurrent calls for the same pair converge on one row.
func (d *EventDAO) AddAttendee(ctx context.Context, eventID, userID string) error {
	result := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&EventAttendee{EventID: eventID, UserID: userID})
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.ForeignKeyViolation {
			return ErrEventNotFound
		}

		return result.Error
	}

	return nil
}

// IncrementAdditionalAttendance adds by to the plus-one tally in a single
// UPDATE so concurrent increments are never lost.
func (d *EventDAO) IncrementAdditionalAttendance(ctx context.Context, eventID string, by int) error {
	result := d.db.WithContext(ctx).
		Model(&Event{}).
		Where("id = ?", eventID).
		UpdateColumn("additional_attendance", gorm.Expr("additional_attendance + ?", by))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}
