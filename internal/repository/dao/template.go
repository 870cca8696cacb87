package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrTemplateNotFound = errors.New("template not found")
)

// EventTemplate keeps unset optional fields as NULL.
type EventTemplate struct {
	ID                   string `gorm:"primaryKey;type:varchar(36)"`
	Name                 string `gorm:"not null"`
	Title                *string
	Description          *string
	Location             *string
	ImgURL               *string  `gorm:"column:img_url"`
	PhotoURLs            []string `gorm:"column:photo_urls;serializer:json"`
	ExternalURL          *string  `gorm:"column:external_url"`
	Category             *string
	EventDuration        decimal.NullDecimal `gorm:"type:numeric(6,2)"`
	AdditionalAttendance *int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (t *EventTemplate) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

type TemplateDAO struct {
	db *gorm.DB
}

func NewTemplateDAO(db *gorm.DB) *TemplateDAO {
	return &TemplateDAO{
		db: db,
	}
}

func (d *TemplateDAO) Insert(ctx context.Context, template EventTemplate) (EventTemplate, error) {
	result := d.db.WithContext(ctx).Create(&template)
	if result.Error != nil {
		return EventTemplate{}, result.Error
	}

	return template, nil
}

func (d *TemplateDAO) FindByID(ctx context.Context, id string) (EventTemplate, error) {
	var template EventTemplate

	result := d.db.WithContext(ctx).First(&template, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return EventTemplate{}, ErrTemplateNotFound
		}

		return EventTemplate{}, result.Error
	}

	return template, nil
}

func (d *TemplateDAO) FindAll(ctx context.Context) ([]EventTemplate, error) {
	var templates []EventTemplate

	result := d.db.WithContext(ctx).Order("name").Find(&templates)
	if result.Error != nil {
		return nil, result.Error
	}

	return templates, nil
}

// Update replaces every field except the id and creation time; nil fields
// become NULL.
func (d *TemplateDAO) Update(ctx context.Context, template EventTemplate) (EventTemplate, error) {
	result := d.db.WithContext(ctx).
		Model(&EventTemplate{}).
		Where("id = ?", template.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(&template)
	if result.Error != nil {
		return EventTemplate{}, result.Error
	}
	if result.RowsAffected == 0 {
		return EventTemplate{}, ErrTemplateNotFound
	}

	return d.FindByID(ctx, template.ID)
}

func (d *TemplateDAO) Delete(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Delete(&EventTemplate{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTemplateNotFound
	}

	return nil
}
