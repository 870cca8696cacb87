package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/aisclub/clubevents/internal/domain"
	"github.com/aisclub/clubevents/internal/repository/dao"
)

var (
	ErrTemplateNotFound = dao.ErrTemplateNotFound
)

type TemplateDAO interface {
	Insert(ctx context.Context, template dao.EventTemplate) (dao.EventTemplate, error)
	FindByID(ctx context.Context, id string) (dao.EventTemplate, error)
	FindAll(ctx context.Context) ([]dao.EventTemplate, error)
	Update(ctx context.Context, template dao.EventTemplate) (dao.EventTemplate, error)
	Delete(ctx context.Context, id string) error
}

type TemplateRepository struct {
	dao TemplateDAO
}

func NewTemplateRepository(dao TemplateDAO) *TemplateRepository {
	return &TemplateRepository{
		dao: dao,
	}
}

func (r *TemplateRepository) CreateTemplate(ctx context.Context, template domain.EventTemplate) (domain.EventTemplate, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(template))
	if err != nil {
		return domain.EventTemplate{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *TemplateRepository) GetTemplate(ctx context.Context, id string) (domain.EventTemplate, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.EventTemplate{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *TemplateRepository) ListTemplates(ctx context.Context) ([]domain.EventTemplate, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	templates := make([]domain.EventTemplate, 0, len(found))
	for _, t := range found {
		templates = append(templates, r.daoToDomain(t))
	}

	return templates, nil
}

func (r *TemplateRepository) UpdateTemplate(ctx context.Context, template domain.EventTemplate) (domain.EventTemplate, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(template))
	if err != nil {
		return domain.EventTemplate{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *TemplateRepository) DeleteTemplate(ctx context.Context, id string) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *TemplateRepository) domainToDao(t domain.EventTemplate) dao.EventTemplate {
	template := dao.EventTemplate{
		ID:                   t.ID,
		Name:                 t.Name,
		Title:                t.Title,
		Description:          t.Description,
		Location:             t.Location,
		ImgURL:               t.ImgURL,
		PhotoURLs:            t.PhotoURLs,
		ExternalURL:          t.ExternalURL,
		Category:             t.Category,
		AdditionalAttendance: t.AdditionalAttendance,
	}

	if t.EventDuration != nil {
		template.EventDuration = decimal.NewNullDecimal(*t.EventDuration)
	}

	return template
}

func (r *TemplateRepository) daoToDomain(t dao.EventTemplate) domain.EventTemplate {
	template := domain.EventTemplate{
		ID:                   t.ID,
		Name:                 t.Name,
		Title:                t.Title,
		Description:          t.Description,
		Location:             t.Location,
		ImgURL:               t.ImgURL,
		PhotoURLs:            t.PhotoURLs,
		ExternalURL:          t.ExternalURL,
		Category:             t.Category,
		AdditionalAttendance: t.AdditionalAttendance,
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
	}

	if t.EventDuration.Valid {
		d := t.EventDuration.Decimal
		template.EventDuration = &d
	}

	return template
}
