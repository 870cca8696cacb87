package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aisclub/clubevents/internal/domain"
	"github.com/aisclub/clubevents/internal/repository"
)

var (
	ErrTemplateNotFound = repository.ErrTemplateNotFound
	ErrInvalidTemplate  = errors.New("invalid template")
)

type TemplateRepository interface {
	CreateTemplate(ctx context.Context, template domain.EventTemplate) (domain.EventTemplate, error)
	GetTemplate(ctx context.Context, id string) (domain.EventTemplate, error)
	ListTemplates(ctx context.Context) ([]domain.EventTemplate, error)
	UpdateTemplate(ctx context.Context, template domain.EventTemplate) (domain.EventTemplate, error)
	DeleteTemplate(ctx context.Context, id string) error
}

type TemplateService struct {
	repo TemplateRepository
}

func NewTemplateService(repo TemplateRepository) *TemplateService {
	return &TemplateService{
		repo: repo,
	}
}

func (s *TemplateService) CreateTemplate(ctx context.Context, template domain.EventTemplate) (domain.EventTemplate, error) {
	if err := template.Validate(); err != nil {
		return domain.EventTemplate{}, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}

	template.ID = ""
	created, err := s.repo.CreateTemplate(ctx, template)
	if err != nil {
		return domain.EventTemplate{}, fmt.Errorf("s.repo.CreateTemplate -> %w", err)
	}

	return created, nil
}

func (s *TemplateService) GetTemplate(ctx context.Context, id string) (domain.EventTemplate, error) {
	template, err := s.repo.GetTemplate(ctx, id)
	if err != nil {
		return domain.EventTemplate{}, fmt.Errorf("s.repo.GetTemplate -> %w", err)
	}

	return template, nil
}

func (s *TemplateService) ListTemplates(ctx context.Context) ([]domain.EventTemplate, error) {
	templates, err := s.repo.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListTemplates -> %w", err)
	}

	return templates, nil
}

// UpdateTemplate replaces the stored template with id wholesale.
func (s *TemplateService) UpdateTemplate(ctx context.Context, id string, template domain.EventTemplate) (domain.EventTemplate, error) {
	if err := template.Validate(); err != nil {
		return domain.EventTemplate{}, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}

	template.ID = id
	updated, err := s.repo.UpdateTemplate(ctx, template)
	if err != nil {
		return domain.EventTemplate{}, fmt.Errorf("s.repo.UpdateTemplate -> %w", err)
	}

	return updated, nil
}

func (s *TemplateService) DeleteTemplate(ctx context.Context, id string) error {
	if err := s.repo.DeleteTemplate(ctx, id); err != nil {
		return fmt.Errorf("s.repo.DeleteTemplate -> %w", err)
	}

	return nil
}
