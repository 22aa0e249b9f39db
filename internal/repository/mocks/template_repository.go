package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/domain"
)

// TemplateRepository is a mock of repository.TemplateRepository.
type TemplateRepository struct {
	mock.Mock
}

func (m *TemplateRepository) FindByTemplateID(ctx context.Context, templateID string) (*domain.Template, error) {
	args := m.Called(ctx, templateID)
	if t := args.Get(0); t != nil {
		return t.(*domain.Template), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TemplateRepository) Create(ctx context.Context, template *domain.Template) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *TemplateRepository) Save(ctx context.Context, template *domain.Template) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *TemplateRepository) FindByOwner(ctx context.Context, ownerID uint, offset, limit int) ([]domain.Template, error) {
	args := m.Called(ctx, ownerID, offset, limit)
	if t := args.Get(0); t != nil {
		return t.([]domain.Template), args.Error(1)
	}
	return nil, args.Error(1)
}
