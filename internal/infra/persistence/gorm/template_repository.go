package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/domain"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/repository"
)

// GormTemplateRepository is the GORM implementation of TemplateRepository.
type GormTemplateRepository struct {
	db *gorm.DB
}

// NewGormTemplateRepository creates a GormTemplateRepository instance.
func NewGormTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	if db == nil {
		panic("database connection cannot be nil for GormTemplateRepository")
	}
	return &GormTemplateRepository{db: db}
}

func (r *GormTemplateRepository) FindByTemplateID(ctx context.Context, templateID string) (*domain.Template, error) {
	var tpl domain.Template
	err := r.db.WithContext(ctx).Where("template_id = ?", templateID).First(&tpl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("gorm: find template by slug '%s': %w", templateID, err)
	}
	return &tpl, nil
}

func (r *GormTemplateRepository) Create(ctx context.Context, template *domain.Template) error {
	err := r.db.WithContext(ctx).Create(template).Error
	if err != nil {
		if isDuplicateEntry(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create template '%s': %w", template.TemplateID, err)
	}
	return nil
}

func (r *GormTemplateRepository) Save(ctx context.Context, template *domain.Template) error {
	err := r.db.WithContext(ctx).Save(template).Error
	if err != nil {
		if isDuplicateEntry(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: save template '%s': %w", template.TemplateID, err)
	}
	return nil
}

func (r *GormTemplateRepository) FindByOwner(ctx context.Context, ownerID uint, offset, limit int) ([]domain.Template, error) {
	var templates []domain.Template
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&templates).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list templates for owner %d: %w", ownerID, err)
	}
	return templates, nil
}
