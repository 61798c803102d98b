package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/biblioteca-unival/capacitaciones-api/internal/models"
	appErrors "github.com/biblioteca-unival/capacitaciones-api/pkg/errors"
)

type catalogRepository interface {
	List(ctx context.Context) ([]models.CatalogItem, error)
	ListActiveNames(ctx context.Context) ([]string, error)
	FindByID(ctx context.Context, id int64) (*models.CatalogItem, error)
	Create(ctx context.Context, name string) (int64, error)
	Toggle(ctx context.Context, id int64, now time.Time) (int64, error)
	CountReferences(ctx context.Context, name string) (int, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// CatalogService manages one catalog (programs or modalities). Label names
// the catalog in user-facing messages.
type CatalogService struct {
	repo      catalogRepository
	label     string
	validator *validator.Validate
	logger    *zap.Logger
}

func NewCatalogService(repo catalogRepository, label string, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CatalogService{repo: repo, label: label, validator: validate, logger: logger}
}

// List returns every entry, active or not, for the management screen.
func (s *CatalogService) List(ctx context.Context) ([]models.CatalogItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list catalog")
	}

	return items, nil
}

// ActiveOptions returns active entries as value/label pairs for the public
// registration form.
func (s *CatalogService) ActiveOptions(ctx context.Context) ([]models.CatalogOption, error) {
	names, err := s.repo.ListActiveNames(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list active options")
	}

	options := make([]models.CatalogOption, len(names))
	for i, name := range names {
		options[i] = models.CatalogOption{Value: name, Label: name}
	}

	return options, nil
}

// Create adds a catalog entry; duplicate names conflict.
func (s *CatalogService) Create(ctx context.Context, req models.CreateCatalogItemRequest) (*models.CatalogItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			"el nombre es obligatorio")
	}

	id, err := s.repo.Create(ctx, req.Name)
	if err != nil {
		if appErrors.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("%s %q ya existe", s.label, req.Name))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create catalog entry")
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return &models.CatalogItem{ID: id, Name: req.Name, Active: true}, nil
	}

	return item, nil
}

// Toggle flips the active flag of an entry.
func (s *CatalogService) Toggle(ctx context.Context, id int64) (*models.CatalogItem, error) {
	affected, err := s.repo.Toggle(ctx, id, time.Now().UTC())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to toggle catalog entry")
	}
	if affected == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s no encontrado", s.label))
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload catalog entry")
	}

	return item, nil
}

// Delete removes an unreferenced entry. Entries still referenced by
// attendances are kept; deactivation is the supported alternative.
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s no encontrado", s.label))
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch catalog entry")
	}

	references, err := s.repo.CountReferences(ctx, item.Name)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count references")
	}
	if references > 0 {
		return appErrors.Clone(appErrors.ErrCatalogInUse, fmt.Sprintf(
			"%s %q tiene %d asistencias asociadas; desactívelo en su lugar", s.label, item.Name, references))
	}

	if _, err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete catalog entry")
	}

	s.logger.Info("catalog entry deleted", zap.String("catalog", s.label), zap.String("name", item.Name))

	return nil
}
