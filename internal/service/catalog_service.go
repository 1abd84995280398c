package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/soporteit/support-desk/internal/domain"
	"github.com/soporteit/support-desk/internal/repository"
	apperrors "github.com/soporteit/support-desk/pkg/util/errorutil"
	"github.com/soporteit/support-desk/pkg/util/validation"
)

// DefaultServices is the catalog installed on an empty database.
var DefaultServices = []domain.ServiceCategory{
	{Code: "reparacion", Name: "Reparación de Equipos", Description: "Diagnóstico y reparación de computadoras y dispositivos", Active: true},
	{Code: "redes", Name: "Montaje de Redes", Description: "Instalación y configuración de redes", Active: true},
	{Code: "impresoras", Name: "Soporte de Impresoras", Description: "Mantenimiento y reparación de impresoras", Active: true},
	{Code: "seguridad", Name: "Seguridad Informática", Description: "Protección y seguridad de sistemas", Active: true},
	{Code: "errores", Name: "Detección de Errores", Description: "Diagnóstico de problemas de software y hardware", Active: true},
	{Code: "soporte", Name: "Soporte Técnico General", Description: "Asistencia técnica general", Active: true},
	{Code: "desarrollo_app", Name: "Programación de Aplicaciones Personalizadas", Description: "Desarrollo de software a medida para sus necesidades específicas", Active: true},
	{Code: "desarrollo_web", Name: "Desarrollo de Entornos Web", Description: "Creación de páginas web, tiendas online y aplicaciones web", Active: true},
}

// CatalogService manages the service categories tickets reference.
type CatalogService struct {
	catalog repository.CatalogRepository
	logger  *zap.Logger
}

// ServiceInput describes a catalog entry. Active defaults to true on create.
type ServiceInput struct {
	Code        string `json:"code" validate:"required,max=50"`
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

// NewCatalogService constructs the service.
func NewCatalogService(catalog repository.CatalogRepository, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{catalog: catalog, logger: logger}
}

// SeedDefaults installs DefaultServices when the catalog is empty and
// reports how many entries were inserted.
func (s *CatalogService) SeedDefaults(ctx context.Context) (int, error) {
	count, err := s.catalog.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}
	for i := range DefaultServices {
		svc := DefaultServices[i]
		if err := s.catalog.Create(ctx, &svc); err != nil {
			return i, err
		}
	}
	s.logger.Info("default services seeded", zap.Int("count", len(DefaultServices)))
	return len(DefaultServices), nil
}

// List returns catalog entries ordered by name.
func (s *CatalogService) List(ctx context.Context, activeOnly bool) ([]domain.ServiceCategory, error) {
	services, err := s.catalog.List(ctx, activeOnly)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return services, nil
}

// Get returns one entry.
func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.ServiceCategory, error) {
	svc, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return nil, serviceError(err, id)
	}
	return svc, nil
}

// NameFor resolves a service code to its display name, falling back to the code.
func (s *CatalogService) NameFor(ctx context.Context, code string) string {
	svc, err := s.catalog.GetByCode(ctx, code)
	if err != nil {
		return code
	}
	return svc.Name
}

// Create adds a catalog entry. Duplicate codes conflict.
func (s *CatalogService) Create(ctx context.Context, input ServiceInput) (*domain.ServiceCategory, error) {
	input = trimServiceInput(input)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	svc := &domain.ServiceCategory{
		Code:        input.Code,
		Name:        input.Name,
		Description: input.Description,
		Active:      input.Active == nil || *input.Active,
	}
	if err := s.catalog.Create(ctx, svc); err != nil {
		return nil, serviceError(err, 0)
	}
	return svc, nil
}

// Update replaces a catalog entry. A nil Active keeps the current value.
func (s *CatalogService) Update(ctx context.Context, id int64, input ServiceInput) (*domain.ServiceCategory, error) {
	input = trimServiceInput(input)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	svc, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return nil, serviceError(err, id)
	}
	svc.Code = input.Code
	svc.Name = input.Name
	svc.Description = input.Description
	if input.Active != nil {
		svc.Active = *input.Active
	}
	if err := s.catalog.Update(ctx, svc); err != nil {
		return nil, serviceError(err, id)
	}
	return svc, nil
}

// Delete removes a catalog entry.
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if err := s.catalog.Delete(ctx, id); err != nil {
		return serviceError(err, id)
	}
	return nil
}

func serviceError(err error, id int64) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.NewNotFound("service", map[string]any{"id": id})
	case apperrors.IsUniqueViolation(err):
		return apperrors.NewConflict("service code already exists", nil)
	default:
		return apperrors.MapError(err)
	}
}

func trimServiceInput(in ServiceInput) ServiceInput {
	in.Code = strings.ToLower(strings.TrimSpace(in.Code))
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	return in
}
