package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	locationDomain "github.com/ryderx/service-rental/internal/domain/location"
	"github.com/ryderx/service-rental/internal/uow"
	"github.com/ryderx/service-rental/pkg/domain"
)

// LocationRequest is the request DTO for creating or updating a location.
// On update, empty fields are left unchanged.
type LocationRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

// LocationDTO is the API response representation of a location.
type LocationDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	State     string    `json:"state,omitempty"`
	ZipCode   string    `json:"zip_code,omitempty"`
	Country   string    `json:"country,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LocationService manages pickup and dropoff locations.
type LocationService struct {
	store  uow.Store
	logger *zap.Logger
}

// NewLocationService creates a new LocationService.
func NewLocationService(store uow.Store, logger *zap.Logger) *LocationService {
	return &LocationService{store: store, logger: logger}
}

func (s *LocationService) CreateLocation(ctx context.Context, req LocationRequest) (*LocationDTO, error) {
	loc, err := locationDomain.NewLocation(req.Name, req.Address, req.City, req.State, req.ZipCode, req.Country)
	if err != nil {
		return nil, err
	}
	if err := s.store.Repositories().Locations().Save(ctx, loc); err != nil {
		return nil, err
	}

	s.logger.Info("location created", zap.String("location_id", loc.ID().String()))
	return toLocationDTO(loc), nil
}

func (s *LocationService) GetLocation(ctx context.Context, id uuid.UUID) (*LocationDTO, error) {
	loc, err := s.store.Repositories().Locations().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toLocationDTO(loc), nil
}

func (s *LocationService) ListLocations(ctx context.Context, page, limit int) (*domain.PaginatedResult[LocationDTO], error) {
	page, limit = normalizePage(page, limit)
	locations, total, err := s.store.Repositories().Locations().List(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]LocationDTO, len(locations))
	for i, l := range locations {
		dtos[i] = *toLocationDTO(l)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

func (s *LocationService) UpdateLocation(ctx context.Context, id uuid.UUID, req LocationRequest) (*LocationDTO, error) {
	repos := s.store.Repositories()
	loc, err := repos.Locations().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	loc.Update(req.Name, req.Address, req.City, req.State, req.ZipCode, req.Country)
	if err := repos.Locations().Update(ctx, loc); err != nil {
		return nil, err
	}

	s.logger.Info("location updated", zap.String("location_id", id.String()))
	return toLocationDTO(loc), nil
}

// DeleteLocation removes a location that no car or reservation references.
func (s *LocationService) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Repositories().Locations().Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("location deleted", zap.String("location_id", id.String()))
	return nil
}

func toLocationDTO(l *locationDomain.Location) *LocationDTO {
	return &LocationDTO{
		ID:        l.ID(),
		Name:      l.Name(),
		Address:   l.Address(),
		City:      l.City(),
		State:     l.State(),
		ZipCode:   l.ZipCode(),
		Country:   l.Country(),
		CreatedAt: l.CreatedAt(),
		UpdatedAt: l.UpdatedAt(),
	}
}
