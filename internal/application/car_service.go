package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	carDomain "github.com/ryderx/service-rental/internal/domain/car"
	"github.com/ryderx/service-rental/internal/uow"
	"github.com/ryderx/service-rental/pkg/domain"
)

// CreateCarRequest is the request DTO for listing a car.
type CreateCarRequest struct {
	OwnerID          *uuid.UUID `json:"owner_id"`
	LocationID       uuid.UUID  `json:"location_id" binding:"required"`
	Make             string     `json:"make" binding:"required"`
	Model            string     `json:"model" binding:"required"`
	Year             int        `json:"year" binding:"required"`
	LicensePlate     string     `json:"license_plate" binding:"required"`
	PricePerDayCents int64      `json:"price_per_day_cents" binding:"required"`
	Category         string     `json:"category"`
	FuelType         string     `json:"fuel_type"`
	Transmission     string     `json:"transmission"`
	Seats            int        `json:"seats"`
}

// UpdateCarRequest is the request DTO for updating a car's listing. Zero values are left unchanged.
type UpdateCarRequest struct {
	LocationID       uuid.UUID `json:"location_id"`
	Make             string    `json:"make"`
	Model            string    `json:"model"`
	Year             int       `json:"year"`
	LicensePlate     string    `json:"license_plate"`
	PricePerDayCents int64     `json:"price_per_day_cents"`
	Category         string    `json:"category"`
	FuelType         string    `json:"fuel_type"`
	Transmission     string    `json:"transmission"`
	Seats            int       `json:"seats"`
}

// ListCarsQuery narrows a car listing.
type ListCarsQuery struct {
	OwnerID       *uuid.UUID
	LocationID    *uuid.UUID
	AvailableOnly bool
	Page, Limit   int
}

// CarDTO is the API response representation of a car.
type CarDTO struct {
	ID               uuid.UUID  `json:"id"`
	OwnerID          *uuid.UUID `json:"owner_id,omitempty"`
	LocationID       uuid.UUID  `json:"location_id"`
	Make             string     `json:"make"`
	Model            string     `json:"model"`
	Year             int        `json:"year"`
	LicensePlate     string     `json:"license_plate"`
	PricePerDayCents int64      `json:"price_per_day_cents"`
	Category         string     `json:"category,omitempty"`
	FuelType         string     `json:"fuel_type,omitempty"`
	Transmission     string     `json:"transmission,omitempty"`
	Seats            int        `json:"seats"`
	IsAvailable      bool       `json:"is_available"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// CarService implements use cases for the car fleet. Availability is never set here.
type CarService struct {
	store  uow.Store
	logger *zap.Logger
}

// NewCarService creates a new CarService.
func NewCarService(store uow.Store, logger *zap.Logger) *CarService {
	return &CarService{store: store, logger: logger}
}

// CreateCar lists a new car. Agents always own the cars they create; admins may
// assign an owner or leave the car unowned.
func (s *CarService) CreateCar(ctx context.Context, actor Actor, req CreateCarRequest) (*CarDTO, error) {
	if !actor.IsStaff() {
		return nil, domain.NewForbiddenError("only agents and admins can create cars")
	}
	ownerID := req.OwnerID
	if !actor.IsAdmin() {
		ownerID = &actor.UserID
	}

	c, err := carDomain.NewCar(
		ownerID, req.LocationID,
		req.Make, req.Model, req.Year, req.LicensePlate,
		req.PricePerDayCents,
		req.Category, req.FuelType, req.Transmission,
		req.Seats,
	)
	if err != nil {
		return nil, err
	}

	repos := s.store.Repositories()
	if _, err := repos.Locations().FindByID(ctx, req.LocationID); err != nil {
		return nil, err
	}
	if err := repos.Cars().Save(ctx, c); err != nil {
		s.logger.Error("failed to create car", zap.Error(err))
		return nil, fmt.Errorf("failed to create car: %w", err)
	}

	s.logger.Info("car created",
		zap.String("car_id", c.ID().String()),
		zap.String("license_plate", c.LicensePlate()),
	)
	return toCarDTO(c), nil
}

// GetCar returns a single car.
func (s *CarService) GetCar(ctx context.Context, carID uuid.UUID) (*CarDTO, error) {
	c, err := s.store.Repositories().Cars().FindByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	return toCarDTO(c), nil
}

// ListCars returns active cars matching q.
func (s *CarService) ListCars(ctx context.Context, q ListCarsQuery) (*domain.PaginatedResult[CarDTO], error) {
	page, limit := normalizePage(q.Page, q.Limit)
	cars, total, err := s.store.Repositories().Cars().Find(ctx, carDomain.Filter{
		OwnerID:       q.OwnerID,
		LocationID:    q.LocationID,
		AvailableOnly: q.AvailableOnly,
		Page:          page,
		Limit:         limit,
	})
	if err != nil {
		return nil, err
	}

	dtos := make([]CarDTO, len(cars))
	for i, c := range cars {
		dtos[i] = *toCarDTO(c)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// UpdateCar updates a car's listing. Agents may only update cars they own.
func (s *CarService) UpdateCar(ctx context.Context, actor Actor, carID uuid.UUID, req UpdateCarRequest) (*CarDTO, error) {
	repos := s.store.Repositories()
	c, err := repos.Cars().FindByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if err := authorizeCar(actor, c); err != nil {
		return nil, err
	}
	if req.LocationID != uuid.Nil {
		if _, err := repos.Locations().FindByID(ctx, req.LocationID); err != nil {
			return nil, err
		}
	}

	c.Update(
		req.LocationID,
		req.Make, req.Model, req.Year, req.LicensePlate,
		req.PricePerDayCents,
		req.Category, req.FuelType, req.Transmission,
		req.Seats,
	)
	if err := repos.Cars().Update(ctx, c); err != nil {
		s.logger.Error("failed to update car", zap.Error(err))
		return nil, fmt.Errorf("failed to update car: %w", err)
	}

	s.logger.Info("car updated", zap.String("car_id", carID.String()))
	return toCarDTO(c), nil
}

// RetireCar withdraws a car from rental. A car held by an active reservation cannot be retired.
func (s *CarService) RetireCar(ctx context.Context, actor Actor, carID uuid.UUID) error {
	err := s.store.Transaction(ctx, func(tx uow.UnitOfWork) error {
		c, err := tx.Cars().FindByIDForUpdate(ctx, carID)
		if err != nil {
			return err
		}
		if err := authorizeCar(actor, c); err != nil {
			return err
		}

		active, err := tx.Reservations().CountActiveByCar(ctx, carID, nil)
		if err != nil {
			return err
		}
		if active > 0 {
			return domain.NewConflictError("car has active reservations")
		}

		c.Retire()
		return tx.Cars().Update(ctx, c)
	})
	if err != nil {
		return err
	}

	s.logger.Info("car retired", zap.String("car_id", carID.String()))
	return nil
}

func authorizeCar(actor Actor, c *carDomain.Car) error {
	if actor.IsAdmin() {
		return nil
	}
	if !actor.IsStaff() || !c.IsOwnedBy(actor.UserID) {
		return domain.NewForbiddenError("you do not manage this car")
	}
	return nil
}

func toCarDTO(c *carDomain.Car) *CarDTO {
	return &CarDTO{
		ID:               c.ID(),
		OwnerID:          c.OwnerID(),
		LocationID:       c.LocationID(),
		Make:             c.Make(),
		Model:            c.Model(),
		Year:             c.Year(),
		LicensePlate:     c.LicensePlate(),
		PricePerDayCents: c.PricePerDayCents(),
		Category:         c.Category(),
		FuelType:         c.FuelType(),
		Transmission:     c.Transmission(),
		Seats:            c.Seats(),
		IsAvailable:      c.IsAvailable(),
		Status:           string(c.Status()),
		CreatedAt:        c.CreatedAt(),
		UpdatedAt:        c.UpdatedAt(),
	}
}
