package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	carDomain "github.com/ryderx/service-rental/internal/domain/car"
	"github.com/ryderx/service-rental/pkg/domain"
)

// CarModel is the GORM model for the cars table.
type CarModel struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OwnerID          *uuid.UUID `gorm:"type:uuid;index"`
	LocationID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	Make             string     `gorm:"type:varchar(100);not null"`
	Model            string     `gorm:"type:varchar(100);not null"`
	Year             int        `gorm:"not null"`
	LicensePlate     string     `gorm:"type:varchar(20);not null;uniqueIndex"`
	PricePerDayCents int64      `gorm:"not null"`
	Category         string     `gorm:"type:varchar(50)"`
	FuelType         string     `gorm:"type:varchar(30)"`
	Transmission     string     `gorm:"type:varchar(30)"`
	Seats            int        `gorm:"not null"`
	IsAvailable      bool       `gorm:"not null;index"`
	Status           string     `gorm:"type:varchar(20);not null"`
	Version          int64      `gorm:"not null;default:1"`
	CreatedAt        time.Time  `gorm:"not null"`
	UpdatedAt        time.Time  `gorm:"not null"`
}

func (CarModel) TableName() string { return "cars" }

// GormCarRepository implements car.Repository using GORM.
type GormCarRepository struct {
	db *gorm.DB
}

func NewGormCarRepository(db *gorm.DB) *GormCarRepository {
	return &GormCarRepository{db: db}
}

func (r *GormCarRepository) FindByID(ctx context.Context, id uuid.UUID) (*carDomain.Car, error) {
	return r.findOne(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate locks the car row; concurrent claimers queue behind it.
func (r *GormCarRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*carDomain.Car, error) {
	return r.findOne(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormCarRepository) findOne(db *gorm.DB, id uuid.UUID) (*carDomain.Car, error) {
	var model CarModel
	if err := db.Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Car", id.String())
		}
		return nil, domain.NewPersistenceError("failed to find car", err)
	}
	return toCarDomain(&model), nil
}

func (r *GormCarRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*carDomain.Car, error) {
	cars := make(map[uuid.UUID]*carDomain.Car, len(ids))
	if len(ids) == 0 {
		return cars, nil
	}

	var models []CarModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, domain.NewPersistenceError("failed to find cars", err)
	}
	for i := range models {
		cars[models[i].ID] = toCarDomain(&models[i])
	}
	return cars, nil
}

// Find lists active cars matching the filter.
func (r *GormCarRepository) Find(ctx context.Context, filter carDomain.Filter) ([]*carDomain.Car, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("status = ?", string(carDomain.StatusActive))
		if filter.OwnerID != nil {
			db = db.Where("owner_id = ?", *filter.OwnerID)
		}
		if filter.LocationID != nil {
			db = db.Where("location_id = ?", *filter.LocationID)
		}
		if filter.AvailableOnly {
			db = db.Where("is_available = ?", true)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&CarModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, domain.NewPersistenceError("failed to count cars", err)
	}

	var models []CarModel
	if err := r.db.WithContext(ctx).
		Scopes(scope, paginate(filter.Page, filter.Limit)).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, 0, domain.NewPersistenceError("failed to find cars", err)
	}

	cars := make([]*carDomain.Car, len(models))
	for i := range models {
		cars[i] = toCarDomain(&models[i])
	}
	return cars, total, nil
}

func (r *GormCarRepository) Save(ctx context.Context, car *carDomain.Car) error {
	if err := r.db.WithContext(ctx).Create(toCarModel(car)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("a car with this license plate already exists")
		}
		return domain.NewPersistenceError("failed to save car", err)
	}
	return nil
}

// Update writes listing metadata only. is_available is owned by SetAvailability.
func (r *GormCarRepository) Update(ctx context.Context, car *carDomain.Car) error {
	model := toCarModel(car)
	previousVersion := car.Version() - 1

	result := r.db.WithContext(ctx).
		Model(&CarModel{}).
		Where("id = ? AND version = ?", model.ID, previousVersion).
		Updates(map[string]interface{}{
			"location_id":         model.LocationID,
			"make":                model.Make,
			"model":               model.Model,
			"year":                model.Year,
			"license_plate":       model.LicensePlate,
			"price_per_day_cents": model.PricePerDayCents,
			"category":            model.Category,
			"fuel_type":           model.FuelType,
			"transmission":        model.Transmission,
			"seats":               model.Seats,
			"status":              model.Status,
			"version":             model.Version,
			"updated_at":          model.UpdatedAt,
		})

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("a car with this license plate already exists")
		}
		return domain.NewPersistenceError("failed to update car", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("car was modified by another transaction")
	}
	return nil
}

// SetAvailability is a compare-and-set on is_available.
func (r *GormCarRepository) SetAvailability(ctx context.Context, id uuid.UUID, from, to bool) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&CarModel{}).
		Where("id = ? AND is_available = ?", id, from).
		Updates(map[string]interface{}{
			"is_available": to,
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		return false, domain.NewPersistenceError("failed to set car availability", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func toCarModel(c *carDomain.Car) *CarModel {
	return &CarModel{
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
		Version:          c.Version(),
		CreatedAt:        c.CreatedAt(),
		UpdatedAt:        c.UpdatedAt(),
	}
}

func toCarDomain(m *CarModel) *carDomain.Car {
	return carDomain.Reconstruct(
		m.ID, m.OwnerID, m.LocationID,
		m.Make, m.Model, m.Year, m.LicensePlate,
		m.PricePerDayCents,
		m.Category, m.FuelType, m.Transmission,
		m.Seats, m.IsAvailable,
		carDomain.Status(m.Status),
		m.Version, m.CreatedAt, m.UpdatedAt,
	)
}
