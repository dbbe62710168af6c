package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	locationDomain "github.com/ryderx/service-rental/internal/domain/location"
	"github.com/ryderx/service-rental/pkg/domain"
)

// LocationModel is the GORM model for the locations table.
type LocationModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(150);not null"`
	Address   string    `gorm:"type:text;not null"`
	City      string    `gorm:"type:varchar(100);not null"`
	State     string    `gorm:"type:varchar(100)"`
	ZipCode   string    `gorm:"type:varchar(20)"`
	Country   string    `gorm:"type:varchar(100)"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (LocationModel) TableName() string { return "locations" }

// GormLocationRepository implements location.Repository using GORM.
type GormLocationRepository struct {
	db *gorm.DB
}

func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

func (r *GormLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*locationDomain.Location, error) {
	var model LocationModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Location", id.String())
		}
		return nil, domain.NewPersistenceError("failed to find location", err)
	}
	return toLocationDomain(&model), nil
}

func (r *GormLocationRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*locationDomain.Location, error) {
	locations := make(map[uuid.UUID]*locationDomain.Location, len(ids))
	if len(ids) == 0 {
		return locations, nil
	}

	var models []LocationModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, domain.NewPersistenceError("failed to find locations", err)
	}
	for i := range models {
		locations[models[i].ID] = toLocationDomain(&models[i])
	}
	return locations, nil
}

func (r *GormLocationRepository) List(ctx context.Context, page, limit int) ([]*locationDomain.Location, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&LocationModel{}).Count(&total).Error; err != nil {
		return nil, 0, domain.NewPersistenceError("failed to count locations", err)
	}

	var models []LocationModel
	if err := r.db.WithContext(ctx).
		Scopes(paginate(page, limit)).
		Order("name ASC").
		Find(&models).Error; err != nil {
		return nil, 0, domain.NewPersistenceError("failed to list locations", err)
	}

	locations := make([]*locationDomain.Location, len(models))
	for i := range models {
		locations[i] = toLocationDomain(&models[i])
	}
	return locations, total, nil
}

func (r *GormLocationRepository) Save(ctx context.Context, loc *locationDomain.Location) error {
	if err := r.db.WithContext(ctx).Create(toLocationModel(loc)).Error; err != nil {
		return domain.NewPersistenceError("failed to save location", err)
	}
	return nil
}

func (r *GormLocationRepository) Update(ctx context.Context, loc *locationDomain.Location) error {
	model := toLocationModel(loc)
	result := r.db.WithContext(ctx).
		Model(&LocationModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":       model.Name,
			"address":    model.Address,
			"city":       model.City,
			"state":      model.State,
			"zip_code":   model.ZipCode,
			"country":    model.Country,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return domain.NewPersistenceError("failed to update location", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Location", model.ID.String())
	}
	return nil
}

// Delete removes a location. A location still referenced by cars or reservations is a conflict.
func (r *GormLocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var refs int64
	if err := r.db.WithContext(ctx).Model(&CarModel{}).Where("location_id = ?", id).Count(&refs).Error; err != nil {
		return domain.NewPersistenceError("failed to check location usage", err)
	}
	if refs == 0 {
		if err := r.db.WithContext(ctx).Model(&ReservationModel{}).
			Where("pickup_location_id = ? OR dropoff_location_id = ?", id, id).
			Count(&refs).Error; err != nil {
			return domain.NewPersistenceError("failed to check location usage", err)
		}
	}
	if refs > 0 {
		return domain.NewConflictError("location is still in use")
	}

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&LocationModel{})
	if result.Error != nil {
		return domain.NewPersistenceError("failed to delete location", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Location", id.String())
	}
	return nil
}

func toLocationModel(l *locationDomain.Location) *LocationModel {
	return &LocationModel{
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

func toLocationDomain(m *LocationModel) *locationDomain.Location {
	return locationDomain.Reconstruct(m.ID, m.Name, m.Address, m.City, m.State, m.ZipCode, m.Country, m.CreatedAt, m.UpdatedAt)
}
