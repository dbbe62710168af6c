package location

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ryderx/service-rental/pkg/domain"
)

// Location is a branch where cars are based, picked up and returned.
type Location struct {
	id        uuid.UUID
	name      string
	address   string
	city      string
	state     string
	zipCode   string
	country   string
	createdAt time.Time
	updatedAt time.Time
}

// NewLocation creates a Location. Name and city are required.
func NewLocation(name, address, city, state, zipCode, country string) (*Location, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.NewValidationError("location name is required")
	}
	if strings.TrimSpace(city) == "" {
		return nil, domain.NewValidationError("location city is required")
	}

	now := time.Now().UTC()
	return &Location{
		id:        uuid.New(),
		name:      strings.TrimSpace(name),
		address:   address,
		city:      strings.TrimSpace(city),
		state:     state,
		zipCode:   zipCode,
		country:   country,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Location from persistence.
func Reconstruct(id uuid.UUID, name, address, city, state, zipCode, country string, createdAt, updatedAt time.Time) *Location {
	return &Location{
		id:        id,
		name:      name,
		address:   address,
		city:      city,
		state:     state,
		zipCode:   zipCode,
		country:   country,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// Getters.
func (l *Location) ID() uuid.UUID        { return l.id }
func (l *Location) Name() string         { return l.name }
func (l *Location) Address() string      { return l.address }
func (l *Location) City() string         { return l.city }
func (l *Location) State() string        { return l.state }
func (l *Location) ZipCode() string      { return l.zipCode }
func (l *Location) Country() string      { return l.country }
func (l *Location) CreatedAt() time.Time { return l.createdAt }
func (l *Location) UpdatedAt() time.Time { return l.updatedAt }

// Update overwrites the non-empty fields.
func (l *Location) Update(name, address, city, state, zipCode, country string) {
	for dst, src := range map[*string]string{
		&l.name:    name,
		&l.address: address,
		&l.city:    city,
		&l.state:   state,
		&l.zipCode: zipCode,
		&l.country: country,
	} {
		if src != "" {
			*dst = src
		}
	}
	l.updatedAt = time.Now().UTC()
}
