// Package testutil provides an in-memory store and fixtures for package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ryderx/service-rental/internal/domain/car"
	"github.com/ryderx/service-rental/internal/domain/location"
	"github.com/ryderx/service-rental/internal/domain/user"
	"github.com/ryderx/service-rental/internal/repository"
	"github.com/ryderx/service-rental/pkg/auth"
)

// NewSQLiteDB opens a private in-memory SQLite database with the service schema.
// The pool is capped at one connection so transactions serialize like row locks would.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(repository.Models()...))
	return db
}

// SeedUser stores a user with the given role.
func SeedUser(t testing.TB, db *gorm.DB, role auth.Role) *user.User {
	t.Helper()
	u, err := user.NewUser(fmt.Sprintf("%s-%s@ryderx.test", role, uuid.NewString()[:8]), "Test "+string(role), "not-a-real-hash", role)
	require.NoError(t, err)
	require.NoError(t, repository.NewGormUserRepository(db).Save(context.Background(), u))
	return u
}

// SeedLocation stores a pickup/dropoff location.
func SeedLocation(t testing.TB, db *gorm.DB, name string) *location.Location {
	t.Helper()
	loc, err := location.NewLocation(name, "1 Main Street", "Austin", "TX", "73301", "US")
	require.NoError(t, err)
	require.NoError(t, repository.NewGormLocationRepository(db).Save(context.Background(), loc))
	return loc
}

// SeedCar stores an available car at locationID, optionally managed by ownerID.
func SeedCar(t testing.TB, db *gorm.DB, ownerID *uuid.UUID, locationID uuid.UUID, pricePerDayCents int64) *car.Car {
	t.Helper()
	plate := "TX-" + uuid.NewString()[:6]
	c, err := car.NewCar(ownerID, locationID, "Toyota", "Corolla", 2023, plate, pricePerDayCents, "sedan", "petrol", "automatic", 5)
	require.NoError(t, err)
	require.NoError(t, repository.NewGormCarRepository(db).Save(context.Background(), c))
	return c
}
