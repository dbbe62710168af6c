package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_KindMatching(t *testing.T) {
	err := NewNotFoundError("Car", "42")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
	assert.True(t, IsNotFound(fmt.Errorf("lookup: %w", err)))
	assert.Equal(t, "Car not found: 42", err.Error())
}

func TestDomainError_MessageMatching(t *testing.T) {
	sentinel := NewConflictError("car is not available")
	other := NewConflictError("payment already recorded")

	assert.True(t, errors.Is(NewConflictError("car is not available"), sentinel))
	assert.False(t, errors.Is(other, sentinel))
}

func TestPersistenceError_WrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewPersistenceError("save reservation", cause)

	assert.True(t, IsPersistence(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "save reservation: connection reset", err.Error())
}

func TestKindOf_NonDomainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestNewPaginatedResult(t *testing.T) {
	res := NewPaginatedResult([]int{1, 2}, 45, 1, 20)
	assert.Equal(t, 3, res.TotalPages)

	empty := NewPaginatedResult[int](nil, 0, 1, 20)
	assert.NotNil(t, empty.Items)
	assert.Equal(t, 0, empty.TotalPages)
}
