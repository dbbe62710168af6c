package location

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for locations.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Location, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Location, error)
	List(ctx context.Context, page, limit int) ([]*Location, int64, error)
	Save(ctx context.Context, loc *Location) error
	Update(ctx context.Context, loc *Location) error
	Delete(ctx context.Context, id uuid.UUID) error
}
