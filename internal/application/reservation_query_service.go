package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	carDomain "github.com/ryderx/service-rental/internal/domain/car"
	"github.com/ryderx/service-rental/internal/domain/history"
	"github.com/ryderx/service-rental/internal/domain/reservation"
	"github.com/ryderx/service-rental/internal/uow"
	"github.com/ryderx/service-rental/pkg/auth"
	"github.com/ryderx/service-rental/pkg/domain"
)

// AddOnsDTO carries the selected add-ons.
type AddOnsDTO struct {
	RoadCare         bool `json:"road_care"`
	AdditionalDriver bool `json:"additional_driver"`
	ChildSeat        bool `json:"child_seat"`
}

// ReservationDTO is the response representation of a reservation, joined for display.
type ReservationDTO struct {
	ID                       uuid.UUID  `json:"id"`
	CarID                    uuid.UUID  `json:"car_id"`
	CarName                  string     `json:"car_name"`
	UserID                   uuid.UUID  `json:"user_id"`
	UserEmail                string     `json:"user_email"`
	PickupLocationID         uuid.UUID  `json:"pickup_location_id"`
	PickupLocationName       string     `json:"pickup_location_name"`
	DropoffLocationID        uuid.UUID  `json:"dropoff_location_id"`
	DropoffLocationName      string     `json:"dropoff_location_name"`
	PickupAt                 time.Time  `json:"pickup_at"`
	DropoffAt                time.Time  `json:"dropoff_at"`
	AddOns                   AddOnsDTO  `json:"add_ons"`
	Days                     int        `json:"days"`
	BaseFareCents            int64      `json:"base_fare_cents"`
	RoadCareFeeCents         int64      `json:"road_care_fee_cents"`
	AdditionalDriverFeeCents int64      `json:"additional_driver_fee_cents"`
	ChildSeatFeeCents        int64      `json:"child_seat_fee_cents"`
	TotalPriceCents          int64      `json:"total_price_cents"`
	Status                   string     `json:"status"`
	StartedAt                *time.Time `json:"started_at,omitempty"`
	CompletedAt              *time.Time `json:"completed_at,omitempty"`
	CancelledAt              *time.Time `json:"cancelled_at,omitempty"`
	Version                  int64      `json:"version"`
	CreatedAt                time.Time  `json:"created_at"`
	UpdatedAt                time.Time  `json:"updated_at"`
}

// ReservationStatsDTO holds reservation statistics for the admin dashboard.
type ReservationStatsDTO struct {
	TotalReservations int64            `json:"total_reservations"`
	ByStatus          map[string]int64 `json:"by_status"`
}

// ReservationQueryService serves read projections of reservations.
type ReservationQueryService struct {
	store  uow.Store
	logger *zap.Logger
}

// NewReservationQueryService creates a new ReservationQueryService.
func NewReservationQueryService(store uow.Store, logger *zap.Logger) *ReservationQueryService {
	return &ReservationQueryService{store: store, logger: logger}
}

// GetReservation returns one reservation. Renters may only read their own.
func (s *ReservationQueryService) GetReservation(ctx context.Context, actor Actor, id uuid.UUID) (*ReservationDTO, error) {
	repos := s.store.Repositories()
	res, err := repos.Reservations().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && !res.IsOwnedBy(actor.UserID) {
		return nil, domain.NewForbiddenError("reservation does not belong to this user")
	}
	return s.enrichOne(ctx, repos, res)
}

// ListReservations returns the caller's default view: renters see their own,
// agents see reservations on cars they manage, admins see everything.
func (s *ReservationQueryService) ListReservations(ctx context.Context, actor Actor, page, limit int) (*domain.PaginatedResult[ReservationDTO], error) {
	switch actor.Role {
	case auth.RoleAdmin:
		return s.ListAll(ctx, page, limit)
	case auth.RoleAgent:
		return s.ListByOwnerAgent(ctx, actor.UserID, page, limit)
	default:
		return s.ListByUser(ctx, actor.UserID, page, limit)
	}
}

// ListAll returns every reservation, newest first.
func (s *ReservationQueryService) ListAll(ctx context.Context, page, limit int) (*domain.PaginatedResult[ReservationDTO], error) {
	return s.find(ctx, reservation.Filter{}, page, limit)
}

// ListByUser returns the reservations made by userID.
func (s *ReservationQueryService) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) (*domain.PaginatedResult[ReservationDTO], error) {
	return s.find(ctx, reservation.Filter{UserID: &userID}, page, limit)
}

// ListByCar returns the reservations on carID. Agents may only list cars they manage.
func (s *ReservationQueryService) ListByCar(ctx context.Context, actor Actor, carID uuid.UUID, page, limit int) (*domain.PaginatedResult[ReservationDTO], error) {
	c, err := s.store.Repositories().Cars().FindByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !c.IsOwnedBy(actor.UserID) {
		return nil, domain.NewForbiddenError("car is not managed by this agent")
	}
	return s.find(ctx, reservation.Filter{CarID: &carID}, page, limit)
}

// ListActive returns userID's reservations that still hold a car.
func (s *ReservationQueryService) ListActive(ctx context.Context, userID uuid.UUID, page, limit int) (*domain.PaginatedResult[ReservationDTO], error) {
	return s.find(ctx, reservation.Filter{UserID: &userID, Statuses: reservation.ActiveStatuses}, page, limit)
}

// ListByOwnerAgent returns reservations on cars managed by agentID.
func (s *ReservationQueryService) ListByOwnerAgent(ctx context.Context, agentID uuid.UUID, page, limit int) (*domain.PaginatedResult[ReservationDTO], error) {
	return s.find(ctx, reservation.Filter{CarOwnerID: &agentID}, page, limit)
}

// GetReservationStats returns aggregate reservation statistics (admin).
func (s *ReservationQueryService) GetReservationStats(ctx context.Context) (*ReservationStatsDTO, error) {
	counts, err := s.store.Repositories().Reservations().CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	return &ReservationStatsDTO{
		TotalReservations: total,
		ByStatus:          counts,
	}, nil
}

func (s *ReservationQueryService) find(ctx context.Context, filter reservation.Filter, page, limit int) (*domain.PaginatedResult[ReservationDTO], error) {
	page, limit = normalizePage(page, limit)
	filter.Page, filter.Limit = page, limit

	repos := s.store.Repositories()
	list, total, err := repos.Reservations().Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	dtos, err := s.enrich(ctx, repos, list)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

func (s *ReservationQueryService) enrichOne(ctx context.Context, repos uow.UnitOfWork, res *reservation.Reservation) (*ReservationDTO, error) {
	dtos, err := s.enrich(ctx, repos, []*reservation.Reservation{res})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

// enrich joins car name, renter email and location names. Rows that no longer
// exist fall back to display placeholders.
func (s *ReservationQueryService) enrich(ctx context.Context, repos uow.UnitOfWork, list []*reservation.Reservation) ([]ReservationDTO, error) {
	carIDs := make([]uuid.UUID, 0, len(list))
	userIDs := make([]uuid.UUID, 0, len(list))
	locationIDs := make([]uuid.UUID, 0, 2*len(list))
	for _, r := range list {
		carIDs = append(carIDs, r.CarID())
		userIDs = append(userIDs, r.UserID())
		locationIDs = append(locationIDs, r.PickupLocationID(), r.DropoffLocationID())
	}

	cars, err := repos.Cars().FindByIDs(ctx, uniqueIDs(carIDs...))
	if err != nil {
		return nil, err
	}
	users, err := repos.Users().FindByIDs(ctx, uniqueIDs(userIDs...))
	if err != nil {
		return nil, err
	}
	locations, err := repos.Locations().FindByIDs(ctx, uniqueIDs(locationIDs...))
	if err != nil {
		return nil, err
	}

	dtos := make([]ReservationDTO, len(list))
	for i, r := range list {
		dto := toReservationDTO(r)
		dto.CarName = carName(cars[r.CarID()])
		dto.UserEmail = history.UnknownValue
		if u, ok := users[r.UserID()]; ok {
			dto.UserEmail = u.Email()
		}
		dto.PickupLocationName = history.UnknownLocation
		if loc, ok := locations[r.PickupLocationID()]; ok {
			dto.PickupLocationName = loc.Name()
		}
		dto.DropoffLocationName = history.UnknownLocation
		if loc, ok := locations[r.DropoffLocationID()]; ok {
			dto.DropoffLocationName = loc.Name()
		}
		dtos[i] = dto
	}
	return dtos, nil
}

func carName(c *carDomain.Car) string {
	if c == nil {
		return history.UnknownCarName
	}
	return c.DisplayName()
}

func toReservationDTO(r *reservation.Reservation) ReservationDTO {
	q := r.Quote()
	addOns := r.AddOns()
	return ReservationDTO{
		ID:                r.ID(),
		CarID:             r.CarID(),
		UserID:            r.UserID(),
		PickupLocationID:  r.PickupLocationID(),
		DropoffLocationID: r.DropoffLocationID(),
		PickupAt:          r.PickupAt(),
		DropoffAt:         r.DropoffAt(),
		AddOns: AddOnsDTO{
			RoadCare:         addOns.RoadCare,
			AdditionalDriver: addOns.AdditionalDriver,
			ChildSeat:        addOns.ChildSeat,
		},
		Days:                     q.Days,
		BaseFareCents:            q.BaseFareCents,
		RoadCareFeeCents:         q.RoadCareFeeCents,
		AdditionalDriverFeeCents: q.AdditionalDriverFeeCents,
		ChildSeatFeeCents:        q.ChildSeatFeeCents,
		TotalPriceCents:          q.TotalCents,
		Status:                   string(r.Status()),
		StartedAt:                r.StartedAt(),
		CompletedAt:              r.CompletedAt(),
		CancelledAt:              r.CancelledAt(),
		Version:                  r.Version(),
		CreatedAt:                r.CreatedAt(),
		UpdatedAt:                r.UpdatedAt(),
	}
}

func uniqueIDs(ids ...uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
