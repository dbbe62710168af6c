package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ryderx/service-rental/internal/application"
	"github.com/ryderx/service-rental/pkg/auth"
	"github.com/ryderx/service-rental/pkg/middleware"
	"github.com/ryderx/service-rental/pkg/response"
)

// ReservationHandler handles HTTP requests for reservation operations.
type ReservationHandler struct {
	service *application.ReservationService
	queries *application.ReservationQueryService
}

// NewReservationHandler creates a new ReservationHandler.
func NewReservationHandler(service *application.ReservationService, queries *application.ReservationQueryService) *ReservationHandler {
	return &ReservationHandler{service: service, queries: queries}
}

// RegisterRoutes registers all reservation routes on the given router group.
// createLimit, when non-nil, throttles reservation creation per caller.
func (h *ReservationHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager, createLimit gin.HandlerFunc) {
	authMW := middleware.AuthMiddleware(jwtManager)
	staffRole := middleware.RequireRole(auth.RoleAgent, auth.RoleAdmin)

	create := []gin.HandlerFunc{middleware.RequireRole(auth.RoleUser)}
	if createLimit != nil {
		create = append(create, createLimit)
	}
	create = append(create, h.CreateReservation)

	reservations := r.Group("/api/v1/reservations")
	reservations.Use(authMW)
	{
		reservations.POST("", create...)
		reservations.GET("", h.ListReservations)
		reservations.GET("/active", h.ListActive)
		reservations.GET("/:id", h.GetReservation)
		reservations.POST("/:id/cancel", h.CancelReservation)
		reservations.PATCH("/:id/status", staffRole, h.UpdateStatus)
	}

	r.GET("/api/v1/cars/:id/reservations", authMW, staffRole, h.ListByCar)
}

// CreateReservation handles POST /api/v1/reservations.
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateReservation(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListReservations handles GET /api/v1/reservations. Renters see their own,
// agents see reservations on cars they manage, admins see all.
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	page, limit := parsePagination(c)
	result, err := h.queries.ListReservations(c.Request.Context(), actor, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// ListActive handles GET /api/v1/reservations/active.
func (h *ReservationHandler) ListActive(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	page, limit := parsePagination(c)
	result, err := h.queries.ListActive(c.Request.Context(), userID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetReservation handles GET /api/v1/reservations/:id.
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	reservationID, ok := parseID(c, "reservation")
	if !ok {
		return
	}
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	result, err := h.queries.GetReservation(c.Request.Context(), actor, reservationID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CancelReservation handles POST /api/v1/reservations/:id/cancel.
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	reservationID, ok := parseID(c, "reservation")
	if !ok {
		return
	}
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	result, err := h.service.CancelReservation(c.Request.Context(), actor, reservationID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateStatus handles PATCH /api/v1/reservations/:id/status.
func (h *ReservationHandler) UpdateStatus(c *gin.Context) {
	reservationID, ok := parseID(c, "reservation")
	if !ok {
		return
	}
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req application.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateStatus(c.Request.Context(), actor, reservationID, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListByCar handles GET /api/v1/cars/:id/reservations.
func (h *ReservationHandler) ListByCar(c *gin.Context) {
	carID, ok := parseID(c, "car")
	if !ok {
		return
	}
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	page, limit := parsePagination(c)
	result, err := h.queries.ListByCar(c.Request.Context(), actor, carID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// currentActor reads the caller identity set by the auth middleware, writing 401 when absent.
func currentActor(c *gin.Context) (application.Actor, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return application.Actor{}, false
	}
	role, ok := middleware.GetUserRole(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return application.Actor{}, false
	}
	return application.Actor{UserID: userID, Role: role}, true
}

// parseID parses the :id path parameter, writing 400 when it is not a UUID.
func parseID(c *gin.Context, entity string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid "+entity+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}
