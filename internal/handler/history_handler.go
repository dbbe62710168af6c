package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ryderx/service-rental/internal/application"
	"github.com/ryderx/service-rental/pkg/auth"
	"github.com/ryderx/service-rental/pkg/middleware"
	"github.com/ryderx/service-rental/pkg/response"
)

// HistoryHandler handles HTTP requests for the booking history log.
type HistoryHandler struct {
	service *application.HistoryService
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(service *application.HistoryService) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// RegisterRoutes registers all history routes.
func (h *HistoryHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	histories := r.Group("/api/v1/histories")
	histories.Use(authMW)
	{
		histories.GET("", h.ListHistories)
		histories.POST("/reservations/:id", middleware.RequireRole(auth.RoleAgent, auth.RoleAdmin), h.RecordSnapshot)
	}
}

// ListHistories handles GET /api/v1/histories.
func (h *HistoryHandler) ListHistories(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	page, limit := parsePagination(c)
	result, err := h.service.ListHistories(c.Request.Context(), actor, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// RecordSnapshot handles POST /api/v1/histories/reservations/:id.
func (h *HistoryHandler) RecordSnapshot(c *gin.Context) {
	reservationID, ok := parseID(c, "reservation")
	if !ok {
		return
	}
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	result, err := h.service.RecordSnapshot(c.Request.Context(), actor, reservationID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}
