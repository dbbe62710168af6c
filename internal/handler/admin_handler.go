package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ryderx/service-rental/internal/application"
	"github.com/ryderx/service-rental/pkg/auth"
	"github.com/ryderx/service-rental/pkg/middleware"
	"github.com/ryderx/service-rental/pkg/response"
)

// AdminHandler handles admin HTTP requests for reservation oversight and accounts.
type AdminHandler struct {
	queries *application.ReservationQueryService
	auth    *application.AuthService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(queries *application.ReservationQueryService, authService *application.AuthService) *AdminHandler {
	return &AdminHandler{queries: queries, auth: authService}
}

// RegisterRoutes registers admin routes.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	adminRole := middleware.RequireRole(auth.RoleAdmin)

	admin := r.Group("/api/v1/admin")
	admin.Use(authMW, adminRole)
	{
		admin.GET("/reservations", h.ListReservations)
		admin.GET("/stats/reservations", h.ReservationStats)
		admin.POST("/users", h.CreateUser)
	}
}

// ListReservations handles GET /api/v1/admin/reservations.
func (h *AdminHandler) ListReservations(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.queries.ListAll(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// ReservationStats handles GET /api/v1/admin/stats/reservations.
func (h *AdminHandler) ReservationStats(c *gin.Context) {
	stats, err := h.queries.GetReservationStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

// CreateUser handles POST /api/v1/admin/users.
func (h *AdminHandler) CreateUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req application.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.auth.CreateUser(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}
