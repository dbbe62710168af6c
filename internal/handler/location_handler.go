package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ryderx/service-rental/internal/application"
	"github.com/ryderx/service-rental/pkg/auth"
	"github.com/ryderx/service-rental/pkg/middleware"
	"github.com/ryderx/service-rental/pkg/response"
)

// LocationHandler handles HTTP requests for pickup and dropoff locations.
type LocationHandler struct {
	service *application.LocationService
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(service *application.LocationService) *LocationHandler {
	return &LocationHandler{service: service}
}

// RegisterRoutes registers all location routes. Writes are admin only.
func (h *LocationHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	adminRole := middleware.RequireRole(auth.RoleAdmin)

	locations := r.Group("/api/v1/locations")
	locations.Use(authMW)
	{
		locations.POST("", adminRole, h.CreateLocation)
		locations.GET("", h.ListLocations)
		locations.GET("/:id", h.GetLocation)
		locations.PUT("/:id", adminRole, h.UpdateLocation)
		locations.DELETE("/:id", adminRole, h.DeleteLocation)
	}
}

func (h *LocationHandler) CreateLocation(c *gin.Context) {
	var req application.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateLocation(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

func (h *LocationHandler) ListLocations(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.service.ListLocations(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

func (h *LocationHandler) GetLocation(c *gin.Context) {
	id, ok := parseID(c, "location")
	if !ok {
		return
	}

	result, err := h.service.GetLocation(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	id, ok := parseID(c, "location")
	if !ok {
		return
	}

	var req application.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateLocation(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

func (h *LocationHandler) DeleteLocation(c *gin.Context) {
	id, ok := parseID(c, "location")
	if !ok {
		return
	}

	if err := h.service.DeleteLocation(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "location deleted"})
}
