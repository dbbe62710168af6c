package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ryderx/service-rental/internal/application"
	"github.com/ryderx/service-rental/pkg/auth"
	"github.com/ryderx/service-rental/pkg/middleware"
	"github.com/ryderx/service-rental/pkg/response"
)

// CarHandler handles HTTP requests for the car fleet.
type CarHandler struct {
	service *application.CarService
}

// NewCarHandler creates a new CarHandler.
func NewCarHandler(service *application.CarService) *CarHandler {
	return &CarHandler{service: service}
}

// RegisterRoutes registers all car routes.
func (h *CarHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	staffRole := middleware.RequireRole(auth.RoleAgent, auth.RoleAdmin)

	cars := r.Group("/api/v1/cars")
	cars.Use(authMW)
	{
		cars.POST("", staffRole, h.CreateCar)
		cars.GET("", h.ListCars)
		cars.GET("/:id", h.GetCar)
		cars.PUT("/:id", staffRole, h.UpdateCar)
		cars.DELETE("/:id", staffRole, h.RetireCar)
	}
}

// CreateCar lists a new car.
func (h *CarHandler) CreateCar(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req application.CreateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateCar(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListCars returns active cars. Supports owner_id, location_id and available=true filters.
func (h *CarHandler) ListCars(c *gin.Context) {
	page, limit := parsePagination(c)
	q := application.ListCarsQuery{Page: page, Limit: limit}

	if raw := c.Query("owner_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid owner_id")
			return
		}
		q.OwnerID = &id
	}
	if raw := c.Query("location_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid location_id")
			return
		}
		q.LocationID = &id
	}
	q.AvailableOnly, _ = strconv.ParseBool(c.Query("available"))

	result, err := h.service.ListCars(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetCar returns a single car.
func (h *CarHandler) GetCar(c *gin.Context) {
	carID, ok := parseID(c, "car")
	if !ok {
		return
	}

	result, err := h.service.GetCar(c.Request.Context(), carID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateCar updates a car's listing.
func (h *CarHandler) UpdateCar(c *gin.Context) {
	carID, ok := parseID(c, "car")
	if !ok {
		return
	}
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req application.UpdateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateCar(c.Request.Context(), actor, carID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// RetireCar withdraws a car from rental.
func (h *CarHandler) RetireCar(c *gin.Context) {
	carID, ok := parseID(c, "car")
	if !ok {
		return
	}
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if err := h.service.RetireCar(c.Request.Context(), actor, carID); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "car retired"})
}
