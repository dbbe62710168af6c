package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ryderx/service-rental/internal/application"
	"github.com/ryderx/service-rental/pkg/auth"
	"github.com/ryderx/service-rental/pkg/middleware"
	"github.com/ryderx/service-rental/pkg/response"
)

// PaymentHandler handles HTTP requests for reservation payments.
type PaymentHandler struct {
	service *application.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service *application.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// RegisterRoutes registers all payment routes.
func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	payments := r.Group("/api/v1")
	payments.Use(authMW)
	{
		payments.POST("/reservations/:id/payment", h.RecordPayment)
		payments.GET("/reservations/:id/payment", h.GetPayment)
		payments.GET("/payments", h.ListPayments)
	}
}

// RecordPayment handles POST /api/v1/reservations/:id/payment. The body is optional.
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	reservationID, ok := parseID(c, "reservation")
	if !ok {
		return
	}
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req application.RecordPaymentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}

	result, err := h.service.RecordPayment(c.Request.Context(), actor, reservationID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetPayment handles GET /api/v1/reservations/:id/payment.
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	reservationID, ok := parseID(c, "reservation")
	if !ok {
		return
	}
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	result, err := h.service.GetPayment(c.Request.Context(), actor, reservationID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListPayments handles GET /api/v1/payments.
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	page, limit := parsePagination(c)
	result, err := h.service.ListPayments(c.Request.Context(), actor, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}
