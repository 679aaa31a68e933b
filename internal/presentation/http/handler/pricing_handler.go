package handler

import (
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/application/service"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/entity"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/presentation/http/dto/request"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// PricingHandler exposes the price calculator.
type PricingHandler struct {
	pricingService  *service.PricingService
	customerService *service.CustomerService
}

// NewPricingHandler creates a new pricing handler
func NewPricingHandler(pricingService *service.PricingService, customerService *service.CustomerService) *PricingHandler {
	return &PricingHandler{pricingService: pricingService, customerService: customerService}
}

// Services lists the bookable additional services
// @Summary Service catalog
// @Tags pricing
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /pricing/services [get]
func (h *PricingHandler) Services(c *gin.Context) {
	response.OK(c, "Services retrieved successfully", h.pricingService.AvailableServices())
}

// Calculate prices a move without storing it
// @Summary Calculate price
// @Tags pricing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.CalculateRequest true "Pricing input"
// @Success 200 {object} response.APIResponse
// @Router /pricing/calculate [post]
func (h *PricingHandler) Calculate(c *gin.Context) {
	var req request.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	var customer *entity.Customer
	switch {
	case req.CustomerID != "":
		found, err := h.customerService.ResolveCustomer(c.Request.Context(), req.CustomerID)
		if err != nil {
			response.Error(c, err)
			return
		}
		customer = found
	case req.Apartment != nil:
		customer = &entity.Customer{Apartment: *req.Apartment}
	}

	calc := h.pricingService.CalculateQuote(customer, req.ResolveDetails())
	if req.ManualPrice != nil {
		calc = h.pricingService.ApplyOverride(calc, *req.ManualPrice)
	}
	response.OK(c, "Price calculated successfully", calc)
}
