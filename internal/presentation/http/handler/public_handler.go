package handler

import (
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/application/service"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/entity"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/presentation/http/dto/request"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// PublicQuoteHandler serves the customer-facing confirmation page. Quotes
// are addressed by their confirmation token only.
type PublicQuoteHandler struct {
	quoteService   *service.QuoteService
	companyService *service.CompanyService
}

// NewPublicQuoteHandler creates a new public quote handler
func NewPublicQuoteHandler(quoteService *service.QuoteService, companyService *service.CompanyService) *PublicQuoteHandler {
	return &PublicQuoteHandler{quoteService: quoteService, companyService: companyService}
}

func (h *PublicQuoteHandler) summary(q *entity.Quote) gin.H {
	profile := h.companyService.Profile(q.Company)
	return gin.H{
		"id":            q.ID,
		"customer_name": q.CustomerName,
		"status":        q.Status,
		"price":         q.Price,
		"volume":        q.Volume,
		"move_date":     q.MoveDate,
		"move_from":     q.MoveFrom,
		"move_to":       q.MoveTo,
		"services":      q.Details.Services,
		"confirmed_at":  q.ConfirmedAt,
		"company": gin.H{
			"name":    profile.Name,
			"phone":   profile.Phone,
			"email":   profile.Email,
			"website": profile.Website,
		},
	}
}

// Show returns the quote summary for a confirmation token
// @Summary Show quote by token
// @Tags public
// @Produce json
// @Param token path string true "Confirmation token"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /public/quotes/{token} [get]
func (h *PublicQuoteHandler) Show(c *gin.Context) {
	quote, err := h.quoteService.GetByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quote retrieved successfully", h.summary(quote))
}

// Accept confirms a sent quote
// @Summary Accept quote
// @Tags public
// @Accept json
// @Produce json
// @Param token path string true "Confirmation token"
// @Param request body request.RespondRequest false "Name of the person confirming"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /public/quotes/{token}/accept [post]
func (h *PublicQuoteHandler) Accept(c *gin.Context) {
	h.respond(c, true)
}

// Reject declines a sent quote
// @Summary Reject quote
// @Tags public
// @Accept json
// @Produce json
// @Param token path string true "Confirmation token"
// @Param request body request.RespondRequest false "Name of the person declining"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /public/quotes/{token}/reject [post]
func (h *PublicQuoteHandler) Reject(c *gin.Context) {
	h.respond(c, false)
}

func (h *PublicQuoteHandler) respond(c *gin.Context, accept bool) {
	var req request.RespondRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	quote, err := h.quoteService.RespondByToken(c.Request.Context(), c.Param("token"), accept, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Quote rejected"
	if accept {
		message = "Quote confirmed"
	}
	response.OK(c, message, h.summary(quote))
}
