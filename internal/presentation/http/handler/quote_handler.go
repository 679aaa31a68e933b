package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/application/service"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/enum"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/presentation/http/dto/request"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/presentation/http/dto/response"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/apperror"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// QuoteHandler handles quote-related HTTP requests
type QuoteHandler struct {
	quoteService    *service.QuoteService
	dispatchService *service.DispatchService
	exportService   *service.ExportService
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(quoteService *service.QuoteService, dispatchService *service.DispatchService, exportService *service.ExportService) *QuoteHandler {
	return &QuoteHandler{
		quoteService:    quoteService,
		dispatchService: dispatchService,
		exportService:   exportService,
	}
}

func listInput(c *gin.Context) *service.QuoteListInput {
	return &service.QuoteListInput{
		Pagination: paginationParams(c),
		Search:     c.Query("search"),
		Customer:   c.Query("customer_id"),
		Status:     c.Query("status"),
		Company:    c.Query("company"),
	}
}

// List handles listing quotes
// @Summary List quotes
// @Tags quotes
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param per_page query int false "Items per page"
// @Param search query string false "Search customer name or quote id"
// @Param customer_id query string false "Customer id, number or legacy id"
// @Param status query string false "Status"
// @Param company query string false "Company"
// @Success 200 {object} response.APIResponse
// @Router /quotes [get]
func (h *QuoteHandler) List(c *gin.Context) {
	result, err := h.quoteService.ListQuotes(c.Request.Context(), listInput(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, "Quotes retrieved successfully", result)
}

// Create handles creating a quote
// @Summary Create quote
// @Description Stores a quote. The price is calculated when omitted.
// @Tags quotes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body request.QuoteRequest true "Quote"
// @Success 201 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /quotes [post]
func (h *QuoteHandler) Create(c *gin.Context) {
	var req request.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	quote, err := h.quoteService.CreateQuote(c.Request.Context(), &service.CreateQuoteInput{
		ID:           req.ID,
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		Company:      req.Company,
		Status:       req.Status,
		Price:        req.Price,
		Volume:       req.Volume,
		Distance:     req.Distance,
		MoveDate:     req.MoveDate,
		MoveFrom:     req.MoveFrom,
		MoveTo:       req.MoveTo,
		Comment:      req.Comment,
		Details:      req.ResolveDetails(),
		CreatedBy:    GetUserEmail(c),
		LegacyID:     req.LegacyID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Quote created successfully", quote)
}

// Get handles fetching a quote with its price breakdown
// @Summary Get quote
// @Tags quotes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quote id or legacy id"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /quotes/{id} [get]
func (h *QuoteHandler) Get(c *gin.Context) {
	quote, customer, err := h.quoteService.GetQuoteWithCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quote retrieved successfully", gin.H{
		"quote":       quote,
		"customer":    customer,
		"calculation": h.quoteService.Calculate(quote, customer),
	})
}

// Update handles partial quote updates
// @Summary Update quote
// @Tags quotes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quote id or legacy id"
// @Param request body request.UpdateQuoteRequest true "Fields to change"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /quotes/{id} [put]
func (h *QuoteHandler) Update(c *gin.Context) {
	var req request.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	quote, err := h.quoteService.UpdateQuote(c.Request.Context(), c.Param("id"), &service.UpdateQuoteInput{
		CustomerName: req.CustomerName,
		Company:      req.Company,
		Status:       req.Status,
		Price:        req.Price,
		Volume:       req.Volume,
		Distance:     req.Distance,
		MoveDate:     req.MoveDate,
		MoveFrom:     req.MoveFrom,
		MoveTo:       req.MoveTo,
		Comment:      req.Comment,
		Details:      req.ResolveDetails(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quote updated successfully", quote)
}

// Delete handles soft-deleting a quote
// @Summary Delete quote
// @Tags quotes
// @Security BearerAuth
// @Param id path string true "Quote id or legacy id"
// @Success 200 {object} response.APIResponse
// @Router /quotes/{id} [delete]
func (h *QuoteHandler) Delete(c *gin.Context) {
	if err := h.quoteService.DeleteQuote(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quote deleted successfully", nil)
}

// ChangeStatus moves a quote through its lifecycle
// @Summary Change quote status
// @Tags quotes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quote id or legacy id"
// @Param request body request.StatusRequest true "New status"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /quotes/{id}/status [put]
func (h *QuoteHandler) ChangeStatus(c *gin.Context) {
	var req request.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if _, ok := enum.ParseQuoteStatus(req.Status); !ok {
		response.ValidationError(c, []apperror.FieldError{{Field: "status", Message: "Unknown status"}})
		return
	}

	quote, err := h.quoteService.ChangeStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quote status updated successfully", quote)
}

// CreateVersion copies a quote into a new draft
// @Summary Create quote version
// @Tags quotes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quote id or legacy id"
// @Success 201 {object} response.APIResponse
// @Router /quotes/{id}/versions [post]
func (h *QuoteHandler) CreateVersion(c *gin.Context) {
	quote, err := h.quoteService.CreateVersion(c.Request.Context(), c.Param("id"), GetUserEmail(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Quote version created successfully", quote)
}

// PDF streams the rendered offer or invoice
// @Summary Download quote PDF
// @Tags quotes
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Quote id or legacy id"
// @Param mode query string false "offer or invoice"
// @Success 200 {file} file
// @Router /quotes/{id}/pdf [get]
func (h *QuoteHandler) PDF(c *gin.Context) {
	mode, ok := enum.ParseDocumentMode(c.Query("mode"))
	if !ok {
		response.ValidationError(c, []apperror.FieldError{{Field: "mode", Message: "Must be offer or invoice"}})
		return
	}

	prepared, err := h.dispatchService.Prepare(c.Request.Context(), c.Param("id"), mode)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, prepared.Filename))
	c.Header("X-Page-Count", fmt.Sprint(prepared.Document.Pages))
	c.Data(http.StatusOK, "application/pdf", prepared.Document.Bytes)
}

// Send mails the rendered document to the customer
// @Summary Send quote
// @Tags quotes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quote id or legacy id"
// @Param request body request.SendQuoteRequest false "Recipient and mode"
// @Success 200 {object} response.APIResponse
// @Failure 502 {object} response.APIResponse
// @Router /quotes/{id}/send [post]
func (h *QuoteHandler) Send(c *gin.Context) {
	var req request.SendQuoteRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}
	mode, ok := enum.ParseDocumentMode(req.Mode)
	if !ok {
		response.ValidationError(c, []apperror.FieldError{{Field: "mode", Message: "Must be offer or invoice"}})
		return
	}

	result, err := h.dispatchService.SendQuote(c.Request.Context(), c.Param("id"), req.To, mode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quote sent successfully", result)
}

// Export downloads the filtered quotes as a spreadsheet
// @Summary Export quotes
// @Tags quotes
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param status query string false "Status"
// @Param company query string false "Company"
// @Param customer_id query string false "Customer id, number or legacy id"
// @Success 200 {file} file
// @Router /quotes/export [get]
func (h *QuoteHandler) Export(c *gin.Context) {
	data, err := h.exportService.ExportQuotes(c.Request.Context(), listInput(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("angebote_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
