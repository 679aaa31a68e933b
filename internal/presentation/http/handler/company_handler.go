package handler

import (
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/application/service"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/enum"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/presentation/http/dto/response"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// CompanyHandler exposes the branded entities a quote can be issued by.
type CompanyHandler struct {
	companyService *service.CompanyService
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(companyService *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// List returns all company profiles
// @Summary List companies
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /companies [get]
func (h *CompanyHandler) List(c *gin.Context) {
	response.OK(c, "Companies retrieved successfully", gin.H{
		"default":   h.companyService.Default(),
		"companies": h.companyService.Profiles(),
	})
}

// Get returns one company profile
// @Summary Get company
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Param key path string true "Company key"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /companies/{key} [get]
func (h *CompanyHandler) Get(c *gin.Context) {
	key := enum.Company(c.Param("key"))
	if !key.IsValid() {
		response.Error(c, apperror.NewNotFoundError("Company"))
		return
	}
	response.OK(c, "Company retrieved successfully", h.companyService.Profile(key))
}
