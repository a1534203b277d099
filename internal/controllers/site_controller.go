package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/franciscosanchezn/gin-sqladmin-demo/internal/models"
	"github.com/franciscosanchezn/gin-sqladmin-demo/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SiteController struct {
	service services.SiteService
}

func NewSiteController(service services.SiteService) *SiteController {
	return &SiteController{service: service}
}

// ListSites godoc
// @Summary List sites
// @Tags sites
// @Produce json
// @Success 200 {array} models.Site
// @Failure 500 {object} models.APIError
// @Router /api/v1/sites [get]
func (sc *SiteController) ListSites(c *gin.Context) {
	sites, err := sc.service.ListSites(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "Failed to retrieve sites"))
		return
	}
	c.JSON(http.StatusOK, sites)
}

// GetSiteByID godoc
// @Summary Get site by ID
// @Description Get a single site with its users
// @Tags sites
// @Produce json
// @Param id path int true "Site ID"
// @Success 200 {object} models.Site
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Router /api/v1/sites/{id} [get]
func (sc *SiteController) GetSiteByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid site ID format"))
		return
	}

	site, err := sc.service.GetSiteByID(c.Request.Context(), uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, models.NewAPIError(models.ErrSiteNotFound, "Site not found"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "Failed to retrieve site"))
		return
	}
	c.JSON(http.StatusOK, site)
}
