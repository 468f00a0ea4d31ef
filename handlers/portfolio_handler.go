package handlers

import (
	"net/http"
	"strconv"

	apperrors "github.com/NomadCrew/portfolio-backend/errors"
	"github.com/NomadCrew/portfolio-backend/models/portfolio"
	"github.com/NomadCrew/portfolio-backend/types"
	"github.com/gin-gonic/gin"
)

type PortfolioHandler struct {
	catalog *portfolio.Catalog
}

func NewPortfolioHandler(catalog *portfolio.Catalog) *PortfolioHandler {
	return &PortfolioHandler{catalog: catalog}
}

// GetProfileHandler returns the site owner's profile and contact details.
// @Summary Get profile
// @Tags portfolio
// @Produce json
// @Success 200 {object} types.ProfileResponse
// @Router /v1/portfolio/profile [get]
func (h *PortfolioHandler) GetProfileHandler(c *gin.Context) {
	c.JSON(http.StatusOK, types.ProfileResponse{
		Profile:         h.catalog.Profile(),
		ContactChannels: h.catalog.ContactChannels(),
		SocialLinks:     h.catalog.SocialLinks(),
	})
}

// ListProjectsHandler returns one gallery page. visible is the number of
// projects the client already shows; it is raised to one page and capped at
// the filtered total.
// @Summary List projects
// @Tags portfolio
// @Produce json
// @Param category query string false "Category filter" default(All)
// @Param visible query int false "Number of projects to show" default(6)
// @Success 200 {object} types.GalleryPage
// @Failure 400 {object} types.ErrorResponse "Invalid visible count"
// @Router /v1/portfolio/projects [get]
func (h *PortfolioHandler) ListProjectsHandler(c *gin.Context) {
	visible := portfolio.PageSize
	if raw := c.Query("visible"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			_ = c.Error(apperrors.ValidationFailed("Invalid visible count", "visible must be a non-negative integer"))
			return
		}
		visible = n
	}

	g := portfolio.RestoreGallery(h.catalog, c.DefaultQuery("category", portfolio.AllCategory), visible)
	c.JSON(http.StatusOK, g.Page())
}

// ListFeaturedHandler returns the featured projects.
// @Summary List featured projects
// @Tags portfolio
// @Produce json
// @Success 200 {array} types.Project
// @Router /v1/portfolio/projects/featured [get]
func (h *PortfolioHandler) ListFeaturedHandler(c *gin.Context) {
	featured := h.catalog.Featured()
	if featured == nil {
		featured = []types.Project{}
	}
	c.JSON(http.StatusOK, featured)
}

// ListCategoriesHandler returns the gallery filters with project counts.
// @Summary List categories
// @Tags portfolio
// @Produce json
// @Success 200 {array} types.Category
// @Router /v1/portfolio/categories [get]
func (h *PortfolioHandler) ListCategoriesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Categories())
}

// ListServicesHandler returns the offered services.
// @Summary List services
// @Tags portfolio
// @Produce json
// @Success 200 {array} types.Service
// @Router /v1/portfolio/services [get]
func (h *PortfolioHandler) ListServicesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Services())
}
