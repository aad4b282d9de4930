package estimator

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/AlphaDevs01/controleProducao/pkg/models"
)

type EstimatorHandler struct {
	Service *Service
}

func NewEstimatorHandler(s *Service) *EstimatorHandler {
	return &EstimatorHandler{Service: s}
}

func (h *EstimatorHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/api/estimator/state", h.GetState)

	router.POST("/api/estimator/products", h.AddProduct)
	router.PUT("/api/estimator/products/:id", h.UpdateProduct)
	router.DELETE("/api/estimator/products/:id", h.DeleteProduct)
	router.POST("/api/estimator/products/import", h.ImportProducts)
	router.DELETE("/api/estimator/products", h.ClearProducts)

	router.POST("/api/estimator/templates", h.AddTemplate)
	router.PUT("/api/estimator/templates/:id", h.UpdateTemplate)
	router.DELETE("/api/estimator/templates/:id", h.DeleteTemplate)
	router.POST("/api/estimator/templates/import", h.ImportTemplates)

	router.POST("/api/estimator/projects", h.CreateProject)
	router.PUT("/api/estimator/projects/:id", h.RenameProject)
	router.DELETE("/api/estimator/projects/:id", h.DeleteProject)

	router.POST("/api/estimator/projects/:id/routes", h.AddRoute)
	router.PUT("/api/estimator/projects/:id/routes/:routeId", h.RenameRoute)
	router.DELETE("/api/estimator/projects/:id/routes/:routeId", h.RemoveRoute)

	router.POST("/api/estimator/projects/:id/routes/:routeId/items", h.AddItem)
	router.PUT("/api/estimator/projects/:id/routes/:routeId/items/:itemId", h.UpdateItem)
	router.DELETE("/api/estimator/projects/:id/routes/:routeId/items/:itemId", h.RemoveItem)

	router.PUT("/api/estimator/config", h.UpdateConfig)
}

func (h *EstimatorHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.State())
}

type productRequest struct {
	Code  string          `json:"code"`
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

func (h *EstimatorHandler) AddProduct(c *gin.Context) {
	var req productRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload"})
		return
	}

	product, err := h.Service.AddProduct(req.Code, req.Name, req.Value)
	if respondServiceError(c, err, "Could not add product") {
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *EstimatorHandler) UpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload"})
		return
	}

	product, err := h.Service.UpdateProduct(c.Param("id"), req.Code, req.Name, req.Value)
	if respondServiceError(c, err, "Could not update product") {
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *EstimatorHandler) DeleteProduct(c *gin.Context) {
	if respondServiceError(c, h.Service.DeleteProduct(c.Param("id")), "Could not delete product") {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func (h *EstimatorHandler) ImportProducts(c *gin.Context) {
	var rows []models.CatalogProduct
	if err := c.BindJSON(&rows); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload"})
		return
	}
	if len(rows) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "At least one product row is required"})
		return
	}

	imported, err := h.Service.ImportProducts(rows)
	if respondServiceError(c, err, "Could not import products") {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Products imported successfully", "imported": imported})
}

func (h *EstimatorHandler) ClearProducts(c *gin.Context) {
	if respondServiceError(c, h.Service.ClearProducts(), "Could not clear products") {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Catalog cleared"})
}

type templateRequest struct {
	Name  string                `json:"name"`
	Items []models.TemplateItem `json:"items"`
}

func (h *EstimatorHandler) AddTemplate(c *gin.Context) {
	var req templateRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload"})
		return
	}

	template, err := h.Service.AddTemplate(req.Name, req.Items)
	if respondServiceError(c, err, "Could not add template") {
		return
	}
	c.JSON(http.StatusCreated, template)
}

func (h *EstimatorHandler) UpdateTemplate(c *gin.Context) {
	var req templateRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload"})
		return
	}

	template, err := h.Service.UpdateTemplate(c.Param("id"), req.Name, req.Items)
	if respondServiceError(c, err, "Could not update template") {
		return
	}
	c.JSON(http.StatusOK, template)
}

func (h *EstimatorHandler) DeleteTemplate(c *gin.Context) {
	if respondServiceError(c, h.Service.DeleteTemplate(c.Param("id")), "Could not delete template") {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Template deleted successfully"})
}

func (h *EstimatorHandler) ImportTemplates(c *gin.Context) {
	var templates []models.RouteTemplate
	if err := c.BindJSON(&templates); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload"})
		return
	}
	if len(templates) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "At least one template is required"})
		return
	}

	imported, err := h.Service.ImportTemplates(templates)
	if respondServiceError(c, err, "Could not import templates") {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Templates imported successfully", "imported": imported})
}

type projectRequest struct {
	Name        string   `json:"name"`
	TemplateIDs []string `json:"templateIds"`
}

func (h *EstimatorHandler) CreateProject(c *gin.Context) {
	var req projectRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload"})
		return
	}

	project, err := h.Service.CreateProject(req.Name, req.TemplateIDs)
	if respondServiceError(c, err, "Could not create project") {
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *EstimatorHandler) RenameProject(c *gin.Context) {
	var req projectRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload"})
		return
	}

	project, err := h.Service.RenameProject(c.Param("id"), req.Name)
	if respondServiceError(c, err, "Could not rename project") {
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *EstimatorHandler) DeleteProject(c *gin.Context) {
	if respondServiceError(c, h.Service.DeleteProject(c.Param("id")), "Could not delete project") {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

type routeRequest struct {
	Name       string `json:"name"`
	TemplateID string `json:"templateId"`
}

func (h *EstimatorHandler) AddRoute(c *gin.Context) {
	var req routeRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload"})
		return
	}

	route, err := h.Service.AddRoute(c.Param("id"), req.Name, req.TemplateID)
	if respondServiceError(c, err, "Could not add route") {
		return
	}
	c.JSON(http.StatusCreated, route)
}

func (h *EstimatorHandler) RenameRoute(c *gin.Context) {
	var req routeRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload"})
		return
	}

	route, err := h.Service.RenameRoute(c.Param("id"), c.Param("routeId"), req.Name)
	if respondServiceError(c, err, "Could not rename route") {
		return
	}
	c.JSON(http.StatusOK, route)
}

func (h *EstimatorHandler) RemoveRoute(c *gin.Context) {
	if respondServiceError(c, h.Service.RemoveRoute(c.Param("id"), c.Param("routeId")), "Could not remove route") {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Route removed successfully"})
}

func (h *EstimatorHandler) AddItem(c *gin.Context) {
	var item models.ProjectItem
	if err := c.BindJSON(&item); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload"})
		return
	}

	created, err := h.Service.AddItem(c.Param("id"), c.Param("routeId"), item)
	if respondServiceError(c, err, "Could not add item") {
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *EstimatorHandler) UpdateItem(c *gin.Context) {
	var item models.ProjectItem
	if err := c.BindJSON(&item); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload"})
		return
	}
	item.ID = c.Param("itemId")

	updated, err := h.Service.UpdateItem(c.Param("id"), c.Param("routeId"), item)
	if respondServiceError(c, err, "Could not update item") {
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *EstimatorHandler) RemoveItem(c *gin.Context) {
	err := h.Service.RemoveItem(c.Param("id"), c.Param("routeId"), c.Param("itemId"))
	if respondServiceError(c, err, "Could not remove item") {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed successfully"})
}

func (h *EstimatorHandler) UpdateConfig(c *gin.Context) {
	var config models.EstimateConfig
	if err := c.BindJSON(&config); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload"})
		return
	}

	updated, err := h.Service.UpdateConfig(config)
	if respondServiceError(c, err, "Could not update config") {
		return
	}
	c.JSON(http.StatusOK, updated)
}

// respondServiceError writes the response for a service error and reports
// whether the caller should stop.
func respondServiceError(c *gin.Context, err error, message string) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": message, "details": err.Error()})
	case errors.Is(err, ErrDuplicateCode), errors.Is(err, ErrValidation):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": message, "details": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": message, "details": err.Error()})
	}
	return true
}
