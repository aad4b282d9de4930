package boms

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AlphaDevs01/controleProducao/internal/products"
	custom_error "github.com/AlphaDevs01/controleProducao/pkg/errors"
	"github.com/AlphaDevs01/controleProducao/pkg/models"
)

type BomHandler struct {
	Repository        *BomRepository
	ProductRepository *products.ProductRepository
}

func NewBomHandler(r *BomRepository, pr *products.ProductRepository) *BomHandler {
	return &BomHandler{Repository: r, ProductRepository: pr}
}

func (h *BomHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/api/routes", h.GetRoutes)
	router.GET("/api/routes/:id", h.GetRoute)
	router.POST("/api/routes", h.CreateRoute)
	router.PUT("/api/routes/:id", h.UpdateRoute)
	router.DELETE("/api/routes/:id", h.DeleteRoute)
}

type routeRequest struct {
	FinalProductCode string              `json:"codigo_produto_final"`
	Inputs           []models.RouteInput `json:"insumos"`
}

func (h *BomHandler) GetRoutes(c *gin.Context) {
	routes, err := h.Repository.GetRoutes()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not list production routes", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, routes)
}

func (h *BomHandler) GetRoute(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid route id"})
		return
	}

	route, err := h.Repository.GetRoute(id)
	if errors.Is(err, ErrRouteNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Production route not found"})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not fetch production route", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, route)
}

func (h *BomHandler) CreateRoute(c *gin.Context) {
	var req routeRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload"})
		return
	}

	if msg := h.validateRouteRequest(req, 0); msg != "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": msg})
		return
	}

	route, err := h.Repository.PersistRoute(req.FinalProductCode, req.Inputs)
	if _, ok := err.(*custom_error.UniqueViolationError); ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "A production route already exists for this product"})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not create production route", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, route)
}

func (h *BomHandler) UpdateRoute(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid route id"})
		return
	}

	existing, err := h.Repository.GetRoute(id)
	if errors.Is(err, ErrRouteNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Production route not found"})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not fetch production route", "details": err.Error()})
		return
	}

	var req routeRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload"})
		return
	}
	if req.FinalProductCode == "" {
		req.FinalProductCode = existing.FinalProductCode
	}

	if msg := h.validateRouteRequest(req, id); msg != "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": msg})
		return
	}

	route, err := h.Repository.ReplaceRoute(id, req.FinalProductCode, req.Inputs)
	if _, ok := err.(*custom_error.UniqueViolationError); ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "A production route already exists for this product"})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not update production route", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, route)
}

func (h *BomHandler) DeleteRoute(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid route id"})
		return
	}

	err = h.Repository.RemoveRoute(id)
	if errors.Is(err, ErrRouteNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Production route not found"})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not delete production route", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Production route deleted successfully"})
}

// validateRouteRequest enforces the invariants the original data entry
// relies on: the final product and every input product must exist, at least
// one input is required, and only one route may target a final product.
func (h *BomHandler) validateRouteRequest(req routeRequest, excludeRouteID int) string {
	if req.FinalProductCode == "" {
		return "Product code is required"
	}
	if len(req.Inputs) == 0 {
		return "At least one input is required"
	}

	if _, err := h.ProductRepository.GetProduct(req.FinalProductCode); err != nil {
		return "Product not found"
	}

	exists, err := h.Repository.RouteExistsForProduct(req.FinalProductCode, excludeRouteID)
	if err == nil && exists {
		return "A production route already exists for this product"
	}

	for _, input := range req.Inputs {
		if input.InputProductCode == "" || input.QuantityPerUnit <= 0 {
			return "Input product code and a positive quantity are required"
		}
		if _, err := h.ProductRepository.GetProduct(input.InputProductCode); err != nil {
			return "Input product " + input.InputProductCode + " not found"
		}
	}

	return ""
}
