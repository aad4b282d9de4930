package production

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AlphaDevs01/controleProducao/pkg/models"
)

type ProductionHandler struct {
	Service *ProductionService
}

func NewProductionHandler(s *ProductionService) *ProductionHandler {
	return &ProductionHandler{Service: s}
}

func (h *ProductionHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/api/production/calculate", h.Calculate)
	router.POST("/api/production/calculate-multiple", h.CalculateMultiple)
	router.POST("/api/production/execute", h.Execute)
	router.POST("/api/production/plans", h.SavePlans)
	router.GET("/api/production/history", h.GetHistory)
}

// Calculate evaluates a single plan against real current stock. Unlike the
// batch endpoint, input-level problems here map to HTTP statuses because the
// caller asked about exactly one plan.
func (h *ProductionHandler) Calculate(c *gin.Context) {
	var plan models.ProductionPlan
	if err := c.BindJSON(&plan); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload"})
		return
	}

	result, err := h.Service.CalculateSingle(plan)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not calculate production", "details": err.Error()})
		return
	}

	switch result.ErrorKind {
	case models.PlanErrorValidation:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": result.Error})
		return
	case models.PlanErrorProductNotFound, models.PlanErrorRouteNotFound:
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": result.Error})
		return
	}

	c.JSON(http.StatusOK, result)
}

// CalculateMultiple runs the ordered batch planner. Every submitted plan
// yields one result entry, failed or not, so the response is always HTTP 200
// with per-plan statuses.
func (h *ProductionHandler) CalculateMultiple(c *gin.Context) {
	var plans []models.ProductionPlan
	if err := c.BindJSON(&plans); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload"})
		return
	}
	if len(plans) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "At least one production plan is required"})
		return
	}

	results, err := h.Service.CalculateBatch(plans)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not calculate production batch", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, results)
}

type executeRequest struct {
	ProductCode     string  `json:"codigo_produto"`
	Quantity        int     `json:"quantidade"`
	ProductionOrder *string `json:"ordem_producao,omitempty"`
}

func (h *ProductionHandler) Execute(c *gin.Context) {
	var req executeRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload"})
		return
	}

	plan := models.ProductionPlan{ProductCode: req.ProductCode, Quantity: req.Quantity}
	err := h.Service.ExecuteProduction(plan, req.ProductionOrder)

	var insufficientErr *InsufficientStockError
	switch {
	case errors.Is(err, ErrInvalidPlan):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, ErrProductNotFound), errors.Is(err, ErrRouteNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.As(err, &insufficientErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": insufficientErr.Error()})
	case err != nil:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not execute production", "details": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Production executed successfully"})
	}
}

// SavePlans stores an ordered batch verbatim with explicit ordinals.
func (h *ProductionHandler) SavePlans(c *gin.Context) {
	var plans []models.PlannedProduction
	if err := c.BindJSON(&plans); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload"})
		return
	}
	if len(plans) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "At least one production plan is required"})
		return
	}
	for _, plan := range plans {
		if plan.ProductCode == "" || plan.Quantity <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Every plan needs a product code and a positive quantity"})
			return
		}
	}

	if err := h.Service.SavePlans(plans); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not save production plans", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Production plans saved successfully", "count": len(plans)})
}

func (h *ProductionHandler) GetHistory(c *gin.Context) {
	records, err := h.Service.GetHistory()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not fetch production history", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, records)
}
