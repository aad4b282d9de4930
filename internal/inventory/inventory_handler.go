package inventory

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AlphaDevs01/controleProducao/internal/products"
)

type InventoryHandler struct {
	Repository        *InventoryRepository
	ProductRepository *products.ProductRepository
}

func NewInventoryHandler(r *InventoryRepository, pr *products.ProductRepository) *InventoryHandler {
	return &InventoryHandler{Repository: r, ProductRepository: pr}
}

func (h *InventoryHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/api/inventory/update", h.UpdateStock)
	router.POST("/api/inventory/reset", h.ResetStock)
	router.POST("/api/inventory/import", h.ImportStock)
}

type stockUpdateRequest struct {
	Code     string `json:"codigo"`
	Quantity *int   `json:"quantidade"`
}

// UpdateStock applies a signed delta to one product's stock. Negative
// results are rejected with the current stock so the caller can show what
// is actually available.
func (h *InventoryHandler) UpdateStock(c *gin.Context) {
	var req stockUpdateRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload"})
		return
	}
	if req.Code == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Product code is required"})
		return
	}
	if req.Quantity == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Quantity is required"})
		return
	}

	product, err := h.ProductRepository.GetProduct(req.Code)
	if errors.Is(err, products.ErrProductNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not fetch product", "details": err.Error()})
		return
	}

	err = h.Repository.AdjustStock(req.Code, *req.Quantity)
	if errors.Is(err, ErrInsufficientStock) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message":      "Cannot remove more items than available in stock",
			"currentStock": product.StockQuantity,
		})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not update inventory", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Inventory updated successfully",
		"product": gin.H{
			"codigo":              product.Code,
			"descricao":           product.Description,
			"quantidade_estoque":  product.StockQuantity + *req.Quantity,
			"quantidade_anterior": product.StockQuantity,
		},
	})
}

func (h *InventoryHandler) ResetStock(c *gin.Context) {
	if err := h.Repository.ResetAllStock(); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not reset inventory", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All inventory reset to zero"})
}

type stockImportRow struct {
	Code          string `json:"codigo"`
	StockQuantity *int   `json:"quantidade_estoque"`
}

// ImportStock bulk-sets absolute stock quantities. Unknown products are
// reported per row and do not abort the batch.
func (h *InventoryHandler) ImportStock(c *gin.Context) {
	var rows []stockImportRow
	if err := c.BindJSON(&rows); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload"})
		return
	}
	if len(rows) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "At least one inventory row is required"})
		return
	}

	updated := 0
	var importErrors []string
	for _, row := range rows {
		if row.Code == "" || row.StockQuantity == nil {
			importErrors = append(importErrors, "row skipped: missing required fields")
			continue
		}

		found, err := h.Repository.SetStock(row.Code, *row.StockQuantity)
		if err != nil {
			importErrors = append(importErrors, "error updating product "+row.Code+": "+err.Error())
			continue
		}
		if !found {
			importErrors = append(importErrors, "product "+row.Code+" not found")
			continue
		}
		updated++
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Inventory imported successfully",
		"results": gin.H{
			"updated": updated,
			"errors":  importErrors,
		},
	})
}
