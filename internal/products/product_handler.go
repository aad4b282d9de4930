package products

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AlphaDevs01/controleProducao/internal/repository"
	custom_error "github.com/AlphaDevs01/controleProducao/pkg/errors"
	"github.com/AlphaDevs01/controleProducao/pkg/models"
)

type ProductHandler struct {
	Repository *ProductRepository
}

func NewProductHandler(r *ProductRepository) *ProductHandler {
	return &ProductHandler{Repository: r}
}

func (h *ProductHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/api/products", h.GetProducts)
	router.GET("/api/products/search", h.SearchProducts)
	router.GET("/api/products/:codigo", h.GetProduct)
	router.POST("/api/products", h.CreateProduct)
	router.PUT("/api/products/:codigo", h.UpdateProduct)
	router.DELETE("/api/products/:codigo", h.DeleteProduct)
	router.POST("/api/products/import", h.ImportProducts)
}

func (h *ProductHandler) GetProducts(c *gin.Context) {
	qb := repository.NewQueryBuilder()
	if family := c.Query("familia"); family != "" {
		qb.AddCondition("family", family)
	}

	products, err := h.Repository.GetProducts(qb)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not list products", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) SearchProducts(c *gin.Context) {
	term := c.Query("term")
	if term == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Search term is required"})
		return
	}

	products, err := h.Repository.SearchProducts(term)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not search products", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.Repository.GetProduct(c.Param("codigo"))
	if errors.Is(err, ErrProductNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not fetch product", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var product models.Product
	if err := c.BindJSON(&product); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload"})
		return
	}
	if product.Code == "" || product.Description == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Product code and description are required"})
		return
	}

	err := h.Repository.PersistProduct(&product)
	if _, ok := err.(*custom_error.UniqueViolationError); ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Product with this code already exists"})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not create product", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var product models.Product
	if err := c.BindJSON(&product); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload"})
		return
	}
	product.Code = c.Param("codigo")

	err := h.Repository.UpdateProduct(&product)
	if errors.Is(err, ErrProductNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not update product", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	err := h.Repository.RemoveProduct(c.Param("codigo"))
	if _, ok := err.(*custom_error.ForeignKeyViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"message": "Product is referenced by a production route", "details": err.Error()})
		return
	}
	if errors.Is(err, ErrProductNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not delete product", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func (h *ProductHandler) ImportProducts(c *gin.Context) {
	var rows []models.Product
	if err := c.BindJSON(&rows); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload"})
		return
	}
	if len(rows) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "At least one product row is required"})
		return
	}

	var skipped []string
	valid := rows[:0]
	for _, row := range rows {
		if row.Code == "" || row.Description == "" {
			skipped = append(skipped, row.Code)
			continue
		}
		valid = append(valid, row)
	}

	imported, err := h.Repository.UpsertProducts(valid)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not import products", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Products imported successfully",
		"imported": imported,
		"skipped":  skipped,
	})
}
