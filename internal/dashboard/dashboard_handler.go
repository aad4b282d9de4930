package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	Repository *DashboardRepository
}

func NewDashboardHandler(r *DashboardRepository) *DashboardHandler {
	return &DashboardHandler{Repository: r}
}

func (h *DashboardHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/api/dashboard", h.GetSummary)
}

func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary, err := h.Repository.GetSummary()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not load dashboard summary", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}
