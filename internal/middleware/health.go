package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthStatus struct {
	Status      string    `json:"status"`
	LastChecked time.Time `json:"last_checked"`
	Uptime      string    `json:"uptime"`
	Version     string    `json:"version"`
}

var (
	healthStatus = HealthStatus{
		Status:  "ok",
		Version: "1.0.0",
	}
	healthMutex sync.RWMutex
	startTime   = time.Now()
)

// HealthCheckHandler reports service liveness and uptime.
func HealthCheckHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		healthMutex.RLock()
		status := healthStatus
		healthMutex.RUnlock()

		status.Uptime = time.Since(startTime).String()
		status.LastChecked = time.Now()

		c.JSON(http.StatusOK, status)
	}
}

// UpdateHealthStatus lets startup code flag degraded dependencies.
func UpdateHealthStatus(status string) {
	healthMutex.Lock()
	defer healthMutex.Unlock()

	healthStatus.Status = status
}
