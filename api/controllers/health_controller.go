package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	startTime time.Time
}

type healthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp"`
}

func NewHealthController() *HealthController {
	return &HealthController{
		startTime: time.Now(),
	}
}

func (hc *HealthController) CheckHealth(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:    "healthy",
		Uptime:    time.Since(hc.startTime).String(),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
