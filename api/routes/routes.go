package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/FolkiDevv/partysys/api/controllers"
)

func SetupRoutes(router *gin.Engine) {
	healthController := controllers.NewHealthController()

	router.GET("/health", healthController.CheckHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
