package api

import "github.com/gin-gonic/gin"

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	{
		api.POST("/queries/analyze", handler.AnalyzeQuery)
		api.POST("/queries/download", handler.DownloadData)
		api.GET("/queries/history", handler.GetQueryHistory)
		api.GET("/properties", handler.GetAllProperties)
		api.GET("/properties/locations", handler.GetLocations)
		api.GET("/stats", handler.GetStats)
	}
}
