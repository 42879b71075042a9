package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes 注册 /api/v1 下的路由
func RegisterRoutes(api *gin.RouterGroup, sessions *SessionHandler, pipeline *PipelineHandler, legend *LegendHandler) {
	api.GET("/legend", legend.Get)

	api.POST("/sessions", sessions.Create)

	s := api.Group("/sessions/:id")
	{
		s.GET("", sessions.Get)
		s.DELETE("", sessions.Delete)
		s.PUT("/base", sessions.SetBase)
		s.PUT("/tool", sessions.SetTool)
		s.POST("/events", sessions.Events)
		s.GET("/ws", sessions.Stream)
		s.POST("/clear", sessions.Clear)
		s.GET("/export", sessions.Export)
		s.GET("/mask", sessions.Mask)

		s.POST("/capture", pipeline.Capture)
		s.POST("/segment", pipeline.Segment)
		s.POST("/generate", pipeline.Generate)
	}
}
