// Package router 提供 HTTP 路由配置
package router

import (
	"ai-writer-api/internal/interfaces/http/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, h RouterHandlers) {
	// 无状态生成
	v1.POST("/essays/generate", h.Generation.GenerateEssay)
	v1.POST("/chat/reply", h.Generation.ChatReply)

	// 工作区
	v1.POST("/workspaces", h.Workspace.CreateWorkspace)

	ws := v1.Group("/workspaces/:wid", middleware.WorkspaceContext("wid"))
	{
		ws.GET("", h.Workspace.GetWorkspace)
		ws.DELETE("", h.Workspace.CloseWorkspace)

		// 作文
		ws.POST("/essays", h.Essay.SubmitEssay)
		ws.GET("/essays/current", h.Essay.GetCurrentEssay)
		ws.GET("/essays/:eid/html", h.Essay.GetEssayHTML)

		// 历史
		ws.GET("/history", h.Essay.ListHistory)
		ws.POST("/history/:eid/select", h.Essay.SelectHistory)

		// 聊天窗口
		ws.GET("/chat", h.Chat.GetChat)
		ws.POST("/chat/open", h.Chat.OpenChat)
		ws.POST("/chat/close", h.Chat.CloseChat)
		ws.POST("/chat/toggle", h.Chat.ToggleChat)
		ws.PUT("/chat/draft", h.Chat.UpdateDraft)
		ws.POST("/chat/messages", h.Chat.SendMessage)

		// 主题
		ws.GET("/theme", h.Theme.GetTheme)
		ws.PUT("/theme", h.Theme.SetTheme)
		ws.POST("/theme/toggle", h.Theme.ToggleTheme)
	}
}
