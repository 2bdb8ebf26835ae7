package handler

import (
	"ai-writer-api/internal/application/workspace"
	"ai-writer-api/internal/interfaces/http/dto"
	"ai-writer-api/pkg/errors"
	"ai-writer-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// respondError 将应用错误映射为 HTTP 响应，其余错误记录后返回 500
func respondError(c *gin.Context, err error, msg string) {
	if errors.IsAppError(err) {
		appErr := errors.AsAppError(err)
		if appErr.HTTPStatus >= 500 {
			logger.Error(c.Request.Context(), msg, err)
		}
		dto.AppError(c, appErr)
		return
	}
	logger.Error(c.Request.Context(), msg, err)
	dto.InternalError(c, msg)
}

// bindJSON 绑定请求体，失败时直接返回 400
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// loadWorkspace 按路径参数获取工作区，不存在时直接返回 404
func loadWorkspace(c *gin.Context, manager *workspace.Manager) (*workspace.Workspace, bool) {
	ws, err := manager.Get(c.Request.Context(), dto.BindWorkspaceID(c))
	if err != nil {
		respondError(c, err, "failed to load workspace")
		return nil, false
	}
	return ws, true
}
