package handler

import (
	"ai-writer-api/internal/application/essay"
	"ai-writer-api/internal/application/theme"
	"ai-writer-api/internal/application/workspace"
	"ai-writer-api/internal/domain/entity"
	"ai-writer-api/internal/interfaces/http/dto"
	"ai-writer-api/internal/interfaces/http/middleware"

	"github.com/gin-gonic/gin"
)

// WorkspaceHandler 工作区处理器
type WorkspaceHandler struct {
	manager *workspace.Manager
	themes  *theme.Controller
	form    *essay.Form
}

// NewWorkspaceHandler 创建工作区处理器
func NewWorkspaceHandler(manager *workspace.Manager, themes *theme.Controller, form *essay.Form) *WorkspaceHandler {
	return &WorkspaceHandler{
		manager: manager,
		themes:  themes,
		form:    form,
	}
}

// CreateWorkspace 创建工作区
// @Summary 创建工作区
// @Description 每个浏览器标签页一个工作区；主题按客户端标识解析并持久化
// @Tags Workspaces
// @Accept json
// @Produce json
// @Param body body dto.CreateWorkspaceRequest false "客户端偏好"
// @Success 201 {object} dto.Response[dto.WorkspaceResponse]
// @Router /v1/workspaces [post]
func (h *WorkspaceHandler) CreateWorkspace(c *gin.Context) {
	var req dto.CreateWorkspaceRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	clientID := req.ClientID
	if clientID == "" {
		clientID = middleware.GetClientIDFromGin(c)
	}

	ws, t, err := h.manager.Create(c.Request.Context(), clientID, req.PrefersDark)
	if err != nil {
		respondError(c, err, "failed to create workspace")
		return
	}

	dto.Created(c, dto.ToWorkspaceResponse(ws, t, h.form))
}

// GetWorkspace 获取工作区快照
// @Summary 获取工作区
// @Tags Workspaces
// @Produce json
// @Param wid path string true "工作区 ID"
// @Success 200 {object} dto.Response[dto.WorkspaceResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/workspaces/{wid} [get]
func (h *WorkspaceHandler) GetWorkspace(c *gin.Context) {
	ws, ok := loadWorkspace(c, h.manager)
	if !ok {
		return
	}

	t, ok, err := h.themes.Current(c.Request.Context(), ws.ClientID)
	if err != nil {
		respondError(c, err, "failed to load theme")
		return
	}
	if !ok {
		// 偏好过期后按浅色展示，下次创建工作区时重新解析
		t = entity.ThemeLight
	}

	dto.Success(c, dto.ToWorkspaceResponse(ws, t, h.form))
}

// CloseWorkspace 关闭工作区，历史与聊天记录随之删除
// @Summary 关闭工作区
// @Tags Workspaces
// @Param wid path string true "工作区 ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/workspaces/{wid} [delete]
func (h *WorkspaceHandler) CloseWorkspace(c *gin.Context) {
	if err := h.manager.Close(c.Request.Context(), dto.BindWorkspaceID(c)); err != nil {
		respondError(c, err, "failed to close workspace")
		return
	}
	dto.NoContent(c)
}
