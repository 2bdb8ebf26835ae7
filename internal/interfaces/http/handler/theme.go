package handler

import (
	"ai-writer-api/internal/application/theme"
	"ai-writer-api/internal/application/workspace"
	"ai-writer-api/internal/domain/entity"
	"ai-writer-api/internal/interfaces/http/dto"

	"github.com/gin-gonic/gin"
)

// ThemeHandler 主题处理器，偏好归属于工作区的客户端
type ThemeHandler struct {
	manager *workspace.Manager
	themes  *theme.Controller
}

// NewThemeHandler 创建主题处理器
func NewThemeHandler(manager *workspace.Manager, themes *theme.Controller) *ThemeHandler {
	return &ThemeHandler{
		manager: manager,
		themes:  themes,
	}
}

// GetTheme 获取主题
// @Summary 获取主题
// @Tags Theme
// @Produce json
// @Param wid path string true "工作区 ID"
// @Success 200 {object} dto.Response[dto.ThemeResponse]
// @Router /v1/workspaces/{wid}/theme [get]
func (h *ThemeHandler) GetTheme(c *gin.Context) {
	ws, ok := loadWorkspace(c, h.manager)
	if !ok {
		return
	}

	t, found, err := h.themes.Current(c.Request.Context(), ws.ClientID)
	if err != nil {
		respondError(c, err, "failed to load theme")
		return
	}
	if !found {
		t = entity.ThemeLight
	}
	dto.Success(c, &dto.ThemeResponse{Theme: string(t)})
}

// SetTheme 设置主题
// @Summary 设置主题
// @Tags Theme
// @Accept json
// @Produce json
// @Param wid path string true "工作区 ID"
// @Param body body dto.SetThemeRequest true "light 或 dark"
// @Success 200 {object} dto.Response[dto.ThemeResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/workspaces/{wid}/theme [put]
func (h *ThemeHandler) SetTheme(c *gin.Context) {
	ws, ok := loadWorkspace(c, h.manager)
	if !ok {
		return
	}

	var req dto.SetThemeRequest
	if !bindJSON(c, &req) {
		return
	}

	t, err := h.themes.Set(c.Request.Context(), ws.ClientID, entity.Theme(req.Theme))
	if err != nil {
		respondError(c, err, "failed to set theme")
		return
	}
	dto.Success(c, &dto.ThemeResponse{Theme: string(t)})
}

// ToggleTheme 切换主题
// @Summary 切换主题
// @Tags Theme
// @Produce json
// @Param wid path string true "工作区 ID"
// @Success 200 {object} dto.Response[dto.ThemeResponse]
// @Router /v1/workspaces/{wid}/theme/toggle [post]
func (h *ThemeHandler) ToggleTheme(c *gin.Context) {
	ws, ok := loadWorkspace(c, h.manager)
	if !ok {
		return
	}

	t, err := h.themes.Toggle(c.Request.Context(), ws.ClientID)
	if err != nil {
		respondError(c, err, "failed to toggle theme")
		return
	}
	dto.Success(c, &dto.ThemeResponse{Theme: string(t)})
}
