package handler

import (
	"ai-writer-api/internal/application/essay"
	"ai-writer-api/internal/application/workspace"
	"ai-writer-api/internal/interfaces/http/dto"

	"github.com/gin-gonic/gin"
)

// EssayHandler 工作区内作文流程处理器
type EssayHandler struct {
	manager *workspace.Manager
}

// NewEssayHandler 创建作文处理器
func NewEssayHandler(manager *workspace.Manager) *EssayHandler {
	return &EssayHandler{manager: manager}
}

// SubmitEssay 提交作文
// 请求在生成完成后返回；同一工作区已有在途提交时返回 409
// @Summary 提交作文
// @Tags Essays
// @Accept json
// @Produce json
// @Param wid path string true "工作区 ID"
// @Param body body dto.SubmitEssayRequest true "作文表单"
// @Success 201 {object} dto.Response[dto.EssayResultResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/workspaces/{wid}/essays [post]
func (h *EssayHandler) SubmitEssay(c *gin.Context) {
	ws, ok := loadWorkspace(c, h.manager)
	if !ok {
		return
	}

	var req dto.SubmitEssayRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := ws.Submit(c.Request.Context(), req.ToEssayRequest())
	if err != nil {
		respondError(c, err, "failed to submit essay")
		return
	}

	dto.Created(c, dto.ToEssayResultResponse(result))
}

// GetCurrentEssay 获取当前展示的作文
// @Summary 当前作文
// @Tags Essays
// @Produce json
// @Param wid path string true "工作区 ID"
// @Success 200 {object} dto.Response[dto.EssayResultResponse]
// @Success 204
// @Router /v1/workspaces/{wid}/essays/current [get]
func (h *EssayHandler) GetCurrentEssay(c *gin.Context) {
	ws, ok := loadWorkspace(c, h.manager)
	if !ok {
		return
	}

	current := ws.Essay.Current()
	if current == nil {
		dto.NoContent(c)
		return
	}
	dto.Success(c, dto.ToEssayResultResponse(current))
}

// GetEssayHTML 以 Markdown 渲染作文内容
// @Summary 作文 HTML
// @Tags Essays
// @Produce json
// @Param wid path string true "工作区 ID"
// @Param eid path string true "作文 ID"
// @Success 200 {object} dto.Response[dto.EssayHTMLResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/workspaces/{wid}/essays/{eid}/html [get]
func (h *EssayHandler) GetEssayHTML(c *gin.Context) {
	ws, ok := loadWorkspace(c, h.manager)
	if !ok {
		return
	}

	result, err := ws.Essay.Get(c.Request.Context(), dto.BindEssayID(c))
	if err != nil {
		respondError(c, err, "failed to load essay")
		return
	}

	html, err := essay.RenderHTML(result.Content)
	if err != nil {
		respondError(c, err, "failed to render essay")
		return
	}

	dto.Success(c, &dto.EssayHTMLResponse{ID: result.ID, HTML: html})
}

// ListHistory 最新在前列出历史
// @Summary 作文历史
// @Tags Essays
// @Produce json
// @Param wid path string true "工作区 ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(20)
// @Success 200 {object} dto.Response[dto.EssayHistoryResponse]
// @Router /v1/workspaces/{wid}/history [get]
func (h *EssayHandler) ListHistory(c *gin.Context) {
	ws, ok := loadWorkspace(c, h.manager)
	if !ok {
		return
	}

	pageReq := dto.BindPage(c)
	result, err := ws.Essay.History(c.Request.Context(), pageReq.Pagination())
	if err != nil {
		respondError(c, err, "failed to list essay history")
		return
	}

	meta := dto.NewPageMeta(pageReq.Page, pageReq.PageSize, int(result.Total))
	dto.SuccessWithPage(c, dto.ToEssayHistoryResponse(result.Items), meta)
}

// SelectHistory 将历史条目设为当前展示
// @Summary 选择历史条目
// @Tags Essays
// @Produce json
// @Param wid path string true "工作区 ID"
// @Param eid path string true "作文 ID"
// @Success 200 {object} dto.Response[dto.EssayResultResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/workspaces/{wid}/history/{eid}/select [post]
func (h *EssayHandler) SelectHistory(c *gin.Context) {
	ws, ok := loadWorkspace(c, h.manager)
	if !ok {
		return
	}

	result, err := ws.Essay.Select(c.Request.Context(), dto.BindEssayID(c))
	if err != nil {
		respondError(c, err, "failed to select essay")
		return
	}

	dto.Success(c, dto.ToEssayResultResponse(result))
}
