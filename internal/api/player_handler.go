package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SphoenixAI/image-verse-quest/internal/middleware"
	"github.com/SphoenixAI/image-verse-quest/internal/service"
)

// PlayerHandler 玩家状态与挑战目录处理器
type PlayerHandler struct {
	playerService service.PlayerService
}

// NewPlayerHandler 创建玩家处理器
func NewPlayerHandler(playerService service.PlayerService) *PlayerHandler {
	return &PlayerHandler{playerService: playerService}
}

// GetState 获取游戏状态快照
// @Summary 获取当前玩家的完整游戏状态
// @Tags Player
// @Security Bearer
// @Success 200 {object} game.State
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/state [get]
func (h *PlayerHandler) GetState(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	state, err := h.playerService.GetState(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// ListPrompts 列出挑战目录
// @Summary 列出启用的拍摄挑战
// @Tags Prompt
// @Success 200 {object} SuccessResponse
// @Router /api/v1/prompts [get]
func (h *PlayerHandler) ListPrompts(c *gin.Context) {
	prompts, err := h.playerService.ListPrompts(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: prompts})
}

// RandomPrompt 随机抽取挑战
// @Summary 从目录随机抽取一个拍摄挑战
// @Tags Prompt
// @Success 200 {object} game.PromptData
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/prompts/random [get]
func (h *PlayerHandler) RandomPrompt(c *gin.Context) {
	prompt, err := h.playerService.RandomPrompt(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, prompt)
}

// SetActivePromptRequest 设置挑战请求
type SetActivePromptRequest struct {
	PromptID string `json:"prompt_id" binding:"required"`
}

// SetActivePrompt 设置当前挑战
// @Summary 激活一个拍摄挑战
// @Tags Prompt
// @Security Bearer
// @Accept json
// @Produce json
// @Param request body SetActivePromptRequest true "挑战ID"
// @Success 200 {object} game.PromptData
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/prompts/active [post]
func (h *PlayerHandler) SetActivePrompt(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req SetActivePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	prompt, err := h.playerService.SetActivePrompt(c.Request.Context(), userID, req.PromptID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, prompt)
}

// ClearActivePrompt 清除当前挑战
// @Summary 放弃当前拍摄挑战
// @Tags Prompt
// @Security Bearer
// @Success 200 {object} SuccessResponse
// @Router /api/v1/prompts/active [delete]
func (h *PlayerHandler) ClearActivePrompt(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	if err := h.playerService.ClearActivePrompt(c.Request.Context(), userID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "挑战已清除"})
}

// Leaderboard 排行榜
// @Summary 按等级和经验排行
// @Tags Player
// @Param limit query int false "返回条数，默认10"
// @Success 200 {object} SuccessResponse
// @Router /api/v1/leaderboard [get]
func (h *PlayerHandler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	entries, err := h.playerService.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: entries})
}
