package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SphoenixAI/image-verse-quest/internal/middleware"
	"github.com/SphoenixAI/image-verse-quest/internal/service"
)

// QuestHandler 每日任务处理器
type QuestHandler struct {
	questService service.QuestService
}

// NewQuestHandler 创建任务处理器
func NewQuestHandler(questService service.QuestService) *QuestHandler {
	return &QuestHandler{questService: questService}
}

// List 列出每日任务
// @Summary 获取当前用户的每日任务（过期自动轮换）
// @Tags Quest
// @Security Bearer
// @Success 200 {object} SuccessResponse
// @Router /api/v1/quests [get]
func (h *QuestHandler) List(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	quests, err := h.questService.List(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: quests})
}

// UpdateProgressRequest 进度上报请求
type UpdateProgressRequest struct {
	Progress int `json:"progress" binding:"min=0"`
}

// UpdateProgress 上报任务进度
// @Summary 设置任务进度，完成时自动发放奖励
// @Tags Quest
// @Security Bearer
// @Accept json
// @Produce json
// @Param id path string true "任务ID"
// @Param request body UpdateProgressRequest true "进度值"
// @Success 200 {object} models.Quest
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/quests/{id}/progress [put]
func (h *QuestHandler) UpdateProgress(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	quest, err := h.questService.UpdateProgress(c.Request.Context(), userID, c.Param("id"), req.Progress)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, quest)
}
