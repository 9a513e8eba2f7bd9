package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SphoenixAI/image-verse-quest/internal/middleware"
	"github.com/SphoenixAI/image-verse-quest/internal/service"
)

// VoteHandler 社区投票处理器
type VoteHandler struct {
	voteService service.VoteService
}

// NewVoteHandler 创建投票处理器
func NewVoteHandler(voteService service.VoteService) *VoteHandler {
	return &VoteHandler{voteService: voteService}
}

// CastVoteBody 投票请求体，目标图片取自路径参数
type CastVoteBody struct {
	IsAuthentic bool `json:"is_authentic"`
}

// Cast 投票
// @Summary 对一条提交投真伪票
// @Description 同一用户对同一图片只能投一次，重复投票返回409
// @Tags Vote
// @Security Bearer
// @Accept json
// @Produce json
// @Param id path string true "提交ID"
// @Param request body CastVoteBody true "投票方向"
// @Success 200 {object} service.CastVoteResult
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/submissions/{id}/votes [post]
func (h *VoteHandler) Cast(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var body CastVoteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.voteService.Cast(c.Request.Context(), &service.CastVoteRequest{
		UserID:      userID,
		ImageID:     c.Param("id"),
		IsAuthentic: body.IsAuthentic,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// MyVote 查询本人投票状态
// @Summary 查询当前用户是否已对该提交投票
// @Tags Vote
// @Security Bearer
// @Param id path string true "提交ID"
// @Success 200 {object} SuccessResponse
// @Router /api/v1/submissions/{id}/votes/me [get]
func (h *VoteHandler) MyVote(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	voted, err := h.voteService.HasVoted(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: gin.H{"has_voted": voted}})
}

// Queue 投票队列
// @Summary 获取待验证的投票队列
// @Description 排除本人提交和已投过票的图片
// @Tags Vote
// @Security Bearer
// @Param limit query int false "返回条数，默认10"
// @Success 200 {object} SuccessResponse
// @Router /api/v1/votes/queue [get]
func (h *VoteHandler) Queue(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	queue, err := h.voteService.Queue(c.Request.Context(), userID, limit)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: queue})
}
