package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SphoenixAI/image-verse-quest/internal/middleware"
	"github.com/SphoenixAI/image-verse-quest/internal/service"
)

// RobotHandler 机器人处理器
type RobotHandler struct {
	robotService service.RobotService
}

// NewRobotHandler 创建机器人处理器
func NewRobotHandler(robotService service.RobotService) *RobotHandler {
	return &RobotHandler{robotService: robotService}
}

// Inventory 部件库存
// @Summary 获取当前用户的部件库存
// @Tags Robot
// @Security Bearer
// @Success 200 {object} SuccessResponse
// @Router /api/v1/robots/parts [get]
func (h *RobotHandler) Inventory(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	parts, err := h.robotService.Inventory(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: parts})
}

// Assemble 组装机器人
// @Summary 用库存部件组装机器人
// @Description 头、躯干、手臂、腿为必装槽位，配件可选；部件可复用
// @Tags Robot
// @Security Bearer
// @Accept json
// @Produce json
// @Param request body service.AssembleRobotRequest true "组装请求"
// @Success 200 {object} game.AssembledRobot
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/robots [post]
func (h *RobotHandler) Assemble(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req service.AssembleRobotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	req.UserID = userID

	robot, err := h.robotService.Assemble(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, robot)
}

// SetCurrentRequest 设置出战机器人请求
type SetCurrentRequest struct {
	RobotID string `json:"robot_id" binding:"required"`
}

// SetCurrent 设置出战机器人
// @Summary 切换当前出战机器人
// @Tags Robot
// @Security Bearer
// @Accept json
// @Produce json
// @Param request body SetCurrentRequest true "机器人ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/robots/current [put]
func (h *RobotHandler) SetCurrent(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req SetCurrentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.robotService.SetCurrent(c.Request.Context(), userID, req.RobotID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "出战机器人已更新"})
}

// List 列出机器人
// @Summary 列出当前用户已组装的机器人
// @Tags Robot
// @Security Bearer
// @Success 200 {object} SuccessResponse
// @Router /api/v1/robots [get]
func (h *RobotHandler) List(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	robots, err := h.robotService.List(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: robots})
}
