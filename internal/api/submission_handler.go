package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SphoenixAI/image-verse-quest/internal/middleware"
	"github.com/SphoenixAI/image-verse-quest/internal/service"
)

// SubmissionHandler 图片提交与分析处理器
type SubmissionHandler struct {
	submissionService service.SubmissionService
}

// NewSubmissionHandler 创建提交处理器
func NewSubmissionHandler(submissionService service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

// AnalyzeRequest 图片分析请求
type AnalyzeRequest struct {
	ImageURL   string `json:"image_url"`
	PromptText string `json:"prompt_text"`
}

// Analyze 图片分析
// @Summary 分析图片与挑战的匹配度
// @Description 只做评估，不入库也不发奖励
// @Tags Analyze
// @Accept json
// @Produce json
// @Param request body AnalyzeRequest true "分析请求"
// @Success 200 {object} service.AnalyzeResult
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/analyze [post]
func (h *SubmissionHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	// 缺失字段的校验交给服务层，统一返回400
	result, err := h.submissionService.Analyze(c.Request.Context(), req.ImageURL, req.PromptText)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Submit 提交图片
// @Summary 提交图片走完整管线
// @Description 分析、审核、入库、发奖励并更新游戏状态
// @Tags Submission
// @Security Bearer
// @Accept json
// @Produce json
// @Param request body service.SubmitImageRequest true "提交请求"
// @Success 200 {object} service.SubmitImageResult
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/submissions [post]
func (h *SubmissionHandler) Submit(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req service.SubmitImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	req.UserID = userID

	result, err := h.submissionService.Submit(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SubmissionListResponse 提交历史响应
type SubmissionListResponse struct {
	Submissions interface{} `json:"submissions"`
	Total       int64       `json:"total"`
	Page        int         `json:"page"`
	PageSize    int         `json:"page_size"`
}

// History 提交历史
// @Summary 分页查询当前用户的提交历史
// @Tags Submission
// @Security Bearer
// @Param page query int false "页码，默认1"
// @Param page_size query int false "每页条数，默认20"
// @Success 200 {object} SubmissionListResponse
// @Router /api/v1/submissions [get]
func (h *SubmissionHandler) History(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	submissions, total, err := h.submissionService.History(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, SubmissionListResponse{
		Submissions: submissions,
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
	})
}

// Get 查询单条提交
// @Summary 按ID查询提交
// @Tags Submission
// @Security Bearer
// @Param id path string true "提交ID"
// @Success 200 {object} models.ImageSubmission
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/submissions/{id} [get]
func (h *SubmissionHandler) Get(c *gin.Context) {
	submission, err := h.submissionService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}
