package controller

import (
	"codelearn_backend/internal/service"
	"codelearn_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type CodingController struct {
	JudgeService *service.JudgeService
}

func NewCodingController(judgeService *service.JudgeService) *CodingController {
	return &CodingController{JudgeService: judgeService}
}

// @Summary 提交编程挑战
// @Description 判题并覆盖写入该主题的当前结论，返回逐用例反馈
// @Tags 编程挑战
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param topicId path int true "主题ID"
// @Param submission body service.JudgeRequest true "提交内容"
// @Success 200 {object} util.Response
// @Router /api/topics/{topicId}/coding/submissions [post]
func (c *CodingController) SubmitCode(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	topicID := util.MustParseUint(ctx.Param("topicId"))
	if topicID == 0 {
		util.BadRequest(ctx, "Invalid topic ID")
		return
	}

	var req service.JudgeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.JudgeService.JudgeSubmission(ctx.Request.Context(), user.UserID, topicID, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEmptyCode):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrChallengeNotFound):
			util.NotFound(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// @Summary 当前判题结论
// @Description 从未提交时 exists=false，不算错误
// @Tags 编程挑战
// @Produce json
// @Security BearerAuth
// @Param topicId path int true "主题ID"
// @Success 200 {object} util.Response
// @Router /api/topics/{topicId}/coding/submission [get]
func (c *CodingController) GetSubmission(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	topicID := util.MustParseUint(ctx.Param("topicId"))
	view, err := c.JudgeService.GetSubmission(user.UserID, topicID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// @Summary 挑战定义
// @Description 学员侧视图，不下发期望输出和测试用例
// @Tags 编程挑战
// @Produce json
// @Security BearerAuth
// @Param topicId path int true "主题ID"
// @Success 200 {object} util.Response
// @Router /api/topics/{topicId}/challenge [get]
func (c *CodingController) GetChallenge(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	topicID := util.MustParseUint(ctx.Param("topicId"))
	spec, err := c.JudgeService.GetChallenge(topicID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrChallengeNotFound):
			util.NotFound(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, spec)
}
