package controller

import (
	"codelearn_backend/internal/service"
	"codelearn_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PracticeController struct {
	PracticeService *service.PracticeService
}

func NewPracticeController(practiceService *service.PracticeService) *PracticeController {
	return &PracticeController{PracticeService: practiceService}
}

// @Summary 提交一次选择题练习
// @Description 评分并写入尝试历史，更高分时刷新最高分缓存
// @Tags 练习
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param topicId path int true "主题ID"
// @Param attempt body service.RecordAttemptRequest true "作答明细"
// @Success 201 {object} util.Response
// @Router /api/topics/{topicId}/practice/attempts [post]
func (c *PracticeController) RecordAttempt(ctx *gin.Context) {
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

	var req service.RecordAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.PracticeService.RecordAttempt(user.UserID, topicID, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEmptyAnswers):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrAttemptConflict):
			util.Error(ctx, http.StatusConflict, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, attempt)
}

// @Summary 练习历史
// @Description 按试次编号倒序的摘要列表，附历史最高百分比
// @Tags 练习
// @Produce json
// @Security BearerAuth
// @Param topicId path int true "主题ID"
// @Success 200 {object} util.Response
// @Router /api/topics/{topicId}/practice/attempts [get]
func (c *PracticeController) ListAttempts(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	topicID := util.MustParseUint(ctx.Param("topicId"))
	history, err := c.PracticeService.ListAttempts(user.UserID, topicID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, history)
}

// @Summary 单次练习详情
// @Description 带逐题作答明细，只能查自己的记录
// @Tags 练习
// @Produce json
// @Security BearerAuth
// @Param topicId path int true "主题ID"
// @Param attemptId path string true "尝试ID"
// @Success 200 {object} util.Response
// @Router /api/topics/{topicId}/practice/attempts/{attemptId} [get]
func (c *PracticeController) GetAttemptDetail(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	topicID := util.MustParseUint(ctx.Param("topicId"))
	attemptID := ctx.Param("attemptId")

	attempt, err := c.PracticeService.GetAttemptDetail(user.UserID, topicID, attemptID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAttemptNotFound):
			util.NotFound(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, attempt)
}
