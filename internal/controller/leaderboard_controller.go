package controller

import (
	"codelearn_backend/internal/service"
	"codelearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LeaderboardController struct {
	LeaderboardService *service.LeaderboardService
}

func NewLeaderboardController(leaderboardService *service.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{LeaderboardService: leaderboardService}
}

// @Summary 积分排行榜
// @Description 总分降序前50名，并解析当前学员的名次（不在榜内也返回）
// @Tags 排行榜
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/leaderboard [get]
func (c *LeaderboardController) GetLeaderboard(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	board, err := c.LeaderboardService.GetLeaderboard(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, board)
}

// @Summary 清除排行榜缓存
// @Description 管理员在补录或修正积分数据后调用，下一次请求重新计算
// @Tags 排行榜
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/leaderboard/cache [delete]
func (c *LeaderboardController) ResetCache(ctx *gin.Context) {
	if err := c.LeaderboardService.InvalidateCache(ctx.Request.Context()); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
