package controller

import (
	"hctf_backend/internal/service"
	"hctf_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ScoreboardController struct {
	ScoreboardService *service.ScoreboardService
}

func NewScoreboardController(scoreboardService *service.ScoreboardService) *ScoreboardController {
	return &ScoreboardController{ScoreboardService: scoreboardService}
}

// @Summary 排行榜
// @Tags 排行榜
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/scoreboard [get]
func (c *ScoreboardController) Get(ctx *gin.Context) {
	totals, err := c.ScoreboardService.Get(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, totals)
}
