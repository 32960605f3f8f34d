package controller

import (
	"errors"
	"net/http"
	"strconv"

	"hctf_backend/internal/service"
	"hctf_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChallengeController struct {
	ChallengeService  *service.ChallengeService
	SubmissionService *service.SubmissionService
}

func NewChallengeController(challengeService *service.ChallengeService, submissionService *service.SubmissionService) *ChallengeController {
	return &ChallengeController{
		ChallengeService:  challengeService,
		SubmissionService: submissionService,
	}
}

type submitRequest struct {
	Flag string `json:"flag" binding:"required"`
}

type resetScoreRequest struct {
	ChallengeID uint    `json:"challengeId" binding:"required"`
	Score       float64 `json:"score" binding:"required"`
}

// @Summary 获取当前开放题目
// @Tags 题目
// @Security BearerAuth
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/challenges [get]
func (c *ChallengeController) List(ctx *gin.Context) {
	team := util.GetTeamFromContext(ctx)
	if team == nil {
		util.Unauthorized(ctx)
		return
	}

	board, err := c.ChallengeService.ListVisible(team)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, board)
}

// @Summary 提交 Flag
// @Tags 题目
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/challenges/submit [post]
func (c *ChallengeController) Submit(ctx *gin.Context) {
	team := util.GetTeamFromContext(ctx)
	if team == nil {
		util.Unauthorized(ctx)
		return
	}

	var req submitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "缺少 Flag 字段")
		return
	}

	outcome, err := c.SubmissionService.Submit(ctx.Request.Context(), team.ID, req.Flag)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	// 业务终态到 HTTP 状态码的映射属于外层约定
	switch outcome.Status {
	case service.StatusCorrect:
		util.Success(ctx, outcome)
	case service.StatusWrongFlag:
		util.Error(ctx, http.StatusForbidden, "Flag 不正确")
	case service.StatusDuplicateSubmit:
		util.Error(ctx, http.StatusForbidden, "Flag 已经提交过")
	case service.StatusBanned:
		util.Error(ctx, http.StatusForbidden, "队伍已被封禁")
	default:
		util.InternalServerError(ctx)
	}
}

// @Summary 查询某题解出队伍
// @Tags 题目
// @Security BearerAuth
// @Produce json
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/challenges/{id}/solved [get]
func (c *ChallengeController) SolvedTeams(ctx *gin.Context) {
	team := util.GetTeamFromContext(ctx)
	if team == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	entries, err := c.ChallengeService.SolvedTeams(team, uint(id))
	if errors.Is(err, util.ErrChallengeNotFound) {
		util.NotFound(ctx)
		return
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// @Summary 重设题目基准分数
// @Tags 管理
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/admin/challenges/score [post]
func (c *ChallengeController) ResetScore(ctx *gin.Context) {
	var req resetScoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.ChallengeService.ResetScore(ctx.Request.Context(), req.ChallengeID, req.Score)
	if errors.Is(err, util.ErrChallengeNotFound) {
		util.NotFound(ctx)
		return
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
