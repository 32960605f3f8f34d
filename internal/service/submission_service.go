package service

import (
	"context"
	"errors"
	"sync"

	"hctf_backend/internal/model"
	"hctf_backend/internal/rules"
	"hctf_backend/internal/scoring"
	"hctf_backend/internal/util"
	"hctf_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// SubmissionStatus 一次提交的终态，四者取一
type SubmissionStatus string

const (
	StatusWrongFlag       SubmissionStatus = "wrong_flag"
	StatusDuplicateSubmit SubmissionStatus = "duplicate_submit"
	StatusBanned          SubmissionStatus = "banned"
	StatusCorrect         SubmissionStatus = "correct"
)

// 自动封禁原因，写入审计日志与指标
const (
	BanReasonForeignFlag  = "foreign_flag"       // 提交了其他队伍的专属 Flag
	BanReasonNotEligible  = "not_eligible"       // 提交了尚未对其开放的题目的 Flag
	BanReasonTooFastSolve = "minimum_solve_time" // 开放到解出的间隔小于题目阈值
)

// Outcome 提交结果。业务终态不是 error：只有存储层故障才以 error 返回。
type Outcome struct {
	Status     SubmissionStatus `json:"status"`
	Score      float64          `json:"score,omitempty"`
	FirstBlood bool             `json:"firstBlood,omitempty"`
}

// ScoreboardInvalidator 成功解题或封禁后失效排行榜缓存
type ScoreboardInvalidator interface {
	Invalidate(ctx context.Context)
}

// SubmissionService 提交判定状态机。按固定顺序短路：
// 匹配 → 字面复核 → 重复 → 队伍归属 → 开放条件 → 最短做题时间 → 记录与计分。
type SubmissionService struct {
	store     Store
	flags     *FlagService
	evaluator *rules.Evaluator
	policy    scoring.Policy
	cache     ScoreboardInvalidator
	log       *zap.Logger

	// 同一题目的 计数→批量改写 串行化
	mu         sync.Mutex
	challenges map[uint]*sync.Mutex
}

func NewSubmissionService(store Store, flags *FlagService, evaluator *rules.Evaluator, policy scoring.Policy, cache ScoreboardInvalidator, log *zap.Logger) *SubmissionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SubmissionService{
		store:      store,
		flags:      flags,
		evaluator:  evaluator,
		policy:     policy,
		cache:      cache,
		log:        log,
		challenges: make(map[uint]*sync.Mutex),
	}
}

func (s *SubmissionService) challengeLock(id uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.challenges[id]
	if !ok {
		m = &sync.Mutex{}
		s.challenges[id] = m
	}
	return m
}

// Submit 处理一次 Flag 提交并返回终态。
// 调用方断开不影响已开始的判定：内部一律使用独立的 context。
func (s *SubmissionService) Submit(ctx context.Context, teamID uint, submitted string) (*Outcome, error) {
	// 提交一旦开始就跑到底，效果不随调用方取消回滚
	ctx = context.WithoutCancel(ctx)

	team, err := s.store.Teams().FindByID(teamID)
	if err != nil {
		return nil, err
	}
	if team.Banned {
		return s.finish(StatusBanned, 0, false), nil
	}

	flag, isDynamic, err := s.flags.Match(team, submitted)
	if errors.Is(err, util.ErrFlagNotFound) {
		s.log.Info("wrong flag submitted",
			zap.String("team", team.Name),
			zap.String("flag", submitted))
		return s.finish(StatusWrongFlag, 0, false), nil
	}
	if err != nil {
		return nil, err
	}

	// 静态匹配的二次字面校验，防匹配层误报
	if !isDynamic && flag.Flag != submitted {
		s.log.Info("wrong flag submitted",
			zap.String("team", team.Name),
			zap.String("flag", submitted))
		return s.finish(StatusWrongFlag, 0, false), nil
	}

	challenge, err := s.store.Challenges().FindByID(flag.ChallengeID)
	if err != nil {
		return nil, err
	}
	level, err := s.store.Levels().FindByID(challenge.LevelID)
	if err != nil {
		return nil, err
	}

	exists, err := s.store.Logs().ExistsCorrect(team.ID, challenge.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return s.finish(StatusDuplicateSubmit, 0, false), nil
	}

	// 队伍专属 Flag 被他队提交：视为 Flag 泄露/串通
	if flag.TeamID != 0 && flag.TeamID != team.ID {
		if err := s.ban(ctx, team, challenge, BanReasonForeignFlag); err != nil {
			return nil, err
		}
		return s.finish(StatusBanned, 0, false), nil
	}

	history, err := s.store.Logs().ListCorrectByTeam(team.ID)
	if err != nil {
		return nil, err
	}

	// 提交了尚未开放内容的正确 Flag，说明 Flag 来自场外
	now := s.evaluator.Now()
	if !s.evaluator.Eligible(level, history) ||
		now.Before(challenge.ReleaseTime) || now.Before(level.ReleaseTime) {
		if err := s.ban(ctx, team, challenge, BanReasonNotEligible); err != nil {
			return nil, err
		}
		return s.finish(StatusBanned, 0, false), nil
	}

	if minSolve := challenge.ParseConfig().MinimumSolveTime; minSolve != 0 {
		elapsed, err := s.evaluator.SecondsSinceEligible(level, history)
		if err != nil || elapsed < minSolve {
			if err := s.ban(ctx, team, challenge, BanReasonTooFastSolve); err != nil {
				return nil, err
			}
			return s.finish(StatusBanned, 0, false), nil
		}
	}

	outcome, err := s.record(ctx, team, level, challenge, submitted)
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// record 写入记录并按最新解出数改写该题全部记录的分数，整体在一个事务内。
// 唯一索引在并发下是重复提交的最终仲裁。
func (s *SubmissionService) record(ctx context.Context, team *model.Team, level *model.Level, challenge *model.Challenge, submitted string) (*Outcome, error) {
	lock := s.challengeLock(challenge.ID)
	lock.Lock()
	defer lock.Unlock()

	var score float64
	var firstBlood bool

	err := s.store.Transaction(ctx, func(tx Store) error {
		entry := &model.Log{
			TeamID:      team.ID,
			ChallengeID: challenge.ID,
			LevelID:     level.ID,
			CategoryID:  level.CategoryID,
			Status:      model.LogStatusCorrect,
			Flag:        submitted,
			Score:       0,
		}
		if err := tx.Logs().Create(entry); err != nil {
			return err
		}
		count, err := tx.Logs().CountCorrect(challenge.ID)
		if err != nil {
			return err
		}
		firstBlood = count == 1
		score = s.policy.Score(int(count), challenge.Score)
		return tx.Logs().UpdateScoreByChallenge(challenge.ID, score)
	})
	if errors.Is(err, util.ErrDuplicateLog) {
		return s.finish(StatusDuplicateSubmit, 0, false), nil
	}
	if err != nil {
		return nil, err
	}

	if firstBlood {
		monitoring.FirstBloodCounter.Inc()
		s.log.Warn("FIRST BLOOD",
			zap.String("challenge", challenge.Title),
			zap.String("team", team.Name))
	}
	s.log.Info("correct flag submitted",
		zap.String("team", team.Name),
		zap.String("challenge", challenge.Title),
		zap.String("flag", submitted),
		zap.Float64("score", score))

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return s.finish(StatusCorrect, score, firstBlood), nil
}

// ban 置位封禁并落库。封禁在本服务内不可逆。
func (s *SubmissionService) ban(ctx context.Context, team *model.Team, challenge *model.Challenge, reason string) error {
	if err := s.store.Teams().SetBanned(team.ID); err != nil {
		return err
	}
	team.Banned = true
	monitoring.BanCounter.WithLabelValues(reason).Inc()
	s.log.Warn("team banned",
		zap.String("team", team.Name),
		zap.String("challenge", challenge.Title),
		zap.String("reason", reason))
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return nil
}

func (s *SubmissionService) finish(status SubmissionStatus, score float64, firstBlood bool) *Outcome {
	monitoring.SubmissionCounter.WithLabelValues(string(status)).Inc()
	return &Outcome{Status: status, Score: score, FirstBlood: firstBlood}
}
