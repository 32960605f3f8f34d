package service

import (
	"context"
	"errors"
	"time"

	"hctf_backend/internal/model"
	"hctf_backend/internal/rules"
	"hctf_backend/internal/scoring"
	"hctf_backend/internal/util"
)

// VisibleChallenge 面向参赛队伍的题目视图，分数是"下一个解出者"的预览值
type VisibleChallenge struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	Score       float64 `json:"score"`
	SolvedCount int64   `json:"solvedCount"`
	Solved      bool    `json:"solved"`
}

// ChallengeBoard 按 分类名 → 关卡名 分组的可见题目
type ChallengeBoard map[string]map[string][]VisibleChallenge

// SolvedTeamEntry 某题的解出动态
type SolvedTeamEntry struct {
	TeamName string    `json:"teamName"`
	SolvedAt time.Time `json:"solvedAt"`
}

type ChallengeService struct {
	store     Store
	evaluator *rules.Evaluator
	policy    scoring.Policy
	cache     ScoreboardInvalidator
}

func NewChallengeService(store Store, evaluator *rules.Evaluator, policy scoring.Policy, cache ScoreboardInvalidator) *ChallengeService {
	return &ChallengeService{store: store, evaluator: evaluator, policy: policy, cache: cache}
}

// ListVisible 列出当前对该队伍开放的题目：关卡规则成立且题目与关卡均已到发布时间
func (s *ChallengeService) ListVisible(team *model.Team) (ChallengeBoard, error) {
	history, err := s.store.Logs().ListCorrectByTeam(team.ID)
	if err != nil {
		return nil, err
	}
	categories, err := s.store.Categories().ListAll()
	if err != nil {
		return nil, err
	}
	levels, err := s.store.Levels().ListAll()
	if err != nil {
		return nil, err
	}
	challenges, err := s.store.Challenges().ListAll()
	if err != nil {
		return nil, err
	}
	counts, err := s.store.Logs().CountsByChallenge()
	if err != nil {
		return nil, err
	}

	categoryNames := make(map[uint]string, len(categories))
	for _, c := range categories {
		categoryNames[c.ID] = c.Name
	}

	solved := make(map[uint]bool, len(history))
	for _, log := range history {
		solved[log.ChallengeID] = true
	}

	openLevels := make(map[uint]*model.Level)
	for i := range levels {
		if s.evaluator.Eligible(&levels[i], history) {
			openLevels[levels[i].ID] = &levels[i]
		}
	}

	now := s.evaluator.Now()
	board := make(ChallengeBoard)
	for i := range challenges {
		ch := &challenges[i]
		level, ok := openLevels[ch.LevelID]
		if !ok || now.Before(ch.ReleaseTime) {
			continue
		}
		categoryName, ok := categoryNames[level.CategoryID]
		if !ok {
			continue
		}
		if board[categoryName] == nil {
			board[categoryName] = make(map[string][]VisibleChallenge)
		}
		solvedCount := counts[ch.ID]
		board[categoryName][level.Name] = append(board[categoryName][level.Name], VisibleChallenge{
			ID:          ch.ID,
			Title:       ch.Title,
			Description: ch.Description,
			URL:         ch.URL,
			Score:       s.policy.Score(int(solvedCount)+1, ch.Score),
			SolvedCount: solvedCount,
			Solved:      solved[ch.ID],
		})
	}
	return board, nil
}

// ResetScore 管理端重设基准分数，并将该题所有记录改写到新基准下的当前分值。
// 与提交路径一样在单个事务内完成，保证同题记录分数一致。
func (s *ChallengeService) ResetScore(ctx context.Context, challengeID uint, base float64) error {
	err := s.store.Transaction(ctx, func(tx Store) error {
		if _, err := tx.Challenges().FindByID(challengeID); err != nil {
			return err
		}
		if err := tx.Challenges().UpdateScore(challengeID, base); err != nil {
			return err
		}
		count, err := tx.Logs().CountCorrect(challengeID)
		if err != nil {
			return err
		}
		return tx.Logs().UpdateScoreByChallenge(challengeID, s.policy.Score(int(count), base))
	})
	if err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return nil
}

// SolvedTeams 某题的解出队伍列表。关卡未对请求队伍开放时与题目不存在不可区分
// （管理员除外），避免通过该接口探测未开放内容。
func (s *ChallengeService) SolvedTeams(team *model.Team, challengeID uint) ([]SolvedTeamEntry, error) {
	challenge, err := s.store.Challenges().FindByID(challengeID)
	if err != nil {
		return nil, err
	}
	level, err := s.store.Levels().FindByID(challenge.LevelID)
	if err != nil {
		return nil, err
	}

	if !team.Admin {
		history, err := s.store.Logs().ListCorrectByTeam(team.ID)
		if err != nil {
			return nil, err
		}
		if !s.evaluator.Eligible(level, history) {
			return nil, util.ErrChallengeNotFound
		}
	}

	logs, err := s.store.Logs().ListCorrectByChallenge(challengeID)
	if err != nil {
		return nil, err
	}
	entries := make([]SolvedTeamEntry, 0, len(logs))
	for _, log := range logs {
		solver, err := s.store.Teams().FindByID(log.TeamID)
		if errors.Is(err, util.ErrTeamNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, SolvedTeamEntry{TeamName: solver.Name, SolvedAt: log.CreatedAt})
	}
	return entries, nil
}

// ValidateDynamic 动态题必须有种子 Flag，创建/启用动态题时由管理端调用校验
func (s *ChallengeService) ValidateDynamic(challengeID uint) error {
	challenge, err := s.store.Challenges().FindByID(challengeID)
	if err != nil {
		return err
	}
	if !challenge.IsDynamicFlag {
		return nil
	}
	_, err = s.store.Flags().SeedFor(challengeID)
	return err
}
