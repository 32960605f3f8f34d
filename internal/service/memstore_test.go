package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"hctf_backend/internal/model"
	"hctf_backend/internal/util"
)

// memStore 测试用内存存储。Create 中的唯一性检查与插入在同一把锁内完成，
// 模拟数据库唯一索引的仲裁语义。
type memStore struct {
	mu sync.Mutex

	teams      map[uint]*model.Team
	categories map[uint]*model.Category
	levels     map[uint]*model.Level
	challenges map[uint]*model.Challenge
	flags      []*model.Flag
	logs       []*model.Log

	nextID uint
	clock  time.Time
}

func newMemStore() *memStore {
	return &memStore{
		teams:      make(map[uint]*model.Team),
		categories: make(map[uint]*model.Category),
		levels:     make(map[uint]*model.Level),
		challenges: make(map[uint]*model.Challenge),
		nextID:     1,
		clock:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) id() uint {
	id := s.nextID
	s.nextID++
	return id
}

func (s *memStore) addTeam(t *model.Team) *model.Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == 0 {
		t.ID = s.id()
	}
	s.teams[t.ID] = t
	return t
}

func (s *memStore) addCategory(c *model.Category) *model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.id()
	}
	s.categories[c.ID] = c
	return c
}

func (s *memStore) addLevel(l *model.Level) *model.Level {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == 0 {
		l.ID = s.id()
	}
	s.levels[l.ID] = l
	return l
}

func (s *memStore) addChallenge(c *model.Challenge) *model.Challenge {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.id()
	}
	s.challenges[c.ID] = c
	return c
}

func (s *memStore) addFlag(f *model.Flag) *model.Flag {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.ID == 0 {
		f.ID = s.id()
	}
	f.CreatedAt = s.tick()
	s.flags = append(s.flags, f)
	return f
}

// tick 每次调用前进一秒，保证记录时间单调递增
func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) Teams() TeamStore           { return memTeams{s} }
func (s *memStore) Categories() CategoryStore  { return memCategories{s} }
func (s *memStore) Levels() LevelStore         { return memLevels{s} }
func (s *memStore) Challenges() ChallengeStore { return memChallenges{s} }
func (s *memStore) Flags() FlagStore           { return memFlags{s} }
func (s *memStore) Logs() LogStore             { return memLogs{s} }

func (s *memStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return fn(s)
}

type memTeams struct{ s *memStore }

func (m memTeams) Create(t *model.Team) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, existing := range m.s.teams {
		if existing.Name == t.Name {
			return util.ErrTeamNameTaken
		}
	}
	if t.ID == 0 {
		t.ID = m.s.id()
	}
	m.s.teams[t.ID] = t
	return nil
}

func (m memTeams) FindByID(id uint) (*model.Team, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	t, ok := m.s.teams[id]
	if !ok {
		return nil, util.ErrTeamNotFound
	}
	copied := *t
	return &copied, nil
}

func (m memTeams) FindByName(name string) (*model.Team, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, t := range m.s.teams {
		if t.Name == name {
			copied := *t
			return &copied, nil
		}
	}
	return nil, util.ErrTeamNotFound
}

func (m memTeams) SetBanned(id uint) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	t, ok := m.s.teams[id]
	if !ok {
		return util.ErrTeamNotFound
	}
	t.Banned = true
	return nil
}

type memCategories struct{ s *memStore }

func (m memCategories) FindByID(id uint) (*model.Category, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	c, ok := m.s.categories[id]
	if !ok {
		return nil, util.ErrCategoryNotFound
	}
	return c, nil
}

func (m memCategories) ListAll() ([]model.Category, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make([]model.Category, 0, len(m.s.categories))
	for _, c := range m.s.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memLevels struct{ s *memStore }

func (m memLevels) FindByID(id uint) (*model.Level, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	l, ok := m.s.levels[id]
	if !ok {
		return nil, util.ErrLevelNotFound
	}
	return l, nil
}

func (m memLevels) ListAll() ([]model.Level, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make([]model.Level, 0, len(m.s.levels))
	for _, l := range m.s.levels {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memChallenges struct{ s *memStore }

func (m memChallenges) FindByID(id uint) (*model.Challenge, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	c, ok := m.s.challenges[id]
	if !ok {
		return nil, util.ErrChallengeNotFound
	}
	copied := *c
	return &copied, nil
}

func (m memChallenges) ListAll() ([]model.Challenge, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make([]model.Challenge, 0, len(m.s.challenges))
	for _, c := range m.s.challenges {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memChallenges) ListDynamic() ([]model.Challenge, error) {
	all, _ := m.ListAll()
	out := all[:0]
	for _, c := range all {
		if c.IsDynamicFlag {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m memChallenges) UpdateScore(id uint, score float64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	c, ok := m.s.challenges[id]
	if !ok {
		return util.ErrChallengeNotFound
	}
	c.Score = score
	return nil
}

type memFlags struct{ s *memStore }

func (m memFlags) FindByValue(value string) (*model.Flag, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, f := range m.s.flags {
		if f.Flag == value {
			copied := *f
			return &copied, nil
		}
	}
	return nil, util.ErrFlagNotFound
}

func (m memFlags) SeedFor(challengeID uint) (*model.Flag, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var seed *model.Flag
	for _, f := range m.s.flags {
		if f.ChallengeID != challengeID {
			continue
		}
		if seed == nil || f.CreatedAt.Before(seed.CreatedAt) {
			seed = f
		}
	}
	if seed == nil {
		return nil, util.ErrNoSeedFlag
	}
	copied := *seed
	return &copied, nil
}

type memLogs struct{ s *memStore }

func (m memLogs) Create(log *model.Log) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, existing := range m.s.logs {
		if existing.TeamID == log.TeamID && existing.ChallengeID == log.ChallengeID {
			return util.ErrDuplicateLog
		}
	}
	log.ID = m.s.id()
	log.CreatedAt = m.s.tick()
	m.s.logs = append(m.s.logs, log)
	return nil
}

func (m memLogs) ExistsCorrect(teamID, challengeID uint) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, l := range m.s.logs {
		if l.TeamID == teamID && l.ChallengeID == challengeID && l.Status == model.LogStatusCorrect {
			return true, nil
		}
	}
	return false, nil
}

func (m memLogs) ListCorrectByTeam(teamID uint) ([]model.Log, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.Log
	for _, l := range m.s.logs {
		if l.TeamID == teamID && l.Status == model.LogStatusCorrect {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m memLogs) ListCorrectByChallenge(challengeID uint) ([]model.Log, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.Log
	for _, l := range m.s.logs {
		if l.ChallengeID == challengeID && l.Status == model.LogStatusCorrect {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m memLogs) CountCorrect(challengeID uint) (int64, error) {
	logs, _ := m.ListCorrectByChallenge(challengeID)
	return int64(len(logs)), nil
}

func (m memLogs) CountsByChallenge() (map[uint]int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	counts := make(map[uint]int64)
	for _, l := range m.s.logs {
		if l.Status == model.LogStatusCorrect {
			counts[l.ChallengeID]++
		}
	}
	return counts, nil
}

func (m memLogs) UpdateScoreByChallenge(challengeID uint, score float64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, l := range m.s.logs {
		if l.ChallengeID == challengeID {
			l.Score = score
		}
	}
	return nil
}

func (m memLogs) TeamTotals() ([]model.TeamTotal, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	byTeam := make(map[uint]*model.TeamTotal)
	for _, l := range m.s.logs {
		if l.Status != model.LogStatusCorrect {
			continue
		}
		team, ok := m.s.teams[l.TeamID]
		if !ok || team.Banned {
			continue
		}
		total, ok := byTeam[l.TeamID]
		if !ok {
			total = &model.TeamTotal{TeamID: l.TeamID, Name: team.Name}
			byTeam[l.TeamID] = total
		}
		total.Score += l.Score
		if l.CreatedAt.After(total.LastSolve) {
			total.LastSolve = l.CreatedAt
		}
	}
	out := make([]model.TeamTotal, 0, len(byTeam))
	for _, t := range byTeam {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].LastSolve.Before(out[j].LastSolve)
	})
	for i := range out {
		out[i].Rank = uint(i + 1)
	}
	return out, nil
}
