package rules

import (
	"errors"
	"sort"
	"time"

	"hctf_backend/internal/model"
)

var ErrNotEligible = errors.New("level not yet eligible for team")

// Evaluator 关卡开放判定器。时钟通过 Now 注入，便于测试。
type Evaluator struct {
	Now func() time.Time
}

func NewEvaluator() *Evaluator {
	return &Evaluator{Now: time.Now}
}

// Eligible 判定关卡当前是否对该队伍开放：规则谓词成立且已到发布时间。
func (e *Evaluator) Eligible(level *model.Level, history []model.Log) bool {
	if e.Now().Before(level.ReleaseTime) {
		return false
	}
	return Parse(level.Rules).Eligible(history)
}

// EligibleSince 还原规则谓词对该队伍最近一次变为成立的时刻。
// 按提交时间回放记录前缀，取最早使谓词成立的那条记录的时间，
// 再与关卡发布时间取较大者。从未成立返回 ErrNotEligible。
func (e *Evaluator) EligibleSince(level *model.Level, history []model.Log) (time.Time, error) {
	sorted := make([]model.Log, len(history))
	copy(sorted, history)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	rule := Parse(level.Rules)
	since := level.ReleaseTime

	if !rule.Eligible(nil) {
		found := false
		for i := range sorted {
			if rule.Eligible(sorted[:i+1]) {
				if sorted[i].CreatedAt.After(since) {
					since = sorted[i].CreatedAt
				}
				found = true
				break
			}
		}
		if !found {
			return time.Time{}, ErrNotEligible
		}
	}

	if e.Now().Before(since) {
		return time.Time{}, ErrNotEligible
	}
	return since, nil
}

// SecondsSinceEligible 距离关卡对该队伍开放经过的秒数，用于最短做题时间校验
func (e *Evaluator) SecondsSinceEligible(level *model.Level, history []model.Log) (int64, error) {
	since, err := e.EligibleSince(level, history)
	if err != nil {
		return 0, err
	}
	return int64(e.Now().Sub(since).Seconds()), nil
}
