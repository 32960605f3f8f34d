package rules

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"hctf_backend/internal/model"
)

func logAt(t time.Time, categoryID, challengeID uint) model.Log {
	return model.Log{
		BaseModel:   model.BaseModel{CreatedAt: t},
		CategoryID:  categoryID,
		ChallengeID: challengeID,
		Status:      model.LogStatusCorrect,
	}
}

func TestParseEmptyDocumentAlwaysEligible(t *testing.T) {
	for _, raw := range []string{"", "null", "{}", "  {}  "} {
		if !Parse(json.RawMessage(raw)).Eligible(nil) {
			t.Errorf("Parse(%q) 应无条件开放", raw)
		}
	}
}

func TestParseFailClosed(t *testing.T) {
	history := []model.Log{
		logAt(time.Now(), 1, 1),
		logAt(time.Now(), 2, 2),
	}
	cases := []string{
		`{invalid`,
		`{"op":"unknown"}`,
		`{"op":"and","rules":[{"op":"nope"}]}`,
		`{"op":"or","rules":[{"op":"solvedCategory","categoryId":1},{"op":"bad"}]}`,
		`[1,2,3]`,
	}
	for _, raw := range cases {
		if Parse(json.RawMessage(raw)).Eligible(history) {
			t.Errorf("Parse(%q) 应解析失败并判不开放", raw)
		}
	}
}

func TestSolvedCategory(t *testing.T) {
	now := time.Now()
	history := []model.Log{
		logAt(now, 1, 10),
		logAt(now, 1, 11),
		logAt(now, 2, 20),
	}
	tests := []struct {
		name string
		rule SolvedCategory
		want bool
	}{
		{"零门槛只要有记录", SolvedCategory{CategoryID: 2}, true},
		{"零门槛无记录", SolvedCategory{CategoryID: 3}, false},
		{"达到数量", SolvedCategory{CategoryID: 1, Count: 2}, true},
		{"数量不足", SolvedCategory{CategoryID: 1, Count: 3}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.rule.Eligible(history); got != tc.want {
				t.Errorf("Eligible() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSolvedCount(t *testing.T) {
	now := time.Now()
	history := []model.Log{
		logAt(now, 1, 10),
		logAt(now, 1, 11),
		logAt(now, 2, 20),
	}
	rule := SolvedCount{ChallengeIDs: []uint{10, 20, 30}, Count: 2}
	if !rule.Eligible(history) {
		t.Error("集合内已解出 2 道，应开放")
	}
	rule.Count = 3
	if rule.Eligible(history) {
		t.Error("集合内只解出 2 道，不应开放")
	}
}

func TestComposition(t *testing.T) {
	now := time.Now()
	history := []model.Log{logAt(now, 1, 10)}

	and := Parse(json.RawMessage(`{"op":"and","rules":[
		{"op":"solvedCategory","categoryId":1},
		{"op":"solvedCategory","categoryId":2}]}`))
	if and.Eligible(history) {
		t.Error("and 子条件未全部成立，不应开放")
	}

	or := Parse(json.RawMessage(`{"op":"or","rules":[
		{"op":"solvedCategory","categoryId":1},
		{"op":"solvedCategory","categoryId":2}]}`))
	if !or.Eligible(history) {
		t.Error("or 任一子条件成立即应开放")
	}

	if !(Or{}).Eligible(nil) {
		t.Error("空 or 应视为成立")
	}
	if !(And{}).Eligible(nil) {
		t.Error("空 and 应视为成立")
	}
}

func TestEvaluatorReleaseTime(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e := &Evaluator{Now: func() time.Time { return now }}

	level := &model.Level{ReleaseTime: now.Add(time.Hour)}
	if e.Eligible(level, nil) {
		t.Error("未到发布时间不应开放")
	}
	level.ReleaseTime = now.Add(-time.Hour)
	if !e.Eligible(level, nil) {
		t.Error("已发布且无规则应开放")
	}
}

func TestEligibleSince(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e := &Evaluator{Now: func() time.Time { return now }}

	release := now.Add(-2 * time.Hour)
	level := &model.Level{
		ReleaseTime: release,
		Rules:       json.RawMessage(`{"op":"solvedCategory","categoryId":1,"count":2}`),
	}

	first := now.Add(-90 * time.Minute)
	second := now.Add(-30 * time.Minute)
	// 乱序传入，EligibleSince 内部按时间回放
	history := []model.Log{
		logAt(second, 1, 11),
		logAt(first, 1, 10),
	}

	since, err := e.EligibleSince(level, history)
	if err != nil {
		t.Fatalf("EligibleSince() error: %v", err)
	}
	if !since.Equal(second) {
		t.Errorf("开放时刻应为第二条记录 %v，得到 %v", second, since)
	}

	// 规则早于发布时间成立时，以发布时间为准
	level.Rules = json.RawMessage(`{}`)
	since, err = e.EligibleSince(level, history)
	if err != nil {
		t.Fatalf("EligibleSince() error: %v", err)
	}
	if !since.Equal(release) {
		t.Errorf("无条件关卡的开放时刻应为发布时间 %v，得到 %v", release, since)
	}

	level.Rules = json.RawMessage(`{"op":"solvedCategory","categoryId":9}`)
	if _, err := e.EligibleSince(level, history); !errors.Is(err, ErrNotEligible) {
		t.Errorf("规则从未成立应返回 ErrNotEligible，得到 %v", err)
	}
}

func TestSecondsSinceEligible(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e := &Evaluator{Now: func() time.Time { return now }}

	level := &model.Level{ReleaseTime: now.Add(-5 * time.Minute)}
	got, err := e.SecondsSinceEligible(level, nil)
	if err != nil {
		t.Fatalf("SecondsSinceEligible() error: %v", err)
	}
	if got != 300 {
		t.Errorf("SecondsSinceEligible() = %d, want 300", got)
	}

	level.ReleaseTime = now.Add(time.Minute)
	if _, err := e.SecondsSinceEligible(level, nil); !errors.Is(err, ErrNotEligible) {
		t.Errorf("发布时间在未来应返回 ErrNotEligible，得到 %v", err)
	}
}
