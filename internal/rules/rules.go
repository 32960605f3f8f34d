// Package rules 实现关卡开放条件的求值。规则文档是管理员编写的 JSON，
// 形如 {"op":"and","rules":[{"op":"solvedCategory","categoryId":1}, ...]}，
// 对队伍的正确提交记录做纯谓词求值，不触碰任何外部状态。
package rules

import (
	"bytes"
	"encoding/json"

	"hctf_backend/internal/model"
)

const (
	opAnd            = "and"
	opOr             = "or"
	opSolvedCategory = "solvedCategory"
	opSolvedCount    = "solvedCount"
)

// Rule 对一组正确提交记录求值
type Rule interface {
	Eligible(history []model.Log) bool
}

// Always 空规则，无条件开放
type Always struct{}

func (Always) Eligible([]model.Log) bool { return true }

// never 解析失败时的兜底：宁可判不开放，不让坏文档放行
type never struct{}

func (never) Eligible([]model.Log) bool { return false }

type And struct {
	Rules []Rule
}

func (r And) Eligible(history []model.Log) bool {
	for _, sub := range r.Rules {
		if !sub.Eligible(history) {
			return false
		}
	}
	return true
}

type Or struct {
	Rules []Rule
}

func (r Or) Eligible(history []model.Log) bool {
	for _, sub := range r.Rules {
		if sub.Eligible(history) {
			return true
		}
	}
	return len(r.Rules) == 0
}

// SolvedCategory 要求队伍在指定分类下的正确记录数 >= Count；
// Count 为 0 时表示该分类下出现过任意正确记录即可。
type SolvedCategory struct {
	CategoryID uint
	Count      int
}

func (r SolvedCategory) Eligible(history []model.Log) bool {
	n := 0
	for _, log := range history {
		if log.CategoryID == r.CategoryID {
			n++
		}
	}
	if r.Count <= 0 {
		return n > 0
	}
	return n >= r.Count
}

// SolvedCount 指定题目集合中至少解出 Count 道
type SolvedCount struct {
	ChallengeIDs []uint
	Count        int
}

func (r SolvedCount) Eligible(history []model.Log) bool {
	set := make(map[uint]bool, len(r.ChallengeIDs))
	for _, id := range r.ChallengeIDs {
		set[id] = true
	}
	n := 0
	for _, log := range history {
		if set[log.ChallengeID] {
			n++
		}
	}
	return n >= r.Count
}

type node struct {
	Op           string            `json:"op"`
	Rules        []json.RawMessage `json:"rules"`
	CategoryID   uint              `json:"categoryId"`
	ChallengeIDs []uint            `json:"challengeIds"`
	Count        int               `json:"count"`
}

// Parse 解析规则文档。空文档视为无条件开放；
// 无法解析或含未知算子的文档一律视为永不开放（fail closed）。
func Parse(raw json.RawMessage) Rule {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("{}")) {
		return Always{}
	}
	rule, ok := parseNode(trimmed)
	if !ok {
		return never{}
	}
	return rule
}

func parseNode(raw json.RawMessage) (Rule, bool) {
	var n node
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, false
	}
	switch n.Op {
	case opAnd, opOr:
		children := make([]Rule, 0, len(n.Rules))
		for _, sub := range n.Rules {
			child, ok := parseNode(sub)
			if !ok {
				return nil, false
			}
			children = append(children, child)
		}
		if n.Op == opAnd {
			return And{Rules: children}, true
		}
		return Or{Rules: children}, true
	case opSolvedCategory:
		return SolvedCategory{CategoryID: n.CategoryID, Count: n.Count}, true
	case opSolvedCount:
		return SolvedCount{ChallengeIDs: n.ChallengeIDs, Count: n.Count}, true
	default:
		return nil, false
	}
}
