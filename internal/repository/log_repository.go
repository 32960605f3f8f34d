package repository

import (
	"errors"
	"strings"

	"hctf_backend/internal/model"
	"hctf_backend/internal/util"

	"gorm.io/gorm"
)

type LogRepository struct {
	DB *gorm.DB
}

func NewLogRepository(db *gorm.DB) *LogRepository {
	return &LogRepository{DB: db}
}

// Create 插入正确提交记录。(team_id, challenge_id) 唯一索引是并发去重的
// 最终仲裁：冲突映射为 ErrDuplicateLog，调用方据此返回"重复提交"而非报错。
func (r *LogRepository) Create(log *model.Log) error {
	err := r.DB.Create(log).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrDuplicateLog
	}
	// 未开启错误翻译时 MySQL 1062 的兜底
	if err != nil && strings.Contains(err.Error(), "Duplicate entry") {
		return util.ErrDuplicateLog
	}
	return err
}

func (r *LogRepository) ExistsCorrect(teamID, challengeID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Log{}).
		Where("team_id = ? AND challenge_id = ? AND status = ?", teamID, challengeID, model.LogStatusCorrect).
		Count(&count).Error
	return count > 0, err
}

func (r *LogRepository) ListCorrectByTeam(teamID uint) ([]model.Log, error) {
	var logs []model.Log
	err := r.DB.Where("team_id = ? AND status = ?", teamID, model.LogStatusCorrect).
		Order("created_at asc").
		Find(&logs).Error
	return logs, err
}

func (r *LogRepository) ListCorrectByChallenge(challengeID uint) ([]model.Log, error) {
	var logs []model.Log
	err := r.DB.Where("challenge_id = ? AND status = ?", challengeID, model.LogStatusCorrect).
		Order("created_at asc").
		Find(&logs).Error
	return logs, err
}

func (r *LogRepository) CountCorrect(challengeID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Log{}).
		Where("challenge_id = ? AND status = ?", challengeID, model.LogStatusCorrect).
		Count(&count).Error
	return count, err
}

// CountsByChallenge 所有题目的解出数（一次聚合查询）
func (r *LogRepository) CountsByChallenge() (map[uint]int64, error) {
	type row struct {
		ChallengeID uint
		Count       int64
	}
	var rows []row
	err := r.DB.Model(&model.Log{}).
		Select("challenge_id, COUNT(*) as count").
		Where("status = ?", model.LogStatusCorrect).
		Group("challenge_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.ChallengeID] = r.Count
	}
	return counts, nil
}

// UpdateScoreByChallenge 把一道题的所有记录分数改写为同一当前值。
// 动态分数要求同题所有记录始终反映最后一次解出时的分数。
func (r *LogRepository) UpdateScoreByChallenge(challengeID uint, score float64) error {
	return r.DB.Model(&model.Log{}).
		Where("challenge_id = ?", challengeID).
		Update("score", score).Error
}

// TeamTotals 未封禁队伍的总分排行，总分相同时最后解题早者在前
func (r *LogRepository) TeamTotals() ([]model.TeamTotal, error) {
	var totals []model.TeamTotal
	err := r.DB.Table("logs l").
		Select("l.team_id, t.name, SUM(l.score) as score, MAX(l.created_at) as last_solve").
		Joins("JOIN teams t ON l.team_id = t.id").
		Where("l.status = ? AND t.banned = ?", model.LogStatusCorrect, false).
		Group("l.team_id, t.name").
		Order("score desc, last_solve asc").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	for i := range totals {
		totals[i].Rank = uint(i + 1)
	}
	return totals, nil
}
