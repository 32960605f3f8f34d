package model

const LogStatusCorrect = "correct"

// Log 正确提交记录。唯一索引保证每个 (队伍, 题目) 至多一条记录，
// 并发重复提交由该约束在插入时仲裁。Score 会随题目解出数变化被批量改写。
type Log struct {
	BaseModel

	TeamID      uint    `gorm:"not null;uniqueIndex:idx_team_challenge_correct" json:"teamId"`
	ChallengeID uint    `gorm:"not null;uniqueIndex:idx_team_challenge_correct;index" json:"challengeId"`
	LevelID     uint    `gorm:"index;not null" json:"levelId"`
	CategoryID  uint    `gorm:"index;not null" json:"categoryId"`
	Status      string  `gorm:"size:20;not null" json:"status"`
	Flag        string  `gorm:"size:255;not null" json:"flag"` // 提交时的原文
	Score       float64 `gorm:"not null" json:"score"`
}

func (Log) TableName() string {
	return "logs"
}
