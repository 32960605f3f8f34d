package model

import (
	"encoding/json"
	"time"
)

type Challenge struct {
	BaseModel

	LevelID       uint            `gorm:"index;not null" json:"levelId"`
	Title         string          `gorm:"size:255;not null" json:"title"`
	Description   string          `gorm:"type:text" json:"description"`
	URL           string          `gorm:"size:255" json:"url"`
	Score         float64         `gorm:"not null" json:"score"` // 基准分数，动态分数以此为起点衰减
	ReleaseTime   time.Time       `json:"releaseTime"`
	Config        json.RawMessage `gorm:"type:json" json:"config"`
	IsDynamicFlag bool            `gorm:"default:false" json:"isDynamicFlag"`

	Flags []Flag `gorm:"foreignKey:ChallengeID" json:"-"`
}

func (Challenge) TableName() string {
	return "challenges"
}

// ChallengeConfig 题目附加设置。MinimumSolveTime 为 0 表示不限制最短做题时间。
type ChallengeConfig struct {
	MinimumSolveTime int64 `json:"minimumSolveTime"`
}

// ParseConfig 解析 Config 文档；解析失败按零值处理，不影响判题主流程。
func (c *Challenge) ParseConfig() ChallengeConfig {
	var cfg ChallengeConfig
	if len(c.Config) == 0 {
		return cfg
	}
	if err := json.Unmarshal(c.Config, &cfg); err != nil {
		return ChallengeConfig{}
	}
	return cfg
}
