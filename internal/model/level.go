package model

import (
	"encoding/json"
	"time"
)

// Level 关卡。Rules 是管理员编写的开放条件文档（JSON），
// 由 rules 包解析执行；空文档表示无条件开放。
type Level struct {
	BaseModel

	CategoryID  uint            `gorm:"index;not null" json:"categoryId"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Rules       json.RawMessage `gorm:"type:json" json:"rules"`
	ReleaseTime time.Time       `json:"releaseTime"`

	Challenges []Challenge `gorm:"foreignKey:LevelID" json:"challenges,omitempty"`
}

func (Level) TableName() string {
	return "levels"
}
