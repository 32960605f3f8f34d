package model

// Flag 题目答案。静态题按字面值全等匹配；动态题以该题目最早创建的一条
// Flag 作为派生种子。TeamID 非 0 时该 Flag 仅限指定队伍提交。
type Flag struct {
	BaseModel

	ChallengeID uint   `gorm:"index;not null" json:"challengeId"`
	Flag        string `gorm:"size:255;index;not null" json:"flag"`
	TeamID      uint   `gorm:"default:0" json:"teamId"`
}

func (Flag) TableName() string {
	return "flags"
}
