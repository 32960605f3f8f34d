package model

// Team 参赛队伍。Token 是队伍的保密密钥，用于派生动态 Flag；
// Banned 一经置位便由管理端人工解除，本服务只会将其置为 true。
type Team struct {
	BaseModel

	Name     string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Password string `gorm:"size:255;not null" json:"-"`
	Token    string `gorm:"size:64;uniqueIndex;not null" json:"-"`
	Banned   bool   `gorm:"default:false" json:"banned"`
	Admin    bool   `gorm:"default:false" json:"admin"`

	Logs []Log `gorm:"foreignKey:TeamID" json:"-"`
}

func (Team) TableName() string {
	return "teams"
}
