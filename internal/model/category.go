package model

type Category struct {
	BaseModel

	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`

	Levels []Level `gorm:"foreignKey:CategoryID" json:"levels,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}
