package repository

import (
	"context"

	"gorm.io/gorm"
)

// Stores 把各仓库捆绑为一个持久层入口，并提供事务闭包。
// service.Store 接口由它实现；测试用内存实现替代。
type Stores struct {
	DB *gorm.DB

	teams      *TeamRepository
	categories *CategoryRepository
	levels     *LevelRepository
	challenges *ChallengeRepository
	flags      *FlagRepository
	logs       *LogRepository
}

func NewStores(db *gorm.DB) *Stores {
	return &Stores{
		DB:         db,
		teams:      NewTeamRepository(db),
		categories: NewCategoryRepository(db),
		levels:     NewLevelRepository(db),
		challenges: NewChallengeRepository(db),
		flags:      NewFlagRepository(db),
		logs:       NewLogRepository(db),
	}
}

func (s *Stores) Teams() *TeamRepository           { return s.teams }
func (s *Stores) Categories() *CategoryRepository  { return s.categories }
func (s *Stores) Levels() *LevelRepository         { return s.levels }
func (s *Stores) Challenges() *ChallengeRepository { return s.challenges }
func (s *Stores) Flags() *FlagRepository           { return s.flags }
func (s *Stores) Logs() *LogRepository             { return s.logs }

// Transaction 在一个数据库事务内执行 fn；fn 返回错误则整体回滚。
// 提交判定的写入（记录插入、分数改写、封禁）都必须走这里。
func (s *Stores) Transaction(ctx context.Context, fn func(tx *Stores) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStores(tx))
	})
}
