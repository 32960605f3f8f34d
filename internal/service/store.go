package service

import (
	"context"

	"hctf_backend/internal/model"
	"hctf_backend/internal/repository"
)

// 持久层以窄接口注入，测试用内存实现替换（见 memstore_test.go）。
// 生产实现是 repository 包的 gorm 仓库。

type TeamStore interface {
	Create(team *model.Team) error
	FindByID(id uint) (*model.Team, error)
	FindByName(name string) (*model.Team, error)
	SetBanned(id uint) error
}

type CategoryStore interface {
	FindByID(id uint) (*model.Category, error)
	ListAll() ([]model.Category, error)
}

type LevelStore interface {
	FindByID(id uint) (*model.Level, error)
	ListAll() ([]model.Level, error)
}

type ChallengeStore interface {
	FindByID(id uint) (*model.Challenge, error)
	ListAll() ([]model.Challenge, error)
	ListDynamic() ([]model.Challenge, error)
	UpdateScore(id uint, score float64) error
}

type FlagStore interface {
	FindByValue(value string) (*model.Flag, error)
	SeedFor(challengeID uint) (*model.Flag, error)
}

type LogStore interface {
	Create(log *model.Log) error
	ExistsCorrect(teamID, challengeID uint) (bool, error)
	ListCorrectByTeam(teamID uint) ([]model.Log, error)
	ListCorrectByChallenge(challengeID uint) ([]model.Log, error)
	CountCorrect(challengeID uint) (int64, error)
	CountsByChallenge() (map[uint]int64, error)
	UpdateScoreByChallenge(challengeID uint, score float64) error
	TeamTotals() ([]model.TeamTotal, error)
}

// Store 持久层入口。Transaction 内拿到的 Store 绑定同一事务，
// fn 返回错误时全部回滚。
type Store interface {
	Teams() TeamStore
	Categories() CategoryStore
	Levels() LevelStore
	Challenges() ChallengeStore
	Flags() FlagStore
	Logs() LogStore
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type gormStore struct {
	stores *repository.Stores
}

// NewStore 把 gorm 仓库适配为 Store
func NewStore(stores *repository.Stores) Store {
	return gormStore{stores: stores}
}

func (g gormStore) Teams() TeamStore           { return g.stores.Teams() }
func (g gormStore) Categories() CategoryStore  { return g.stores.Categories() }
func (g gormStore) Levels() LevelStore         { return g.stores.Levels() }
func (g gormStore) Challenges() ChallengeStore { return g.stores.Challenges() }
func (g gormStore) Flags() FlagStore           { return g.stores.Flags() }
func (g gormStore) Logs() LogStore             { return g.stores.Logs() }

func (g gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return g.stores.Transaction(ctx, func(tx *repository.Stores) error {
		return fn(gormStore{stores: tx})
	})
}
