package repository

import (
	"errors"

	"hctf_backend/internal/model"
	"hctf_backend/internal/util"

	"gorm.io/gorm"
)

type FlagRepository struct {
	DB *gorm.DB
}

func NewFlagRepository(db *gorm.DB) *FlagRepository {
	return &FlagRepository{DB: db}
}

func (r *FlagRepository) FindByValue(value string) (*model.Flag, error) {
	var flag model.Flag
	err := r.DB.Where("flag = ?", value).First(&flag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrFlagNotFound
	}
	if err != nil {
		return nil, err
	}
	return &flag, nil
}

// SeedFor 动态题的派生种子：该题目最早创建的一条 Flag。
// 按 (created_at, id) 排序使种子选取是确定的，而不是依赖数组顺序。
func (r *FlagRepository) SeedFor(challengeID uint) (*model.Flag, error) {
	var flag model.Flag
	err := r.DB.Where("challenge_id = ?", challengeID).
		Order("created_at asc, id asc").
		First(&flag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNoSeedFlag
	}
	if err != nil {
		return nil, err
	}
	return &flag, nil
}
