package repository

import (
	"errors"

	"hctf_backend/internal/model"
	"hctf_backend/internal/util"

	"gorm.io/gorm"
)

type ChallengeRepository struct {
	DB *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{DB: db}
}

func (r *ChallengeRepository) FindByID(id uint) (*model.Challenge, error) {
	var challenge model.Challenge
	err := r.DB.First(&challenge, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrChallengeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (r *ChallengeRepository) ListAll() ([]model.Challenge, error) {
	var challenges []model.Challenge
	err := r.DB.Order("id asc").Find(&challenges).Error
	return challenges, err
}

// ListDynamic 所有启用动态 Flag 的题目
func (r *ChallengeRepository) ListDynamic() ([]model.Challenge, error) {
	var challenges []model.Challenge
	err := r.DB.Where("is_dynamic_flag = ?", true).Order("id asc").Find(&challenges).Error
	return challenges, err
}

// UpdateScore 管理端重设基准分数；关联 Log 的改写由调用方在同一事务内完成
func (r *ChallengeRepository) UpdateScore(id uint, score float64) error {
	return r.DB.Model(&model.Challenge{}).Where("id = ?", id).Update("score", score).Error
}
