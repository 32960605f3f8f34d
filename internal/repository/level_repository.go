package repository

import (
	"errors"

	"hctf_backend/internal/model"
	"hctf_backend/internal/util"

	"gorm.io/gorm"
)

type LevelRepository struct {
	DB *gorm.DB
}

func NewLevelRepository(db *gorm.DB) *LevelRepository {
	return &LevelRepository{DB: db}
}

func (r *LevelRepository) FindByID(id uint) (*model.Level, error) {
	var level model.Level
	err := r.DB.First(&level, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrLevelNotFound
	}
	if err != nil {
		return nil, err
	}
	return &level, nil
}

func (r *LevelRepository) ListAll() ([]model.Level, error) {
	var levels []model.Level
	err := r.DB.Order("id asc").Find(&levels).Error
	return levels, err
}
