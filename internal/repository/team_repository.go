package repository

import (
	"errors"

	"hctf_backend/internal/model"
	"hctf_backend/internal/util"

	"gorm.io/gorm"
)

type TeamRepository struct {
	DB *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{DB: db}
}

func (r *TeamRepository) Create(team *model.Team) error {
	err := r.DB.Create(team).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrTeamNameTaken
	}
	return err
}

func (r *TeamRepository) FindByID(id uint) (*model.Team, error) {
	var team model.Team
	err := r.DB.First(&team, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *TeamRepository) FindByName(name string) (*model.Team, error) {
	var team model.Team
	err := r.DB.Where("name = ?", name).First(&team).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// SetBanned 封禁只进不出：解封属于管理端人工操作，不在本服务内
func (r *TeamRepository) SetBanned(id uint) error {
	return r.DB.Model(&model.Team{}).Where("id = ?", id).Update("banned", true).Error
}
