package service

import (
	"errors"

	"hctf_backend/internal/config"
	"hctf_backend/internal/model"
	"hctf_backend/internal/util"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService 队伍注册与登录。注册时生成队伍密钥（动态 Flag 的派生输入），
// 密钥不对外返回，只在判题内部使用。
type AuthService struct {
	store Store
	cfg   *config.Config
}

func NewAuthService(store Store, cfg *config.Config) *AuthService {
	return &AuthService{store: store, cfg: cfg}
}

func (s *AuthService) Register(name, password string) (*model.Team, error) {
	if _, err := s.store.Teams().FindByName(name); err == nil {
		return nil, util.ErrTeamNameTaken
	} else if !errors.Is(err, util.ErrTeamNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	team := &model.Team{
		Name:     name,
		Password: string(hashed),
		Token:    uuid.New().String(),
	}
	if err := s.store.Teams().Create(team); err != nil {
		return nil, err
	}
	return team, nil
}

// Login 校验队伍口令并签发 JWT
func (s *AuthService) Login(name, password string) (string, *model.Team, error) {
	team, err := s.store.Teams().FindByName(name)
	if errors.Is(err, util.ErrTeamNotFound) {
		return "", nil, util.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(team.Password), []byte(password)) != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(team, s.cfg.JWT.Secret, s.cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, team, nil
}
