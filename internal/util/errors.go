package util

import "errors"

var (
	ErrTeamNotFound       = errors.New("队伍不存在")
	ErrTeamNameTaken      = errors.New("队伍名已被注册")
	ErrInvalidCredentials = errors.New("队伍名或密码错误")
	ErrFlagNotFound       = errors.New("flag not found")
	ErrChallengeNotFound  = errors.New("challenge not found")
	ErrLevelNotFound      = errors.New("level not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrDuplicateLog       = errors.New("correct log already exists for team and challenge")
	ErrNoSeedFlag         = errors.New("dynamic challenge has no seed flag")
)
