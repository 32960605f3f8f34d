package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"hctf_backend/internal/config"
	"hctf_backend/internal/model"
	"hctf_backend/internal/util"
)

// FlagService 把提交的字符串解析为 Flag 实体。
// 静态 Flag 按字面值全等；动态 Flag 为每队独立的派生值：
// prefix + hex(sha256(队伍密钥 + 种子值)) + suffix。
type FlagService struct {
	store  Store
	prefix string
	suffix string
}

func NewFlagService(store Store, cfg *config.Config) *FlagService {
	return &FlagService{
		store:  store,
		prefix: cfg.Flag.Prefix,
		suffix: cfg.Flag.Suffix,
	}
}

// Derive 计算某队伍在指定种子下应当提交的动态 Flag
func (s *FlagService) Derive(team *model.Team, seed string) string {
	sum := sha256.Sum256([]byte(team.Token + seed))
	return s.prefix + hex.EncodeToString(sum[:]) + s.suffix
}

// Match 解析提交串。返回匹配到的 Flag 与是否为动态匹配；
// 无匹配返回 util.ErrFlagNotFound。
func (s *FlagService) Match(team *model.Team, submitted string) (*model.Flag, bool, error) {
	flag, err := s.store.Flags().FindByValue(submitted)
	if err == nil {
		return flag, false, nil
	}
	if !errors.Is(err, util.ErrFlagNotFound) {
		return nil, false, err
	}

	// SHA256 十六进制长度为 64，长度不符的提交不可能是动态 Flag
	if len(submitted) != sha256.Size*2+len(s.prefix)+len(s.suffix) {
		return nil, false, util.ErrFlagNotFound
	}

	challenges, err := s.store.Challenges().ListDynamic()
	if err != nil {
		return nil, false, err
	}
	for i := range challenges {
		seed, err := s.store.Flags().SeedFor(challenges[i].ID)
		if errors.Is(err, util.ErrNoSeedFlag) {
			continue
		}
		if err != nil {
			return nil, false, err
		}
		if s.Derive(team, seed.Flag) == submitted {
			return seed, true, nil
		}
	}
	return nil, false, util.ErrFlagNotFound
}
