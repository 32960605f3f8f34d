package service

import (
	"context"
	"encoding/json"
	"time"

	"hctf_backend/internal/model"
	"hctf_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	scoreboardCacheKey = "scoreboard:overall"
	scoreboardCacheTTL = 30 * time.Second
)

// ScoreboardService 排行榜。聚合查询结果缓存在 Redis，
// 解题、封禁、分数重设时失效；Redis 不可用时直接回源数据库。
type ScoreboardService struct {
	store Store
	rdb   *redis.Client
}

func NewScoreboardService(store Store, rdb *redis.Client) *ScoreboardService {
	return &ScoreboardService{store: store, rdb: rdb}
}

func (s *ScoreboardService) Get(ctx context.Context) ([]model.TeamTotal, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, scoreboardCacheKey).Bytes()
		if err == nil {
			var totals []model.TeamTotal
			if json.Unmarshal(cached, &totals) == nil {
				return totals, nil
			}
		}
	}

	totals, err := s.store.Logs().TeamTotals()
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if data, err := json.Marshal(totals); err == nil {
			if err := s.rdb.Set(ctx, scoreboardCacheKey, data, scoreboardCacheTTL).Err(); err != nil && logger.Log != nil {
				logger.Log.Warn("scoreboard cache write failed", zap.Error(err))
			}
		}
	}
	return totals, nil
}

// Invalidate 实现 ScoreboardInvalidator
func (s *ScoreboardService) Invalidate(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, scoreboardCacheKey).Err(); err != nil && logger.Log != nil {
		logger.Log.Warn("scoreboard cache invalidation failed", zap.Error(err))
	}
}
