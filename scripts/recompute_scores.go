// 手动触发全量分数重算脚本
//
// 调整计分曲线参数（min_ratio / solve_threshold）后，历史记录的分数
// 仍停留在旧曲线下的值。此脚本按当前配置重算所有题目的生效分数并
// 批量改写记录，用法: go run scripts/recompute_scores.go
package main

import (
	"log"

	"hctf_backend/internal/config"
	"hctf_backend/internal/repository"
	"hctf_backend/internal/scoring"
	"hctf_backend/pkg/database"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	stores := repository.NewStores(db)
	policy := scoring.TanhPolicy{
		MinRatio:       cfg.Scoring.MinRatio,
		SolveThreshold: cfg.Scoring.SolveThreshold,
	}

	challenges, err := stores.Challenges().ListAll()
	if err != nil {
		log.Fatalf("读取题目失败: %v", err)
	}
	counts, err := stores.Logs().CountsByChallenge()
	if err != nil {
		log.Fatalf("统计解出数失败: %v", err)
	}

	log.Printf("开始重算 %d 道题目的分数...", len(challenges))
	for _, ch := range challenges {
		count := counts[ch.ID]
		if count == 0 {
			continue
		}
		score := policy.Score(int(count), ch.Score)
		if err := stores.Logs().UpdateScoreByChallenge(ch.ID, score); err != nil {
			log.Fatalf("改写题目 %d 的记录失败: %v", ch.ID, err)
		}
		log.Printf("题目 %q: %d 队解出, 当前分值 %.0f", ch.Title, count, score)
	}
	log.Println("完成！")
}
