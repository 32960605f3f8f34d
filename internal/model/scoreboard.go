package model

import "time"

// TeamTotal 排行榜聚合行：队伍总分与最后解题时间（总分相同时先到先排）
type TeamTotal struct {
	TeamID    uint      `json:"teamId"`
	Name      string    `json:"name"`
	Score     float64   `json:"score"`
	LastSolve time.Time `json:"lastSolve"`
	Rank      uint      `json:"rank"`
}
