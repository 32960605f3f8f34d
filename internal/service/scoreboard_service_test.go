package service

import (
	"context"
	"testing"

	"hctf_backend/internal/model"
)

func TestScoreboardExcludesBannedAndRanks(t *testing.T) {
	f := newSubmissionFixture(t)
	alpha := f.store.addTeam(&model.Team{Name: "alpha", Token: "tok-a"})
	beta := f.store.addTeam(&model.Team{Name: "beta", Token: "tok-b"})
	cheater := f.store.addTeam(&model.Team{Name: "cheater", Token: "tok-c"})

	second := f.store.addChallenge(&model.Challenge{LevelID: f.level.ID, Title: "web2", Score: 300})
	f.store.addFlag(&model.Flag{ChallengeID: second.ID, Flag: "hctf{second}"})

	f.mustSubmit(t, alpha.ID, "hctf{corr3ct}")
	f.mustSubmit(t, alpha.ID, "hctf{second}")
	f.mustSubmit(t, beta.ID, "hctf{corr3ct}")
	f.mustSubmit(t, cheater.ID, "hctf{second}")
	if err := f.store.Teams().SetBanned(cheater.ID); err != nil {
		t.Fatalf("SetBanned() error: %v", err)
	}

	svc := NewScoreboardService(f.store, nil)
	totals, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}

	if len(totals) != 2 {
		t.Fatalf("排行榜行数 = %d, want 2（封禁队伍不上榜）", len(totals))
	}
	if totals[0].Name != "alpha" || totals[0].Rank != 1 {
		t.Errorf("第一名 = %+v, want alpha", totals[0])
	}
	if totals[1].Name != "beta" || totals[1].Rank != 2 {
		t.Errorf("第二名 = %+v, want beta", totals[1])
	}
	if totals[0].Score <= totals[1].Score {
		t.Errorf("alpha 总分 %v 应高于 beta %v", totals[0].Score, totals[1].Score)
	}

	// Invalidate 在无 Redis 时是安全的空操作
	svc.Invalidate(context.Background())
}
