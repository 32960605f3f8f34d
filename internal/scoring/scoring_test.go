package scoring

import "testing"

func TestFirstSolveFullScore(t *testing.T) {
	p := TanhPolicy{MinRatio: 0.1, SolveThreshold: 100}
	for _, base := range []float64{100, 250, 500, 1000} {
		if got := p.Score(1, base); got != base {
			t.Errorf("Score(1, %v) = %v, 首杀应得满分", base, got)
		}
	}
	// 解出数为 0（发布预览）同样返回满分，且不应越界
	if got := p.Score(0, 500); got != 500 {
		t.Errorf("Score(0, 500) = %v, want 500", got)
	}
}

func TestScoreMonotonicInSolves(t *testing.T) {
	p := TanhPolicy{MinRatio: 0.1, SolveThreshold: 100}
	prev := p.Score(1, 500)
	for solves := 2; solves <= 300; solves++ {
		got := p.Score(solves, 500)
		if got > prev {
			t.Fatalf("Score(%d, 500) = %v > Score(%d, 500) = %v，分数随解出数不应回升",
				solves, got, solves-1, prev)
		}
		prev = got
	}
}

func TestScoreMonotonicInBase(t *testing.T) {
	p := TanhPolicy{MinRatio: 0.1, SolveThreshold: 100}
	for _, solves := range []int{1, 5, 50, 200} {
		prev := p.Score(solves, 0)
		for base := 50.0; base <= 1000; base += 50 {
			got := p.Score(solves, base)
			if got < prev {
				t.Fatalf("Score(%d, %v) = %v < %v，分数随基准分不应下降", solves, base, got, prev)
			}
			prev = got
		}
	}
}

func TestScoreFloor(t *testing.T) {
	p := TanhPolicy{MinRatio: 0.1, SolveThreshold: 100}
	// 超过衰减阈值后分数贴底在 MinRatio * 基准分
	for _, solves := range []int{101, 500, 10000} {
		if got := p.Score(solves, 500); got != 50 {
			t.Errorf("Score(%d, 500) = %v, want 50", solves, got)
		}
	}
}

func TestScoreZeroBase(t *testing.T) {
	p := TanhPolicy{MinRatio: 0.1, SolveThreshold: 100}
	if got := p.Score(10, 0); got != 0 {
		t.Errorf("Score(10, 0) = %v, want 0", got)
	}
	if got := p.Score(10, -5); got != 0 {
		t.Errorf("Score(10, -5) = %v, want 0", got)
	}
}
