// Package scoring 动态分数计算。曲线移植自 CTFd 的 dynamic challenges
// 改进版：首杀得满分，随解出队伍数沿 tanh 曲线衰减，最低不低于
// MinRatio * 基准分。参数可配置，曲线本身可通过 Policy 接口整体替换。
package scoring

import "math"

// Policy 把（当前解出数, 基准分）映射为当前生效分数。
// 实现必须是纯函数：对固定基准分随解出数单调不增，对固定解出数随基准分单调不减，
// 且 solves = 0 时可安全调用。
type Policy interface {
	Score(solves int, base float64) float64
}

const (
	p0 = 0.7
	p1 = 0.96
)

var (
	c0 = -math.Atanh(p0)
	c1 = math.Atanh(p1)
)

func dynA(x float64) float64 {
	return (1 - math.Tanh(x)) / 2
}

func dynB(x float64) float64 {
	return (dynA((c1-c0)*x+c0) - dynA(c1)) / (dynA(c0) - dynA(c1))
}

// TanhPolicy 默认衰减曲线。SolveThreshold 道题解出后分数贴底。
type TanhPolicy struct {
	MinRatio       float64
	SolveThreshold int
}

func (p TanhPolicy) Score(solves int, base float64) float64 {
	if base <= 0 {
		return 0
	}
	floor := base * p.MinRatio
	s := math.Max(1, float64(p.SolveThreshold))
	// 首杀不衰减：曲线从第二个解出队伍开始生效
	n := math.Max(0, float64(solves-1))
	f := func(x float64) float64 {
		return floor + (base-floor)*dynB(x/s)
	}
	return math.Round(math.Max(f(n), f(s)))
}
