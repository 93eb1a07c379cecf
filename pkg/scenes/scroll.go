package scenes

import "github.com/gonewx/restoration/pkg/utils"

// scrollAnimation 平滑滚动到锚点（缓出三次曲线）
type scrollAnimation struct {
	from, to float64
	elapsed  float64
	duration float64
}

// step 推进动画并返回当前位置与是否结束
func (a *scrollAnimation) step(dt float64) (float64, bool) {
	a.elapsed += dt
	if a.duration <= 0 || a.elapsed >= a.duration {
		return a.to, true
	}
	t := utils.EaseOutCubic(a.elapsed / a.duration)
	return utils.Lerp(a.from, a.to, t), false
}

// clampScroll 把滚动位置限制在 [0, maxScroll]
func clampScroll(y, maxScroll float64) float64 {
	return min(max(y, 0), maxScroll)
}
