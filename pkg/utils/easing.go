// Package utils 提供不依赖图形环境的通用工具：颜色、缓动与带样式文本换行
package utils

import "math"

// Easing Functions (缓动函数)
//
// 所有函数接受一个进度值 t ∈ [0, 1]，返回缓动后的值 ∈ [0, 1]。
//
// 参考：https://easings.net/ 和 CSS Easing Functions Level 1

// EaseFunc maps normalized progress onto eased progress.
type EaseFunc func(t float64) float64

// EaseLinear 线性缓动（无缓动）
func EaseLinear(t float64) float64 {
	return t
}

// EaseOutCubic 三次方缓出
// 特点：开始快，结束慢（用于滚动到锚点）
// 公式：f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseInOutCubic 三次方缓入缓出
//
//	t < 0.5: f(t) = 4t³
//	t >= 0.5: f(t) = 1 - (-2t + 2)³ / 2
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// cssEaseInOut is CSS `ease-in-out`, cubic-bezier(0.42, 0, 0.58, 1).
var cssEaseInOut = CubicBezier(0.42, 0, 0.58, 1)

// EaseInOut 与浏览器 ease-in-out 一致的缓入缓出
// 预览和 HTML 导出使用同一条曲线，两边的粒子节奏相同。
func EaseInOut(t float64) float64 {
	return cssEaseInOut(t)
}

// CubicBezier builds a CSS-style timing function through (0,0), (x1,y1),
// (x2,y2), (1,1). x1 and x2 must lie in [0,1].
func CubicBezier(x1, y1, x2, y2 float64) EaseFunc {
	// 多项式系数 B(s) = ((a·s + b)·s + c)·s
	cx := 3 * x1
	bx := 3*(x2-x1) - cx
	ax := 1 - cx - bx
	cy := 3 * y1
	by := 3*(y2-y1) - cy
	ay := 1 - cy - by

	sampleX := func(s float64) float64 { return ((ax*s+bx)*s + cx) * s }
	sampleY := func(s float64) float64 { return ((ay*s+by)*s + cy) * s }
	slopeX := func(s float64) float64 { return (3*ax*s+2*bx)*s + cx }

	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}

		// 牛顿迭代求解 x(s) = t
		s := t
		for i := 0; i < 8; i++ {
			dx := sampleX(s) - t
			if math.Abs(dx) < 1e-7 {
				return sampleY(s)
			}
			d := slopeX(s)
			if math.Abs(d) < 1e-6 {
				break
			}
			s -= dx / d
		}

		// 牛顿法不收敛时退回二分
		lo, hi := 0.0, 1.0
		s = t
		for i := 0; i < 40; i++ {
			x := sampleX(s)
			if math.Abs(x-t) < 1e-7 {
				break
			}
			if x < t {
				lo = s
			} else {
				hi = s
			}
			s = (lo + hi) / 2
		}
		return sampleY(s)
	}
}

// Lerp 线性插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp01 将 t 限制在 [0, 1]
func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
