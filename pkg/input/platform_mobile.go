//go:build mobile

package input

// IsMobile 在 ebitenmobile 构建中总是 true：页面只能拖动滚动
func IsMobile() bool {
	return true
}
