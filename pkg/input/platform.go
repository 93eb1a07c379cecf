//go:build !mobile

package input

import "os"

// MobileEmulateEnv 设为 "1" 时桌面端按移动端处理输入（鼠标拖动即滚动，不显示悬停光标）
const MobileEmulateEnv = "RESTORATION_MOBILE_EMULATE"

// IsMobile 报告是否按触摸设备处理输入
// 桌面构建默认返回 false
func IsMobile() bool {
	return os.Getenv(MobileEmulateEnv) == "1"
}
