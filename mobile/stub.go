//go:build !mobile

// stub.go - 桌面构建时的占位文件
//
// 桌面端通过根目录的 preview 命令运行预览器；
// ebitenmobile 绑定代码在 mobile.go 和 embed.go 中，仅在 -tags mobile 时编译。
package mobile

// Dummy 保证包在桌面构建中仍可被引用
func Dummy() {}
