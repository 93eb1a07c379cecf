package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents a page scene (e.g., one landing page variant).
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	// screen is the target image where the scene should be drawn.
	Draw(screen *ebiten.Image)
}

// Unmountable 是一个可选接口，场景被替换时调用 Unmount()
//
// 场景在这里拆除它挂载的粒子场等资源，保证切换后旧场景
// 不再有任何粒子被更新或绘制。
type Unmountable interface {
	Unmount()
}

// Saveable 是一个可选接口，场景在程序退出前保存查看状态（变体、滚动位置）
//
// App.Close 在预览窗口关闭或移动端进程结束前调用 SaveOnExit()。
type Saveable interface {
	// SaveOnExit 返回 false 表示设置未能写入存储，程序仍会正常退出
	SaveOnExit() bool
}
