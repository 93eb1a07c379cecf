// Package input 处理预览器的指针输入：触摸/鼠标位置、拖动滚动与移动端检测
package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// GetPointerPosition 获取当前指针位置（触摸或鼠标）
// 优先返回触摸位置，如果没有触摸则返回鼠标位置
func GetPointerPosition() (int, int) {
	// 检查触摸
	touchIDs := ebiten.AppendTouchIDs(nil)
	if len(touchIDs) > 0 {
		return ebiten.TouchPosition(touchIDs[0])
	}

	// 返回鼠标位置
	return ebiten.CursorPosition()
}

// ============================================================================
// 拖拽状态管理器 - 触摸拖动滚动页面，短按视为点击
// ============================================================================

// DragState 拖拽状态
type DragState int

const (
	// DragStateNone 无拖拽
	DragStateNone DragState = iota
	// DragStateStarted 拖拽开始（刚按下）
	DragStateStarted
	// DragStateDragging 拖拽中（按住移动）
	DragStateDragging
	// DragStateEnded 拖拽结束（释放）
	DragStateEnded
)

// DragInfo 拖拽信息
type DragInfo struct {
	// State 当前拖拽状态
	State DragState
	// StartX, StartY 拖拽起始位置（屏幕坐标）
	StartX, StartY int
	// CurrentX, CurrentY 当前位置（屏幕坐标）
	CurrentX, CurrentY int
	// TouchID 当前跟踪的触摸ID（-1 表示鼠标）
	TouchID ebiten.TouchID
	// IsTouchInput 是否为触摸输入
	IsTouchInput bool
}

// DragManager 跟踪一次按下到释放的指针手势
//
// 每个场景持有自己的实例，场景替换后旧手势不会泄漏到新场景。
type DragManager struct {
	info DragInfo
}

// NewDragManager 创建处于空闲状态的拖拽管理器
func NewDragManager() *DragManager {
	dm := &DragManager{}
	dm.Reset()
	return dm
}

// Update 更新拖拽状态（每帧调用一次）
func (dm *DragManager) Update() {
	currentTouchIDs := ebiten.AppendTouchIDs(nil)

	switch dm.info.State {
	case DragStateNone:
		dm.checkDragStart()

	case DragStateStarted:
		dm.info.State = DragStateDragging
		dm.updateCurrentPosition(currentTouchIDs)

	case DragStateDragging:
		if dm.checkDragEnd(currentTouchIDs) {
			dm.info.State = DragStateEnded
		} else {
			dm.updateCurrentPosition(currentTouchIDs)
		}

	case DragStateEnded:
		// 结束状态只持续一帧
		dm.Reset()
		dm.checkDragStart()
	}
}

// checkDragStart 检测新的按下，触摸优先
func (dm *DragManager) checkDragStart() {
	if ids := inpututil.AppendJustPressedTouchIDs(nil); len(ids) > 0 {
		x, y := ebiten.TouchPosition(ids[0])
		dm.begin(x, y, ids[0], true)
		return
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		dm.begin(x, y, -1, false)
	}
}

func (dm *DragManager) begin(x, y int, id ebiten.TouchID, touch bool) {
	dm.info = DragInfo{
		State:        DragStateStarted,
		StartX:       x,
		StartY:       y,
		CurrentX:     x,
		CurrentY:     y,
		TouchID:      id,
		IsTouchInput: touch,
	}
}

// checkDragEnd 跟踪的触摸消失或鼠标左键松开时结束
func (dm *DragManager) checkDragEnd(currentTouchIDs []ebiten.TouchID) bool {
	if dm.info.IsTouchInput {
		for _, id := range currentTouchIDs {
			if id == dm.info.TouchID {
				return false
			}
		}
		return true
	}
	return !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
}

func (dm *DragManager) updateCurrentPosition(currentTouchIDs []ebiten.TouchID) {
	if !dm.info.IsTouchInput {
		dm.info.CurrentX, dm.info.CurrentY = ebiten.CursorPosition()
		return
	}
	for _, id := range currentTouchIDs {
		if id == dm.info.TouchID {
			dm.info.CurrentX, dm.info.CurrentY = ebiten.TouchPosition(id)
			return
		}
	}
}

// Reset 重置拖拽状态
func (dm *DragManager) Reset() {
	dm.info = DragInfo{
		State:   DragStateNone,
		TouchID: -1,
	}
}

// GetState 获取当前拖拽状态
func (dm *DragManager) GetState() DragState {
	return dm.info.State
}

// GetInfo 获取完整拖拽信息
func (dm *DragManager) GetInfo() DragInfo {
	return dm.info
}

// IsDragging 是否正在拖拽
func (dm *DragManager) IsDragging() bool {
	return dm.info.State == DragStateDragging
}

// JustStarted 是否刚开始拖拽（本帧）
func (dm *DragManager) JustStarted() bool {
	return dm.info.State == DragStateStarted
}

// JustEnded 是否刚结束拖拽（本帧）
func (dm *DragManager) JustEnded() bool {
	return dm.info.State == DragStateEnded
}

// GetDragDistance 获取拖拽距离（从起点到当前位置）
func (dm *DragManager) GetDragDistance() (dx, dy int) {
	return dm.info.CurrentX - dm.info.StartX, dm.info.CurrentY - dm.info.StartY
}

// Moved 指针离开起点超过 slop 像素后，手势不再是点击
func (dm *DragManager) Moved(slop int) bool {
	dx, dy := dm.GetDragDistance()
	return max(dx, -dx) > slop || max(dy, -dy) > slop
}
