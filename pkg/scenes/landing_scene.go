package scenes

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/gonewx/restoration/internal/particle"
	"github.com/gonewx/restoration/pkg/config"
	"github.com/gonewx/restoration/pkg/ecs"
	"github.com/gonewx/restoration/pkg/game"
	"github.com/gonewx/restoration/pkg/input"
	"github.com/gonewx/restoration/pkg/systems"
	"github.com/gonewx/restoration/pkg/utils"
)

// tapSlop 是判定为点击（而非拖动）的最大移动距离
const tapSlop = 8

// VariantSwitcher 请求切换到另一个变体
type VariantSwitcher func(variantID string) error

// LandingScene 渲染一个页面变体：区块背景、粒子场、文本与卡片、吸顶页头和页脚
//
// 每个声明了 particles 的区块挂载一个粒子场，粒子场覆盖整个区块并位于内容之下。
// 场景被替换或重新加载时，先拆除全部粒子场，再挂载新的。
//
// 交互：
//   - 滚轮、方向键、PageUp/PageDown/空格、Home/End、触摸拖动：滚动
//   - 点击导航链接或按钮：平滑滚动到锚点
//   - V 切换变体，R 重新生成粒子，M 切换减少动画
type LandingScene struct {
	resourceManager *game.ResourceManager
	settings        *game.SettingsManager
	logger          *zap.Logger
	fonts           pageFonts

	site  *config.SiteConfig
	icons *config.IconRegistry

	// ECS
	entityManager *ecs.EntityManager
	fieldSystem   *systems.ParticleFieldSystem
	fieldRender   *systems.FieldRenderSystem

	layout          *PageLayout
	viewportWidth   float64
	viewportHeight  float64
	scrollY         float64
	scrollAnim      *scrollAnimation
	hoverHref       string
	drag            *input.DragManager
	dragStartScroll float64
	year            int

	switchVariant VariantSwitcher
}

// NewLandingScene creates the scene for a variant; an empty id selects the
// default variant. rng may be nil to use the production random source.
func NewLandingScene(rm *game.ResourceManager, settings *game.SettingsManager, variantID string, rng particle.RandomSource, logger *zap.Logger) (*LandingScene, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	site, err := rm.Site(variantID)
	if err != nil {
		return nil, fmt.Errorf("failed to create landing scene: %w", err)
	}

	em := ecs.NewEntityManager()
	s := &LandingScene{
		resourceManager: rm,
		settings:        settings,
		logger:          logger.Named("LandingScene").With(zap.String("variant", site.ID)),
		fonts:           pageFonts{rm: rm},
		entityManager:   em,
		fieldSystem:     systems.NewParticleFieldSystem(em, rng, logger),
		fieldRender:     systems.NewFieldRenderSystem(em),
		viewportWidth:   config.WindowWidth,
		viewportHeight:  config.WindowHeight,
		drag:            input.NewDragManager(),
		year:            time.Now().Year(),
	}

	if settings != nil {
		s.fieldSystem.SetMotionEnabled(!settings.GetSettings().ReducedMotion)
		s.scrollY = settings.Scroll(site.ID)
	}
	s.Reload(site, rm.Icons())
	return s, nil
}

// SetVariantSwitcher sets the callback used by the V key.
func (s *LandingScene) SetVariantSwitcher(fn VariantSwitcher) {
	s.switchVariant = fn
}

// SetYear overrides the footer year and lays the page out again.
func (s *LandingScene) SetYear(year int) {
	s.year = year
	s.Reload(s.site, s.icons)
}

// Site returns the site record being shown.
func (s *LandingScene) Site() *config.SiteConfig { return s.site }

// Layout returns the current page layout.
func (s *LandingScene) Layout() *PageLayout { return s.layout }

// ScrollY returns the current scroll offset.
func (s *LandingScene) ScrollY() float64 { return s.scrollY }

// FieldSystem returns the particle field system of the scene.
func (s *LandingScene) FieldSystem() *systems.ParticleFieldSystem { return s.fieldSystem }

// EntityManager returns the entity manager of the scene.
func (s *LandingScene) EntityManager() *ecs.EntityManager { return s.entityManager }

// Reload shows a (possibly new) site record. Every mounted field is torn down
// before the fields of the new record are mounted.
func (s *LandingScene) Reload(site *config.SiteConfig, icons *config.IconRegistry) {
	s.fieldSystem.UnmountAll()
	s.entityManager.RemoveMarkedEntities()

	if s.site != nil && s.site.ID != site.ID {
		s.scrollY = 0
	}
	s.site = site
	s.icons = icons
	s.layout = LayoutPage(site, s.fonts, s.viewportWidth, s.year)
	s.scrollAnim = nil
	s.scrollY = clampScroll(s.scrollY, s.maxScroll())

	for _, box := range s.layout.Sections {
		if box.Particles == nil {
			continue
		}
		if _, err := s.fieldSystem.Mount(box.ID, *box.Particles, box.Bounds(s.viewportWidth)); err != nil {
			s.logger.Warn("particle field degraded to empty", zap.String("section", box.ID), zap.Error(err))
		}
	}
	s.logger.Debug("page laid out",
		zap.Float64("height", s.layout.Height),
		zap.Int("fields", len(s.fieldSystem.Fields())))
}

func (s *LandingScene) maxScroll() float64 {
	return s.layout.MaxScroll(s.viewportHeight)
}

// ScrollBy scrolls by dy pixels and cancels any anchor animation.
func (s *LandingScene) ScrollBy(dy float64) {
	s.scrollAnim = nil
	s.scrollY = clampScroll(s.scrollY+dy, s.maxScroll())
}

// ScrollTo starts a smooth scroll to y. With reduced motion it jumps.
func (s *LandingScene) ScrollTo(y float64) {
	target := clampScroll(y, s.maxScroll())
	if !s.fieldSystem.MotionEnabled() {
		s.scrollAnim = nil
		s.scrollY = target
		return
	}
	s.scrollAnim = &scrollAnimation{from: s.scrollY, to: target, duration: config.AnchorScrollSeconds}
}

// ScrollToAnchor scrolls to the section named by a "#id" link.
func (s *LandingScene) ScrollToAnchor(href string) bool {
	y, ok := s.layout.AnchorScroll(href)
	if !ok {
		s.logger.Debug("link without anchor", zap.String("href", href))
		return false
	}
	s.ScrollTo(y)
	return true
}

// Click handles a click or tap at screen coordinates.
func (s *LandingScene) Click(x, y float64) bool {
	href, ok := s.layout.HitTest(x, y, s.scrollY)
	if !ok {
		return false
	}
	return s.ScrollToAnchor(href)
}

// SetReducedMotion freezes the particle fields at their peak keyframe and
// disables smooth scrolling. The choice is persisted.
func (s *LandingScene) SetReducedMotion(reduced bool) {
	s.fieldSystem.SetMotionEnabled(!reduced)
	if reduced && s.scrollAnim != nil {
		s.scrollY = s.scrollAnim.to
		s.scrollAnim = nil
	}
	if s.settings != nil {
		s.settings.SetReducedMotion(reduced)
		s.save()
	}
}

// RegenerateFields replaces every field with a freshly generated sequence.
func (s *LandingScene) RegenerateFields() error {
	err := s.fieldSystem.RegenerateAll()
	s.entityManager.RemoveMarkedEntities()
	return err
}

// NextVariant asks the switcher to show the next variant of the index and
// reports whether the scene was replaced.
func (s *LandingScene) NextVariant() (bool, error) {
	variants := s.resourceManager.Variants()
	if s.switchVariant == nil || variants == nil {
		return false, nil
	}
	next := variants.Next(s.site.ID)
	if next == s.site.ID {
		return false, nil
	}
	if s.settings != nil {
		s.settings.SetScroll(s.site.ID, s.scrollY)
		s.settings.SetVariant(next)
		s.save()
	}
	if err := s.switchVariant(next); err != nil {
		return false, err
	}
	return true, nil
}

// Update handles input, advances the scroll animation and the particle
// fields.
func (s *LandingScene) Update(deltaTime float64) {
	if s.handleInput() {
		// 场景已被替换
		return
	}
	s.step(deltaTime)
}

// step 推进与输入无关的状态
func (s *LandingScene) step(deltaTime float64) {
	if s.scrollAnim != nil {
		y, done := s.scrollAnim.step(deltaTime)
		s.scrollY = clampScroll(y, s.maxScroll())
		if done {
			s.scrollAnim = nil
		}
	}
	s.fieldSystem.Update(deltaTime)
	s.entityManager.RemoveMarkedEntities()
}

// handleInput returns true when the scene was replaced.
func (s *LandingScene) handleInput() bool {
	if _, wy := ebiten.Wheel(); wy != 0 {
		s.ScrollBy(-wy * config.WheelScrollStep)
	}

	switch {
	case ebiten.IsKeyPressed(ebiten.KeyArrowDown):
		s.ScrollBy(config.KeyScrollStep)
	case ebiten.IsKeyPressed(ebiten.KeyArrowUp):
		s.ScrollBy(-config.KeyScrollStep)
	}
	page := s.viewportHeight - config.HeaderHeight
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown), inpututil.IsKeyJustPressed(ebiten.KeySpace):
		s.ScrollTo(s.scrollY + page)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		s.ScrollTo(s.scrollY - page)
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		s.ScrollTo(0)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnd):
		s.ScrollTo(s.maxScroll())
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := s.RegenerateFields(); err != nil {
			s.logger.Warn("regenerate failed", zap.Error(err))
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		s.SetReducedMotion(s.fieldSystem.MotionEnabled())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		switched, err := s.NextVariant()
		if err != nil {
			s.logger.Error("variant switch failed", zap.Error(err))
		}
		if switched {
			return true
		}
	}

	s.handlePointer()
	return false
}

// handlePointer 拖动滚动、点击链接、悬停光标
//
// 触摸拖动总是滚动页面；移动模式下鼠标拖动也滚动，且不显示悬停光标。
func (s *LandingScene) handlePointer() {
	s.drag.Update()
	info := s.drag.GetInfo()
	_, dy := s.drag.GetDragDistance()
	moved := s.drag.Moved(tapSlop)

	switch {
	case s.drag.JustStarted():
		s.dragStartScroll = s.scrollY
	case s.drag.IsDragging() && (info.IsTouchInput || input.IsMobile()) && moved:
		s.scrollAnim = nil
		s.scrollY = clampScroll(s.dragStartScroll-float64(dy), s.maxScroll())
	case s.drag.JustEnded() && !moved:
		s.Click(float64(info.StartX), float64(info.StartY))
	}

	if input.IsMobile() {
		return
	}
	x, y := input.GetPointerPosition()
	href, _ := s.layout.HitTest(float64(x), float64(y), s.scrollY)
	if href != s.hoverHref {
		s.hoverHref = href
		if href != "" {
			ebiten.SetCursorShape(ebiten.CursorShapePointer)
		} else {
			ebiten.SetCursorShape(ebiten.CursorShapeDefault)
		}
	}
}

// Draw renders backgrounds, particle fields, content, footer and header, in
// that order.
func (s *LandingScene) Draw(screen *ebiten.Image) {
	theme := s.site.Theme
	screen.Fill(utils.ParseHexColorOr(theme.Background, utils.White))

	for _, box := range s.layout.Sections {
		if !s.visible(box.Y, box.Height) {
			continue
		}
		drawBackground(screen, 0, box.Y-s.scrollY, s.viewportWidth, box.Height, box.Background, "")
	}

	// 粒子场在区块背景之上、内容之下，不参与点击
	s.fieldRender.Draw(screen, s.scrollY)

	sections := s.layout.Sections
	for _, box := range append(sections[:len(sections):len(sections)], s.layout.Footer) {
		if !s.visible(box.Y, box.Height) {
			continue
		}
		for _, e := range box.Elements {
			if s.visible(e.Y, e.H) {
				s.drawElement(screen, e, s.scrollY)
			}
		}
	}

	s.drawHeader(screen)
}

func (s *LandingScene) visible(y, h float64) bool {
	top := y - s.scrollY
	return top+h >= 0 && top < s.viewportHeight
}

func (s *LandingScene) drawHeader(screen *ebiten.Image) {
	theme := s.site.Theme
	vector.DrawFilledRect(screen, 0, 0, float32(s.viewportWidth), config.HeaderHeight,
		utils.Fade(utils.ParseHexColorOr(theme.Surface, utils.White), 0.8), false)
	vector.StrokeLine(screen, 0, config.HeaderHeight, float32(s.viewportWidth), config.HeaderHeight, 1,
		utils.Fade(utils.ParseHexColorOr(theme.Muted, utils.White), 0.2), false)

	for _, e := range s.layout.Header {
		if e.Href != "" && e.Href == s.hoverHref && e.Kind == ElemText {
			e.Color = theme.Text
		}
		s.drawElement(screen, e, 0)
	}
}

func (s *LandingScene) drawElement(screen *ebiten.Image, e Element, offsetY float64) {
	switch e.Kind {
	case ElemText:
		drawText(screen, s.fonts, e, offsetY, 1)

	case ElemCard:
		drawCard(screen, e.X, e.Y-offsetY, e.W, e.H, config.CardRadius, e.Fill, e.Border)

	case ElemButton:
		drawCard(screen, e.X, e.Y-offsetY, e.W, e.H, e.H/2, e.Fill, e.Border)
		if e.Href == s.hoverHref {
			hover := config.Gradient{Stops: []string{"#ffffff10"}}
			drawCard(screen, e.X, e.Y-offsetY, e.W, e.H, e.H/2, hover, "")
		}
		label := e
		label.Y = e.Y + (e.H-e.LineHeight)/2
		drawText(screen, s.fonts, label, offsetY, 1)

	case ElemIcon:
		if s.icons == nil {
			return
		}
		icon, err := s.icons.Get(e.Icon)
		if err != nil {
			return
		}
		systems.DrawIcon(screen, icon, e.X, e.Y-offsetY, e.W, 1)

	case ElemDot:
		r := e.W / 2
		vector.DrawFilledCircle(screen, float32(e.X+r), float32(e.Y-offsetY+r), float32(r),
			utils.ParseHexColorOr(e.Color, utils.White), true)
	}
}

// Unmount tears every particle field down.
func (s *LandingScene) Unmount() {
	s.fieldSystem.UnmountAll()
	s.entityManager.RemoveMarkedEntities()
	if s.settings != nil {
		s.settings.SetScroll(s.site.ID, s.scrollY)
	}
}

// SaveOnExit persists the scroll position of the variant.
func (s *LandingScene) SaveOnExit() bool {
	if s.settings == nil {
		return true
	}
	s.settings.SetScroll(s.site.ID, s.scrollY)
	s.settings.SetVariant(s.site.ID)
	return s.save()
}

func (s *LandingScene) save() bool {
	if err := s.settings.Save(); err != nil {
		s.logger.Warn("failed to save settings", zap.Error(err))
		return false
	}
	return true
}
