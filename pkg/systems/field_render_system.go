package systems

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/gonewx/restoration/pkg/components"
	"github.com/gonewx/restoration/pkg/ecs"
	"github.com/gonewx/restoration/pkg/utils"
)

// Glow rendering parameters (光晕参数)
const (
	// HaloSpread 是光晕超出粒子半径的像素（对应 12px 的柔和阴影）
	HaloSpread = 6.0

	// HaloAlpha 是光晕相对粒子本体的透明度（颜色后缀 55 ≈ 1/3）
	HaloAlpha = 1.0 / 3.0

	// minCoreRadius 保证极小的粒子仍然可见
	minCoreRadius = 0.5
)

// GlowDisc is one filled circle of a glow particle in screen coordinates.
type GlowDisc struct {
	X, Y   float64
	Radius float64
	Color  color.NRGBA
}

// FieldRenderSystem draws the ambient particle fields.
//
// Every particle becomes two discs: a soft halo and the core. Particles are
// positioned absolutely inside their field bounds and never take part in
// input handling.
type FieldRenderSystem struct {
	EntityManager *ecs.EntityManager
}

// NewFieldRenderSystem creates a new FieldRenderSystem.
func NewFieldRenderSystem(em *ecs.EntityManager) *FieldRenderSystem {
	return &FieldRenderSystem{EntityManager: em}
}

// Draw renders all particles. scrollY is the page scroll offset.
func (s *FieldRenderSystem) Draw(screen *ebiten.Image, scrollY float64) {
	viewport := float64(screen.Bounds().Dy())
	for _, d := range s.Discs(scrollY, viewport) {
		vector.DrawFilledCircle(screen, float32(d.X), float32(d.Y), float32(d.Radius), d.Color, true)
	}
}

// Discs builds the discs to draw, in particle order, halo before core.
// Invisible particles and particles outside [0, viewportHeight) are skipped;
// a viewportHeight <= 0 disables culling.
func (s *FieldRenderSystem) Discs(scrollY, viewportHeight float64) []GlowDisc {
	particles := ecs.GetEntitiesWith1[*components.GlowParticleComponent](s.EntityManager)
	discs := make([]GlowDisc, 0, 2*len(particles))

	for _, pid := range particles {
		glow, _ := ecs.GetComponent[*components.GlowParticleComponent](s.EntityManager, pid)
		field, ok := ecs.GetComponent[*components.ParticleFieldComponent](s.EntityManager, glow.Field)
		if !ok {
			continue
		}
		bounds, ok := ecs.GetComponent[*components.BoundsComponent](s.EntityManager, glow.Field)
		if !ok {
			continue
		}

		alpha := glow.Frame.Opacity * field.Config.Area.Opacity
		if alpha <= 0 {
			continue
		}

		r := glow.Frame.Diameter(field.BaseSize) / 2
		cx := bounds.X + glow.Spec.X*bounds.Width
		cy := bounds.Y + (glow.Spec.Y+glow.Frame.OffsetY)*bounds.Height - scrollY

		if viewportHeight > 0 && (cy+r+HaloSpread < 0 || cy-r-HaloSpread >= viewportHeight) {
			continue
		}

		c := utils.ParseHexColorOr(glow.Spec.Color, utils.White)
		discs = append(discs,
			GlowDisc{X: cx, Y: cy, Radius: r + HaloSpread, Color: utils.WithAlpha(c, alpha*HaloAlpha)},
			GlowDisc{X: cx, Y: cy, Radius: max(r, minCoreRadius), Color: utils.WithAlpha(c, alpha)},
		)
	}
	return discs
}
