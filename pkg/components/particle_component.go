package components

import (
	"github.com/gonewx/restoration/internal/particle"
	"github.com/gonewx/restoration/pkg/ecs"
)

// GlowParticleComponent represents one glow point of an ambient particle field.
//
// Spec is sampled once when the field is mounted and never changes; Frame is
// the animated state the ParticleFieldSystem writes every update and the
// FieldRenderSystem reads when drawing.
//
// This is a pure data component following ECS principles - it contains no methods.
type GlowParticleComponent struct {
	// Spec is the immutable particle description (位置、缩放、周期、颜色、峰值透明度)
	Spec particle.ParticleSpec

	// Index is the particle's position in its field sequence. It selects the
	// phase delay bucket (i mod 10).
	Index int

	// Field is the owning field entity.
	Field ecs.EntityID

	// Frame is the current animated state (偏移、透明度、缩放)
	Frame particle.Frame
}
