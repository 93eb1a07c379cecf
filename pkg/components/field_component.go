package components

import (
	"github.com/google/uuid"

	"github.com/gonewx/restoration/internal/particle"
	"github.com/gonewx/restoration/pkg/ecs"
)

// ParticleFieldComponent represents one mounted ambient particle field.
//
// A field belongs to exactly one page section. Its particle sequence is
// generated when the field is mounted and replaced as a whole when the field
// is regenerated. Destroying the field entity tears down every particle it
// owns.
//
// This is a pure data component following ECS principles - it contains no methods.
type ParticleFieldComponent struct {
	// InstanceID identifies this generation of the field. Regenerating a
	// field assigns a new one.
	InstanceID uuid.UUID

	// SectionID is the page section that owns the field.
	SectionID string

	// Config is the configuration the field was generated from.
	Config particle.FieldConfig

	// BaseSize is the base particle diameter in pixels.
	BaseSize float64

	// Elapsed is the time since the field was mounted (秒)
	Elapsed float64

	// Particles lists the particle entities in sequence order.
	Particles []ecs.EntityID

	// Err is the configuration error of a degraded field. A degraded field
	// stays mounted but owns no particles.
	Err error
}

// BoundsComponent is the absolute rectangle of a field container in page
// coordinates (页面坐标，未减去滚动偏移).
type BoundsComponent struct {
	X, Y          float64
	Width, Height float64
}

// Contains reports whether the page point (px, py) lies inside the bounds.
func (b BoundsComponent) Contains(px, py float64) bool {
	return px >= b.X && px < b.X+b.Width && py >= b.Y && py < b.Y+b.Height
}
