// Package particle generates the ambient particle fields that float behind
// the landing page sections.
//
// A field is a fixed set of independently animated glow points. Generate
// samples the field once, when the field is mounted, and the result never
// changes afterwards: regenerating a field produces an entirely new sequence.
// The continuous animation each particle performs is described by Sample.
package particle

// Sampling ranges for one particle (半开区间 [min, max)).
const (
	MinScale = 0.6
	MaxScale = 2.0

	MinPeakOpacity = 0.25
	MaxPeakOpacity = 0.80

	// BaseCycleSeconds is the fixed part of every cycle duration; the
	// field's speed range is added on top of it.
	BaseCycleSeconds = 8.0

	// PhaseStepSeconds and PhaseBuckets define the start delay of particle i:
	// (i mod PhaseBuckets) × PhaseStepSeconds.
	PhaseStepSeconds = 0.3
	PhaseBuckets     = 10

	// DriftFraction is the upward drift at mid-cycle, as a fraction of the
	// field height.
	DriftFraction = 0.10

	// RestScaleFactor is applied to the particle scale at both ends of a cycle.
	RestScaleFactor = 0.9
)

// Defaults of an unconfigured field.
const (
	DefaultCount = 30
	DefaultSpeed = 14.0
	DefaultSize  = 2.2
)

// DefaultPalette is used when a field config does not name any colors.
var DefaultPalette = []string{"#fcd34d", "#f59e0b", "#22c55e"}

// ParticleSpec describes one animated particle. It is an immutable value.
type ParticleSpec struct {
	// X and Y are fractional coordinates in [0,1) inside the field bounds.
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`

	// Scale multiplies the field's base size, in [0.6, 2.0).
	Scale float64 `yaml:"scale"`

	// Duration is the length of one float-and-fade cycle in seconds.
	Duration float64 `yaml:"duration"`

	// Color is one entry of the field palette.
	Color string `yaml:"color"`

	// PeakOpacity is the opacity reached mid-cycle, in [0.25, 0.80).
	PeakOpacity float64 `yaml:"peakOpacity"`
}

// Diameter returns the nominal rendered diameter in pixels.
func (p ParticleSpec) Diameter(baseSize float64) float64 {
	return baseSize * p.Scale
}

// FieldSpec is the ordered particle sequence of one field instance.
type FieldSpec struct {
	BaseSize  float64        `yaml:"baseSize"`
	Particles []ParticleSpec `yaml:"particles"`
}

// Len returns the number of particles in the field.
func (f FieldSpec) Len() int {
	return len(f.Particles)
}

// FieldConfig is the configuration tuple a page section hands to its field.
//
// Area is the presentation hook applied to the field container. The
// generator never looks at it.
type FieldConfig struct {
	Count   int       `yaml:"count"`
	Speed   float64   `yaml:"speed"`
	Size    float64   `yaml:"size"`
	Palette []string  `yaml:"palette"`
	Area    AreaStyle `yaml:"area"`
}

// AreaStyle carries the container styling of a field. Opacity scales every
// particle of the field; Class is passed to the HTML export as is.
type AreaStyle struct {
	Opacity float64 `yaml:"opacity"`
	Class   string  `yaml:"class"`
}

// DefaultFieldConfig returns the configuration of a field with no overrides.
func DefaultFieldConfig() FieldConfig {
	return FieldConfig{
		Count:   DefaultCount,
		Speed:   DefaultSpeed,
		Size:    DefaultSize,
		Palette: append([]string(nil), DefaultPalette...),
		Area:    AreaStyle{Opacity: 1},
	}
}

// WithDefaults fills zero fields from DefaultFieldConfig. Count is left
// alone because a zero count is a valid empty field.
func (c FieldConfig) WithDefaults() FieldConfig {
	if c.Speed == 0 {
		c.Speed = DefaultSpeed
	}
	if c.Size == 0 {
		c.Size = DefaultSize
	}
	if c.Palette == nil {
		c.Palette = append([]string(nil), DefaultPalette...)
	}
	if c.Area.Opacity == 0 {
		c.Area.Opacity = 1
	}
	return c
}
