package particle

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"
)

// ErrInvalidConfiguration is returned when a field cannot be generated from
// the given inputs.
var ErrInvalidConfiguration = errors.New("invalid particle field configuration")

// RandomSource produces uniform reals in [0,1).
//
// *rand.Rand from math/rand/v2 satisfies it. Tests supply a fixed sequence.
type RandomSource interface {
	Float64() float64
}

// NewRandomSource returns a freshly seeded source for production use.
func NewRandomSource() RandomSource {
	seed := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(seed, rand.Uint64()))
}

// Generate samples a field of count particles.
//
// Each particle draws, in this order: x, y, scale, duration, color and peak
// opacity. Colors are drawn with replacement, so a field may repeat colors
// and need not cover the whole palette.
//
// A zero count yields an empty field regardless of the other inputs.
func Generate(rng RandomSource, count int, speedRange, baseSize float64, palette []string) (FieldSpec, error) {
	if err := Validate(count, speedRange, baseSize, palette); err != nil {
		return FieldSpec{}, err
	}

	field := FieldSpec{
		BaseSize:  baseSize,
		Particles: make([]ParticleSpec, 0, count),
	}
	for i := 0; i < count; i++ {
		field.Particles = append(field.Particles, sampleParticle(rng, speedRange, palette))
	}
	return field, nil
}

// Generate samples a field from the configuration tuple.
func (c FieldConfig) Generate(rng RandomSource) (FieldSpec, error) {
	return Generate(rng, c.Count, c.Speed, c.Size, c.Palette)
}

// Validate checks the generator inputs without consuming any randomness.
func Validate(count int, speedRange, baseSize float64, palette []string) error {
	if count < 0 {
		return fmt.Errorf("%w: count must not be negative, got %d", ErrInvalidConfiguration, count)
	}
	if count == 0 {
		return nil
	}
	if len(palette) == 0 {
		return fmt.Errorf("%w: palette is empty for %d particles", ErrInvalidConfiguration, count)
	}
	for i, c := range palette {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("%w: palette entry %d is blank", ErrInvalidConfiguration, i)
		}
	}
	if math.IsNaN(speedRange) || math.IsInf(speedRange, 0) || speedRange <= 0 {
		return fmt.Errorf("%w: speed range must be positive, got %v", ErrInvalidConfiguration, speedRange)
	}
	if math.IsNaN(baseSize) || math.IsInf(baseSize, 0) || baseSize <= 0 {
		return fmt.Errorf("%w: base size must be positive, got %v", ErrInvalidConfiguration, baseSize)
	}
	return nil
}

// Validate checks the configuration tuple.
func (c FieldConfig) Validate() error {
	return Validate(c.Count, c.Speed, c.Size, c.Palette)
}

func sampleParticle(rng RandomSource, speedRange float64, palette []string) ParticleSpec {
	x := unit(rng)
	y := unit(rng)
	scale := between(MinScale, MaxScale, unit(rng))
	duration := between(BaseCycleSeconds, BaseCycleSeconds+speedRange, unit(rng))
	color := palette[pick(unit(rng), len(palette))]
	opacity := between(MinPeakOpacity, MaxPeakOpacity, unit(rng))

	return ParticleSpec{
		X:           x,
		Y:           y,
		Scale:       scale,
		Duration:    duration,
		Color:       color,
		PeakOpacity: opacity,
	}
}

// unit reads one draw and forces it into [0,1), so a misbehaving source
// cannot push a particle out of its ranges.
func unit(rng RandomSource) float64 {
	u := rng.Float64()
	if math.IsNaN(u) || u < 0 {
		return 0
	}
	if u >= 1 {
		return math.Nextafter(1, 0)
	}
	return u
}

// between maps u onto [lo, hi). Rounding may land exactly on hi, which is
// pulled back to the largest value below it.
func between(lo, hi, u float64) float64 {
	v := lo + u*(hi-lo)
	if v >= hi {
		return math.Nextafter(hi, lo)
	}
	return v
}

func pick(u float64, n int) int {
	i := int(math.Floor(u * float64(n)))
	if i >= n {
		i = n - 1
	}
	return i
}

// PhaseDelay returns the start delay of the particle at index i in seconds.
func PhaseDelay(i int) float64 {
	if i < 0 {
		i = -i
	}
	return float64(i%PhaseBuckets) * PhaseStepSeconds
}

// DistinctPhases returns how many different start delays a field of count
// particles uses.
func DistinctPhases(count int) int {
	if count <= 0 {
		return 0
	}
	return min(count, PhaseBuckets)
}
