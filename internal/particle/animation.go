package particle

import (
	"math"

	"github.com/gonewx/restoration/pkg/utils"
)

// Keyframe is one point on an animation curve.
type Keyframe struct {
	Time  float64 // Normalized cycle time (0-1)
	Value float64
}

// Frame is the animated state of a particle at one instant.
type Frame struct {
	// OffsetY is the vertical drift as a fraction of the field height;
	// negative values move up.
	OffsetY float64
	Opacity float64
	Scale   float64
}

// Diameter returns the rendered diameter in pixels for the field base size.
func (f Frame) Diameter(baseSize float64) float64 {
	return baseSize * f.Scale
}

// Curves returns the three keyframe curves of a particle's cycle:
// offset 0 → −10% → 0, opacity 0 → peak → 0 and scale 0.9s → s → 0.9s.
func (p ParticleSpec) Curves() (offset, opacity, scale []Keyframe) {
	rest := p.Scale * RestScaleFactor
	offset = []Keyframe{{0, 0}, {0.5, -DriftFraction}, {1, 0}}
	opacity = []Keyframe{{0, 0}, {0.5, p.PeakOpacity}, {1, 0}}
	scale = []Keyframe{{0, rest}, {0.5, p.Scale}, {1, rest}}
	return offset, opacity, scale
}

// CycleProgress maps the time since the field was mounted onto the
// particle's normalized cycle position. started is false while the phase
// delay of particle index has not yet elapsed. The cycle repeats forever.
func CycleProgress(p ParticleSpec, index int, elapsed float64) (t float64, started bool) {
	local := elapsed - PhaseDelay(index)
	if local < 0 || p.Duration <= 0 {
		return 0, false
	}
	return math.Mod(local, p.Duration) / p.Duration, true
}

// Sample returns the frame of particle index at elapsed seconds after its
// field was mounted. Before its phase delay the particle sits invisible at
// its starting position.
func Sample(p ParticleSpec, index int, elapsed float64) Frame {
	t, started := CycleProgress(p, index, elapsed)
	if !started {
		return Frame{OffsetY: 0, Opacity: 0, Scale: p.Scale * RestScaleFactor}
	}
	return SampleAt(p, t)
}

// SampleAt evaluates the cycle curves at normalized time t.
func SampleAt(p ParticleSpec, t float64) Frame {
	offset, opacity, scale := p.Curves()
	return Frame{
		OffsetY: EvaluateKeyframes(offset, t, utils.EaseInOut),
		Opacity: EvaluateKeyframes(opacity, t, utils.EaseInOut),
		Scale:   EvaluateKeyframes(scale, t, utils.EaseInOut),
	}
}

// Peak returns the mid-cycle frame. Reduced-motion rendering holds every
// particle there.
func Peak(p ParticleSpec) Frame {
	return SampleAt(p, 0.5)
}

// EvaluateKeyframes calculates the value at time t (0-1). The easing is
// applied per segment, the way browsers ease between animation keyframes.
func EvaluateKeyframes(keyframes []Keyframe, t float64, ease utils.EaseFunc) float64 {
	if len(keyframes) == 0 {
		return 0
	}
	if len(keyframes) == 1 {
		return keyframes[0].Value
	}
	if ease == nil {
		ease = utils.EaseLinear
	}

	t = utils.Clamp01(t)
	if t <= keyframes[0].Time {
		return keyframes[0].Value
	}

	for i := 0; i < len(keyframes)-1; i++ {
		k0 := keyframes[i]
		k1 := keyframes[i+1]
		if t < k0.Time || t > k1.Time {
			continue
		}
		span := k1.Time - k0.Time
		if span <= 0 {
			return k1.Value
		}
		ratio := ease((t - k0.Time) / span)
		return utils.Lerp(k0.Value, k1.Value, ratio)
	}

	return keyframes[len(keyframes)-1].Value
}
