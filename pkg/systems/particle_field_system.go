package systems

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gonewx/restoration/internal/particle"
	"github.com/gonewx/restoration/pkg/components"
	"github.com/gonewx/restoration/pkg/ecs"
)

// ErrUnknownField is returned for operations on an entity that is not a
// mounted particle field.
var ErrUnknownField = errors.New("unknown particle field")

// ParticleFieldSystem owns the lifecycle of the ambient particle fields.
//
// A field is generated once when it is mounted and keeps its particle
// sequence until it is regenerated or unmounted. Regeneration always tears
// the old particles down before the new sequence is created, so a field never
// shows a mix of two generations.
//
// Update advances every field clock and writes each particle's current frame.
// With motion disabled (reduced motion) the clocks stop and every particle
// is held at its peak keyframe.
//
// Follows ECS zero-coupling principle: communicates only through EntityManager.
type ParticleFieldSystem struct {
	EntityManager *ecs.EntityManager

	rng    particle.RandomSource
	logger *zap.Logger
	motion bool
}

// NewParticleFieldSystem creates a new ParticleFieldSystem.
// A nil rng uses particle.NewRandomSource; a nil logger disables logging.
func NewParticleFieldSystem(em *ecs.EntityManager, rng particle.RandomSource, logger *zap.Logger) *ParticleFieldSystem {
	if rng == nil {
		rng = particle.NewRandomSource()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParticleFieldSystem{
		EntityManager: em,
		rng:           rng,
		logger:        logger.Named("ParticleFieldSystem"),
		motion:        true,
	}
}

// Mount creates a field for a page section and generates its particles.
//
// An invalid configuration does not prevent mounting: the field is created
// empty, the error is recorded on the field and returned to the caller. The
// returned entity is valid in both cases.
func (s *ParticleFieldSystem) Mount(sectionID string, cfg particle.FieldConfig, bounds components.BoundsComponent) (ecs.EntityID, error) {
	cfg = cfg.WithDefaults()

	fieldID := s.EntityManager.CreateEntity()
	field := &components.ParticleFieldComponent{
		SectionID: sectionID,
		Config:    cfg,
		BaseSize:  cfg.Size,
	}
	s.EntityManager.AddComponent(fieldID, field)
	s.EntityManager.AddComponent(fieldID, &bounds)

	err := s.populate(fieldID, field)
	return fieldID, err
}

// Regenerate discards the field's particles and generates an entirely new
// sequence from cfg. The field clock restarts.
func (s *ParticleFieldSystem) Regenerate(fieldID ecs.EntityID, cfg particle.FieldConfig) error {
	field, ok := ecs.GetComponent[*components.ParticleFieldComponent](s.EntityManager, fieldID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownField, fieldID)
	}

	s.teardownParticles(field)

	cfg = cfg.WithDefaults()
	field.Config = cfg
	field.BaseSize = cfg.Size
	field.Elapsed = 0
	field.Err = nil

	return s.populate(fieldID, field)
}

// RegenerateAll regenerates every mounted field from its own configuration.
// It returns the first configuration error; all fields are processed.
func (s *ParticleFieldSystem) RegenerateAll() error {
	var first error
	for _, id := range s.Fields() {
		field, _ := ecs.GetComponent[*components.ParticleFieldComponent](s.EntityManager, id)
		if err := s.Regenerate(id, field.Config); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Unmount tears the field down together with all of its particles. The
// particles stop animating and rendering immediately; the entities are
// released on the next RemoveMarkedEntities.
func (s *ParticleFieldSystem) Unmount(fieldID ecs.EntityID) error {
	field, ok := ecs.GetComponent[*components.ParticleFieldComponent](s.EntityManager, fieldID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownField, fieldID)
	}

	s.teardownParticles(field)
	ecs.RemoveComponent[*components.ParticleFieldComponent](s.EntityManager, fieldID)
	ecs.RemoveComponent[*components.BoundsComponent](s.EntityManager, fieldID)
	s.EntityManager.DestroyEntity(fieldID)

	s.logger.Debug("field unmounted",
		zap.String("section", field.SectionID),
		zap.Stringer("instance", field.InstanceID))
	return nil
}

// UnmountAll tears down every mounted field.
func (s *ParticleFieldSystem) UnmountAll() {
	for _, id := range s.Fields() {
		_ = s.Unmount(id)
	}
}

// Update advances the field clocks by dt seconds and samples every particle.
func (s *ParticleFieldSystem) Update(dt float64) {
	for _, fieldID := range s.Fields() {
		field, _ := ecs.GetComponent[*components.ParticleFieldComponent](s.EntityManager, fieldID)
		if s.motion {
			field.Elapsed += dt
		}

		for _, pid := range field.Particles {
			glow, ok := ecs.GetComponent[*components.GlowParticleComponent](s.EntityManager, pid)
			if !ok {
				continue
			}
			if s.motion {
				glow.Frame = particle.Sample(glow.Spec, glow.Index, field.Elapsed)
			} else {
				glow.Frame = particle.Peak(glow.Spec)
			}
		}
	}
}

// SetMotionEnabled switches between animated and reduced-motion rendering.
// Frames are refreshed right away so a still field is visible without
// waiting for the next Update.
func (s *ParticleFieldSystem) SetMotionEnabled(enabled bool) {
	s.motion = enabled
	s.Update(0)
}

// MotionEnabled reports whether fields are animated.
func (s *ParticleFieldSystem) MotionEnabled() bool {
	return s.motion
}

// SetBounds moves a field container, e.g. after the page layout changed.
func (s *ParticleFieldSystem) SetBounds(fieldID ecs.EntityID, bounds components.BoundsComponent) error {
	b, ok := ecs.GetComponent[*components.BoundsComponent](s.EntityManager, fieldID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownField, fieldID)
	}
	*b = bounds
	return nil
}

// Fields returns all mounted fields in mount order.
func (s *ParticleFieldSystem) Fields() []ecs.EntityID {
	return ecs.GetEntitiesWith1[*components.ParticleFieldComponent](s.EntityManager)
}

// FieldBySection returns the field mounted for a section.
func (s *ParticleFieldSystem) FieldBySection(sectionID string) (ecs.EntityID, bool) {
	for _, id := range s.Fields() {
		field, _ := ecs.GetComponent[*components.ParticleFieldComponent](s.EntityManager, id)
		if field.SectionID == sectionID {
			return id, true
		}
	}
	return ecs.InvalidEntity, false
}

// ParticleCount returns the number of live particles of a field.
func (s *ParticleFieldSystem) ParticleCount(fieldID ecs.EntityID) int {
	field, ok := ecs.GetComponent[*components.ParticleFieldComponent](s.EntityManager, fieldID)
	if !ok {
		return 0
	}
	return len(field.Particles)
}

// populate generates the field's sequence and creates one entity per
// particle. On a configuration error the field is left empty.
func (s *ParticleFieldSystem) populate(fieldID ecs.EntityID, field *components.ParticleFieldComponent) error {
	field.InstanceID = uuid.New()

	spec, err := field.Config.Generate(s.rng)
	if err != nil {
		field.Err = err
		s.logger.Warn("particle field degraded to empty",
			zap.String("section", field.SectionID),
			zap.Error(err))
		return fmt.Errorf("section %s: %w", field.SectionID, err)
	}

	field.Particles = make([]ecs.EntityID, 0, spec.Len())
	for i, p := range spec.Particles {
		pid := s.EntityManager.CreateEntity()
		glow := &components.GlowParticleComponent{
			Spec:  p,
			Index: i,
			Field: fieldID,
		}
		if s.motion {
			glow.Frame = particle.Sample(p, i, 0)
		} else {
			glow.Frame = particle.Peak(p)
		}
		s.EntityManager.AddComponent(pid, glow)
		field.Particles = append(field.Particles, pid)
	}

	s.logger.Debug("field mounted",
		zap.String("section", field.SectionID),
		zap.Stringer("instance", field.InstanceID),
		zap.Int("particles", spec.Len()),
		zap.Int("phases", particle.DistinctPhases(spec.Len())))
	return nil
}

// teardownParticles removes the particles from rendering and queues their
// entities for destruction.
func (s *ParticleFieldSystem) teardownParticles(field *components.ParticleFieldComponent) {
	for _, pid := range field.Particles {
		ecs.RemoveComponent[*components.GlowParticleComponent](s.EntityManager, pid)
		s.EntityManager.DestroyEntity(pid)
	}
	field.Particles = nil
}
