package sim

import (
	"encoding/binary"
	"fmt"

	"github.com/milk9111/spacewar/common"
	"github.com/milk9111/spacewar/ecs"
	"github.com/milk9111/spacewar/ecs/component"
	"github.com/milk9111/spacewar/ecs/system"
	"github.com/milk9111/spacewar/physics"
	"github.com/milk9111/spacewar/rollback"
	"github.com/milk9111/spacewar/script"
	"github.com/zeebo/xxh3"
)

// Simulation is one deterministic game session. Everything that affects
// the next frame lives in its ECS world, its physics world, its sequence
// allocator and its frame counter, and Save copies all four.
type Simulation struct {
	cfg     Config
	world   *ecs.World
	physics *physics.World
	order   *rollback.Ordered
	frame   int

	behaviors *system.BehaviorSystem
	stepper   *system.PhysicsSystem
	gameplay  *ecs.Scheduler
	core      *ecs.Scheduler
}

func New(cfg Config) (*Simulation, error) {
	scaler, err := physics.NewScaler(cfg.Scale)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	pw, err := physics.NewWorld(physics.Config{
		FrameRate:  cfg.FrameRate,
		Gravity:    common.ToPhysics(cfg.Gravity),
		Iterations: cfg.Iterations,
		Scaler:     scaler,
	})
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	// kinematic characters get gravity from their behavior, along up
	behaviors := system.NewBehaviorSystem(scaler.ToPresentation(cfg.Gravity.Y()), pw.DT())
	stepper := system.NewPhysicsSystem(pw)
	return &Simulation{
		cfg:       cfg,
		world:     ecs.NewWorld(),
		physics:   pw,
		order:     rollback.NewOrdered(),
		behaviors: behaviors,
		stepper:   stepper,
		gameplay:  ecs.NewScheduler(behaviors),
		core:      ecs.NewScheduler(system.NewTTLSystem(), stepper),
	}, nil
}

func (s *Simulation) Config() Config { return s.cfg }
func (s *Simulation) Frame() int { return s.frame }
func (s *Simulation) World() *ecs.World { return s.world }
func (s *Simulation) Physics() *physics.World { return s.physics }

// Events holds the contact changes of the most recent frame.
func (s *Simulation) Events() *ecs.EventQueue { return s.stepper.Events() }

// RegisterBehavior compiles src and makes it available to players whose
// Behavior is name.
func (s *Simulation) RegisterBehavior(name string, src []byte) error {
	b, err := script.Compile(name, src)
	if err != nil {
		return err
	}
	s.behaviors.Register(name, b)
	return nil
}

// AddBehavior appends a gameplay system. Gameplay systems run before the
// physics pipeline every frame, in the order they were added.
func (s *Simulation) AddBehavior(sys ecs.System) {
	s.gameplay.Add(sys)
}

// Advance simulates one frame. inputs is indexed by player slot; missing
// slots count as no input.
func (s *Simulation) Advance(inputs []rollback.PlayerInput) {
	for _, e := range s.world.Query(component.PlayerComponent.Kind()) {
		p, _ := ecs.Get(s.world, e, component.PlayerComponent.Kind())
		p.Input = 0
		if p.Slot >= 0 && p.Slot < len(inputs) {
			p.Input = inputs[p.Slot].Effective()
		}
	}
	s.gameplay.Update(s.world)
	s.core.Update(s.world)
	s.frame++
}

// Snapshot is a saved frame. It is immutable; Load copies out of it.
type Snapshot struct {
	frame   int
	world   *ecs.World
	physics *physics.Snapshot
	order   *rollback.Ordered
}

func (s *Snapshot) Frame() int { return s.frame }

func (s *Simulation) Save() *Snapshot {
	return &Snapshot{
		frame:   s.frame,
		world:   s.world.Clone(),
		physics: s.physics.Snapshot(),
		order:   s.order.Clone(),
	}
}

// Load restores snap. A nil snapshot means the rollback ring lost a frame
// and panics.
func (s *Simulation) Load(snap *Snapshot) {
	if snap == nil {
		panic(fmt.Sprintf("sim: load of nil snapshot at frame %d", s.frame))
	}
	s.frame = snap.frame
	s.world = snap.world.Clone()
	s.physics.Restore(snap.physics)
	s.order = snap.order.Clone()
}

// Checksum digests the frame: the unit scale, every body and collider, and
// then in sequence order each entity's transform and character state.
func (s *Simulation) Checksum() uint64 {
	h := xxh3.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(s.frame))
	_, _ = h.Write(buf[:])
	physics.HashFloat(h, s.physics.Scaler().Scale())
	physics.Fold(h, s.physics)

	for _, e := range s.ordered(component.TransformComponent.Kind()) {
		tf, _ := ecs.Get(s.world, e, component.TransformComponent.Kind())
		physics.HashFloat(h, tf.X)
		physics.HashFloat(h, tf.Y)
		physics.HashFloat(h, tf.Rotation)
	}
	for _, e := range s.ordered(component.CharacterControllerComponent.Kind()) {
		cc, _ := ecs.Get(s.world, e, component.CharacterControllerComponent.Kind())
		_, _ = h.Write([]byte{flagBits(cc.Flags)})
		physics.HashFloat(h, cc.Resolved.X())
		physics.HashFloat(h, cc.Resolved.Y())
	}
	return h.Sum64()
}

func flagBits(f physics.ContactFlags) byte {
	var b byte
	for i, set := range []bool{f.Grounded, f.WallLeft, f.WallRight, f.Ceiling} {
		if set {
			b |= 1 << i
		}
	}
	return b
}

func (s *Simulation) ordered(kind component.Kind) []ecs.Entity {
	ents := s.world.Query(kind, component.RollbackComponent.Kind())
	seqs := make(map[ecs.Entity]uint64, len(ents))
	for _, e := range ents {
		rb, _ := ecs.Get(s.world, e, component.RollbackComponent.Kind())
		seqs[e] = rb.Seq
	}
	rollback.SortBySeq(ents, func(e ecs.Entity) uint64 { return seqs[e] })
	return ents
}
