package main

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/milk9111/spacewar/prefabs"
	"github.com/milk9111/spacewar/rollback"
	"github.com/milk9111/spacewar/sim"
)

var (
	errInterrupted = errors.New("interrupted")
	errReload      = errors.New("reload")
)

// run is one pass of the sync test over a freshly loaded session.
type run struct {
	session *sim.Simulation
	test    *rollback.SyncTest[*sim.Snapshot]
	rng     *rand.Rand
	players int
	frames  int
	every   int
}

func newRun(opts options, metrics *rollback.Metrics) (*run, error) {
	spec, err := prefabs.LoadSessionSpec(opts.session)
	if err != nil {
		return nil, err
	}
	if opts.scenario != "" {
		spec.Scenario = opts.scenario
	}
	if opts.frames != 0 {
		spec.Frames = opts.frames
	}
	if opts.check != 0 {
		spec.CheckDistance = opts.check
	}
	if opts.seed != 0 {
		spec.Seed = opts.seed
	}
	if err := rollback.ValidateCheckDistance(spec.CheckDistance); err != nil {
		return nil, err
	}

	s, scenario, err := sim.LoadSession(spec)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", opts.session, err)
	}
	log.Printf("synctest: scenario=%q frames=%d check=%d seed=%d players=%d",
		scenario.Name, spec.Frames, spec.CheckDistance, spec.Seed, s.Config().Players)

	every := opts.every
	if every <= 0 {
		every = 60
	}
	return &run{
		session: s,
		test:    rollback.NewSyncTest[*sim.Snapshot](s, spec.CheckDistance, metrics),
		rng:     rand.New(rand.NewSource(spec.Seed)),
		players: s.Config().Players,
		frames:  spec.Frames,
		every:   every,
	}, nil
}

// loop advances until the frame budget is spent, a replay disagrees, or
// the run is interrupted or invalidated by a file change.
func (r *run) loop(stop <-chan os.Signal, changes <-chan prefabs.Change) error {
	for r.frames < 0 || r.session.Frame() < r.frames {
		select {
		case <-stop:
			return errInterrupted
		case c, ok := <-changes:
			if ok {
				log.Printf("synctest: %s changed, reloading", c.Path)
				return errReload
			}
		default:
		}

		if err := r.test.AdvanceFrame(r.inputs()); err != nil {
			return err
		}
		if f := r.session.Frame(); f%r.every == 0 {
			log.Printf("synctest: frame=%d checksum=%016x", f, r.session.Checksum())
		}
	}
	return nil
}

// inputs draws one random input per player. Each player is sometimes
// predicted or disconnected so every input status is exercised.
func (r *run) inputs() []rollback.PlayerInput {
	out := make([]rollback.PlayerInput, r.players)
	for i := range out {
		out[i].Input = rollback.RandomInput(r.rng)
		switch r.rng.Intn(10) {
		case 0:
			out[i].Status = rollback.Disconnected
		case 1, 2:
			out[i].Status = rollback.Predicted
		}
	}
	return out
}
