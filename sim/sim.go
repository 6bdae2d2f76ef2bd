// Copyright (c) 2024, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package sim runs a spike.Network step by step on its own goroutine, with
pause, resume and stop between steps through an emergent stepper.Stepper, per-step hooks for sensors and
recorders, and a bounded mailbox of state snapshots for viewers that never
blocks the run.
*/
package sim

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/emer/emergent/stepper"
	"github.com/emer/emergent/timer"
	"github.com/expresscogs/spikenet/spike"
	"github.com/goki/ki/kit"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrRunning is returned when starting a Sim that is already running.
var ErrRunning = errors.New("sim: already running")

// States are the states of a Sim as seen by its caller. Unlike
// stepper.RunState they tell a Sim that has never run from one that has
// finished.
type States int32

//go:generate stringer -type=States

var KiT_States = kit.Enums.AddEnum(StatesN, kit.NotBitFlag, nil)

func (ev States) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *States) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

func (ev States) MarshalText() ([]byte, error) { return []byte(ev.String()), nil }

func (ev *States) UnmarshalText(b []byte) error {
	for s := Idle; s < StatesN; s++ {
		if strings.EqualFold(s.String(), string(b)) {
			*ev = s
			return nil
		}
	}
	return ev.FromString(string(b))
}

const (
	// Idle has never been started.
	Idle States = iota

	// Running is stepping the network.
	Running

	// Paused is running but blocked between steps until Resume or Stop.
	Paused

	// Stopped has finished a run, see Wait for its error.
	Stopped

	StatesN
)

// Params control the run loop.
type Params struct {
	ViewInterval int           `def:"10" min:"0" desc:"post a Snapshot every this many steps (0 = never)"`
	QueueDepth   int           `def:"1" min:"1" desc:"number of snapshots held for the viewer; when full the oldest is dropped"`
	SlowDelay    time.Duration `def:"0" desc:"wall time to wait between steps, for watching a run"`
}

func (sp *Params) Defaults() {
	sp.ViewInterval = 10
	sp.QueueDepth = 1
	sp.SlowDelay = 0
}

// StepFunc is called on the run goroutine after every step.
type StepFunc func(nt *spike.Network)

// stepGrain is the Stepper grain of one network step.
const stepGrain = 0

// Sim runs a Network. All methods may be called from any goroutine.
type Sim struct {
	Net     *spike.Network   `desc:"network being run"`
	Params  Params           `desc:"run loop parameters, fixed while running"`
	RunID   string           `inactive:"+" desc:"unique id of the current or last run"`
	Timer   timer.Time       `view:"-" desc:"wall time spent running"`
	Stepper *stepper.Stepper `view:"-" desc:"pauses and stops the run loop between steps"`

	hooks []StepFunc
	snaps chan *Snapshot

	mu       sync.Mutex
	active   bool
	stopping bool
	steps    int
	err      error
	done     chan struct{}
}

// NewSim returns a Sim for nt. A nil par uses defaults.
func NewSim(nt *spike.Network, par *Params) *Sim {
	sm := &Sim{Net: nt, Stepper: stepper.New()}
	if par != nil {
		sm.Params = *par
	} else {
		sm.Params.Defaults()
	}
	if sm.Params.QueueDepth < 1 {
		sm.Params.QueueDepth = 1
	}
	sm.snaps = make(chan *Snapshot, sm.Params.QueueDepth)
	return sm
}

// OnStep adds a hook called after every step. Must not be called while running.
func (sm *Sim) OnStep(fun StepFunc) {
	sm.hooks = append(sm.hooks, fun)
}

// Snapshots returns the mailbox of snapshots posted every ViewInterval steps.
func (sm *Sim) Snapshots() <-chan *Snapshot { return sm.snaps }

// State returns the current run state. A run that is finishing after Stop
// reports Running until it ends.
func (sm *Sim) State() States {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	switch {
	case sm.done == nil:
		return Idle
	case !sm.active:
		return Stopped
	case sm.stopping || sm.Stepper.Active():
		return Running
	}
	return Paused
}

// Steps returns the number of steps completed in the current or last run.
func (sm *Sim) Steps() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.steps
}

// Run runs nsteps steps, or until stopped if nsteps <= 0, and returns when
// the run ends. Cancelling ctx stops the run after the current step and
// returns the context error.
func (sm *Sim) Run(ctx context.Context, nsteps int) error {
	if err := sm.Start(ctx, nsteps); err != nil {
		return err
	}
	return sm.Wait()
}

// Start begins a run as in Run on a new goroutine and returns at once.
func (sm *Sim) Start(ctx context.Context, nsteps int) error {
	sm.mu.Lock()
	if sm.active {
		sm.mu.Unlock()
		return ErrRunning
	}
	sm.active = true
	sm.stopping = false
	sm.steps = 0
	sm.err = nil
	sm.done = make(chan struct{})
	sm.RunID = uuid.NewString()
	sm.Stepper.Enter(stepper.Running)
	sm.mu.Unlock()

	go func() {
		err := sm.loop(ctx, nsteps)
		sm.mu.Lock()
		sm.Stepper.Stop()
		sm.err = err
		sm.active = false
		close(sm.done)
		sm.mu.Unlock()
	}()
	return nil
}

// Wait blocks until the current run ends and returns its error. Returns nil
// if never started.
func (sm *Sim) Wait() error {
	sm.mu.Lock()
	done := sm.done
	sm.mu.Unlock()
	if done == nil {
		return nil
	}
	<-done
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.err
}

// Pause blocks the run before its next step.
func (sm *Sim) Pause() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.active && !sm.stopping && sm.Stepper.Active() {
		sm.Stepper.Pause()
	}
}

// Resume continues a paused run.
func (sm *Sim) Resume() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.active && !sm.stopping && !sm.Stepper.Active() {
		sm.Stepper.Enter(stepper.Running)
	}
}

// Stop ends the run after the step in progress and waits for it to finish.
// Stops a paused run too.
func (sm *Sim) Stop() error {
	if !sm.requestStop() {
		return nil
	}
	return sm.Wait()
}

// requestStop is Stop without waiting, and reports whether a run was active.
func (sm *Sim) requestStop() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if !sm.active {
		return false
	}
	sm.stopping = true
	sm.Stepper.Stop()
	return true
}

func (sm *Sim) loop(ctx context.Context, nsteps int) error {
	nt := sm.Net
	sc := nt.Sched
	if !sc.Running() {
		sc.Start()
		defer sc.Stop()
	}
	stopCancel := context.AfterFunc(ctx, func() { sm.requestStop() })
	defer stopCancel()

	log.Printf("%v: run %v starting at step %d\n", nt.Name(), sm.RunID, nt.Time.Step)
	sm.Timer.Start()
	defer sm.Timer.Stop()

	var err error
	for n := 0; nsteps <= 0 || n < nsteps; n++ {
		if ctx.Err() != nil || sm.Stepper.StepPoint(stepGrain) {
			break
		}
		if err = nt.Cycle(); err != nil {
			break
		}
		sm.mu.Lock()
		sm.steps++
		sm.mu.Unlock()
		for _, fun := range sm.hooks {
			fun(nt)
		}
		if iv := sm.Params.ViewInterval; iv > 0 && nt.Time.Step%iv == 0 {
			sm.post(NewSnapshot(nt))
		}
		if sm.Params.SlowDelay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(sm.Params.SlowDelay):
			}
		}
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		log.Printf("%v: run %v halted at step %d: %v\n", nt.Name(), sm.RunID, nt.Time.Step, err)
	} else {
		log.Printf("%v: run %v finished at step %d\n", nt.Name(), sm.RunID, nt.Time.Step)
	}
	return err
}

// post adds a snapshot to the mailbox, first dropping the oldest if it is full.
func (sm *Sim) post(ss *Snapshot) {
	ss.RunID = sm.RunID
	for {
		select {
		case sm.snaps <- ss:
			return
		default:
		}
		select {
		case <-sm.snaps:
		default:
		}
	}
}
