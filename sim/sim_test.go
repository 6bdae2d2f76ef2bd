// Copyright (c) 2024, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/expresscogs/spikenet/spike"
	"github.com/expresscogs/spikenet/stim"
	"github.com/pkg/errors"
)

func testNet(t *testing.T, sc *spike.Scheduler, gen spike.InputGenerator) *spike.Network {
	nt := spike.NewNetwork("simtest", 11, sc)
	exc, err := nt.AddLIF("Exc", 40, true, gen)
	if err != nil {
		t.Fatal(err)
	}
	inh, err := nt.AddAdEx("Inh", 10, false, stim.NewUniformNoise(1e-9))
	if err != nil {
		t.Fatal(err)
	}
	sp := spike.SynParams{}
	sp.Defaults()
	sp.Wt.Scale = 1e-4
	if _, err := nt.Connect("ExcExc", exc, exc, spike.NewNeighborTopo(0.2, 0.1), sp); err != nil {
		t.Fatal(err)
	}
	if _, err := nt.Connect("InhExc", inh, exc, spike.NewUniformTopo(0.2), sp); err != nil {
		t.Fatal(err)
	}
	if err := nt.Build(); err != nil {
		t.Fatal(err)
	}
	return nt
}

func waitState(t *testing.T, sm *Sim, st States) {
	deadline := time.Now().Add(5 * time.Second)
	for sm.State() != st {
		if time.Now().After(deadline) {
			t.Fatalf("timeout waiting for state %v, at %v", st, sm.State())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestRun(t *testing.T) {
	nt := testNet(t, nil, stim.NewUniformNoise(5e-4))
	sm := NewSim(nt, nil)
	if sm.State() != Idle {
		t.Errorf("state err: %v", sm.State())
	}
	nhook := 0
	sm.OnStep(func(nt *spike.Network) { nhook++ })
	if err := sm.Run(context.Background(), 100); err != nil {
		t.Fatal(err)
	}
	if sm.Steps() != 100 || nt.Time.Step != 100 || nhook != 100 {
		t.Errorf("steps err: %v %v %v", sm.Steps(), nt.Time.Step, nhook)
	}
	if sm.State() != Stopped || sm.RunID == "" {
		t.Errorf("state err: %v id: %q", sm.State(), sm.RunID)
	}
	if sm.Timer.TotalSecs() <= 0 {
		t.Errorf("timer did not run")
	}

	// only the newest snapshot is kept
	var ss *Snapshot
	select {
	case ss = <-sm.Snapshots():
	default:
		t.Fatal("no snapshot")
	}
	if ss.Step != 100 || ss.RunID != sm.RunID {
		t.Errorf("snapshot err: step %v id %v", ss.Step, ss.RunID)
	}
	exc := ss.Group("Exc")
	if exc == nil || len(exc.V) != 40 || ss.Group("Inh").W == nil {
		t.Fatalf("snapshot groups err")
	}
	v0 := exc.V[0]
	nt.Groups[0].AsNeurons().V[0] = 123
	if exc.V[0] != v0 {
		t.Errorf("snapshot shares memory with network")
	}

	// runs continue from the current step
	if err := sm.Run(context.Background(), 10); err != nil {
		t.Fatal(err)
	}
	if sm.Steps() != 10 || nt.Time.Step != 110 {
		t.Errorf("second run err: %v %v", sm.Steps(), nt.Time.Step)
	}
}

func TestQueueDepth(t *testing.T) {
	nt := testNet(t, nil, stim.NewUniformNoise(5e-4))
	sm := NewSim(nt, &Params{ViewInterval: 5, QueueDepth: 3})
	if err := sm.Run(context.Background(), 50); err != nil {
		t.Fatal(err)
	}
	for _, step := range []int{40, 45, 50} {
		select {
		case ss := <-sm.Snapshots():
			if ss.Step != step {
				t.Errorf("queue err: %v != %v", ss.Step, step)
			}
		default:
			t.Fatalf("missing snapshot for step %v", step)
		}
	}
}

func TestPauseResume(t *testing.T) {
	nt := testNet(t, spike.NewScheduler(3), stim.NewUniformNoise(5e-4))
	sm := NewSim(nt, nil)
	sm.OnStep(func(nt *spike.Network) {
		if nt.Time.Step == 30 {
			sm.Pause()
		}
	})
	if err := sm.Start(context.Background(), 100); err != nil {
		t.Fatal(err)
	}
	if err := sm.Start(context.Background(), 100); err != ErrRunning {
		t.Errorf("expected ErrRunning, got %v", err)
	}
	waitState(t, sm, Paused)
	time.Sleep(20 * time.Millisecond)
	if n := sm.Steps(); n != 30 {
		t.Errorf("paused run advanced: %v", n)
	}
	if sm.Stepper.Active() {
		t.Errorf("stepper active while paused")
	}
	sm.Resume()
	if err := sm.Wait(); err != nil {
		t.Fatal(err)
	}
	if n := sm.Steps(); n != 100 {
		t.Errorf("steps after resume: %v", n)
	}
	if nt.Sched.Running() {
		t.Errorf("scheduler left running")
	}
	if sm.Stepper.Active() || sm.State() != Stopped {
		t.Errorf("stepper err: %v %v", sm.Stepper.Active(), sm.State())
	}
}

func TestStop(t *testing.T) {
	nt := testNet(t, nil, stim.NewUniformNoise(5e-4))
	sm := NewSim(nt, nil)
	sm.OnStep(func(nt *spike.Network) {
		if nt.Time.Step == 20 {
			sm.Pause()
		}
	})
	if err := sm.Start(context.Background(), 0); err != nil {
		t.Fatal(err)
	}
	waitState(t, sm, Paused)
	if err := sm.Stop(); err != nil {
		t.Fatal(err)
	}
	if sm.State() != Stopped || sm.Steps() != 20 {
		t.Errorf("stop err: %v %v", sm.State(), sm.Steps())
	}
	if err := sm.Stop(); err != nil {
		t.Errorf("second stop: %v", err)
	}
}

func TestCancel(t *testing.T) {
	nt := testNet(t, nil, stim.NewUniformNoise(5e-4))
	sm := NewSim(nt, &Params{ViewInterval: 1, QueueDepth: 1, SlowDelay: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sm.OnStep(func(nt *spike.Network) {
		if nt.Time.Step == 15 {
			cancel()
		}
	})
	err := sm.Run(ctx, 0)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if sm.Steps() != 15 {
		t.Errorf("steps after cancel: %v", sm.Steps())
	}
}

func TestCancelPaused(t *testing.T) {
	nt := testNet(t, nil, stim.NewUniformNoise(5e-4))
	sm := NewSim(nt, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sm.OnStep(func(nt *spike.Network) {
		if nt.Time.Step == 10 {
			sm.Pause()
		}
	})
	if err := sm.Start(ctx, 0); err != nil {
		t.Fatal(err)
	}
	waitState(t, sm, Paused)
	cancel()
	if err := sm.Wait(); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if sm.Steps() != 10 || sm.State() != Stopped {
		t.Errorf("cancel err: %v %v", sm.Steps(), sm.State())
	}
}

func TestIdleControls(t *testing.T) {
	nt := testNet(t, nil, stim.NewUniformNoise(5e-4))
	sm := NewSim(nt, nil)
	sm.Pause()
	sm.Resume()
	if err := sm.Stop(); err != nil {
		t.Errorf("stop while idle: %v", err)
	}
	if sm.State() != Idle || sm.Stepper.Active() {
		t.Errorf("idle err: %v %v", sm.State(), sm.Stepper.Active())
	}
	// a pause requested before the run does not carry into it
	if err := sm.Run(context.Background(), 5); err != nil {
		t.Fatal(err)
	}
	if sm.Steps() != 5 {
		t.Errorf("steps err: %v", sm.Steps())
	}
}

func TestDivergedHalt(t *testing.T) {
	nt := testNet(t, nil, stim.NewConstant(math.Inf(1)))
	sm := NewSim(nt, nil)
	err := sm.Run(context.Background(), 100)
	if !errors.Is(err, spike.ErrDiverged) {
		t.Fatalf("expected ErrDiverged, got %v", err)
	}
	if sm.Steps() != 0 || sm.State() != Stopped {
		t.Errorf("halt err: %v %v", sm.Steps(), sm.State())
	}
	if err := sm.Run(context.Background(), 1); !errors.Is(err, spike.ErrDiverged) {
		t.Errorf("failure not kept by network: %v", err)
	}
}

func TestStates(t *testing.T) {
	var st States
	if err := st.UnmarshalText([]byte("paused")); err != nil || st != Paused {
		t.Errorf("unmarshal err: %v %v", st, err)
	}
	if err := st.UnmarshalText([]byte("Walking")); err == nil {
		t.Errorf("expected error for unknown state")
	}
}
