// Copyright (c) 2024, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import (
	"math"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

// mixedNet builds a small network with both models, recurrent and delayed
// pathways and noisy input.
func mixedNet(t *testing.T, sc *Scheduler) *Network {
	nt := NewNetwork("mixed", 1234, sc)
	ctx, err := nt.AddLIF("CTX", 60, true, &noiseGen{scale: 5e-4})
	if err != nil {
		t.Fatal(err)
	}
	inh, err := nt.AddLIF("INH", 20, false, &noiseGen{scale: 1e-4})
	if err != nil {
		t.Fatal(err)
	}
	adx, err := nt.AddAdEx("ADX", 30, true, &noiseGen{scale: 1.5e-9})
	if err != nil {
		t.Fatal(err)
	}
	sp := SynParams{}
	sp.Defaults()
	sp.Wt.Scale = 1e-3
	asp := sp
	asp.Wt.Scale = 1e-10
	conns := []struct {
		nm       string
		src, tgt NeuronGroup
		topo     Topology
		sp       SynParams
	}{
		{"CTXCTX", ctx, ctx, NewNeighborTopo(0.2, 0.1), sp},
		{"CTXINH", ctx, inh, NewUniformTopo(0.3), sp},
		{"INHCTX", inh, ctx, NewSurroundTopo(0.2, 0.1), sp},
		{"CTXADX", ctx, adx, NewUniformTopo(0.2), asp},
		{"ADXCTX", adx, ctx, NewNeighborTopo(0.2, 0.25), sp},
	}
	for _, c := range conns {
		if _, err := nt.Connect(c.nm, c.src, c.tgt, c.topo, c.sp); err != nil {
			t.Fatal(err)
		}
	}
	if err := nt.Build(); err != nil {
		t.Fatal(err)
	}
	return nt
}

func TestParallelSerial(t *testing.T) {
	ser := mixedNet(t, NewScheduler(1))
	sc := NewScheduler(4)
	sc.Start()
	defer sc.Stop()
	par := mixedNet(t, sc)

	nspk := 0
	for step := 0; step < 300; step++ {
		if err := ser.Cycle(); err != nil {
			t.Fatal(err)
		}
		if err := par.Cycle(); err != nil {
			t.Fatal(err)
		}
		for gi := range ser.Groups {
			sn := ser.Groups[gi].AsNeurons()
			pn := par.Groups[gi].AsNeurons()
			for i := range sn.V {
				if sn.V[i] != pn.V[i] || sn.Spk[i] != pn.Spk[i] {
					t.Fatalf("parallel err: step: %v group: %v idx: %v, v %v != %v", step, sn.Nm, i, sn.V[i], pn.V[i])
				}
			}
			nspk += sn.NSpikes()
		}
	}
	if nspk == 0 {
		t.Errorf("no spikes in 300 steps -- test does not exercise propagation")
	}
	if !strings.Contains(par.TimerReport(), "SynapseUpdate") {
		t.Errorf("timer report missing phase")
	}
}

func TestTwoNeuron(t *testing.T) {
	gen := &constGen{}
	nt := NewNetwork("two", 7, nil)
	lg, err := nt.AddLIF("LIF", 2, true, gen)
	if err != nil {
		t.Fatal(err)
	}
	sp := SynParams{}
	sp.Defaults()
	if _, err := nt.Connect("Rec", lg, lg, NewUniformTopo(1), sp); err != nil {
		t.Fatal(err)
	}
	if err := nt.Build(); err != nil {
		t.Fatal(err)
	}
	if n := nt.PathByName("Rec").NSyn(); n != 2 {
		t.Fatalf("recurrent synapses: %v != 2", n)
	}

	gen.val = 0.5 * lg.Params.Rheobase()
	for step := 0; step < 2000; step++ {
		if err := nt.Cycle(); err != nil {
			t.Fatal(err)
		}
		if lg.NSpikes() > 0 {
			t.Fatalf("sub-threshold input spiked at step %v", step)
		}
	}

	lp := &lg.Params
	gen.val = (lp.VThresh - lp.VRest) / lp.VDecay
	spiked := false
	for step := 0; step < 3; step++ {
		if err := nt.Cycle(); err != nil {
			t.Fatal(err)
		}
		if lg.NSpikes() == 2 {
			spiked = true
			break
		}
	}
	if !spiked {
		t.Errorf("supra-threshold input did not spike within 3 steps")
	}

	nt.Reset()
	gen.val = 1.5 * lp.Rheobase()
	spiked = false
	for step := 0; step < 1000 && !spiked; step++ {
		if err := nt.Cycle(); err != nil {
			t.Fatal(err)
		}
		spiked = lg.NSpikes() > 0
	}
	if !spiked {
		t.Errorf("input above rheobase did not spike within 1000 steps")
	}
}

func TestReset(t *testing.T) {
	nt := mixedNet(t, nil)
	run := func() [][]float64 {
		var vs [][]float64
		for step := 0; step < 50; step++ {
			if err := nt.Cycle(); err != nil {
				t.Fatal(err)
			}
			vs = append(vs, append([]float64(nil), nt.Groups[0].AsNeurons().V...))
		}
		return vs
	}
	a := run()
	if ft := nt.Sched.FunTimes["SynapseUpdate"]; ft == nil || ft.N != 50 {
		t.Fatalf("phase timer err: %v", ft)
	}
	if err := nt.Reset(); err != nil {
		t.Fatal(err)
	}
	if nt.Time.Step != 0 {
		t.Errorf("reset step err: %v", nt.Time.Step)
	}
	if ft := nt.Sched.FunTimes["SynapseUpdate"]; ft.N != 0 || ft.Total != 0 {
		t.Errorf("reset timer err: %v %v", ft.N, ft.Total)
	}
	b := run()
	for s := range a {
		for i := range a[s] {
			if a[s][i] != b[s][i] {
				t.Fatalf("reset err: step: %v idx: %v, %v != %v", s, i, a[s][i], b[s][i])
			}
		}
	}
}

func TestWorkerPanic(t *testing.T) {
	sc := NewScheduler(2)
	sc.Start()
	defer sc.Stop()
	nt := NewNetwork("panic", 1, sc)
	src, _ := nt.AddLIF("Src", 10, true, &constGen{val: 1})
	bad, _ := nt.AddLIF("Bad", 10, true, &panicGen{})
	sp := SynParams{}
	sp.Defaults()
	sg, err := nt.Connect("SrcBad", src, bad, NewUniformTopo(1), sp)
	if err != nil {
		t.Fatal(err)
	}
	if err := nt.Build(); err != nil {
		t.Fatal(err)
	}
	// drive Src over threshold so phase 2 would post conductance if it ran
	for i := range src.V {
		src.V[i] = 0
	}
	err = nt.Cycle()
	if !errors.Is(err, ErrWorker) {
		t.Fatalf("expected ErrWorker, got %v", err)
	}
	if sg.Pending() != 0 {
		t.Errorf("synapse phase ran after failed neuron phase")
	}
	if nt.Time.Step != 0 {
		t.Errorf("step advanced after failure: %v", nt.Time.Step)
	}
	if err2 := nt.Cycle(); !errors.Is(err2, ErrWorker) {
		t.Errorf("failure not latched: %v", err2)
	}
}

func TestDivergedNetwork(t *testing.T) {
	nt := NewNetwork("div", 1, nil)
	gen := &constGen{val: math.Inf(1)}
	if _, err := nt.AddLIF("LIF", 4, true, gen); err != nil {
		t.Fatal(err)
	}
	if err := nt.Build(); err != nil {
		t.Fatal(err)
	}
	err := nt.Cycle()
	if !errors.Is(err, ErrDiverged) {
		t.Fatalf("expected ErrDiverged, got %v", err)
	}
	if !errors.Is(nt.Failed(), ErrDiverged) {
		t.Errorf("failure not recorded")
	}
	gen.val = 0
	if err := nt.Reset(); err != nil {
		t.Fatal(err)
	}
	if err := nt.Cycle(); err != nil {
		t.Errorf("reset did not clear failure: %v", err)
	}
}

func TestSchedStopped(t *testing.T) {
	nt := NewNetwork("stopped", 1, NewScheduler(2))
	if _, err := nt.AddLIF("LIF", 4, true, nil); err != nil {
		t.Fatal(err)
	}
	if err := nt.Build(); err != nil {
		t.Fatal(err)
	}
	if err := nt.Cycle(); !errors.Is(err, ErrSchedStopped) {
		t.Errorf("expected ErrSchedStopped, got %v", err)
	}
}

func TestSchedulerRun(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")
	for _, nthr := range []int{1, 3} {
		sc := NewScheduler(nthr)
		sc.Start()
		done := make([]bool, 10)
		if err := sc.Run(len(done), func(i int) error { done[i] = true; return nil }, "mark"); err != nil {
			t.Fatal(err)
		}
		for i, d := range done {
			if !d {
				t.Errorf("threads: %v, item %v not run", nthr, i)
			}
		}
		err := sc.Run(10, func(i int) error {
			switch i {
			case 4:
				return errA
			case 7:
				return errB
			}
			return nil
		}, "fail")
		if err != errA {
			t.Errorf("threads: %v, expected lowest item error, got %v", nthr, err)
		}
		// fewer items than threads
		if err := sc.Run(1, func(i int) error { return nil }, "one"); err != nil {
			t.Errorf("threads: %v, single item err: %v", nthr, err)
		}
		sc.Stop()
	}
}

func TestBuildErrors(t *testing.T) {
	nt := NewNetwork("errs", 1, nil)
	if _, err := nt.AddLIF("Zero", 0, true, nil); !errors.Is(err, ErrConfig) {
		t.Errorf("zero size: expected ErrConfig, got %v", err)
	}
	if _, err := nt.AddAdEx("Neg", -3, true, nil); !errors.Is(err, ErrConfig) {
		t.Errorf("negative size: expected ErrConfig, got %v", err)
	}
	a, _ := nt.AddLIF("A", 5, true, nil)
	if _, err := nt.AddLIF("A", 5, true, nil); !errors.Is(err, ErrConfig) {
		t.Errorf("duplicate: expected ErrConfig, got %v", err)
	}
	b, _ := nt.AddAdEx("B", 5, false, nil)
	if err := nt.Update(0); !errors.Is(err, ErrNotBuilt) {
		t.Errorf("expected ErrNotBuilt, got %v", err)
	}

	sp := SynParams{}
	sp.Defaults()
	bad := sp
	bad.Wt.Min, bad.Wt.Max = 2, 1
	if _, err := nt.Connect("AB", a, b, NewUniformTopo(0.5), bad); !errors.Is(err, ErrConfig) {
		t.Errorf("inverted weights: expected ErrConfig, got %v", err)
	}
	if _, err := nt.Connect("AB", a, b, NewUniformTopo(1.5), sp); !errors.Is(err, ErrConfig) {
		t.Errorf("pcon: expected ErrConfig, got %v", err)
	}
	if _, err := nt.Connect("AB", a, b, NewNeighborTopo(0.1, 0), sp); !errors.Is(err, ErrConfig) {
		t.Errorf("sigma: expected ErrConfig, got %v", err)
	}
	other := NewLIFGroup("Other", 5, true, nil)
	if _, err := nt.Connect("AO", a, other, NewUniformTopo(0.5), sp); !errors.Is(err, ErrConfig) {
		t.Errorf("foreign group: expected ErrConfig, got %v", err)
	}
	if _, err := nt.ConnectNames("AX", "A", "X", NewUniformTopo(0.5), sp); !errors.Is(err, ErrConfig) {
		t.Errorf("unknown group: expected ErrConfig, got %v", err)
	}
	if _, err := nt.ConnectNames("AB", "A", "B", NewUniformTopo(0.5), sp); err != nil {
		t.Fatal(err)
	}
	if _, err := nt.ConnectNames("AB", "B", "A", NewUniformTopo(0.5), sp); !errors.Is(err, ErrConfig) {
		t.Errorf("duplicate pathway: expected ErrConfig, got %v", err)
	}

	a.Params.VDecay = 2
	if err := nt.Build(); !errors.Is(err, ErrConfig) {
		t.Errorf("invalid params: expected ErrConfig, got %v", err)
	}
	a.Params.Defaults()
	if err := nt.Build(); err != nil {
		t.Fatal(err)
	}
	if _, err := nt.AddLIF("C", 5, true, nil); !errors.Is(err, ErrBuilt) {
		t.Errorf("add after build: expected ErrBuilt, got %v", err)
	}
	if _, err := nt.ConnectNames("BA", "B", "A", NewUniformTopo(0.5), sp); !errors.Is(err, ErrBuilt) {
		t.Errorf("connect after build: expected ErrBuilt, got %v", err)
	}
	if err := nt.Build(); !errors.Is(err, ErrBuilt) {
		t.Errorf("rebuild: expected ErrBuilt, got %v", err)
	}
	rep := nt.SizeReport()
	if !strings.Contains(rep, "Neurons: 10") {
		t.Errorf("size report err:\n%v", rep)
	}
	if nt.GroupByName("B") != b || nt.Dend[b.Index][0] != nt.PathByName("AB") {
		t.Errorf("lookup err")
	}
}
