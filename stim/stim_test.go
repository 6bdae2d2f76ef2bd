// Copyright (c) 2024, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stim

import (
	"math"
	"sync"
	"testing"

	"github.com/expresscogs/spikenet/spike"
)

const difTol = 1.0e-12

func TestAdditive(t *testing.T) {
	ad := NewAdditive(NewConstant(1), NewConstant(2), &Null{})
	ad.Bind(4)
	out := ad.Generate()
	if len(out) != 4 {
		t.Fatalf("len err: %v", len(out))
	}
	for i, v := range out {
		if math.Abs(v-3) > difTol {
			t.Errorf("sum err: idx: %v, %v != 3", i, v)
		}
	}
}

func TestAdditiveNoise(t *testing.T) {
	const seed = 42
	a, b := NewUniformNoise(1), NewAutoCorrNoise(2)
	ad := NewAdditive(a, b)
	ad.Bind(10)
	ad.Seed(seed)

	// independently maintained children seeded the same way
	ra, rb := NewUniformNoise(1), NewAutoCorrNoise(2)
	ra.Bind(10)
	rb.Bind(10)
	ra.Seed(spike.SubSeed(seed, 0, 0))
	rb.Seed(spike.SubSeed(seed, 0, 1))

	for step := 0; step < 20; step++ {
		out := ad.Generate()
		va := ra.Generate()
		vb := rb.Generate()
		for i := range out {
			if math.Abs(out[i]-(va[i]+vb[i])) > difTol {
				t.Errorf("sum err: step: %v idx: %v, %v != %v + %v", step, i, out[i], va[i], vb[i])
			}
		}
	}
}

func TestUniformNoise(t *testing.T) {
	un := NewUniformNoise(0.5)
	un.Bind(1000)
	un.Seed(7)
	out := un.Generate()
	sum := 0.0
	for i, v := range out {
		if v < 0 || v >= 0.5 {
			t.Errorf("range err: idx: %v, %v", i, v)
		}
		sum += v
	}
	if mean := sum / 1000; math.Abs(mean-0.25) > 0.03 {
		t.Errorf("mean err: %v != 0.25", mean)
	}
}

func TestAutoCorrNoise(t *testing.T) {
	an := NewAutoCorrNoise(1e-3)
	an.Bind(50)
	an.Seed(3)
	prv := make([]float64, 50)
	for step := 0; step < 500; step++ {
		out := an.Generate()
		for i, v := range out {
			if v < 0 || v > 1e-3 {
				t.Errorf("range err: step: %v idx: %v, %v", step, i, v)
			}
			// at most Step * Scale above the decayed previous value
			if v > prv[i]*0.9+1e-4+difTol {
				t.Errorf("increment err: step: %v idx: %v, %v from %v", step, i, v, prv[i])
			}
		}
		copy(prv, out)
	}
}

func TestShapes(t *testing.T) {
	x := []float64{0.5, 0.55, 0.6, 0.65, 0.7}
	dst := make([]float64, len(x))

	Triangle.Profile(dst, x, 0.5, 0.1, 2)
	cor := []float64{2, 1, 0, 0, 0}
	for i := range cor {
		if math.Abs(dst[i]-cor[i]) > 1e-9 {
			t.Errorf("triangle err: idx: %v, %v != %v", i, dst[i], cor[i])
		}
	}

	Notch.Profile(dst, x, 0.5, 0.2, 2)
	cor = []float64{2, 2, 0, 0, 0}
	for i := range cor {
		if math.Abs(dst[i]-cor[i]) > 1e-9 {
			t.Errorf("notch err: idx: %v, %v != %v", i, dst[i], cor[i])
		}
	}

	Gaussian.Profile(dst, x, 0.5, 0.2, 2)
	if math.Abs(dst[0]-2) > difTol {
		t.Errorf("gaussian peak err: %v", dst[0])
	}
	// exp(-0.1^2 / 0.01) = exp(-1)
	if math.Abs(dst[2]-2*math.Exp(-1)) > 1e-9 {
		t.Errorf("gaussian err: %v != %v", dst[2], 2*math.Exp(-1))
	}

	var sh Shapes
	if err := sh.UnmarshalText([]byte("notch")); err != nil || sh != Notch {
		t.Errorf("UnmarshalText err: %v %v", sh, err)
	}
}

func TestPeriodic(t *testing.T) {
	pg := NewPeriodic()
	pg.Noise = 0
	pg.Duration = 3
	pg.Interval = 2
	pg.NStim = 1
	pg.Bind(101)
	pg.Seed(5)
	for step := 0; step < 10; step++ {
		out := pg.Generate()
		on := step%5 < 3
		if pg.On != on {
			t.Errorf("state err: step: %v on %v != %v", step, pg.On, on)
		}
		mx := 0.0
		for _, v := range out {
			mx = math.Max(mx, v)
		}
		if on {
			// peak is within one position step of the center
			if mx < 0.85*pg.Intensity || mx > pg.Intensity+difTol {
				t.Errorf("peak err: step: %v max %v", step, mx)
			}
			if c := pg.Centers[0]; c < pg.Width || c > 1-pg.Width {
				t.Errorf("center err: %v", c)
			}
		} else if math.Abs(mx-pg.Intensity/101) > difTol {
			t.Errorf("off err: step: %v max %v", step, mx)
		}
	}
}

func TestContinuous(t *testing.T) {
	cs := NewContinuous()
	par := cs.Params()
	par.Noise = 0
	par.Position = 0.3
	cs.SetParams(par)
	cs.Bind(101)
	cs.Seed(9)
	stim := cs.Stimulus()
	if math.Abs(stim[30]-par.Intensity) > 1e-12 {
		t.Errorf("peak err: %v != %v", stim[30], par.Intensity)
	}
	for i, s := range stim {
		if s > par.Intensity+difTol || s < 0 {
			t.Errorf("range err: idx: %v, %v", i, s)
		}
	}
	out := cs.Generate()
	for i := range out {
		if out[i] < 0 || out[i] > stim[i] {
			t.Errorf("scale err: idx: %v, %v not in [0, %v]", i, out[i], stim[i])
		}
	}
	cs.SetPosition(0.7)
	stim = cs.Stimulus()
	if math.Abs(stim[70]-par.Intensity) > 1e-12 {
		t.Errorf("moved peak err: %v", stim[70])
	}
}

func TestTopological(t *testing.T) {
	ts := NewTopological()
	ts.Bind(101)
	ts.Seed(11)
	ts.Generate()
	par := ts.Params()
	if par.Position < 0.05 || par.Position >= 0.95 {
		t.Errorf("randomized position err: %v", par.Position)
	}
	if snr := par.SNR(); snr < 0 || snr >= 2 {
		t.Errorf("randomized snr err: %v", snr)
	}
	stim := ts.Stimulus()
	for i := 0; i < 5; i++ {
		if stim[i] != 0 || stim[100-i] != 0 {
			t.Errorf("edge err: idx: %v, %v %v", i, stim[i], stim[100-i])
		}
	}
	if stim[50] < par.Noise {
		t.Errorf("interior err: %v < noise %v", stim[50], par.Noise)
	}
	// position holds until the next interval
	for step := 1; step < 10; step++ {
		ts.Generate()
	}
	if ts.Params().Position != par.Position {
		t.Errorf("position changed before interval")
	}
}

func TestStimulusConcurrent(t *testing.T) {
	cs := NewContinuous()
	cs.Bind(50)
	cs.Seed(3)
	ts := NewTopological()
	ts.Bind(50)
	ts.Seed(4)
	par := ts.Params()
	par.Interval = 1
	ts.SetParams(par)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			cs.Generate()
			ts.Generate()
		}
	}()
	for i := 0; i < 200; i++ {
		cs.SetPosition(float64(i%10) / 10)
		for _, s := range cs.Stimulus() {
			if s < 0 || math.IsNaN(s) {
				t.Fatalf("continuous stimulus err: %v", s)
			}
		}
		for _, s := range ts.Stimulus() {
			if s < 0 || math.IsNaN(s) {
				t.Fatalf("topological stimulus err: %v", s)
			}
		}
	}
	wg.Wait()

	// callers get their own copy
	cs.SetPosition(0.9)
	stim := cs.Stimulus()
	s0 := stim[44]
	cs.SetPosition(0.1)
	cs.Stimulus()
	if stim[44] != s0 {
		t.Errorf("continuous stimulus shares memory")
	}
	par = ts.Params()
	par.Randomize = false
	par.Intensity = 1e-3
	par.Position = 0.2
	ts.SetParams(par)
	stim = ts.Stimulus()
	s0 = stim[10]
	par.Position = 0.8
	ts.SetParams(par)
	ts.Stimulus()
	if stim[10] != s0 {
		t.Errorf("topological stimulus shares memory")
	}
}
