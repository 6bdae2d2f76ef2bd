// Copyright (c) 2024, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stim

import (
	"sync"

	"gonum.org/v1/gonum/floats"
)

// TopoParams are the settings of a Topological stimulus.
type TopoParams struct {
	Shape     Shapes  `def:"Gaussian" desc:"spatial profile of the stimulus"`
	Position  float64 `def:"0.5" min:"0" max:"1" desc:"center of the stimulus"`
	Width     float64 `def:"0.125" min:"0" desc:"width of the stimulus"`
	Intensity float64 `def:"0.5e-3" desc:"peak of the profile"`
	Noise     float64 `def:"1e-3" desc:"constant added to the profile before random scaling"`
	Randomize bool    `def:"true" desc:"every Interval steps draw a new position in [0.05, 0.95) and signal to noise ratio in [0, 2)"`
	Interval  int     `def:"2000" min:"1" desc:"steps between randomizations"`
}

func (tp *TopoParams) Defaults() {
	tp.Shape = Gaussian
	tp.Position = 0.5
	tp.Width = 0.125
	tp.Intensity = 0.5e-3
	tp.Noise = 1e-3
	tp.Randomize = true
	tp.Interval = 2000
}

// SNR returns the signal to noise ratio.
func (tp *TopoParams) SNR() float64 {
	if tp.Noise == 0 {
		return 0
	}
	return tp.Intensity / tp.Noise
}

// SetSNR sets the intensity to the given multiple of the noise.
func (tp *TopoParams) SetSNR(snr float64) { tp.Intensity = snr * tp.Noise }

// Topological presents a stimulus of the given shape plus Noise, zero within
// 0.05 of either edge. Each step every neuron receives a uniform random
// fraction of its value. Params may be changed while running.
type Topological struct {
	randSrc
	mu    sync.Mutex
	par   TopoParams
	dirty bool
	step  int
	x     []float64
	stim  []float64
	out   []float64
}

// NewTopological returns a topological stimulus with default parameters.
func NewTopological() *Topological {
	ts := &Topological{dirty: true}
	ts.par.Defaults()
	return ts
}

// Params returns a copy of the current parameters.
func (ts *Topological) Params() TopoParams {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.par
}

// Location returns the current stimulus center and width, which change
// every Interval steps when Randomize is on.
func (ts *Topological) Location() (pos, width float64) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.par.Position, ts.par.Width
}

// SetParams replaces the parameters, effective from the next step.
func (ts *Topological) SetParams(par TopoParams) {
	ts.mu.Lock()
	ts.par = par
	ts.dirty = true
	ts.mu.Unlock()
}

func (ts *Topological) Bind(n int) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.step = 0
	ts.stim = make([]float64, n)
	ts.out = make([]float64, n)
	ts.x = linearX(n)
	ts.dirty = true
}

func (ts *Topological) BindPositions(x, y []float64) {
	ts.mu.Lock()
	ts.x = x
	ts.dirty = true
	ts.mu.Unlock()
}

// Stimulus returns a copy of the stimulus before random scaling.
func (ts *Topological) Stimulus() []float64 {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.update()
	return append([]float64(nil), ts.stim...)
}

// update regenerates the stimulus if parameters changed. Must hold mu.
func (ts *Topological) update() {
	if !ts.dirty {
		return
	}
	par := &ts.par
	par.Shape.Profile(ts.stim, ts.x, par.Position, par.Width, par.Intensity)
	floats.AddConst(par.Noise, ts.stim)
	for i, x := range ts.x {
		if x < 0.05 || x > 0.95 {
			ts.stim[i] = 0
		}
	}
	ts.dirty = false
}

func (ts *Topological) Generate() []float64 {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.par.Randomize && ts.par.Interval > 0 {
		if ts.step%ts.par.Interval == 0 {
			ts.par.Position = ts.float()*0.9 + 0.05
			ts.par.SetSNR(ts.float() * 2)
			ts.dirty = true
		}
		ts.step++
	}
	ts.update()
	for i, s := range ts.stim {
		ts.out[i] = ts.float() * s
	}
	return ts.out
}
