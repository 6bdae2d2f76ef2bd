// Copyright (c) 2024, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stim

import (
	"sync"

	"gonum.org/v1/gonum/floats"
)

// ContinuousParams are the settings of a Continuous stimulus.
type ContinuousParams struct {
	Position  float64 `def:"0.5" min:"0" max:"1" desc:"center of the stimulus"`
	Width     float64 `def:"0.1" min:"0" desc:"width of the Gaussian bump"`
	Intensity float64 `def:"0.5e-3" desc:"peak of the bump"`
	Noise     float64 `def:"0.5e-3" desc:"constant added to the bump before random scaling"`
}

func (cp *ContinuousParams) Defaults() {
	cp.Position = 0.5
	cp.Width = 0.1
	cp.Intensity = 0.5e-3
	cp.Noise = 0.5e-3
}

// SNR returns the signal to noise ratio.
func (cp *ContinuousParams) SNR() float64 {
	if cp.Noise == 0 {
		return 0
	}
	return cp.Intensity / cp.Noise
}

// SetSNR sets the intensity to the given multiple of the noise.
func (cp *ContinuousParams) SetSNR(snr float64) { cp.Intensity = snr * cp.Noise }

// Continuous presents a steady Gaussian bump at Position, normalized so its
// peak over the bound neurons is Intensity, plus Noise. Neurons within 0.05
// of either edge get 90% of that. Each step every neuron receives a uniform
// random fraction of its value. Params may be changed while running.
type Continuous struct {
	randSrc
	mu   sync.Mutex
	par  ContinuousParams
	x    []float64
	stim []float64
	out  []float64
}

// NewContinuous returns a continuous stimulus with default parameters.
func NewContinuous() *Continuous {
	cs := &Continuous{}
	cs.par.Defaults()
	return cs
}

// Params returns a copy of the current parameters.
func (cs *Continuous) Params() ContinuousParams {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.par
}

// SetParams replaces the parameters, effective from the next step.
func (cs *Continuous) SetParams(par ContinuousParams) {
	cs.mu.Lock()
	cs.par = par
	cs.mu.Unlock()
}

// Location returns the current stimulus center and width.
func (cs *Continuous) Location() (pos, width float64) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.par.Position, cs.par.Width
}

// SetPosition moves the stimulus.
func (cs *Continuous) SetPosition(pos float64) {
	cs.mu.Lock()
	cs.par.Position = pos
	cs.mu.Unlock()
}

func (cs *Continuous) Bind(n int) {
	cs.mu.Lock()
	cs.stim = make([]float64, n)
	cs.out = make([]float64, n)
	cs.x = linearX(n)
	cs.mu.Unlock()
}

func (cs *Continuous) BindPositions(x, y []float64) {
	cs.mu.Lock()
	cs.x = x
	cs.mu.Unlock()
}

// Stimulus returns a copy of the stimulus before random scaling.
func (cs *Continuous) Stimulus() []float64 {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.update()
	return append([]float64(nil), cs.stim...)
}

// update computes the stimulus into cs.stim. Must hold mu.
func (cs *Continuous) update() {
	par := &cs.par
	Gaussian.Profile(cs.stim, cs.x, par.Position, par.Width, 1)
	if mx := floats.Max(cs.stim); mx > 0 {
		floats.Scale(par.Intensity/mx, cs.stim)
	}
	floats.AddConst(par.Noise, cs.stim)
	for i, x := range cs.x {
		if x < 0.05 || x > 0.95 {
			cs.stim[i] *= 0.9
		}
	}
}

func (cs *Continuous) Generate() []float64 {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.update()
	for i, s := range cs.stim {
		cs.out[i] = cs.float() * s
	}
	return cs.out
}
