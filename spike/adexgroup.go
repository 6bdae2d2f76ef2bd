// Copyright (c) 2024, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import (
	"github.com/expresscogs/spikenet/adex"
	"golang.org/x/exp/rand"
)

// AdExGroup is a group of adaptive exponential integrate-and-fire neurons.
type AdExGroup struct {
	Neurons
	Params adex.Params `desc:"membrane, adaptation and conductance decay constants"`
	W      []float64   `desc:"adaptation current"`
}

// NewAdExGroup returns a new AdEx group with default (regular spiking) parameters.
func NewAdExGroup(name string, size int, exc bool, gen InputGenerator) *AdExGroup {
	ag := &AdExGroup{}
	ag.Nm = name
	ag.N = size
	ag.Exc = exc
	ag.Gen = gen
	ag.Defaults()
	return ag
}

func (ag *AdExGroup) AsNeurons() *Neurons { return &ag.Neurons }
func (ag *AdExGroup) Model() Models       { return AdEx }
func (ag *AdExGroup) neuronGroup()        {}

// Adaptation returns the adaptation current vector.
func (ag *AdExGroup) Adaptation() []float64 { return ag.W }

func (ag *AdExGroup) Defaults() {
	ag.Params.Defaults()
	ag.Clamp = ClampParams{On: false, GEMax: 1e-9, GIMax: 1e-9}
}

func (ag *AdExGroup) Validate() error {
	if err := ag.validate(); err != nil {
		return err
	}
	if err := ag.Params.Validate(); err != nil {
		return configErr("neuron group %q: %v", ag.Nm, err)
	}
	return nil
}

// Init places the neurons (randomly by default) and draws each initial
// potential uniformly between EL and VCut.
func (ag *AdExGroup) Init(rnd *rand.Rand) {
	if len(ag.V) != ag.N {
		ag.alloc()
		ag.W = make([]float64, ag.N)
	}
	ag.Params.Update()
	ag.initLayout(RandomLayout, rnd)
	for i := range ag.V {
		ag.V[i] = ag.Params.InitV(rnd.Float64())
		ag.W[i] = 0
	}
	ag.clearState()
}

// Update detects and resets spikes, then integrates v and w one step,
// both from the potential before integration.
func (ag *AdExGroup) Update(step int, dend []*SynapseGroup) error {
	ap := &ag.Params
	for i, v := range ag.V {
		spk := ap.Spiked(v)
		ag.Spk[i] = spk
		if spk {
			ag.V[i] = ap.VR
			ag.W[i] += ap.B
			ag.GE[i] = 0
			ag.GI[i] = 0
		}
	}
	if err := ag.gatherInput(step, dend, ap.GEDecay, ap.GIDecay); err != nil {
		return err
	}
	for i, v := range ag.V {
		w := ag.W[i]
		dv := ap.Dv(v, w, ag.I[i])
		dw := ap.Dw(v, w)
		ag.V[i] = v + dv
		ag.W[i] = w + dw
	}
	if err := ag.checkFinite(step, ag.V, "v"); err != nil {
		return err
	}
	return ag.checkFinite(step, ag.W, "w")
}
