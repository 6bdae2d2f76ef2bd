// Copyright (c) 2024, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import (
	"github.com/expresscogs/spikenet/lif"
	"golang.org/x/exp/rand"
)

// LIFGroup is a group of leaky integrate-and-fire neurons.
type LIFGroup struct {
	Neurons
	Params lif.Params `desc:"membrane and conductance decay constants"`
}

// NewLIFGroup returns a new LIF group with default parameters. Positions and
// state are allocated when the network is built.
func NewLIFGroup(name string, size int, exc bool, gen InputGenerator) *LIFGroup {
	lg := &LIFGroup{}
	lg.Nm = name
	lg.N = size
	lg.Exc = exc
	lg.Gen = gen
	lg.Defaults()
	return lg
}

func (lg *LIFGroup) AsNeurons() *Neurons { return &lg.Neurons }
func (lg *LIFGroup) Model() Models       { return LIF }
func (lg *LIFGroup) neuronGroup()        {}

func (lg *LIFGroup) Defaults() {
	lg.Params.Defaults()
	lg.Clamp = ClampParams{On: true, GEMax: 4e-3, GIMax: 4e-3}
}

func (lg *LIFGroup) Validate() error {
	if err := lg.validate(); err != nil {
		return err
	}
	if err := lg.Params.Validate(); err != nil {
		return configErr("neuron group %q: %v", lg.Nm, err)
	}
	return nil
}

// Init places the neurons (evenly spaced by default) and draws each initial
// potential uniformly between VRest and VThresh.
func (lg *LIFGroup) Init(rnd *rand.Rand) {
	if len(lg.V) != lg.N {
		lg.alloc()
	}
	lg.Params.Update()
	lg.initLayout(LinearLayout, rnd)
	for i := range lg.V {
		lg.V[i] = lg.Params.InitV(rnd.Float64())
	}
	lg.clearState()
}

// Update detects and resets spikes, then integrates one step.
// Spk reflects the potentials at the start of the step.
func (lg *LIFGroup) Update(step int, dend []*SynapseGroup) error {
	lp := &lg.Params
	for i, v := range lg.V {
		spk := lp.Spiked(v)
		lg.Spk[i] = spk
		if spk {
			lg.V[i] = lp.VRest
			lg.GE[i] = 0
			lg.GI[i] = 0
		}
	}
	if err := lg.gatherInput(step, dend, lp.GEDecay, lp.GIDecay); err != nil {
		return err
	}
	for i, v := range lg.V {
		lg.V[i] = v + lp.Dv(v, lg.I[i])
	}
	return lg.checkFinite(step, lg.V, "v")
}
