// Copyright (c) 2024, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package spike is the spiking network simulation kernel: populations of
identical point neurons (LIF or AdEx) connected by randomly generated,
delayed synaptic pathways, all advanced in lock-step by a two-phase
Network update.

Within a step, every NeuronGroup first detects spikes from its membrane
potential, resets the neurons that fired, and integrates its input current
plus the synaptic conductance delivered for this step. Only after all
groups are done does any SynapseGroup read its source spikes and post
weighted conductance into the future slot of its delay ring buffer given by
each synapse's delay.

Groups and pathways are owned by the Network and refer to each other by
index. Positions, initial potentials, connection masks, weights and delays
are all drawn at Network.Build from sources derived from the network seed,
so a run is reproducible regardless of the number of worker threads.
*/
package spike

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

// NeuronGroup is a population of neurons sharing one model. The set of
// implementations is closed: *LIFGroup and *AdExGroup.
type NeuronGroup interface {
	// AsNeurons returns the state shared by all models.
	AsNeurons() *Neurons

	// Model returns the neuron model.
	Model() Models

	// Defaults sets default parameters for the model.
	Defaults()

	// Validate checks the group configuration before Build.
	Validate() error

	// Init assigns positions and initial potentials and clears all other state.
	Init(rnd *rand.Rand)

	// Update advances the group one step, reading this step's conductance
	// from the given dendritic synapse groups.
	Update(step int, dend []*SynapseGroup) error

	neuronGroup()
}

// ClampParams cap the excitatory and inhibitory conductances after synaptic
// input is accumulated.
type ClampParams struct {
	On    bool    `desc:"apply the conductance ceilings"`
	GEMax float64 `viewif:"On" desc:"ceiling on excitatory conductance"`
	GIMax float64 `viewif:"On" desc:"ceiling on inhibitory conductance"`
}

// Neurons holds the state vectors common to all neuron models.
// All slices have length N for the lifetime of the group.
type Neurons struct {
	Nm     string         `desc:"name of the group -- must be unique within the network"`
	Index  int            `desc:"handle of this group within the network"`
	N      int            `desc:"number of neurons"`
	Exc    bool           `desc:"excitatory: synapse groups from this group add to GE of their target, otherwise GI"`
	Layout Layouts        `desc:"how positions are assigned at Build"`
	Clamp  ClampParams    `desc:"optional conductance ceilings"`
	Gen    InputGenerator `view:"-" desc:"external input current source -- nil means no input"`

	X   []float64 `desc:"x position in [0,1]"`
	Y   []float64 `desc:"y position in [0,1]"`
	V   []float64 `desc:"membrane potential"`
	I   []float64 `desc:"net input current of the last step: external input + GE - GI"`
	GE  []float64 `desc:"excitatory conductance"`
	GI  []float64 `desc:"inhibitory conductance"`
	Spk []bool    `desc:"neurons that spiked at the start of the last step"`
}

// Name returns the group name.
func (nr *Neurons) Name() string { return nr.Nm }

// Size returns the number of neurons.
func (nr *Neurons) Size() int { return nr.N }

// Excitatory reports whether the group is excitatory.
func (nr *Neurons) Excitatory() bool { return nr.Exc }

// Spikes returns the spike vector of the last step.
// Read-only, and only valid between steps, as are all the accessors below.
func (nr *Neurons) Spikes() []bool { return nr.Spk }

// Potentials returns the membrane potentials.
func (nr *Neurons) Potentials() []float64 { return nr.V }

// ExcitatoryConductance returns the excitatory conductances.
func (nr *Neurons) ExcitatoryConductance() []float64 { return nr.GE }

// InhibitoryConductance returns the inhibitory conductances.
func (nr *Neurons) InhibitoryConductance() []float64 { return nr.GI }

// XPosition returns the x positions in [0, 1].
func (nr *Neurons) XPosition() []float64 { return nr.X }

// YPosition returns the y positions in [0, 1].
func (nr *Neurons) YPosition() []float64 { return nr.Y }

// Inputs returns the external input currents of the last step.
func (nr *Neurons) Inputs() []float64 { return nr.I }

// NSpikes returns the number of neurons that spiked in the last step.
func (nr *Neurons) NSpikes() int {
	n := 0
	for _, s := range nr.Spk {
		if s {
			n++
		}
	}
	return n
}

// validate checks the settings common to all models.
func (nr *Neurons) validate() error {
	if nr.Nm == "" {
		return configErr("neuron group has empty name")
	}
	if nr.N <= 0 {
		return configErr("neuron group %q: size %d must be positive", nr.Nm, nr.N)
	}
	if nr.Clamp.On && (nr.Clamp.GEMax < 0 || nr.Clamp.GIMax < 0) {
		return configErr("neuron group %q: negative conductance ceiling", nr.Nm)
	}
	return nil
}

// alloc allocates all state vectors.
func (nr *Neurons) alloc() {
	n := nr.N
	nr.X = make([]float64, n)
	nr.Y = make([]float64, n)
	nr.V = make([]float64, n)
	nr.I = make([]float64, n)
	nr.GE = make([]float64, n)
	nr.GI = make([]float64, n)
	nr.Spk = make([]bool, n)
}

// initLayout assigns positions, using def when Layout is DefaultLayout.
func (nr *Neurons) initLayout(def Layouts, rnd *rand.Rand) {
	lay := nr.Layout
	if lay == DefaultLayout {
		lay = def
	}
	switch lay {
	case RandomLayout:
		for i := range nr.X {
			nr.X[i] = rnd.Float64()
			nr.Y[i] = rnd.Float64()
		}
	default:
		if nr.N == 1 {
			nr.X[0], nr.Y[0] = 0.5, 0.5
			break
		}
		floats.Span(nr.X, 0, 1)
		copy(nr.Y, nr.X)
	}
}

// clearState zeroes everything but positions and potentials.
func (nr *Neurons) clearState() {
	for i := range nr.V {
		nr.I[i] = 0
		nr.GE[i] = 0
		nr.GI[i] = 0
		nr.Spk[i] = false
	}
}

// gatherInput sets I to the external input plus this step's conductances:
// GE and GI are decayed, then the delay-buffer slot of every dendritic
// synapse group is added according to its source sign.
func (nr *Neurons) gatherInput(step int, dend []*SynapseGroup, geDecay, giDecay float64) error {
	if nr.Gen != nil {
		in := nr.Gen.Generate()
		if len(in) != nr.N {
			return errors.Wrapf(ErrConfig, "neuron group %q: input generator returned %d values, want %d", nr.Nm, len(in), nr.N)
		}
		copy(nr.I, in)
	} else {
		for i := range nr.I {
			nr.I[i] = 0
		}
	}
	floats.Scale(1-geDecay, nr.GE)
	floats.Scale(1-giDecay, nr.GI)
	for _, sg := range dend {
		if sg.SrcExc {
			floats.Add(nr.GE, sg.Conductances(step))
		} else {
			floats.Add(nr.GI, sg.Conductances(step))
		}
	}
	if nr.Clamp.On {
		for i := range nr.GE {
			nr.GE[i] = math.Min(nr.GE[i], nr.Clamp.GEMax)
			nr.GI[i] = math.Min(nr.GI[i], nr.Clamp.GIMax)
		}
	}
	floats.Add(nr.I, nr.GE)
	floats.Sub(nr.I, nr.GI)
	return nil
}

// checkFinite returns ErrDiverged for the first NaN or infinite value in vals.
func (nr *Neurons) checkFinite(step int, vals []float64, vnm string) error {
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrapf(ErrDiverged, "group %q neuron %d: %s = %v at step %d", nr.Nm, i, vnm, v, step)
		}
	}
	return nil
}
