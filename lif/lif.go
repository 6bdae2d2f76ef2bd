// Copyright (c) 2024, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package lif provides the parameters and per-neuron update equations of the
leaky integrate-and-fire point neuron: linear membrane decay toward a resting
potential, a hard voltage threshold and a reset to rest after each spike.

Time is implicit: the integration step is folded into VDecay, so currents are
expressed in volts per step.
*/
package lif

import (
	"fmt"
	"math"
)

// Params are the leaky integrate-and-fire membrane and conductance constants.
type Params struct {
	VRest   float64 `def:"-0.07" desc:"resting membrane potential, also the reset value after a spike (volts)"`
	VThresh float64 `def:"-0.05" desc:"spike threshold: a neuron spikes at the start of a step when v exceeds this value (volts)"`
	VDecay  float64 `def:"0.01" min:"0" max:"1" desc:"fraction of the distance to VRest recovered each step -- dt / tau folded into one constant"`
	GEDecay float64 `def:"0.1" min:"0" max:"1" desc:"fraction of excitatory conductance lost each step"`
	GIDecay float64 `def:"0.1" min:"0" max:"1" desc:"fraction of inhibitory conductance lost each step"`
}

func (lp *Params) Defaults() {
	lp.VRest = -70e-3
	lp.VThresh = -50e-3
	lp.VDecay = 0.01
	lp.GEDecay = 0.1
	lp.GIDecay = 0.1
	lp.Update()
}

// Update updates derived values (none at present).
func (lp *Params) Update() {
}

// Validate returns an error describing every out-of-range constant, or nil.
func (lp *Params) Validate() error {
	emsg := ""
	if !(lp.VThresh > lp.VRest) {
		emsg += fmt.Sprintf("VThresh %g must be above VRest %g; ", lp.VThresh, lp.VRest)
	}
	if !unitRange(lp.VDecay) {
		emsg += fmt.Sprintf("VDecay %g not in [0,1]; ", lp.VDecay)
	}
	if !unitRange(lp.GEDecay) {
		emsg += fmt.Sprintf("GEDecay %g not in [0,1]; ", lp.GEDecay)
	}
	if !unitRange(lp.GIDecay) {
		emsg += fmt.Sprintf("GIDecay %g not in [0,1]; ", lp.GIDecay)
	}
	if emsg != "" {
		return fmt.Errorf("lif: %s", emsg)
	}
	return nil
}

func unitRange(x float64) bool {
	return x >= 0 && x <= 1 && !math.IsNaN(x)
}

// Spiked returns true if membrane potential v is above threshold.
func (lp *Params) Spiked(v float64) bool { return v > lp.VThresh }

// Dv returns the membrane potential change for one step given net input i.
func (lp *Params) Dv(v, i float64) float64 {
	return -lp.VDecay*(v-lp.VRest) + i
}

// Rheobase returns the smallest constant input current that eventually
// drives a neuron at rest over threshold: below it v settles at
// VRest + i / VDecay, which stays under VThresh.
func (lp *Params) Rheobase() float64 {
	return lp.VDecay * (lp.VThresh - lp.VRest)
}

// InitV returns an initial potential for uniform random draw rnd in [0,1):
// anywhere between rest and threshold.
func (lp *Params) InitV(rnd float64) float64 {
	return lp.VRest + rnd*(lp.VThresh-lp.VRest)
}
