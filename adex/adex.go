// Copyright (c) 2024, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package adex provides the parameters and update equations of the adaptive
exponential integrate-and-fire (AdEx) point neuron (Brette & Gerstner, 2005).

The membrane potential has an exponential spike-initiation term that diverges
as v approaches VCut = VT + 5 DeltaT, and a slow adaptation current w that is
incremented by B on every spike and relaxes toward A (v - EL) with time
constant TauW. Units are SI (volts, siemens, farads, amps, seconds).
*/
package adex

import (
	"fmt"
	"math"
	"strings"

	"github.com/goki/ki/kit"
)

// Params are the AdEx membrane, adaptation and conductance decay constants.
type Params struct {
	C       float64 `def:"2.81e-9" min:"0" desc:"membrane capacitance (F)"`
	GL      float64 `def:"30e-9" min:"0" desc:"leak conductance (S)"`
	EL      float64 `def:"-70.6e-3" desc:"leak reversal potential (V)"`
	VT      float64 `def:"-50.4e-3" desc:"threshold slope factor origin: the exponential term is 1 at v = VT (V)"`
	DeltaT  float64 `def:"2e-3" min:"0" desc:"slope factor of the exponential spike initiation (V)"`
	TauW    float64 `def:"144e-3" min:"0" desc:"adaptation time constant (s)"`
	A       float64 `def:"4e-9" desc:"subthreshold adaptation coupling (S)"`
	B       float64 `def:"0.08e-9" desc:"spike-triggered adaptation increment (A)"`
	VR      float64 `def:"-70.6e-3" desc:"reset potential after a spike (V)"`
	Dt      float64 `def:"0.001" min:"0" desc:"integration time step (s)"`
	GEDecay float64 `def:"0.075" min:"0" max:"1" desc:"fraction of excitatory conductance lost each step"`
	GIDecay float64 `def:"0.033" min:"0" max:"1" desc:"fraction of inhibitory conductance lost each step"`

	VCut   float64 `view:"-" json:"-" desc:"spike cutoff potential = VT + 5 DeltaT: v above this counts as a spike"`
	DtC    float64 `view:"-" json:"-" desc:"Dt / C"`
	DtTauW float64 `view:"-" json:"-" desc:"Dt / TauW"`
}

func (ap *Params) Defaults() {
	ap.C = 2.81e-9
	ap.GL = 30e-9
	ap.EL = -70.6e-3
	ap.VT = -50.4e-3
	ap.DeltaT = 2e-3
	ap.TauW = 144e-3
	ap.A = 4e-9
	ap.B = 0.08e-9
	ap.VR = ap.EL
	ap.Dt = 0.001
	ap.GEDecay = 0.075
	ap.GIDecay = 0.033
	ap.Update()
}

// Update computes the derived constants -- call after changing any parameter.
func (ap *Params) Update() {
	ap.VCut = ap.VT + 5*ap.DeltaT
	if ap.C > 0 {
		ap.DtC = ap.Dt / ap.C
	}
	if ap.TauW > 0 {
		ap.DtTauW = ap.Dt / ap.TauW
	}
}

// Validate returns an error describing every out-of-range constant, or nil.
func (ap *Params) Validate() error {
	emsg := ""
	if !(ap.C > 0) {
		emsg += fmt.Sprintf("C %g must be positive; ", ap.C)
	}
	if !(ap.TauW > 0) {
		emsg += fmt.Sprintf("TauW %g must be positive; ", ap.TauW)
	}
	if !(ap.DeltaT > 0) {
		emsg += fmt.Sprintf("DeltaT %g must be positive; ", ap.DeltaT)
	}
	if !(ap.Dt > 0) {
		emsg += fmt.Sprintf("Dt %g must be positive; ", ap.Dt)
	}
	if ap.GEDecay < 0 || ap.GEDecay > 1 {
		emsg += fmt.Sprintf("GEDecay %g not in [0,1]; ", ap.GEDecay)
	}
	if ap.GIDecay < 0 || ap.GIDecay > 1 {
		emsg += fmt.Sprintf("GIDecay %g not in [0,1]; ", ap.GIDecay)
	}
	if emsg != "" {
		return fmt.Errorf("adex: %s", emsg)
	}
	return nil
}

// Spiked returns true if v is past the cutoff potential.
func (ap *Params) Spiked(v float64) bool { return v > ap.VCut }

// Dv returns the membrane potential change for one step given adaptation
// current w and net input current i.
func (ap *Params) Dv(v, w, i float64) float64 {
	return ap.DtC * (ap.GL*ap.DeltaT*math.Exp((v-ap.VT)/ap.DeltaT) - ap.GL*(v-ap.EL) - w + i)
}

// Dw returns the adaptation current change for one step.
func (ap *Params) Dw(v, w float64) float64 {
	return ap.DtTauW * (ap.A*(v-ap.EL) - w)
}

// InitV returns an initial potential for uniform random draw rnd in [0,1).
func (ap *Params) InitV(rnd float64) float64 {
	return ap.EL + rnd*(ap.VCut-ap.EL)
}

// SetFiring sets the adaptation constants for one of the standard firing
// patterns, leaving membrane constants alone.
func (ap *Params) SetFiring(fp Firing) {
	switch fp {
	case RegularSpiking:
		ap.TauW = 144e-3
		ap.A = 4e-9
		ap.B = 0.08e-9
		ap.VR = ap.EL
	case Bursting:
		ap.TauW = 20e-3
		ap.A = 4e-9
		ap.B = 0.5e-9
		ap.VR = ap.VT + 5e-3
	case FastSpiking:
		ap.TauW = 144e-3
		ap.A = 2 * ap.C / 144e-3
		ap.B = 0
		ap.VR = ap.EL
	}
	ap.Update()
}

// Firing are standard AdEx firing patterns obtained by varying the adaptation
// constants.
type Firing int32

//go:generate stringer -type=Firing

var KiT_Firing = kit.Enums.AddEnum(FiringN, kit.NotBitFlag, nil)

func (ev Firing) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Firing) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

func (ev Firing) MarshalText() ([]byte, error) { return []byte(ev.String()), nil }

// UnmarshalText accepts the firing pattern name in any case.
func (ev *Firing) UnmarshalText(b []byte) error {
	for f := RegularSpiking; f < FiringN; f++ {
		if strings.EqualFold(f.String(), string(b)) {
			*ev = f
			return nil
		}
	}
	return ev.FromString(string(b))
}

const (
	// RegularSpiking is tonic spiking with slow spike-frequency adaptation.
	RegularSpiking Firing = iota

	// Bursting resets close to threshold with strong fast adaptation.
	Bursting

	// FastSpiking has no spike-triggered adaptation.
	FastSpiking

	FiringN
)
