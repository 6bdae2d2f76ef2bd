// Copyright (c) 2024, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netconf

import (
	"strings"

	"github.com/goki/ki/kit"
)

// Topos are the connectivity patterns a pathway can be configured with.
type Topos int32

//go:generate stringer -type=Topos

var KiT_Topos = kit.Enums.AddEnum(ToposN, kit.NotBitFlag, nil)

func (ev Topos) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Topos) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

func (ev Topos) MarshalText() ([]byte, error) { return []byte(ev.String()), nil }

func (ev *Topos) UnmarshalText(b []byte) error {
	for tp := Uniform; tp < ToposN; tp++ {
		if strings.EqualFold(tp.String(), string(b)) {
			*ev = tp
			return nil
		}
	}
	return ev.FromString(string(b))
}

const (
	// Uniform connects every pair with probability PCon.
	Uniform Topos = iota

	// Neighborhood connects with a Gaussian probability of distance, width Sigma.
	Neighborhood

	// Surround connects least at the source position, recovering beyond Sigma.
	Surround

	// Full connects every pair.
	Full

	// OneToOne connects neuron i of the source to neuron i of the target.
	OneToOne

	ToposN
)

// Inputs are the kinds of input generator a group can be driven by.
type Inputs int32

//go:generate stringer -type=Inputs

var KiT_Inputs = kit.Enums.AddEnum(InputsN, kit.NotBitFlag, nil)

func (ev Inputs) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Inputs) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

func (ev Inputs) MarshalText() ([]byte, error) { return []byte(ev.String()), nil }

// UnmarshalText accepts the name in any case, and "uniform" for UniformNoise.
func (ev *Inputs) UnmarshalText(b []byte) error {
	for in := Null; in < InputsN; in++ {
		nm := in.String()
		if strings.EqualFold(nm, string(b)) || strings.EqualFold(strings.TrimSuffix(nm, "Noise"), string(b)) {
			*ev = in
			return nil
		}
	}
	return ev.FromString(string(b))
}

const (
	// Null gives no input.
	Null Inputs = iota

	// Constant gives every neuron Value.
	Constant

	// UniformNoise gives each neuron a uniform random value in [0, Scale).
	UniformNoise

	// AutoCorr is temporally correlated noise bounded by Scale.
	AutoCorr

	// Periodic presents triangle stimuli at random positions on and off.
	Periodic

	// Continuous is a Gaussian bump at a fixed, movable position.
	Continuous

	// Topological is a shaped stimulus that may jump to random positions.
	Topological

	InputsN
)
