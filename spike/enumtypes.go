// Copyright (c) 2024, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import (
	"strings"

	"github.com/goki/ki/kit"
)

// Models are the neuron models a NeuronGroup can integrate.
type Models int32

//go:generate stringer -type=Models

var KiT_Models = kit.Enums.AddEnum(ModelsN, kit.NotBitFlag, nil)

func (ev Models) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Models) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

func (ev Models) MarshalText() ([]byte, error) { return []byte(ev.String()), nil }

// UnmarshalText accepts the model name in any case, e.g. "adex".
func (ev *Models) UnmarshalText(b []byte) error {
	for m := LIF; m < ModelsN; m++ {
		if strings.EqualFold(m.String(), string(b)) {
			*ev = m
			return nil
		}
	}
	return ev.FromString(string(b))
}

const (
	// LIF is the leaky integrate-and-fire model, see package lif.
	LIF Models = iota

	// AdEx is the adaptive exponential integrate-and-fire model, see package adex.
	AdEx

	ModelsN
)

// Layouts determine how neuron positions are assigned when a group is built.
type Layouts int32

//go:generate stringer -type=Layouts

var KiT_Layouts = kit.Enums.AddEnum(LayoutsN, kit.NotBitFlag, nil)

func (ev Layouts) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Layouts) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

func (ev Layouts) MarshalText() ([]byte, error) { return []byte(ev.String()), nil }

// UnmarshalText accepts the layout name in any case, with or without the
// Layout suffix, e.g. "random".
func (ev *Layouts) UnmarshalText(b []byte) error {
	for l := DefaultLayout; l < LayoutsN; l++ {
		nm := l.String()
		if strings.EqualFold(nm, string(b)) || strings.EqualFold(strings.TrimSuffix(nm, "Layout"), string(b)) {
			*ev = l
			return nil
		}
	}
	return ev.FromString(string(b))
}

const (
	// DefaultLayout uses the model's usual layout: linear for LIF, random for AdEx.
	DefaultLayout Layouts = iota

	// LinearLayout spaces neurons evenly along the diagonal from (0,0) to (1,1).
	LinearLayout

	// RandomLayout draws x and y uniformly in [0,1).
	RandomLayout

	LayoutsN
)
