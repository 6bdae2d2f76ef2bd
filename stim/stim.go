// Copyright (c) 2024, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package stim provides input generators for spike.NeuronGroup: noise sources,
position-based stimuli and their sums. Each generator produces one input
current value per neuron per step.

Generators that draw random numbers implement spike.Seeder and are seeded by
the network at Build. Generators whose output depends on neuron positions
implement spike.PositionBinder.
*/
package stim

import (
	"math"

	"github.com/expresscogs/spikenet/spike"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

// randSrc is embedded by generators that draw random numbers.
type randSrc struct {
	rnd *rand.Rand
}

// Seed sets the random source. Generators that are never seeded use seed 1.
func (rs *randSrc) Seed(seed uint64) {
	rs.rnd = rand.New(rand.NewSource(seed))
}

func (rs *randSrc) float() float64 {
	if rs.rnd == nil {
		rs.Seed(1)
	}
	return rs.rnd.Float64()
}

// Null generates no input.
type Null struct {
	out []float64
}

func (nl *Null) Bind(n int)          { nl.out = make([]float64, n) }
func (nl *Null) Generate() []float64 { return nl.out }

// Constant generates the same current for every neuron and step.
type Constant struct {
	Value float64 `desc:"input current"`

	out []float64
}

func NewConstant(val float64) *Constant {
	return &Constant{Value: val}
}

func (cn *Constant) Bind(n int) { cn.out = make([]float64, n) }

func (cn *Constant) Generate() []float64 {
	for i := range cn.out {
		cn.out[i] = cn.Value
	}
	return cn.out
}

// UniformNoise generates independent noise uniform in [0, Scale) for every
// neuron and step.
type UniformNoise struct {
	Scale float64 `desc:"maximum noise current"`

	randSrc
	out []float64
}

func NewUniformNoise(scale float64) *UniformNoise {
	return &UniformNoise{Scale: scale}
}

func (un *UniformNoise) Bind(n int) { un.out = make([]float64, n) }

func (un *UniformNoise) Generate() []float64 {
	for i := range un.out {
		un.out[i] = un.float() * un.Scale
	}
	return un.out
}

// AutoCorrNoise generates noise with a memory: each step the previous value
// is multiplied by Retain and a uniform draw in [0, Step * Scale) is added,
// and the result is kept within [0, Scale].
type AutoCorrNoise struct {
	Scale  float64 `desc:"maximum noise current"`
	Retain float64 `def:"0.9" min:"0" max:"1" desc:"fraction of the previous value kept each step"`
	Step   float64 `def:"0.1" min:"0" desc:"size of the random increment relative to Scale"`

	randSrc
	out []float64
}

func NewAutoCorrNoise(scale float64) *AutoCorrNoise {
	return &AutoCorrNoise{Scale: scale, Retain: 0.9, Step: 0.1}
}

func (an *AutoCorrNoise) Bind(n int) { an.out = make([]float64, n) }

func (an *AutoCorrNoise) Generate() []float64 {
	for i, v := range an.out {
		v = v*an.Retain + an.float()*an.Step*an.Scale
		an.out[i] = math.Max(0, math.Min(an.Scale, v))
	}
	return an.out
}

// Additive sums the output of several generators, each keeping its own state.
type Additive struct {
	Gens []spike.InputGenerator `desc:"generators to sum"`

	out []float64
}

func NewAdditive(gens ...spike.InputGenerator) *Additive {
	return &Additive{Gens: gens}
}

func (ad *Additive) Bind(n int) {
	ad.out = make([]float64, n)
	for _, g := range ad.Gens {
		g.Bind(n)
	}
}

func (ad *Additive) BindPositions(x, y []float64) {
	for _, g := range ad.Gens {
		if pb, ok := g.(spike.PositionBinder); ok {
			pb.BindPositions(x, y)
		}
	}
}

// Seed gives each child its own seed derived from seed.
func (ad *Additive) Seed(seed uint64) {
	for i, g := range ad.Gens {
		if sd, ok := g.(spike.Seeder); ok {
			sd.Seed(spike.SubSeed(seed, 0, i))
		}
	}
}

func (ad *Additive) Generate() []float64 {
	for i := range ad.out {
		ad.out[i] = 0
	}
	for _, g := range ad.Gens {
		floats.Add(ad.out, g.Generate())
	}
	return ad.out
}
