// Copyright (c) 2024, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

// InputGenerator produces the external input current for every neuron of the
// group it is bound to. Implementations live in package stim.
type InputGenerator interface {
	// Bind sizes the generator for a group of n neurons. Called once by
	// Network.Build before the first Generate.
	Bind(n int)

	// Generate returns the input current for this step, one value per neuron.
	// Called exactly once per step, before the group integrates. The returned
	// slice may be reused by the generator on the next call.
	Generate() []float64
}

// PositionBinder is implemented by generators whose output depends on neuron
// positions. BindPositions is called at Build, after Bind.
type PositionBinder interface {
	BindPositions(x, y []float64)
}

// Seeder is implemented by generators that draw random numbers. Seed is
// called at Build with a seed derived from the network seed.
type Seeder interface {
	Seed(seed uint64)
}

// bindInput binds gen to the group's size, positions and seed stream.
func bindInput(gen InputGenerator, nr *Neurons, seed uint64) {
	if gen == nil {
		return
	}
	gen.Bind(nr.N)
	if pb, ok := gen.(PositionBinder); ok {
		pb.BindPositions(nr.X, nr.Y)
	}
	if sd, ok := gen.(Seeder); ok {
		sd.Seed(SubSeed(seed, inputStream, nr.Index))
	}
}
