// Copyright (c) 2024, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import (
	"fmt"
	"math"

	"github.com/emer/emergent/prjn"
	"github.com/emer/etable/etensor"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Topology generates the connection mask between a source and a target group.
// Implementations hold only their kernel parameters and may be shared by
// several pathways.
type Topology interface {
	// Name returns the name of the topology kind.
	Name() string

	// Validate checks the kernel parameters.
	Validate() error

	// Connect returns a [src.N, tgt.N] mask, row-major by source neuron.
	// same is true when src and tgt are the same group. All random draws
	// come from rnd.
	Connect(src, tgt *Neurons, same bool, rnd *rand.Rand) *etensor.Bits
}

// NewMask returns an empty [nsrc, ntgt] connection mask.
func NewMask(nsrc, ntgt int) *etensor.Bits {
	return etensor.NewBits([]int{nsrc, ntgt}, nil, []string{"Src", "Tgt"})
}

// FlattenMask returns the (pre, post) index pairs of all connections in mask,
// in row-major order, so synapses are sorted by pre index.
func FlattenMask(mask *etensor.Bits) (pre, post []int32) {
	ns, nt := mask.Dim(0), mask.Dim(1)
	for si := 0; si < ns; si++ {
		off := si * nt
		for ti := 0; ti < nt; ti++ {
			if mask.Values.Index(off + ti) {
				pre = append(pre, int32(si))
				post = append(post, int32(ti))
			}
		}
	}
	return
}

func validPCon(nm string, pcon float64) error {
	if !(pcon >= 0 && pcon <= 1) {
		return configErr("%s topology: connectivity %g not in [0,1]", nm, pcon)
	}
	return nil
}

// connectProb sets each bit of row si with probability p[ti], skipping the
// diagonal when selfOff. A draw is made for every pair so the random stream
// does not depend on the self-connection policy.
func connectProb(mask *etensor.Bits, si int, p []float64, selfOff bool, rnd *rand.Rand) {
	off := si * len(p)
	for ti, pt := range p {
		r := rnd.Float64()
		if selfOff && ti == si {
			continue
		}
		if r < pt {
			mask.Values.Set(off+ti, true)
		}
	}
}

////////////////////////////////////////////////////////////////////////
//  Uniform

// UniformTopo connects every source-target pair independently with
// probability PCon.
type UniformTopo struct {
	PCon    float64 `min:"0" max:"1" desc:"probability of connection"`
	SelfCon bool    `desc:"allow a neuron to connect to itself when source and target are the same group"`
}

func NewUniformTopo(pcon float64) *UniformTopo {
	return &UniformTopo{PCon: pcon}
}

func (ut *UniformTopo) Name() string    { return "Uniform" }
func (ut *UniformTopo) Validate() error { return validPCon(ut.Name(), ut.PCon) }

func (ut *UniformTopo) Connect(src, tgt *Neurons, same bool, rnd *rand.Rand) *etensor.Bits {
	mask := NewMask(src.N, tgt.N)
	p := make([]float64, tgt.N)
	for i := range p {
		p[i] = ut.PCon
	}
	selfOff := same && !ut.SelfCon
	for si := 0; si < src.N; si++ {
		connectProb(mask, si, p, selfOff, rnd)
	}
	return mask
}

////////////////////////////////////////////////////////////////////////
//  Neighborhood

// NeighborTopo connects preferentially to targets near the source along x,
// with probability given by a Gaussian of the distance with width Sigma.
// Each source row is normalized to mean PCon, so the expected out-degree is
// PCon * tgt.N for any Sigma, and Sigma only shapes where the targets lie.
type NeighborTopo struct {
	PCon    float64 `def:"0.1" min:"0" max:"1" desc:"mean probability of connection per source neuron"`
	Sigma   float64 `def:"0.05" min:"0" desc:"standard deviation of the Gaussian distance kernel, in position units"`
	SelfCon bool    `desc:"allow a neuron to connect to itself when source and target are the same group"`
}

func NewNeighborTopo(pcon, sigma float64) *NeighborTopo {
	return &NeighborTopo{PCon: pcon, Sigma: sigma}
}

func (nt *NeighborTopo) Name() string { return "Neighborhood" }

func (nt *NeighborTopo) Validate() error {
	if !(nt.Sigma > 0) {
		return configErr("%s topology: sigma %g must be positive", nt.Name(), nt.Sigma)
	}
	return validPCon(nt.Name(), nt.PCon)
}

// Probs fills p with the connection probabilities from source neuron
// at x0 to targets at positions xt.
func (nt *NeighborTopo) Probs(p []float64, x0 float64, xt []float64) {
	gaussRow(p, x0, xt, nt.Sigma)
	normRow(p, nt.PCon)
}

func (nt *NeighborTopo) Connect(src, tgt *Neurons, same bool, rnd *rand.Rand) *etensor.Bits {
	mask := NewMask(src.N, tgt.N)
	p := make([]float64, tgt.N)
	selfOff := same && !nt.SelfCon
	for si := 0; si < src.N; si++ {
		nt.Probs(p, src.X[si], tgt.X)
		connectProb(mask, si, p, selfOff, rnd)
	}
	return mask
}

////////////////////////////////////////////////////////////////////////
//  Surround

// SurroundTopo is an inverted Mexican hat: connection probability is lowest
// at the source position and recovers beyond about Sigma. A wide Gaussian
// (10 Sigma) normalized to row mean 2 has a narrow Gaussian (Sigma) with row
// mean 1 subtracted, is shifted up by the narrow kernel's row maximum, and the
// result is normalized to row mean PCon.
type SurroundTopo struct {
	PCon    float64 `def:"0.1" min:"0" max:"1" desc:"mean probability of connection per source neuron"`
	Sigma   float64 `def:"0.05" min:"0" desc:"width of the excluded center"`
	SelfCon bool    `desc:"allow a neuron to connect to itself when source and target are the same group"`
}

func NewSurroundTopo(pcon, sigma float64) *SurroundTopo {
	return &SurroundTopo{PCon: pcon, Sigma: sigma}
}

func (st *SurroundTopo) Name() string { return "Surround" }

func (st *SurroundTopo) Validate() error {
	if !(st.Sigma > 0) {
		return configErr("%s topology: sigma %g must be positive", st.Name(), st.Sigma)
	}
	return validPCon(st.Name(), st.PCon)
}

// Probs fills p with the connection probabilities from source neuron
// at x0 to targets at positions xt.
func (st *SurroundTopo) Probs(p []float64, x0 float64, xt []float64) {
	nar := make([]float64, len(p))
	gaussRow(p, x0, xt, 10*st.Sigma)
	normRow(p, 2)
	gaussRow(nar, x0, xt, st.Sigma)
	normRow(nar, 1)
	floats.Sub(p, nar)
	floats.AddConst(floats.Max(nar), p)
	normRow(p, st.PCon)
}

func (st *SurroundTopo) Connect(src, tgt *Neurons, same bool, rnd *rand.Rand) *etensor.Bits {
	mask := NewMask(src.N, tgt.N)
	p := make([]float64, tgt.N)
	selfOff := same && !st.SelfCon
	for si := 0; si < src.N; si++ {
		st.Probs(p, src.X[si], tgt.X)
		connectProb(mask, si, p, selfOff, rnd)
	}
	return mask
}

// gaussRow sets row to an unnormalized Gaussian of the distance from x0 to
// each of xt, scaled so the nearest target has value 1. Only relative values
// matter since rows are normalized afterward.
func gaussRow(row []float64, x0 float64, xt []float64, sigma float64) {
	dmin := math.Inf(1)
	for i, x := range xt {
		d := math.Abs(x0 - x)
		row[i] = d
		dmin = math.Min(dmin, d)
	}
	s2 := 2 * sigma * sigma
	for i, d := range row {
		row[i] = math.Exp(-(d*d - dmin*dmin) / s2)
	}
}

// normRow scales row to have the given mean. A row of zeros is left alone.
func normRow(row []float64, mean float64) {
	m := stat.Mean(row, nil)
	if !(m > 0) {
		return
	}
	floats.Scale(mean/m, row)
}

////////////////////////////////////////////////////////////////////////
//  Pattern

// PatternTopo adapts a deterministic projection pattern from the emergent
// prjn package (Full, OneToOne, ...) to a Topology. The source and target
// are treated as one-dimensional layers.
type PatternTopo struct {
	Pat prjn.Pattern `desc:"projection pattern that generates the connections"`
}

func NewPatternTopo(pat prjn.Pattern) *PatternTopo {
	return &PatternTopo{Pat: pat}
}

func (pt *PatternTopo) Name() string { return pt.Pat.Name() }

func (pt *PatternTopo) Validate() error {
	if pt.Pat == nil {
		return configErr("pattern topology: nil pattern")
	}
	return nil
}

// Connect transposes the pattern's receiver-major mask into source-major order.
func (pt *PatternTopo) Connect(src, tgt *Neurons, same bool, rnd *rand.Rand) *etensor.Bits {
	ssh := etensor.NewShape([]int{src.N}, nil, nil)
	rsh := etensor.NewShape([]int{tgt.N}, nil, nil)
	_, _, cons := pt.Pat.Connect(ssh, rsh, same)
	mask := NewMask(src.N, tgt.N)
	for ri := 0; ri < tgt.N; ri++ {
		rbi := ri * src.N
		for si := 0; si < src.N; si++ {
			if cons.Values.Index(rbi + si) {
				mask.Values.Set(si*tgt.N+ri, true)
			}
		}
	}
	return mask
}

// TopoString returns a one-line description of a topology for logs.
func TopoString(tp Topology) string {
	switch t := tp.(type) {
	case *UniformTopo:
		return fmt.Sprintf("%s(p=%g)", t.Name(), t.PCon)
	case *NeighborTopo:
		return fmt.Sprintf("%s(p=%g, sigma=%g)", t.Name(), t.PCon, t.Sigma)
	case *SurroundTopo:
		return fmt.Sprintf("%s(p=%g, sigma=%g)", t.Name(), t.PCon, t.Sigma)
	}
	return tp.Name()
}
