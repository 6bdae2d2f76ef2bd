// Copyright (c) 2024, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/emer/etable/etensor"
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// WtParams control the initial synaptic weights.
type WtParams struct {
	Min   float64 `def:"0.25" desc:"minimum initial weight"`
	Max   float64 `def:"1" desc:"maximum initial weight (exclusive) -- weights are uniform in [Min, Max)"`
	Scale float64 `def:"1" desc:"initial global multiplier applied to every weight when conductance is posted"`
}

func (wp *WtParams) Defaults() {
	wp.Min = 0.25
	wp.Max = 1
	wp.Scale = 1
}

// DelayParams control the synaptic conductance delays, in steps.
type DelayParams struct {
	Rand bool `def:"true" desc:"draw each delay uniformly from [Min, Max) -- otherwise every synapse has delay Min"`
	Min  int  `def:"0" min:"0" desc:"minimum delay"`
	Max  int  `def:"10" min:"1" desc:"number of slots in the delay ring buffer, an exclusive upper bound on the delay"`
}

func (dp *DelayParams) Defaults() {
	dp.Rand = true
	dp.Min = 0
	dp.Max = 10
}

// SynParams are the weight and delay parameters of a pathway.
type SynParams struct {
	Wt    WtParams    `view:"inline" desc:"initial weights"`
	Delay DelayParams `view:"inline" desc:"conductance delays"`
}

func (sp *SynParams) Defaults() {
	sp.Wt.Defaults()
	sp.Delay.Defaults()
}

// NoDelay sets a single-slot buffer with all delays 0.
func (sp *SynParams) NoDelay() {
	sp.Delay = DelayParams{Rand: false, Min: 0, Max: 1}
}

// Validate returns ErrConfig for inverted or empty ranges.
func (sp *SynParams) Validate() error {
	emsg := ""
	if !(sp.Wt.Min <= sp.Wt.Max) {
		emsg += fmt.Sprintf("weight range inverted: min %g > max %g; ", sp.Wt.Min, sp.Wt.Max)
	}
	if math.IsNaN(sp.Wt.Scale) || math.IsInf(sp.Wt.Scale, 0) {
		emsg += fmt.Sprintf("weight scale %g not finite; ", sp.Wt.Scale)
	}
	if sp.Delay.Max < 1 {
		emsg += fmt.Sprintf("delay buffer size %d must be positive; ", sp.Delay.Max)
	}
	if sp.Delay.Min < 0 {
		emsg += fmt.Sprintf("delay min %d is negative; ", sp.Delay.Min)
	} else if sp.Delay.Min >= sp.Delay.Max {
		emsg += fmt.Sprintf("delay range inverted: min %d >= max %d; ", sp.Delay.Min, sp.Delay.Max)
	}
	if emsg != "" {
		return configErr("%s", emsg)
	}
	return nil
}

// SynapseGroup is a pathway of synapses from a source to a target group.
// Each step it posts weight * WtScale for every synapse of a spiking source
// neuron into the ring-buffer slot (step + delay) mod MaxDelay, and the
// target reads slot step mod MaxDelay as its conductance for that step.
//
// A synapse with delay d >= 1 delivers exactly d steps after the spike. The
// network reads a slot before synapse groups write in the same step, so a
// delay of 0 lands in the slot just read and is delivered MaxDelay steps
// later, which is the next step for a single-slot buffer.
type SynapseGroup struct {
	Nm     string    `desc:"name of the pathway"`
	Index  int       `desc:"handle of this pathway within the network"`
	Src    int       `desc:"handle of the source group"`
	Tgt    int       `desc:"handle of the target group"`
	SrcExc bool      `desc:"source is excitatory: conductance goes to GE of the target, otherwise GI"`
	NSrc   int       `desc:"number of source neurons"`
	NTgt   int       `desc:"number of target neurons"`
	Topo   Topology  `desc:"topology that generates the connection mask at Build"`
	Params SynParams `desc:"weight and delay parameters"`

	Pre    []int32   `desc:"source neuron index of each synapse, sorted ascending"`
	Post   []int32   `desc:"target neuron index of each synapse"`
	Wts    []float64 `desc:"weight of each synapse"`
	Delays []int32   `desc:"delay of each synapse in steps, in [0, Params.Delay.Max)"`
	SendSt []int32   `desc:"start of each source neuron's synapses in Pre/Post"`
	SendN  []int32   `desc:"number of synapses of each source neuron"`

	wtScale atomic.Uint64
	buf     *mat.Dense
}

// NewSynapseGroup returns a synapse group built directly from a mask of
// shape [src.N, tgt.N]. Weights and delays are drawn from rnd.
func NewSynapseGroup(name string, src, tgt NeuronGroup, mask *etensor.Bits, sp SynParams, rnd *rand.Rand) (*SynapseGroup, error) {
	sn, tn := src.AsNeurons(), tgt.AsNeurons()
	sg := &SynapseGroup{Nm: name, Src: sn.Index, Tgt: tn.Index, SrcExc: sn.Exc, NSrc: sn.N, NTgt: tn.N, Params: sp}
	if err := sg.validate(); err != nil {
		return nil, err
	}
	if mask.NumDims() != 2 || mask.Dim(0) != sn.N || mask.Dim(1) != tn.N {
		return nil, configErr("pathway %q: mask shape %d x %d does not match %d x %d", name, mask.Dim(0), mask.Dim(1), sn.N, tn.N)
	}
	sg.BuildFromMask(mask, rnd)
	return sg, nil
}

func (sg *SynapseGroup) Name() string { return sg.Nm }

// NSyn returns the number of synapses.
func (sg *SynapseGroup) NSyn() int { return len(sg.Pre) }

// MaxDelay returns the number of ring-buffer slots.
func (sg *SynapseGroup) MaxDelay() int { return sg.Params.Delay.Max }

// WtScale returns the global weight multiplier.
func (sg *SynapseGroup) WtScale() float64 {
	return math.Float64frombits(sg.wtScale.Load())
}

// SetWtScale sets the global weight multiplier. Safe to call from any
// goroutine; takes effect from the next step that posts conductance.
func (sg *SynapseGroup) SetWtScale(scale float64) {
	sg.wtScale.Store(math.Float64bits(scale))
}

func (sg *SynapseGroup) validate() error {
	if sg.Nm == "" {
		return configErr("pathway has empty name")
	}
	if sg.NSrc <= 0 || sg.NTgt <= 0 {
		return configErr("pathway %q: source size %d and target size %d must be positive", sg.Nm, sg.NSrc, sg.NTgt)
	}
	if err := sg.Params.Validate(); err != nil {
		return errors.Wrapf(err, "pathway %q", sg.Nm)
	}
	return nil
}

// BuildFromMask flattens mask into the synapse lists, draws weights and
// delays, builds the per-source index and allocates the delay buffer.
func (sg *SynapseGroup) BuildFromMask(mask *etensor.Bits, rnd *rand.Rand) {
	sg.Pre, sg.Post = FlattenMask(mask)
	ns := len(sg.Pre)
	wp := &sg.Params.Wt
	dp := &sg.Params.Delay

	sg.Wts = make([]float64, ns)
	wdist := distuv.Uniform{Min: wp.Min, Max: wp.Max, Src: rnd}
	for i := range sg.Wts {
		sg.Wts[i] = wdist.Rand()
	}
	sg.Delays = make([]int32, ns)
	for i := range sg.Delays {
		if dp.Rand {
			sg.Delays[i] = int32(dp.Min + rnd.Intn(dp.Max-dp.Min))
		} else {
			sg.Delays[i] = int32(dp.Min)
		}
	}

	sg.SendSt = make([]int32, sg.NSrc)
	sg.SendN = make([]int32, sg.NSrc)
	for i, si := range sg.Pre {
		if sg.SendN[si] == 0 {
			sg.SendSt[si] = int32(i)
		}
		sg.SendN[si]++
	}
	sg.SetWtScale(wp.Scale)
	sg.buf = mat.NewDense(dp.Max, sg.NTgt, nil)
}

// Conductances returns the conductance delivered to each target neuron at
// step. The slice is a view of the buffer: read-only, and reading has no
// side effects.
func (sg *SynapseGroup) Conductances(step int) []float64 {
	return sg.buf.RawRowView(step % sg.Params.Delay.Max)
}

// Update clears the slot for step and posts the conductance of every
// synapse whose source neuron spiked into slot (step + delay) mod MaxDelay.
func (sg *SynapseGroup) Update(step int, srcSpk []bool) {
	md := sg.Params.Delay.Max
	cur := sg.buf.RawRowView(step % md)
	for i := range cur {
		cur[i] = 0
	}
	scale := sg.WtScale()
	for si, spk := range srcSpk {
		if !spk {
			continue
		}
		st := int(sg.SendSt[si])
		ed := st + int(sg.SendN[si])
		for k := st; k < ed; k++ {
			slot := sg.buf.RawRowView((step + int(sg.Delays[k])) % md)
			slot[sg.Post[k]] += sg.Wts[k] * scale
		}
	}
}

// Reset clears all pending conductance.
func (sg *SynapseGroup) Reset() {
	if sg.buf != nil {
		sg.buf.Zero()
	}
}

// Pending returns the total conductance waiting in the buffer.
func (sg *SynapseGroup) Pending() float64 {
	tot := 0.0
	r, _ := sg.buf.Dims()
	for i := 0; i < r; i++ {
		tot += floats.Sum(sg.buf.RawRowView(i))
	}
	return tot
}

// ConnStats returns the minimum, mean and maximum number of synapses per
// source neuron.
func (sg *SynapseGroup) ConnStats() (mn, avg, mx float64) {
	if len(sg.SendN) == 0 {
		return
	}
	n := make([]float64, len(sg.SendN))
	for i, c := range sg.SendN {
		n[i] = float64(c)
	}
	return floats.Min(n), floats.Sum(n) / float64(len(n)), floats.Max(n)
}

// Mem returns the approximate memory used by the synapses and buffer, in bytes.
func (sg *SynapseGroup) Mem() int {
	ns := len(sg.Pre)
	nb := 0
	if sg.buf != nil {
		r, c := sg.buf.Dims()
		nb = r * c
	}
	return ns*(4+4+8+4) + len(sg.SendSt)*8 + nb*8
}

func (sg *SynapseGroup) String() string {
	mn, avg, mx := sg.ConnStats()
	return fmt.Sprintf("%s: %d synapses, out-degree min %g avg %.4g max %g, %d delay slots", sg.Nm, len(sg.Pre), mn, avg, mx, sg.Params.Delay.Max)
}
