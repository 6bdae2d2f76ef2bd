// Copyright (c) 2024, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package sensor provides read-only measurements of neuron group state:
population firing rate, a local field potential estimate, a decaying neural
field that locates the most active region, and signal detection against a
known stimulus location. Each sensor is bound to one group and is updated
once per step, after the network step has completed.

Recorder collects per-step spike counts for every group of a network into
an etable.Table.
*/
package sensor

import (
	"math"

	"github.com/expresscogs/spikenet/spike"
	"gonum.org/v1/gonum/floats"
)

// PopRate tracks the fraction of a group spiking on the last step, and the
// mean firing rate per neuron since the last Reset.
type PopRate struct {
	Nr     *spike.Neurons `view:"-" desc:"group being measured"`
	Dt     float64        `def:"0.001" desc:"simulated seconds per step, to convert to Hz"`
	Frac   float64        `inactive:"+" desc:"fraction of neurons that spiked on the last step"`
	Rate   float64        `inactive:"+" desc:"mean firing rate per neuron since Reset, in Hz"`
	NSteps int            `inactive:"+" desc:"number of steps since Reset"`
	NSpk   int            `inactive:"+" desc:"total spikes since Reset"`
}

// NewPopRate returns a rate sensor for the given group.
func NewPopRate(ng spike.NeuronGroup, dt float64) *PopRate {
	return &PopRate{Nr: ng.AsNeurons(), Dt: dt}
}

func (pr *PopRate) Reset() {
	pr.Frac = 0
	pr.Rate = 0
	pr.NSteps = 0
	pr.NSpk = 0
}

// Update reads the spikes of the last step.
func (pr *PopRate) Update() {
	n := pr.Nr.NSpikes()
	pr.Frac = float64(n) / float64(pr.Nr.Size())
	pr.NSpk += n
	pr.NSteps++
	pr.Rate = float64(pr.NSpk) / (float64(pr.Nr.Size()*pr.NSteps) * pr.Dt)
}

// LFP estimates the local field potential at an electrode as the sum over
// neurons of net conductance GL + GE - GI divided by the distance from the
// neuron to the electrode.
type LFP struct {
	Nr      *spike.Neurons `view:"-" desc:"group being measured"`
	X       float64        `def:"0.5" desc:"electrode x position"`
	Y       float64        `def:"0.5" desc:"electrode y position"`
	GL      float64        `def:"0" desc:"leak conductance added to every neuron"`
	MinDist float64        `def:"0.001" desc:"distances below this are raised to it"`
	Value   float64        `inactive:"+" desc:"last computed potential"`

	dist []float64
}

// NewLFP returns an LFP sensor with the electrode at the center.
func NewLFP(ng spike.NeuronGroup) *LFP {
	return &LFP{Nr: ng.AsNeurons(), X: 0.5, Y: 0.5, MinDist: 1e-3}
}

// SetElectrode moves the electrode.
func (lf *LFP) SetElectrode(x, y float64) {
	lf.X = x
	lf.Y = y
	lf.dist = nil
}

// Distances returns the distance from each neuron to the electrode, computed
// from the current neuron positions on first use.
func (lf *LFP) Distances() []float64 {
	xs, ys := lf.Nr.XPosition(), lf.Nr.YPosition()
	if len(lf.dist) == len(xs) {
		return lf.dist
	}
	lf.dist = make([]float64, len(xs))
	for i := range xs {
		lf.dist[i] = math.Max(math.Hypot(xs[i]-lf.X, ys[i]-lf.Y), lf.MinDist)
	}
	return lf.dist
}

// Update computes and returns the potential for the current state.
func (lf *LFP) Update() float64 {
	dist := lf.Distances()
	ge, gi := lf.Nr.ExcitatoryConductance(), lf.Nr.InhibitoryConductance()
	sum := 0.0
	for i, d := range dist {
		sum += (lf.GL + ge[i] - gi[i]) / d
	}
	lf.Value = sum
	return sum
}

// NeuralField accumulates spikes into a field that decays each step, and
// locates the center of activity as the position of the field maximum.
type NeuralField struct {
	Nr       *spike.Neurons `view:"-" desc:"group being measured"`
	Decay    float64        `def:"0.7" desc:"fraction of the field retained each step"`
	Radius   float64        `def:"0.25" desc:"half-width of the window around the center used for Strength"`
	Field    []float64      `view:"-" desc:"accumulated activity per neuron"`
	Center   float64        `inactive:"+" desc:"x position of the field maximum"`
	Strength float64        `inactive:"+" desc:"fraction of total field within Radius of Center"`
}

// NewNeuralField returns a field sensor for the given group.
func NewNeuralField(ng spike.NeuronGroup) *NeuralField {
	nf := &NeuralField{Nr: ng.AsNeurons(), Decay: 0.7, Radius: 0.25}
	nf.Field = make([]float64, nf.Nr.Size())
	return nf
}

func (nf *NeuralField) Reset() {
	for i := range nf.Field {
		nf.Field[i] = 0
	}
	nf.Center = 0
	nf.Strength = 0
}

// Update decays the field, adds the spikes of the last step, and
// recomputes Center and Strength. Strength keeps its previous value while
// the field is all zero.
func (nf *NeuralField) Update() {
	floats.Scale(nf.Decay, nf.Field)
	for i, s := range nf.Nr.Spikes() {
		if s {
			nf.Field[i]++
		}
	}
	xs := nf.Nr.XPosition()
	nf.Center = xs[floats.MaxIdx(nf.Field)]
	tot := floats.Sum(nf.Field)
	if tot <= 0 {
		return
	}
	in := 0.0
	for i, x := range xs {
		if math.Abs(x-nf.Center) < nf.Radius {
			in += nf.Field[i]
		}
	}
	nf.Strength = in / tot
}

// Locator reports the center and half-width of a stimulus, such as
// stim.Continuous or stim.Topological.
type Locator interface {
	Location() (pos, width float64)
}

// SignalDetection compares the firing rate of neurons within Width of the
// signal Position against the rate of all other neurons.
type SignalDetection struct {
	Nr       *spike.Neurons `view:"-" desc:"group being measured"`
	Src      Locator        `view:"-" desc:"if set, Position and Width are read from it on each Update"`
	Position float64        `desc:"signal center"`
	Width    float64        `desc:"neurons with |x - Position| < Width are inside the signal"`
	Freq     float64        `def:"1000" desc:"steps per second, to convert spike fractions to Hz"`
	Signal   float64        `inactive:"+" desc:"rate inside the signal window"`
	Noise    float64        `inactive:"+" desc:"rate outside the signal window"`
}

// NewSignalDetection returns a sensor following the given stimulus.
func NewSignalDetection(ng spike.NeuronGroup, src Locator) *SignalDetection {
	sd := &SignalDetection{Nr: ng.AsNeurons(), Src: src, Freq: 1000}
	if src != nil {
		sd.Position, sd.Width = src.Location()
	}
	return sd
}

// Diff returns Signal - Noise.
func (sd *SignalDetection) Diff() float64 { return sd.Signal - sd.Noise }

// Update recomputes both rates from the spikes of the last step. A window
// with no neurons gives a rate of zero.
func (sd *SignalDetection) Update() {
	if sd.Src != nil {
		sd.Position, sd.Width = sd.Src.Location()
	}
	var nin, nout, sin, sout int
	spk := sd.Nr.Spikes()
	for i, x := range sd.Nr.XPosition() {
		if math.Abs(x-sd.Position) < sd.Width {
			nin++
			if spk[i] {
				sin++
			}
		} else {
			nout++
			if spk[i] {
				sout++
			}
		}
	}
	sd.Signal = 0
	sd.Noise = 0
	if nin > 0 {
		sd.Signal = sd.Freq * float64(sin) / float64(nin)
	}
	if nout > 0 {
		sd.Noise = sd.Freq * float64(sout) / float64(nout)
	}
}
