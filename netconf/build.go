// Copyright (c) 2024, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netconf

import (
	"github.com/emer/emergent/prjn"
	"github.com/expresscogs/spikenet/spike"
	"github.com/expresscogs/spikenet/stim"
	"github.com/pkg/errors"
)

// Build creates and builds the network. A nil scheduler gets a new one with
// Threads workers; it is not started.
func (nc *NetConfig) Build(sc *spike.Scheduler) (*spike.Network, error) {
	if sc == nil {
		sc = spike.NewScheduler(nc.Threads)
	}
	nt := spike.NewNetwork(nc.Name, nc.Seed, sc)
	if nc.Dt > 0 {
		nt.Time.Dt = nc.Dt
	}
	for _, gc := range nc.Groups {
		gen, err := gc.Input.Generator()
		if err != nil {
			return nil, errors.Wrapf(err, "group %q", gc.Name)
		}
		if err := nt.AddGroup(gc.NeuronGroup(gen)); err != nil {
			return nil, err
		}
	}
	for _, pc := range nc.Pathways {
		tp, err := pc.Topo()
		if err != nil {
			return nil, err
		}
		if _, err := nt.ConnectNames(pc.Name, pc.Source, pc.Target, tp, pc.SynParams()); err != nil {
			return nil, err
		}
	}
	if err := nt.Build(); err != nil {
		return nil, err
	}
	return nt, nil
}

// NeuronGroup returns a new, unbuilt group of the configured model.
func (gc *GroupConfig) NeuronGroup(gen spike.InputGenerator) spike.NeuronGroup {
	var ng spike.NeuronGroup
	switch gc.Model {
	case spike.AdEx:
		ag := spike.NewAdExGroup(gc.Name, gc.Size, gc.Excitatory, gen)
		ag.Params = gc.AdEx
		ng = ag
	default:
		lg := spike.NewLIFGroup(gc.Name, gc.Size, gc.Excitatory, gen)
		lg.Params = gc.LIF
		ng = lg
	}
	nr := ng.AsNeurons()
	nr.Layout = gc.Layout
	if cc := gc.Clamp; cc != nil {
		if cc.On != nil {
			nr.Clamp.On = *cc.On
		}
		if cc.GEMax != nil {
			nr.Clamp.GEMax = *cc.GEMax
		}
		if cc.GIMax != nil {
			nr.Clamp.GIMax = *cc.GIMax
		}
	}
	return ng
}

func setf(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func seti(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

// Generator returns a new input generator as configured, or nil for no
// input. A nil config gives no input.
func (ic *InputConfig) Generator() (spike.InputGenerator, error) {
	if ic == nil {
		return nil, nil
	}
	var gen spike.InputGenerator
	switch ic.Kind {
	case Null:
	case Constant:
		gen = stim.NewConstant(ic.Value)
	case UniformNoise:
		gen = stim.NewUniformNoise(ic.Scale)
	case AutoCorr:
		gen = stim.NewAutoCorrNoise(ic.Scale)
	case Periodic:
		pg := stim.NewPeriodic()
		seti(&pg.NStim, ic.NStim)
		setf(&pg.Noise, ic.Noise)
		seti(&pg.Duration, ic.Duration)
		seti(&pg.Interval, ic.Interval)
		setf(&pg.Intensity, ic.Intensity)
		setf(&pg.Width, ic.Width)
		gen = pg
	case Continuous:
		cs := stim.NewContinuous()
		par := cs.Params()
		setf(&par.Position, ic.Position)
		setf(&par.Width, ic.Width)
		setf(&par.Intensity, ic.Intensity)
		setf(&par.Noise, ic.Noise)
		cs.SetParams(par)
		gen = cs
	case Topological:
		ts := stim.NewTopological()
		par := ts.Params()
		if ic.Shape != nil {
			par.Shape = *ic.Shape
		}
		setf(&par.Position, ic.Position)
		setf(&par.Width, ic.Width)
		setf(&par.Intensity, ic.Intensity)
		setf(&par.Noise, ic.Noise)
		if ic.Randomize != nil {
			par.Randomize = *ic.Randomize
		}
		seti(&par.Interval, ic.Interval)
		ts.SetParams(par)
		gen = ts
	default:
		return nil, errors.Wrapf(spike.ErrConfig, "unknown input kind %v", ic.Kind)
	}
	if ic.Background > 0 {
		bg := stim.NewUniformNoise(ic.Background)
		if gen == nil {
			return bg, nil
		}
		return stim.NewAdditive(gen, bg), nil
	}
	return gen, nil
}

// Topo returns the topology of the pathway.
func (pc *PathConfig) Topo() (spike.Topology, error) {
	switch pc.Topology {
	case Uniform:
		return &spike.UniformTopo{PCon: pc.PCon, SelfCon: pc.SelfCon}, nil
	case Neighborhood:
		return &spike.NeighborTopo{PCon: pc.PCon, Sigma: pc.Sigma, SelfCon: pc.SelfCon}, nil
	case Surround:
		return &spike.SurroundTopo{PCon: pc.PCon, Sigma: pc.Sigma, SelfCon: pc.SelfCon}, nil
	case Full:
		fp := prjn.NewFull()
		fp.SelfCon = pc.SelfCon
		return spike.NewPatternTopo(fp), nil
	case OneToOne:
		return spike.NewPatternTopo(prjn.NewOneToOne()), nil
	}
	return nil, errors.Wrapf(spike.ErrConfig, "pathway %q: unknown topology %v", pc.Name, pc.Topology)
}
