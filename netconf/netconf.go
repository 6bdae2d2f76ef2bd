// Copyright (c) 2024, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package netconf describes spiking networks in TOML and builds them.

A network file has top-level name, seed, threads and dt keys, then one
[[group]] table per neuron group and one [[pathway]] table per pathway:

	name = "loop"
	seed = 42

	[[group]]
	name = "CTX"
	size = 1000
	excitatory = true
	model = "lif"
	[group.input]
	kind = "uniform"
	scale = 0.2e-3

	[[pathway]]
	source = "CTX"
	target = "CTX"
	topology = "neighborhood"
	pcon = 0.1
	sigma = 0.05
	[pathway.wt]
	scale = 1e-4

Every key is optional except group name and size and pathway source and
target: omitted keys keep the model defaults. Unknown keys are logged and
otherwise ignored.
*/
package netconf

import (
	"log"

	"github.com/BurntSushi/toml"
	"github.com/expresscogs/spikenet/adex"
	"github.com/expresscogs/spikenet/lif"
	"github.com/expresscogs/spikenet/spike"
	"github.com/expresscogs/spikenet/stim"
	"github.com/pkg/errors"
)

// NetConfig is the description of a network.
type NetConfig struct {
	Name     string         `desc:"network name"`
	Seed     uint64         `desc:"seed for all random draws"`
	Threads  int            `desc:"number of worker goroutines (1 = serial)"`
	Dt       float64        `desc:"simulated seconds per step"`
	Groups   []*GroupConfig `desc:"neuron groups, in order"`
	Pathways []*PathConfig  `desc:"pathways, in order"`
}

// ClampConfig overrides the model's conductance ceilings where set.
type ClampConfig struct {
	On    *bool    `toml:"on"`
	GEMax *float64 `toml:"gemax"`
	GIMax *float64 `toml:"gimax"`
}

// InputConfig selects the input generator of a group. Stimulus fields left
// unset keep the generator's defaults; Background adds uniform noise of
// that scale to any kind.
type InputConfig struct {
	Kind       Inputs       `toml:"kind"`
	Background float64      `toml:"background"`
	Value      float64      `toml:"value"`
	Scale      float64      `toml:"scale"`
	Position   *float64     `toml:"position"`
	Width      *float64     `toml:"width"`
	Intensity  *float64     `toml:"intensity"`
	Noise      *float64     `toml:"noise"`
	Shape      *stim.Shapes `toml:"shape"`
	Randomize  *bool        `toml:"randomize"`
	Interval   *int         `toml:"interval"`
	Duration   *int         `toml:"duration"`
	NStim      *int         `toml:"nstim"`
}

// GroupConfig describes one neuron group. Only the parameters of its Model
// are used.
type GroupConfig struct {
	Name       string        `toml:"name"`
	Size       int           `toml:"size"`
	Excitatory bool          `toml:"excitatory"`
	Model      spike.Models  `toml:"model"`
	Layout     spike.Layouts `toml:"layout"`
	Firing     *adex.Firing  `toml:"firing" desc:"AdEx firing preset, applied before the adex table"`
	Clamp      *ClampConfig  `toml:"clamp"`
	LIF        lif.Params    `toml:"lif"`
	AdEx       adex.Params   `toml:"adex"`
	Input      *InputConfig  `toml:"input"`
}

// NewGroupConfig returns a LIF group config with default parameters, with
// the AdEx time step set to dt.
func NewGroupConfig(dt float64) *GroupConfig {
	gc := &GroupConfig{Model: spike.LIF, Excitatory: true}
	gc.LIF.Defaults()
	gc.AdEx.Defaults()
	if dt > 0 {
		gc.AdEx.Dt = dt
		gc.AdEx.Update()
	}
	return gc
}

// PathConfig describes one pathway.
type PathConfig struct {
	Name     string            `toml:"name" desc:"defaults to <source>To<target>"`
	Source   string            `toml:"source"`
	Target   string            `toml:"target"`
	Topology Topos             `toml:"topology"`
	PCon     float64           `toml:"pcon"`
	Sigma    float64           `toml:"sigma"`
	SelfCon  bool              `toml:"selfcon"`
	Wt       spike.WtParams    `toml:"wt"`
	Delay    spike.DelayParams `toml:"delay"`
}

// NewPathConfig returns a uniform pathway config with default parameters.
func NewPathConfig() *PathConfig {
	pc := &PathConfig{Topology: Uniform, PCon: 0.1, Sigma: 0.05}
	pc.Wt.Defaults()
	pc.Delay.Defaults()
	return pc
}

// SynParams returns the weight and delay parameters.
func (pc *PathConfig) SynParams() spike.SynParams {
	return spike.SynParams{Wt: pc.Wt, Delay: pc.Delay}
}

// netFile is the top level of a network file; tables are decoded later
// over defaulted structs.
type netFile struct {
	Name    string           `toml:"name"`
	Seed    uint64           `toml:"seed"`
	Threads int              `toml:"threads"`
	Dt      float64          `toml:"dt"`
	Group   []toml.Primitive `toml:"group"`
	Pathway []toml.Primitive `toml:"pathway"`
}

func defaultFile() netFile {
	return netFile{Name: "spikenet", Seed: 1, Threads: 1, Dt: 0.001}
}

// Parse reads a network description from TOML text.
func Parse(data string) (*NetConfig, error) {
	nf := defaultFile()
	md, err := toml.Decode(data, &nf)
	if err != nil {
		return nil, errors.Wrapf(spike.ErrConfig, "netconf: %v", err)
	}
	return fromFile(&nf, md)
}

// Load reads a network description from a TOML file.
func Load(filename string) (*NetConfig, error) {
	nf := defaultFile()
	md, err := toml.DecodeFile(filename, &nf)
	if err != nil {
		return nil, errors.Wrapf(spike.ErrConfig, "netconf: %v: %v", filename, err)
	}
	return fromFile(&nf, md)
}

func fromFile(nf *netFile, md toml.MetaData) (*NetConfig, error) {
	nc := &NetConfig{Name: nf.Name, Seed: nf.Seed, Threads: nf.Threads, Dt: nf.Dt}
	for i, prim := range nf.Group {
		gc := NewGroupConfig(nc.Dt)
		if err := md.PrimitiveDecode(prim, gc); err != nil {
			return nil, errors.Wrapf(spike.ErrConfig, "netconf: group %d: %v", i, err)
		}
		if gc.Firing != nil {
			// preset first, then the explicit adex values again on top
			gc.AdEx.SetFiring(*gc.Firing)
			if err := md.PrimitiveDecode(prim, gc); err != nil {
				return nil, errors.Wrapf(spike.ErrConfig, "netconf: group %d: %v", i, err)
			}
		}
		gc.LIF.Update()
		gc.AdEx.Update()
		nc.Groups = append(nc.Groups, gc)
	}
	for i, prim := range nf.Pathway {
		pc := NewPathConfig()
		if err := md.PrimitiveDecode(prim, pc); err != nil {
			return nil, errors.Wrapf(spike.ErrConfig, "netconf: pathway %d: %v", i, err)
		}
		if pc.Name == "" {
			pc.Name = pc.Source + "To" + pc.Target
		}
		nc.Pathways = append(nc.Pathways, pc)
	}
	for _, key := range md.Undecoded() {
		log.Printf("netconf: %v: ignoring unknown key %q\n", nc.Name, key.String())
	}
	return nc, nil
}
