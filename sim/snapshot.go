// Copyright (c) 2024, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"github.com/expresscogs/spikenet/spike"
)

// GroupState is a copy of the state of one neuron group.
type GroupState struct {
	Name   string
	Exc    bool
	Spikes []bool
	V      []float64
	GE     []float64
	GI     []float64
	I      []float64
	X      []float64
	Y      []float64

	// W is the adaptation current, for AdEx groups only.
	W []float64
}

// Snapshot is a copy of the network state after a step, sharing no memory
// with the running network.
type Snapshot struct {
	RunID  string
	Step   int
	Time   float64
	Groups []GroupState
}

// Group returns the state of the named group, or nil.
func (ss *Snapshot) Group(name string) *GroupState {
	for i := range ss.Groups {
		if ss.Groups[i].Name == name {
			return &ss.Groups[i]
		}
	}
	return nil
}

func copyFloats(v []float64) []float64 {
	return append([]float64(nil), v...)
}

// NewSnapshot copies the current state of nt.
func NewSnapshot(nt *spike.Network) *Snapshot {
	ss := &Snapshot{Step: nt.Time.Step, Time: nt.Time.Time}
	ss.Groups = make([]GroupState, len(nt.Groups))
	for gi, ng := range nt.Groups {
		nr := ng.AsNeurons()
		gs := &ss.Groups[gi]
		gs.Name = nr.Name()
		gs.Exc = nr.Excitatory()
		gs.Spikes = append([]bool(nil), nr.Spikes()...)
		gs.V = copyFloats(nr.Potentials())
		gs.GE = copyFloats(nr.ExcitatoryConductance())
		gs.GI = copyFloats(nr.InhibitoryConductance())
		gs.I = copyFloats(nr.Inputs())
		gs.X = copyFloats(nr.XPosition())
		gs.Y = copyFloats(nr.YPosition())
		if ag, ok := ng.(*spike.AdExGroup); ok {
			gs.W = copyFloats(ag.Adaptation())
		}
	}
	return ss
}
