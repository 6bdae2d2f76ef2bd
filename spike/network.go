// Copyright (c) 2024, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import (
	"fmt"
	"log"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/pkg/errors"
)

// Network owns an ordered set of neuron groups and the synapse groups
// (pathways) between them, and advances them in lock-step. Groups and
// pathways are referred to by their index (handle) in Groups and Paths.
//
// The structure is fixed by Build: groups and pathways can only be added
// before it.
type Network struct {
	Nm       string                   `desc:"overall name of network"`
	Seed     uint64                   `desc:"seed from which all random draws of the network are derived"`
	Groups   []NeuronGroup            `desc:"neuron groups, in order added"`
	Paths    []*SynapseGroup          `desc:"synapse groups, in order added"`
	GroupMap map[string]NeuronGroup   `view:"-" desc:"map of name to neuron group"`
	PathMap  map[string]*SynapseGroup `view:"-" desc:"map of name to synapse group"`
	Dend     [][]*SynapseGroup        `view:"-" desc:"synapse groups targeting each group, by group handle"`
	Axon     [][]*SynapseGroup        `view:"-" desc:"synapse groups sourced from each group, by group handle"`
	Time     Time                     `desc:"step counter and simulated time"`
	Sched    *Scheduler               `view:"-" desc:"runs the update phases"`

	built  bool
	failed error
}

// NewNetwork returns a new empty network. A nil scheduler runs serially.
func NewNetwork(name string, seed uint64, sc *Scheduler) *Network {
	if sc == nil {
		sc = NewScheduler(1)
	}
	nt := &Network{Nm: name, Seed: seed, Sched: sc}
	nt.GroupMap = make(map[string]NeuronGroup)
	nt.PathMap = make(map[string]*SynapseGroup)
	nt.Time.Defaults()
	return nt
}

func (nt *Network) Name() string { return nt.Nm }

// Built reports whether Build has completed.
func (nt *Network) Built() bool { return nt.built }

// Failed returns the error that halted the network, if any.
func (nt *Network) Failed() error { return nt.failed }

// AddGroup adds a neuron group, which must have a unique name and a
// positive size.
func (nt *Network) AddGroup(ng NeuronGroup) error {
	if nt.built {
		return errors.Wrapf(ErrBuilt, "adding group to network %q", nt.Nm)
	}
	nr := ng.AsNeurons()
	if err := nr.validate(); err != nil {
		return err
	}
	if _, has := nt.GroupMap[nr.Nm]; has {
		return configErr("network %q: duplicate group name %q", nt.Nm, nr.Nm)
	}
	nr.Index = len(nt.Groups)
	nt.Groups = append(nt.Groups, ng)
	nt.GroupMap[nr.Nm] = ng
	return nil
}

// AddLIF adds a new LIF group with default parameters.
func (nt *Network) AddLIF(name string, size int, exc bool, gen InputGenerator) (*LIFGroup, error) {
	lg := NewLIFGroup(name, size, exc, gen)
	if err := nt.AddGroup(lg); err != nil {
		return nil, err
	}
	return lg, nil
}

// AddAdEx adds a new AdEx group with default parameters.
func (nt *Network) AddAdEx(name string, size int, exc bool, gen InputGenerator) (*AdExGroup, error) {
	ag := NewAdExGroup(name, size, exc, gen)
	if err := nt.AddGroup(ag); err != nil {
		return nil, err
	}
	return ag, nil
}

// GroupByName returns the group with the given name, or nil.
func (nt *Network) GroupByName(name string) NeuronGroup {
	return nt.GroupMap[name]
}

// GroupByNameTry returns the group with the given name, or an error.
func (nt *Network) GroupByNameTry(name string) (NeuronGroup, error) {
	ng := nt.GroupByName(name)
	if ng == nil {
		return nil, configErr("group named: %v not found in network: %v", name, nt.Nm)
	}
	return ng, nil
}

// PathByName returns the synapse group with the given name, or nil.
func (nt *Network) PathByName(name string) *SynapseGroup {
	return nt.PathMap[name]
}

func (nt *Network) owns(ng NeuronGroup) bool {
	nr := ng.AsNeurons()
	return nr.Index >= 0 && nr.Index < len(nt.Groups) && nt.Groups[nr.Index] == ng
}

// Connect adds a pathway from src to tgt. The connection mask, weights and
// delays are generated at Build.
func (nt *Network) Connect(name string, src, tgt NeuronGroup, topo Topology, sp SynParams) (*SynapseGroup, error) {
	if nt.built {
		return nil, errors.Wrapf(ErrBuilt, "adding pathway to network %q", nt.Nm)
	}
	if !nt.owns(src) || !nt.owns(tgt) {
		return nil, configErr("pathway %q: source and target must be groups of network %q", name, nt.Nm)
	}
	if _, has := nt.PathMap[name]; has {
		return nil, configErr("network %q: duplicate pathway name %q", nt.Nm, name)
	}
	if topo == nil {
		return nil, configErr("pathway %q: nil topology", name)
	}
	if err := topo.Validate(); err != nil {
		return nil, errors.Wrapf(err, "pathway %q", name)
	}
	sn, tn := src.AsNeurons(), tgt.AsNeurons()
	sg := &SynapseGroup{Nm: name, Index: len(nt.Paths), Src: sn.Index, Tgt: tn.Index, SrcExc: sn.Exc, NSrc: sn.N, NTgt: tn.N, Topo: topo, Params: sp}
	if err := sg.validate(); err != nil {
		return nil, err
	}
	nt.Paths = append(nt.Paths, sg)
	nt.PathMap[name] = sg
	return sg, nil
}

// ConnectNames adds a pathway between the groups with the given names.
func (nt *Network) ConnectNames(name, src, tgt string, topo Topology, sp SynParams) (*SynapseGroup, error) {
	sg, err := nt.GroupByNameTry(src)
	if err != nil {
		return nil, err
	}
	tg, err := nt.GroupByNameTry(tgt)
	if err != nil {
		return nil, err
	}
	return nt.Connect(name, sg, tg, topo, sp)
}

// Build validates every group and pathway, then initializes the groups,
// binds their input generators, and generates the synapses of every
// pathway. Returns one error listing every configuration problem.
func (nt *Network) Build() error {
	if nt.built {
		return errors.Wrapf(ErrBuilt, "network %q", nt.Nm)
	}
	if len(nt.Groups) == 0 {
		return configErr("network %q has no groups", nt.Nm)
	}
	emsg := ""
	for _, ng := range nt.Groups {
		if err := ng.Validate(); err != nil {
			emsg += err.Error() + "\n"
		}
	}
	for _, sg := range nt.Paths {
		if err := sg.validate(); err != nil {
			emsg += err.Error() + "\n"
		}
	}
	if emsg != "" {
		return configErr("network %q:\n%s", nt.Nm, emsg)
	}
	nt.initGroups()
	nt.Dend = make([][]*SynapseGroup, len(nt.Groups))
	nt.Axon = make([][]*SynapseGroup, len(nt.Groups))
	nsyn := 0
	for pi, sg := range nt.Paths {
		src := nt.Groups[sg.Src].AsNeurons()
		tgt := nt.Groups[sg.Tgt].AsNeurons()
		rnd := NewRand(nt.Seed, pathStream, pi)
		mask := sg.Topo.Connect(src, tgt, sg.Src == sg.Tgt, rnd)
		sg.BuildFromMask(mask, rnd)
		nt.Dend[sg.Tgt] = append(nt.Dend[sg.Tgt], sg)
		nt.Axon[sg.Src] = append(nt.Axon[sg.Src], sg)
		nsyn += sg.NSyn()
		log.Printf("%v: %v -> %v %v: %v\n", nt.Nm, src.Nm, tgt.Nm, TopoString(sg.Topo), sg)
	}
	nt.Time.Reset()
	nt.built = true
	nt.failed = nil
	log.Printf("%v: built %d groups, %d pathways, %d synapses\n", nt.Nm, len(nt.Groups), len(nt.Paths), nsyn)
	return nil
}

// initGroups draws positions and initial potentials and binds inputs.
func (nt *Network) initGroups() {
	for gi, ng := range nt.Groups {
		ng.Init(NewRand(nt.Seed, groupStream, gi))
		nr := ng.AsNeurons()
		bindInput(nr.Gen, nr, nt.Seed)
	}
}

// Reset returns the network to the state right after Build: initial
// potentials are redrawn from the same seeds, input generators are rebound,
// delay buffers are cleared and the step counter is zeroed. Connectivity is
// kept. Clears any failure.
func (nt *Network) Reset() error {
	if !nt.built {
		return errors.Wrapf(ErrNotBuilt, "network %q", nt.Nm)
	}
	nt.initGroups()
	for _, sg := range nt.Paths {
		sg.Reset()
	}
	nt.Time.Reset()
	nt.Sched.ResetTimers()
	nt.failed = nil
	return nil
}

// Update advances the network one step. First every neuron group integrates
// (reading conductances posted in earlier steps), and only when all groups
// are done does every synapse group propagate the new spikes. Any failure
// aborts the step and halts the network: later calls return the same error
// until Reset.
func (nt *Network) Update(step int) error {
	if !nt.built {
		return errors.Wrapf(ErrNotBuilt, "network %q", nt.Nm)
	}
	if nt.failed != nil {
		return nt.failed
	}
	err := nt.Sched.Run(len(nt.Groups), func(gi int) error {
		return nt.Groups[gi].Update(step, nt.Dend[gi])
	}, "GroupUpdate")
	if err == nil {
		err = nt.Sched.Run(len(nt.Paths), func(pi int) error {
			sg := nt.Paths[pi]
			sg.Update(step, nt.Groups[sg.Src].AsNeurons().Spk)
			return nil
		}, "SynapseUpdate")
	}
	if err != nil {
		nt.failed = errors.Wrapf(err, "network %q step %d", nt.Nm, step)
		log.Println(nt.failed)
		return nt.failed
	}
	return nil
}

// Cycle updates the network at the current Time.Step and then increments it.
func (nt *Network) Cycle() error {
	if err := nt.Update(nt.Time.Step); err != nil {
		return err
	}
	nt.Time.StepInc()
	return nil
}

// groupMem returns the memory used by the state of a group, in bytes.
func groupMem(ng NeuronGroup) int {
	nr := ng.AsNeurons()
	nmem := nr.N * (6*8 + 1)
	if ag, ok := ng.(*AdExGroup); ok {
		nmem += len(ag.W) * 8
	}
	return nmem
}

// SizeReport returns a string reporting the size of each group and pathway,
// and the network in total.
func (nt *Network) SizeReport() string {
	var b strings.Builder
	neur := 0
	neurMem := 0
	syn := 0
	synMem := 0
	for gi, ng := range nt.Groups {
		nr := ng.AsNeurons()
		nmem := groupMem(ng)
		neur += nr.N
		neurMem += nmem
		fmt.Fprintf(&b, "%14s:\t Neurons: %d\t NeurMem: %v \t Sends To:\n", nr.Nm, nr.N, (datasize.ByteSize)(nmem).HumanReadable())
		if nt.Axon == nil {
			continue
		}
		for _, sg := range nt.Axon[gi] {
			ns := sg.NSyn()
			pmem := sg.Mem()
			syn += ns
			synMem += pmem
			fmt.Fprintf(&b, "\t%14s:\t Syns: %d\t SynMem: %v\n", nt.Groups[sg.Tgt].AsNeurons().Nm, ns, (datasize.ByteSize)(pmem).HumanReadable())
		}
	}
	fmt.Fprintf(&b, "\n\n%14s:\t Neurons: %d\t NeurMem: %v \t Syns: %d \t SynMem: %v\n", nt.Nm, neur, (datasize.ByteSize)(neurMem).HumanReadable(), syn, (datasize.ByteSize)(synMem).HumanReadable())
	return b.String()
}

// TimerReport returns the time spent in each update phase and each worker.
func (nt *Network) TimerReport() string {
	return fmt.Sprintf("TimerReport: %v, ", nt.Nm) + nt.Sched.TimerReport()
}
