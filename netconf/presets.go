// Copyright (c) 2024, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netconf

import (
	"embed"
	"path"
	"sort"
	"strings"

	"github.com/expresscogs/spikenet/spike"
	"github.com/pkg/errors"
)

//go:embed presets/*.toml
var presets embed.FS

// PresetNames returns the names of the built-in networks, sorted.
func PresetNames() []string {
	ents, err := presets.ReadDir("presets")
	if err != nil {
		return nil
	}
	var nms []string
	for _, e := range ents {
		nms = append(nms, strings.TrimSuffix(e.Name(), ".toml"))
	}
	sort.Strings(nms)
	return nms
}

// Preset returns the built-in network description of the given name.
func Preset(name string) (*NetConfig, error) {
	b, err := presets.ReadFile(path.Join("presets", name+".toml"))
	if err != nil {
		return nil, errors.Wrapf(spike.ErrConfig, "netconf: no preset named %q", name)
	}
	return Parse(string(b))
}

func mustPreset(name string) *NetConfig {
	nc, err := Preset(name)
	if err != nil {
		panic(err)
	}
	return nc
}

// SignalSelection returns the basal ganglia signal selection loop: thalamus
// (THL) driven by a continuous stimulus, cortex (CTX), two striatal groups
// (STR, ST2), subthalamic nucleus (STN) and the two pallidal groups (GPI,
// GPE), wired with narrow and wide neighborhood pathways.
func SignalSelection() *NetConfig { return mustPreset("sigsel") }

// TopoLayer returns a single AdEx layer of excitatory and inhibitory groups
// with neighborhood excitation and surround inhibition.
func TopoLayer() *NetConfig { return mustPreset("topolayer") }

// Recurrent returns a pair of large LIF groups with narrow recurrent
// connectivity.
func Recurrent() *NetConfig { return mustPreset("recurrent") }
