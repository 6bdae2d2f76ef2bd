// Copyright (c) 2024, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package spikenet is the overall repository for a discrete-time simulator of
networks of spiking neurons with conductance-based synapses and axonal delays.

This top-level of the repository has no functional code -- everything is organized
into the following sub-repositories:

* spike: the core: LIF and AdEx neuron groups, connectivity topologies, synapse
groups with delay ring buffers, the input generator contract, and the Network that
steps all groups and pathways in two barrier-separated phases on a Scheduler.

* lif, adex: the per-neuron parameters and integration math of the leaky and the
adaptive exponential integrate-and-fire models.

* stim: input generators: noise, constant input, and stimuli placed along the
position axis of a group (periodic, continuous, topological).

* sensor: read-only measurements of group state (population rate, local field
potential, neural field, signal detection) and a Recorder that logs spike counts
into an etable.

* sim: the run loop: run, pause, resume and stop from any goroutine, per-step
hooks, and a bounded snapshot mailbox for viewers.

* netconf: TOML network descriptions and the built-in networks, including the
basal ganglia signal selection loop.
*/
package spikenet
