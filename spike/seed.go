// Copyright (c) 2024, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import "golang.org/x/exp/rand"

// seed streams: each group, pathway and input generator draws from its own
// source so results do not depend on update order or thread count.
const (
	groupStream uint64 = iota + 1
	pathStream
	inputStream
)

// SubSeed derives a well-mixed seed for item idx of a stream from base,
// using the splitmix64 finalizer.
func SubSeed(base, stream uint64, idx int) uint64 {
	z := base + stream*0x9e3779b97f4a7c15 + uint64(idx+1)*0xbf58476d1ce4e5b9
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// NewRand returns a random generator for item idx of a stream.
func NewRand(base, stream uint64, idx int) *rand.Rand {
	return rand.New(rand.NewSource(SubSeed(base, stream, idx)))
}
