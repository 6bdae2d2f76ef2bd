// Copyright (c) 2024, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

// Time holds the step counter and simulated time of a network.
type Time struct {

	// number of steps completed since the last Reset.
	Step int

	// simulated time in seconds: Step * Dt.
	Time float64

	// amount of simulated time per step, in seconds.
	Dt float64 `def:"0.001"`
}

// Defaults sets default values
func (tm *Time) Defaults() {
	tm.Dt = 0.001
}

// Reset resets the counters all back to zero
func (tm *Time) Reset() {
	tm.Step = 0
	tm.Time = 0
	if tm.Dt == 0 {
		tm.Defaults()
	}
}

// StepInc increments the step counter and recomputes Time.
func (tm *Time) StepInc() {
	tm.Step++
	tm.Time = float64(tm.Step) * tm.Dt
}
