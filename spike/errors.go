// Copyright (c) 2024, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import "github.com/pkg/errors"

var (
	// ErrConfig is returned for invalid construction parameters:
	// non-positive sizes, inverted ranges, duplicate or unknown names.
	ErrConfig = errors.New("spike: invalid configuration")

	// ErrDiverged is returned when a state variable becomes NaN or infinite.
	ErrDiverged = errors.New("spike: simulation diverged")

	// ErrWorker is returned when a group update panics on a worker.
	ErrWorker = errors.New("spike: worker failed")

	// ErrBuilt is returned when the network structure is changed after Build.
	ErrBuilt = errors.New("spike: network already built")

	// ErrNotBuilt is returned when stepping a network before Build.
	ErrNotBuilt = errors.New("spike: network not built")

	// ErrSchedStopped is returned by a multi-threaded Scheduler that has not been started.
	ErrSchedStopped = errors.New("spike: scheduler not running")
)

func configErr(format string, args ...any) error {
	return errors.Wrapf(ErrConfig, format, args...)
}
