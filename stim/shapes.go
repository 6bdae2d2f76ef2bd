// Copyright (c) 2024, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stim

import (
	"math"
	"strings"

	"github.com/goki/ki/kit"
)

// Shapes are the spatial profiles of a topological stimulus.
type Shapes int32

//go:generate stringer -type=Shapes

var KiT_Shapes = kit.Enums.AddEnum(ShapesN, kit.NotBitFlag, nil)

func (ev Shapes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Shapes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

func (ev Shapes) MarshalText() ([]byte, error) { return []byte(ev.String()), nil }

func (ev *Shapes) UnmarshalText(b []byte) error {
	for s := Triangle; s < ShapesN; s++ {
		if strings.EqualFold(s.String(), string(b)) {
			*ev = s
			return nil
		}
	}
	return ev.FromString(string(b))
}

const (
	// Triangle falls off linearly from height at the center to zero at width.
	Triangle Shapes = iota

	// Notch is height within width/2 of the center and zero elsewhere.
	Notch

	// Gaussian is height * exp(-(x - center)^2 / (width^2 / 4)).
	Gaussian

	ShapesN
)

// Profile sets dst to the shape evaluated at positions x.
func (ev Shapes) Profile(dst, x []float64, center, width, height float64) {
	switch ev {
	case Triangle:
		for i, xi := range x {
			dst[i] = math.Max(0, width-math.Abs(xi-center)) * height / width
		}
	case Notch:
		for i, xi := range x {
			if math.Abs(xi-center) < width/2 {
				dst[i] = height
			} else {
				dst[i] = 0
			}
		}
	default:
		qw := 0.25 * width * width
		for i, xi := range x {
			d := xi - center
			dst[i] = height * math.Exp(-d*d/qw)
		}
	}
}
