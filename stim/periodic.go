// Copyright (c) 2024, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stim

import (
	"gonum.org/v1/gonum/floats"
)

// Periodic presents NStim triangular stimuli at random positions for
// Duration steps, then a flat low input for Interval steps, and repeats.
// Uniform noise in [0, Noise) is added throughout. Stimulus k (from 0) has
// peak (k+1) * Intensity.
type Periodic struct {
	NStim     int     `def:"2" min:"1" desc:"number of stimuli presented at once"`
	Noise     float64 `def:"0.5e-3" desc:"scale of the uniform noise added every step"`
	Duration  int     `def:"500" min:"1" desc:"number of steps each presentation lasts"`
	Interval  int     `def:"500" min:"0" desc:"number of steps between presentations"`
	Intensity float64 `def:"1e-3" desc:"peak of the first stimulus"`
	Width     float64 `def:"0.1" min:"0" desc:"distance from a stimulus center at which it reaches zero"`

	On      bool      `inactive:"+" desc:"a stimulus is being presented"`
	Centers []float64 `inactive:"+" desc:"centers of the current stimuli"`

	randSrc
	step int
	x    []float64
	stim []float64
	prof []float64
	out  []float64
}

// NewPeriodic returns a new periodic stimulus generator with default parameters.
func NewPeriodic() *Periodic {
	pg := &Periodic{}
	pg.Defaults()
	return pg
}

func (pg *Periodic) Defaults() {
	pg.NStim = 2
	pg.Noise = 0.5e-3
	pg.Duration = 500
	pg.Interval = 500
	pg.Intensity = 1e-3
	pg.Width = 0.1
}

// SNR returns the signal to noise ratio.
func (pg *Periodic) SNR() float64 {
	if pg.Noise == 0 {
		return 0
	}
	return pg.Intensity / pg.Noise
}

// SetSNR sets the intensity to the given multiple of the noise.
func (pg *Periodic) SetSNR(snr float64) { pg.Intensity = snr * pg.Noise }

func (pg *Periodic) Bind(n int) {
	pg.step = 0
	pg.On = false
	pg.stim = make([]float64, n)
	pg.prof = make([]float64, n)
	pg.out = make([]float64, n)
	pg.x = linearX(n)
}

func (pg *Periodic) BindPositions(x, y []float64) {
	pg.x = x
}

func (pg *Periodic) Generate() []float64 {
	per := pg.Duration + pg.Interval
	if per < 1 {
		per = 1
	}
	switch pg.step % per {
	case 0:
		for i := range pg.stim {
			pg.stim[i] = 0
		}
		pg.Centers = pg.Centers[:0]
		for k := 0; k < pg.NStim; k++ {
			c := pg.Width + (1-2*pg.Width)*pg.float()
			pg.Centers = append(pg.Centers, c)
			Triangle.Profile(pg.prof, pg.x, c, pg.Width, float64(k+1)*pg.Intensity)
			floats.Add(pg.stim, pg.prof)
		}
		pg.On = true
	case pg.Duration:
		for i := range pg.stim {
			pg.stim[i] = pg.Intensity / float64(len(pg.stim))
		}
		pg.On = false
	}
	pg.step++
	for i, s := range pg.stim {
		pg.out[i] = s + pg.float()*pg.Noise
	}
	return pg.out
}

// linearX returns n positions evenly spaced over [0,1].
func linearX(n int) []float64 {
	x := make([]float64, n)
	if n == 1 {
		x[0] = 0.5
	} else if n > 1 {
		floats.Span(x, 0, 1)
	}
	return x
}
