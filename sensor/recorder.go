// Copyright (c) 2024, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sensor

import (
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/expresscogs/spikenet/spike"
)

// Recorder logs one row per step to Table: the Step count, simulated Time,
// and the number of spikes of each group in a column named for the group.
type Recorder struct {
	Table *etable.Table `desc:"log of spike counts per step"`
	Names []string      `desc:"group names, in column order after Step and Time"`
}

// NewRecorder configures a table with a column for every group of nt.
func NewRecorder(nt *spike.Network) *Recorder {
	rc := &Recorder{Table: &etable.Table{}}
	dt := rc.Table
	dt.SetMetaData("name", nt.Name()+"Spikes")
	dt.SetMetaData("desc", "Spike counts per group per step")
	dt.SetMetaData("read-only", "true")

	sch := etable.Schema{
		{"Step", etensor.INT64, nil, nil},
		{"Time", etensor.FLOAT64, nil, nil},
	}
	for _, ng := range nt.Groups {
		nm := ng.AsNeurons().Name()
		rc.Names = append(rc.Names, nm)
		sch = append(sch, etable.Column{nm, etensor.INT64, nil, nil})
	}
	dt.SetFromSchema(sch, 0)
	return rc
}

// Record appends a row for the step just completed by nt.
func (rc *Recorder) Record(nt *spike.Network) {
	dt := rc.Table
	row := dt.Rows
	dt.SetNumRows(row + 1)
	dt.SetCellFloat("Step", row, float64(nt.Time.Step))
	dt.SetCellFloat("Time", row, nt.Time.Time)
	for _, nm := range rc.Names {
		ng := nt.GroupByName(nm)
		if ng == nil {
			continue
		}
		dt.SetCellFloat(nm, row, float64(ng.AsNeurons().NSpikes()))
	}
}

// Reset removes all rows.
func (rc *Recorder) Reset() {
	rc.Table.SetNumRows(0)
}
