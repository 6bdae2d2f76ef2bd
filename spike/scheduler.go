// Copyright (c) 2024, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/emer/emergent/timer"
	"github.com/pkg/errors"
)

// ItemFun updates item i of a phase.
type ItemFun func(i int) error

type phaseTask struct {
	fun ItemFun
	n   int
}

type itemErr struct {
	idx int
	err error
}

// Scheduler runs the items of an update phase on a fixed pool of worker
// goroutines and waits for all of them: every Run is a barrier. Worker th
// always gets items th, th+NThreads, ..., so the assignment of items to
// workers is fixed. With NThreads <= 1 items run serially on the caller.
//
// A multi-threaded Scheduler must be started before use and stopped after;
// sim.Sim does this around each run.
type Scheduler struct {
	NThreads int                    `desc:"number of worker goroutines -- 1 or less runs serially"`
	ThrTimes []timer.Time           `view:"-" desc:"timers for each worker"`
	FunTimes map[string]*timer.Time `view:"-" desc:"timers for each phase"`

	mu      sync.Mutex
	running bool
	chans   []chan phaseTask
	errs    []itemErr
	wg      sync.WaitGroup
}

// NewScheduler returns a scheduler with nthreads workers (not yet started).
func NewScheduler(nthreads int) *Scheduler {
	sc := &Scheduler{NThreads: nthreads}
	nthr := nthreads
	if nthr < 1 {
		nthr = 1
	}
	sc.ThrTimes = make([]timer.Time, nthr)
	sc.FunTimes = make(map[string]*timer.Time)
	return sc
}

// Serial reports whether items run on the calling goroutine.
func (sc *Scheduler) Serial() bool { return sc.NThreads <= 1 }

// Running reports whether the workers are started (always true when serial).
func (sc *Scheduler) Running() bool {
	if sc.Serial() {
		return true
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.running
}

// Start launches the worker goroutines. Calling Start on a running
// scheduler does nothing.
func (sc *Scheduler) Start() {
	if sc.Serial() {
		return
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.running {
		return
	}
	sc.chans = make([]chan phaseTask, sc.NThreads)
	sc.errs = make([]itemErr, sc.NThreads)
	for th := 0; th < sc.NThreads; th++ {
		sc.chans[th] = make(chan phaseTask)
		go sc.worker(th)
	}
	sc.running = true
}

// Stop terminates the worker goroutines. Must not be called during Run.
func (sc *Scheduler) Stop() {
	if sc.Serial() {
		return
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if !sc.running {
		return
	}
	for th := range sc.chans {
		close(sc.chans[th])
	}
	sc.running = false
}

func (sc *Scheduler) worker(th int) {
	for tk := range sc.chans[th] {
		sc.ThrTimes[th].Start()
		ie := itemErr{idx: -1}
		for i := th; i < tk.n; i += sc.NThreads {
			if err := callItem(tk.fun, i); err != nil {
				ie = itemErr{idx: i, err: err}
				break
			}
		}
		sc.errs[th] = ie
		sc.ThrTimes[th].Stop()
		sc.wg.Done()
	}
}

// callItem runs fun(i), turning a panic into an ErrWorker error.
func callItem(fun ItemFun, i int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(ErrWorker, "item %d: panic: %v", i, r)
		}
	}()
	return fun(i)
}

// Run calls fun for items 0..n-1 and returns when all are done. If any item
// fails, the error of the lowest failing item is returned.
func (sc *Scheduler) Run(n int, fun ItemFun, funame string) error {
	sc.FunTimerStart(funame)
	defer sc.FunTimerStop(funame)
	if sc.Serial() {
		sc.ThrTimes[0].Start()
		defer sc.ThrTimes[0].Stop()
		for i := 0; i < n; i++ {
			if err := callItem(fun, i); err != nil {
				return err
			}
		}
		return nil
	}
	if !sc.Running() {
		return ErrSchedStopped
	}
	nthr := sc.NThreads
	if n < nthr {
		nthr = n
	}
	for th := 0; th < nthr; th++ {
		sc.wg.Add(1)
		sc.chans[th] <- phaseTask{fun: fun, n: n}
	}
	sc.wg.Wait()
	first := itemErr{idx: -1}
	for th := 0; th < nthr; th++ {
		ie := sc.errs[th]
		if ie.err != nil && (first.err == nil || ie.idx < first.idx) {
			first = ie
		}
	}
	return first.err
}

// FunTimerStart starts the timer for the given phase name, creating it if needed.
func (sc *Scheduler) FunTimerStart(funame string) {
	ft, ok := sc.FunTimes[funame]
	if !ok {
		ft = &timer.Time{}
		sc.FunTimes[funame] = ft
	}
	ft.Start()
}

// FunTimerStop stops the timer for the given phase name.
func (sc *Scheduler) FunTimerStop(funame string) {
	if ft, ok := sc.FunTimes[funame]; ok {
		ft.Stop()
	}
}

// TimerReport returns the time spent in each phase and each worker.
func (sc *Scheduler) TimerReport() string {
	var b strings.Builder
	fmt.Fprintf(&b, "NThreads: %v\n", sc.NThreads)
	fmt.Fprintf(&b, "\tFunction Name\tTotal Secs\tPct\n")
	fnms := make([]string, 0, len(sc.FunTimes))
	for k := range sc.FunTimes {
		fnms = append(fnms, k)
	}
	sort.Strings(fnms)
	pcts := make([]float64, len(fnms))
	tot := 0.0
	for i, fn := range fnms {
		pcts[i] = sc.FunTimes[fn].TotalSecs()
		tot += pcts[i]
	}
	for i, fn := range fnms {
		fmt.Fprintf(&b, "\t%v \t%6.4g\t%6.4g\n", fn, pcts[i], 100*(pcts[i]/tot))
	}
	fmt.Fprintf(&b, "\tTotal   \t%6.4g\n", tot)
	if sc.Serial() {
		return b.String()
	}
	fmt.Fprintf(&b, "\n\tThr\tTotal Secs\tPct\n")
	tot = 0
	pcts = make([]float64, len(sc.ThrTimes))
	for th := range sc.ThrTimes {
		pcts[th] = sc.ThrTimes[th].TotalSecs()
		tot += pcts[th]
	}
	for th := range sc.ThrTimes {
		fmt.Fprintf(&b, "\t%v \t%6.4g\t%6.4g\n", th, pcts[th], 100*(pcts[th]/tot))
	}
	return b.String()
}

// ResetTimers resets all phase and worker timers.
func (sc *Scheduler) ResetTimers() {
	for th := range sc.ThrTimes {
		sc.ThrTimes[th].Reset()
	}
	for _, ft := range sc.FunTimes {
		ft.Reset()
	}
}
