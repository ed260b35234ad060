// Copyright 2024 The Procsched Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package kernel

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/go-kernel-lab/procsched/internal/klog"
)

// cpu is one of the kernel's per-CPU scheduler loops (§4.8, §5). current
// is only ever read or written with the table lock held, mirroring the
// "current[cpuid]" array the original keeps next to ptable.
type cpu struct {
	id      int
	kernel  *Kernel
	current *Proc
}

// idlePoll is how long an idle CPU backs off between empty scans,
// standing in for the original's "halt until next interrupt".
const idlePoll = time.Millisecond

// Run starts the tick clock and every configured CPU's scheduler loop,
// via an errgroup.Group so that any goroutine's error (including ctx
// cancellation) stops the whole fleet (§5). It blocks until ctx is
// cancelled or a CPU loop returns a non-cancellation error.
func (k *Kernel) Run(ctx context.Context, ticksPerSecond float64) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return k.runClock(ctx, ticksPerSecond) })
	for _, c := range k.cpus {
		c := c
		g.Go(func() error { return c.loop(ctx) })
	}
	return g.Wait()
}

// loop repeatedly calls ScheduleOnce, backing off briefly when the
// table has nothing RUNNABLE, until ctx is cancelled.
func (c *cpu) loop(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !c.kernel.ScheduleOnce(c) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(idlePoll):
			}
		}
	}
}

// ScheduleOnce performs a single iteration of the per-CPU scheduler loop
// (§4.8 steps 1-5) for c: pick a candidate, mark it RUNNING, run its
// Workload for one residency, and apply the tick-induced-yield or
// MLFQ-demotion aftermath. Returns false if no slot was RUNNABLE (the
// CPU stayed idle). Exported so deterministic tests can drive the
// scheduler one decision at a time instead of racing a live Run.
func (k *Kernel) ScheduleOnce(c *cpu) bool {
	k.lock.Lock()
	p := k.pickNext()
	if p == nil {
		k.lock.Unlock()
		return false
	}
	p.State = Running
	p.NRun++
	p.TmpWTime = 0
	p.IO = false
	if p.TickFlag != k.tick {
		p.TickFlag = k.tick
		p.RTime++
		if k.policy == MLFQ {
			p.QTicks[p.CurQ]++
			p.sliceUsed++
		}
	}
	p.events.push(schedEvent{Tick: k.tick, Kind: "run cpu " + strconv.Itoa(c.id)})
	c.current = p
	klog.WithFields(klog.Fields{"tick": k.tick, "pid": p.PID, "cpu": c.id}).Debugf("dispatch")
	k.lock.Unlock()

	runOne(k, p)

	k.lock.Lock()
	c.current = nil
	if p.State == Running {
		switch k.policy {
		case MLFQ:
			if p.sliceUsed >= timesliceCutoff(p.CurQ) {
				if p.CurQ < NumQueues-1 {
					p.CurQ++
				}
				p.sliceUsed = 0
				k.queues[p.CurQ].largestPosition++
				p.PositionPriority = k.queues[p.CurQ].largestPosition
			}
			p.State = Runnable
		default:
			p.State = Runnable
		}
	}
	k.lock.Unlock()
	return true
}
