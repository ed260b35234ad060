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

// Package kernel implements the core of a teaching operating-system
// kernel's process-scheduling subsystem: the process table, the
// per-CPU scheduler loop, and the four selectable scheduling policies,
// together with the lifecycle, sleep/wakeup, and accounting bookkeeping
// that drives them. See SPEC_FULL.md for the full design.
package kernel

import (
	"sync"

	"github.com/google/btree"

	"github.com/go-kernel-lab/procsched/internal/klog"
)

// Kernel owns the single shared process table (§4.1) and everything
// that consults it: every CPU, every timer interrupt, and every
// lifecycle syscall. There is exactly one Kernel per simulated machine.
type Kernel struct {
	lock tableMutex
	cond *sync.Cond // L == &lock; broadcast on every wakeup/kill (§4.6).

	procs     []Proc
	nextPID   PID
	tick      Tick
	policy    Policy
	ageCutoff Tick
	queues    [NumQueues]queueMeta
	initProc  *Proc

	// rrCursor is the slot index RR last dispatched, so the scan
	// resumes after it each time instead of restarting at slot 0 (§4.8,
	// "First RUNNABLE slot in table order" read the way the original
	// scheduler's single for(;;) pass over ptable reads it: a circular
	// scan shared by every CPU, not a fresh scan from zero on every
	// decision — the latter would starve every slot but the lowest
	// occupied one).
	rrCursor int

	index   *btree.BTree
	journal *journal
	tracer  *mlfqTracer

	cpus []*cpu
}

// New builds a Kernel from cfg but does not start its CPUs; call Run to
// do that. Returns an error if cfg fails validation or the optional
// MLFQ trace file cannot be opened.
func New(cfg Config) (*Kernel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, err := ParsePolicy(cfg.Policy)
	if err != nil {
		return nil, err
	}
	tracer, err := newMLFQTracer(cfg.TraceCSVPath)
	if err != nil {
		return nil, err
	}
	if cfg.AgeCutoff == 0 {
		cfg.AgeCutoff = AgeCutoff
	}

	k := &Kernel{
		procs:     make([]Proc, cfg.TableSize),
		nextPID:   1,
		policy:    policy,
		ageCutoff: Tick(cfg.AgeCutoff),
		index:     btree.New(32),
		journal:   newJournal(),
		tracer:    tracer,
	}
	k.cond = sync.NewCond(&k.lock)
	k.rrCursor = -1
	for i := range k.procs {
		k.procs[i].State = Unused
		k.procs[i].CurQ = defaultCurQ(policy)
	}
	k.cpus = make([]*cpu, cfg.NumCPUs)
	for i := range k.cpus {
		k.cpus[i] = &cpu{id: i, kernel: k}
	}

	klog.Infof("kernel: booted policy=%s cpus=%d table_size=%d", policy, cfg.NumCPUs, cfg.TableSize)
	return k, nil
}

// defaultCurQ is -1 outside MLFQ and 0 under it (§3, invariant 6).
func defaultCurQ(p Policy) int {
	if p == MLFQ {
		return 0
	}
	return -1
}

// Policy reports the kernel's active scheduling policy.
func (k *Kernel) Policy() Policy { return k.policy }

// CurrentTick reports the kernel's current tick count (GLOSSARY).
func (k *Kernel) CurrentTick() Tick {
	k.lock.Lock()
	defer k.lock.Unlock()
	return k.tick
}

// findLocked scans the table for a non-UNUSED slot with the given pid.
// Precondition: k.lock held.
func (k *Kernel) findLocked(pid PID) *Proc {
	for i := range k.procs {
		p := &k.procs[i]
		if p.State != Unused && p.PID == pid {
			return p
		}
	}
	return nil
}
