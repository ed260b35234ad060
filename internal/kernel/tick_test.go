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

import "testing"

func TestTickBumpsRunningOncePerTick(t *testing.T) {
	k := newTestKernel(t, "RR")
	init := mustInit(t, k, spin)
	p := k.findLockedUnsafe(init)

	k.lock.Lock()
	p.State = Running
	k.lock.Unlock()

	k.Tick()
	if p.RTime != 1 {
		t.Fatalf("rtime = %d after one tick RUNNING, want 1", p.RTime)
	}
	if p.TickFlag != k.CurrentTick() {
		t.Fatalf("tick_flag = %d, want current tick %d", p.TickFlag, k.CurrentTick())
	}

	// Dispatching the process again within the same tick must not
	// double-count rtime: ScheduleOnce compares tick_flag against the
	// tick that Tick already stamped.
	k.lock.Lock()
	p.State = Runnable
	k.lock.Unlock()
	if !k.ScheduleOnce(newTestCPU(k)) {
		t.Fatalf("expected the process to be dispatched")
	}
	if p.RTime != 1 {
		t.Fatalf("rtime = %d after a same-tick dispatch, want unchanged 1", p.RTime)
	}
}

func TestTickBumpsWaitTimeForNonRunningSlots(t *testing.T) {
	k := newTestKernel(t, "RR")
	init := mustInit(t, k, noop)
	child, err := k.Fork(init, noop)
	if err != nil {
		t.Fatalf("Fork: %v", err)
	}
	p := k.findLockedUnsafe(child)

	for i := 0; i < 4; i++ {
		k.Tick()
	}
	if p.TmpWTime != 4 {
		t.Fatalf("tmp_wtime = %d after 4 ticks RUNNABLE, want 4", p.TmpWTime)
	}
	if p.RTime != 0 {
		t.Fatalf("rtime = %d for a process that never ran, want 0", p.RTime)
	}
}

func TestTickLeavesUnusedSlotsUntouched(t *testing.T) {
	k := newTestKernel(t, "RR")
	mustInit(t, k, noop)

	k.lock.Lock()
	var unused *Proc
	for i := range k.procs {
		if k.procs[i].State == Unused {
			unused = &k.procs[i]
			break
		}
	}
	k.lock.Unlock()
	if unused == nil {
		t.Fatalf("expected at least one unused slot in a table of size 8 with one process")
	}

	k.Tick()
	if unused.TmpWTime != 0 || unused.RTime != 0 {
		t.Fatalf("unused slot mutated by Tick: tmp_wtime=%d rtime=%d", unused.TmpWTime, unused.RTime)
	}
}

func TestTickMLFQQTicksSumsToRTimeOverLifetime(t *testing.T) {
	k := newTestKernel(t, "MLFQ")
	init := mustInit(t, k, spin)
	cpu0 := newTestCPU(k)

	for i := 0; i < 10; i++ {
		k.Tick()
		if !k.ScheduleOnce(cpu0) {
			t.Fatalf("residency %d: nothing runnable", i)
		}
	}

	p := k.findLockedUnsafe(init)
	var sum Tick
	for _, q := range p.QTicks {
		sum += q
	}
	if sum != p.RTime {
		t.Fatalf("sum(q_ticks) = %d, rtime = %d, want equal", sum, p.RTime)
	}
}

func TestTickMLFQAgesOnlyQueuesAboveZero(t *testing.T) {
	k := newTestKernel(t, "MLFQ")
	k.ageCutoff = 2
	init := mustInit(t, k, spin)

	p := k.findLockedUnsafe(init)
	if p.CurQ != 0 {
		t.Fatalf("freshly allocated process cur_q = %d, want 0", p.CurQ)
	}

	for i := 0; i < 10; i++ {
		k.Tick()
	}
	if p.CurQ != 0 {
		t.Fatalf("cur_q = %d for a process already at level 0, want 0 (nothing above it to promote to)", p.CurQ)
	}
	if p.TmpWTime <= k.ageCutoff {
		t.Fatalf("tmp_wtime = %d did not keep accumulating past age_cutoff for a q0 process", p.TmpWTime)
	}
}
