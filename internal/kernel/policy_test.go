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
	"testing"
)

// spin keeps a process Runnable forever; it never calls Sleep or Exit,
// so only the CPU loop's forced tick-yield moves it back off Running.
func spin(*Kernel, *Proc) {}

func TestRRRoundRobinsAcrossThreeProcesses(t *testing.T) {
	k := newTestKernel(t, "RR")
	init := mustInit(t, k, spin)
	b, _ := k.Fork(init, spin)
	c, _ := k.Fork(init, spin)

	cpu0 := newTestCPU(k)
	for i := 0; i < 9; i++ {
		if !k.ScheduleOnce(cpu0) {
			t.Fatalf("iteration %d: expected a runnable process", i)
		}
	}

	for _, pid := range []PID{init, b, c} {
		p := k.findLockedUnsafe(pid)
		if p.NRun != 3 {
			t.Errorf("pid %d ran %d times over 9 schedule decisions, want 3", pid, p.NRun)
		}
	}
}

func TestFCFSOrdersByCreationTimeNotTablePosition(t *testing.T) {
	k := newTestKernel(t, "FCFS")
	// init parks itself asleep on its first turn so it never competes
	// with A/B/C's ctime, the same way a real init just waits for
	// children instead of burning CPU.
	init := mustInit(t, k, func(kk *Kernel, self *Proc) { kk.sleepSelf(self, Chan(999999)) })

	// B is created after A but takes a lower table slot than A (the slot
	// a reaped placeholder leaves free), so a scan by slot alone would
	// run B before A; argmin(ctime) must still run A first.
	var order []PID
	makeCompute := func(budget int) Workload {
		return func(kk *Kernel, self *Proc) {
			if int(self.RTime) >= budget {
				kk.Exit(self)
				order = append(order, self.PID)
			}
		}
	}
	k.Tick()
	placeholder, _ := k.Fork(init, noop)
	a, _ := k.Fork(init, makeCompute(2))
	k.Exit(k.findLockedUnsafe(placeholder))
	if _, err := k.Wait(context.Background(), init); err != nil {
		t.Fatalf("Wait placeholder: %v", err)
	}
	k.Tick()
	b, _ := k.Fork(init, makeCompute(2))
	k.Tick()
	c, _ := k.Fork(init, makeCompute(2))

	cpu0 := newTestCPU(k)
	for i := 0; i < 40 && len(order) < 3; i++ {
		k.Tick()
		k.ScheduleOnce(cpu0)
	}

	if len(order) != 3 {
		t.Fatalf("not all three processes exited: %v", order)
	}
	if order[0] != a || order[1] != b || order[2] != c {
		t.Fatalf("FCFS exit order = %v, want [%d %d %d]", order, a, b, c)
	}
}

func TestPBSPreemptsOnPriorityChange(t *testing.T) {
	k := newTestKernel(t, "PBS")
	init := mustInit(t, k, spin)
	a, _ := k.Fork(init, spin)
	b, _ := k.Fork(init, spin)

	cpu0 := newTestCPU(k)
	k.ScheduleOnce(cpu0) // init wins the first tie at priority 60 (table order)

	if _, err := k.SetPriority(20, b); err != nil {
		t.Fatalf("SetPriority: %v", err)
	}

	k.ScheduleOnce(cpu0)
	bProc := k.findLockedUnsafe(b)
	if bProc.NRun != 1 {
		t.Fatalf("b.n_run = %d after priority change, want 1", bProc.NRun)
	}
	aProc := k.findLockedUnsafe(a)
	if aProc.NRun != 0 {
		t.Fatalf("a.n_run = %d, want 0 (never selected before b preempted it)", aProc.NRun)
	}
}

func TestMLFQDemotionLadder(t *testing.T) {
	k := newTestKernel(t, "MLFQ")
	init := mustInit(t, k, spin)
	cpu0 := newTestCPU(k)

	// A pure-CPU process demoted through every level spends
	// timeslice_cutoff(level) residencies at that level before moving
	// on: 1 tick at q0, 2 at q1, 4 at q2, 8 at q3, landing at q4 after
	// 1+2+4+8 = 15 residencies, and staying there after (§4.9, scenario
	// 3). Checkpoint at the boundary after each level and at the end.
	checkpoints := []struct {
		afterResidencies int
		wantQ            int
	}{
		{1, 1},
		{3, 2},
		{7, 3},
		{15, 4},
		{20, 4},
	}
	done := 0
	for _, cp := range checkpoints {
		for done < cp.afterResidencies {
			k.Tick()
			if !k.ScheduleOnce(cpu0) {
				t.Fatalf("residency %d: nothing runnable", done)
			}
			done++
		}
		p := k.findLockedUnsafe(init)
		if p.CurQ != cp.wantQ {
			t.Fatalf("after %d residencies: cur_q = %d, want %d", done, p.CurQ, cp.wantQ)
		}
	}
}

func TestMLFQAgingPromotesAcrossCutoff(t *testing.T) {
	k := newTestKernel(t, "MLFQ")
	k.ageCutoff = 5
	pid := mustInit(t, k, spin)

	p := k.findLockedUnsafe(pid)
	p.CurQ = 2
	p.TmpWTime = 0
	p.State = Runnable

	for i := 0; i < 5; i++ {
		k.Tick()
	}
	if p.CurQ != 2 {
		t.Fatalf("promoted too early: cur_q = %d after 5 ticks at age_cutoff 5", p.CurQ)
	}

	k.Tick() // tmp_wtime now 6 > age_cutoff 5
	if p.CurQ != 1 {
		t.Fatalf("cur_q = %d after crossing age_cutoff, want 1", p.CurQ)
	}
	if p.TmpWTime != 0 {
		t.Fatalf("tmp_wtime = %d after promotion, want reset to 0", p.TmpWTime)
	}
}

func TestMLFQIORequeueGoesToTail(t *testing.T) {
	k := newTestKernel(t, "MLFQ")
	init := mustInit(t, k, spin)
	a, _ := k.Fork(init, spin)

	ap := k.findLockedUnsafe(a)
	k.sleepSelf(ap, Chan(a))
	before := ap.PositionPriority

	b, _ := k.Fork(init, spin)
	bp := k.findLockedUnsafe(b)
	afterAlloc := bp.PositionPriority
	_ = afterAlloc

	k.wakeup(Chan(a))
	apAfter := k.findLockedUnsafe(a)
	if apAfter.PositionPriority <= before {
		t.Fatalf("re-queued position_priority %d did not advance past %d", apAfter.PositionPriority, before)
	}
	if apAfter.State != Runnable {
		t.Fatalf("woken process state = %s, want RUNNABLE", apAfter.State)
	}
}
