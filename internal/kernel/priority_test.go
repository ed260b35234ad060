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

func TestSetPriorityReturnsPriorReplacedValue(t *testing.T) {
	k := newTestKernel(t, "PBS")
	init := mustInit(t, k, noop)

	old, err := k.SetPriority(10, init)
	if err != nil {
		t.Fatalf("SetPriority: %v", err)
	}
	if old != DefaultPriority {
		t.Fatalf("first SetPriority returned %d, want default %d", old, DefaultPriority)
	}

	old2, err := k.SetPriority(90, init)
	if err != nil {
		t.Fatalf("SetPriority: %v", err)
	}
	if old2 != 10 {
		t.Fatalf("second SetPriority returned %d, want 10", old2)
	}

	p := k.findLockedUnsafe(init)
	if p.Priority != 90 {
		t.Fatalf("priority = %d, want 90", p.Priority)
	}
}

func TestSetPriorityClampsToRange(t *testing.T) {
	k := newTestKernel(t, "PBS")
	init := mustInit(t, k, noop)

	if _, err := k.SetPriority(-5, init); err != nil {
		t.Fatalf("SetPriority: %v", err)
	}
	if p := k.findLockedUnsafe(init); p.Priority != 0 {
		t.Fatalf("priority = %d after negative input, want clamped to 0", p.Priority)
	}

	if _, err := k.SetPriority(500, init); err != nil {
		t.Fatalf("SetPriority: %v", err)
	}
	if p := k.findLockedUnsafe(init); p.Priority != 100 {
		t.Fatalf("priority = %d after over-range input, want clamped to 100", p.Priority)
	}
}

func TestSetPriorityUnknownPID(t *testing.T) {
	k := newTestKernel(t, "PBS")
	mustInit(t, k, noop)

	_, err := k.SetPriority(50, PID(9999))
	if err != ErrUnknownPID {
		t.Fatalf("SetPriority on unknown pid = %v, want ErrUnknownPID", err)
	}
}

func TestKillIsIdempotent(t *testing.T) {
	k := newTestKernel(t, "RR")
	init := mustInit(t, k, noop)
	child, err := k.Fork(init, noop)
	if err != nil {
		t.Fatalf("Fork: %v", err)
	}

	if err := k.Kill(child); err != nil {
		t.Fatalf("first Kill: %v", err)
	}
	if err := k.Kill(child); err != nil {
		t.Fatalf("second Kill: %v", err)
	}

	p := k.findLockedUnsafe(child)
	if !p.Killed {
		t.Fatalf("child not marked killed")
	}
}

func TestKillWakesSleepingProcess(t *testing.T) {
	k := newTestKernel(t, "RR")
	init := mustInit(t, k, noop)
	child, err := k.Fork(init, noop)
	if err != nil {
		t.Fatalf("Fork: %v", err)
	}

	cp := k.findLockedUnsafe(child)
	k.sleepSelf(cp, Chan(42))
	if cp.State != Sleeping {
		t.Fatalf("child state = %s, want SLEEPING before kill", cp.State)
	}

	if err := k.Kill(child); err != nil {
		t.Fatalf("Kill: %v", err)
	}

	if cp.State != Runnable {
		t.Fatalf("child state = %s after kill while sleeping, want RUNNABLE", cp.State)
	}
	if cp.WaitChan != 0 {
		t.Fatalf("child wait_chan = %d after kill, want cleared", cp.WaitChan)
	}
}

func TestKillUnknownPID(t *testing.T) {
	k := newTestKernel(t, "RR")
	mustInit(t, k, noop)

	if err := k.Kill(PID(9999)); err != ErrUnknownPID {
		t.Fatalf("Kill on unknown pid = %v, want ErrUnknownPID", err)
	}
}
