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

// execContext stands in for the opaque trapframe/context pair (§3:
// "tf, context") that the real low-level context-switch primitive
// saves and restores. §9 assumes that primitive is provided; this
// package never reads or writes its fields, only allocates and frees
// one per process so the lifetime bookkeeping (§4.2 allocate, reap)
// has something concrete to own.
type execContext struct {
	// eip is a placeholder return address, set the way allocate lays
	// out a fresh kernel stack to "return" into the fork-return
	// trampoline on first scheduling (§4.2).
	eip uintptr
}

// Workload is the process's "user-mode program" for the purpose of
// this simulation: the function a CPU calls when it context-switches
// into a RUNNABLE-turned-RUNNING process (§4.8 step 4). It is invoked
// synchronously, once per tick of residency, and represents the
// single suspension-point contract of §5 ("a process may yield control
// only at well-defined points"): it returns normally to signal a
// tick-induced yield, or it calls k.sleepSelf/k.Exit on itself to block or
// terminate before returning.
//
// Workload is the one piece of the scheduling core this spec treats as
// an external collaborator with no prescribed internals (the
// equivalent of "the low-level context-switch primitive... is assumed
// to be provided", §9): real kernels compile and run arbitrary user
// binaries here, this teaching kernel runs a Go closure instead.
type Workload func(k *Kernel, self *Proc)

// runOne performs the context switch described by §4.8 steps 4-5: it
// releases no locks itself (the caller already has), switches address
// spaces, and calls into the process's kernel thread. Precondition:
// the table lock is NOT held (switching address spaces and running
// arbitrary workload code must never happen under the spinlock).
func runOne(k *Kernel, p *Proc) {
	switchuvm(p.Space)
	if p.Workload != nil {
		p.Workload(k, p)
	}
	switchkvm()
}
