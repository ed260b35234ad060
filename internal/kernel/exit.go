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

import "context"

// Exit is the Workload-facing exit() syscall (§4.4): it runs the
// journal begin_op/end_op bracket (processes here have no open-file
// table or current directory to release), stamps etime, reparents any children to init, wakes a parent
// blocked in Wait/Waitx, and transitions to ZOMBIE. It panics if init
// itself exits (§4.4, "programmer error").
//
// Like sleepSelf, Exit acquires the table lock itself: it runs on the
// Workload-calling goroutine, which holds no lock at the point of call
// (context_switch.go's runOne precondition).
func (k *Kernel) Exit(p *Proc) {
	if p == k.initProc {
		kpanic("exit: init (pid %d) may not exit", p.PID)
	}

	k.journal.beginOp()
	_ = k.journal.endOp(context.Background())

	k.lock.Lock()
	defer k.lock.Unlock()

	p.ETime = k.tick
	p.State = Zombie

	for i := range k.procs {
		c := &k.procs[i]
		if c.State == Unused || c.Parent != p {
			continue
		}
		c.Parent = k.initProc
		if c.State == Zombie && k.initProc != nil {
			k.wakeupLocked(Chan(k.initProc.PID))
		}
	}

	if p.Parent != nil {
		k.wakeupLocked(Chan(p.Parent.PID))
	}
	if k.tracer != nil {
		k.tracer.emit(p.PID, p.CurQ, k.tick, TraceExit)
	}
}

// InitProcess allocates and installs the kernel's first process (§4.4,
// "panics if init exits"). It must be called exactly once, before any
// Fork, and init has no parent of its own. Mirrors the original's
// userinit (proc.c:173-175): init is the one process that gets its
// address space from setupkvm/inituvm directly rather than copyuvm from
// a parent, since it has none.
func (k *Kernel) InitProcess(name string, workload Workload) (PID, error) {
	p, err := k.allocate(name)
	if err != nil {
		return 0, err
	}
	space := setupkvm()
	inituvm(space, initImage)

	k.lock.Lock()
	defer k.lock.Unlock()
	p.Space = space
	p.Workload = workload
	p.State = Runnable
	k.initProc = p
	return p.PID, nil
}
