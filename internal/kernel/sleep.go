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

// sleep transitions p onto chan (§4.6). Precondition: k.lock held. This
// package has no notion of a foreign lock distinct from the table lock
// (there is only ever one lock to hand off), so unlike the original
// sleep(chan, lk) this never itself releases or reacquires anything; it
// only performs the RUNNING/RUNNABLE-to-SLEEPING state transition.
// Whoever calls sleep decides separately whether the calling goroutine
// should then block (waitCond, used by Wait/Waitx) or simply return
// control to its caller (sleepSelf, used by a Workload representing a
// process's own kernel thread asking to block).
func (k *Kernel) sleep(p *Proc, ch Chan) {
	if p.State != Running && p.State != Runnable {
		kpanic("sleep: pid %d not RUNNING/RUNNABLE (state=%s)", p.PID, p.State)
	}
	p.WaitChan = ch
	p.State = Sleeping
	if k.policy == MLFQ {
		p.IO = true
	}
}

// sleepSelf is the Workload-facing entry point (§4.6): a process's
// simulated program calls this on itself to block without involving any
// other goroutine. It acquires the lock itself since Workload runs with
// the table lock released (context_switch.go's runOne precondition).
func (k *Kernel) sleepSelf(p *Proc, ch Chan) {
	k.lock.Lock()
	defer k.lock.Unlock()
	k.sleep(p, ch)
	if k.tracer != nil {
		k.tracer.emit(p.PID, p.CurQ, k.tick, TraceIO)
	}
}

// wakeupLocked moves every slot sleeping on ch to RUNNABLE and assigns
// MLFQ re-entrants a fresh tail position (§4.6, "wakeup1", "I/O
// re-queue"). Precondition: k.lock held. Always broadcasts k.cond so
// any goroutine blocked in waitCond re-checks its condition.
func (k *Kernel) wakeupLocked(ch Chan) {
	if ch == 0 {
		return
	}
	for i := range k.procs {
		p := &k.procs[i]
		if p.State == Sleeping && p.WaitChan == ch {
			p.State = Runnable
			p.WaitChan = 0
			if k.policy == MLFQ {
				k.queues[p.CurQ].largestPosition++
				p.PositionPriority = k.queues[p.CurQ].largestPosition
			}
		}
	}
	k.cond.Broadcast()
}

// wakeup is wakeupLocked's public, self-locking counterpart, used by
// callers (e.g. an external I/O-completion collaborator) that do not
// already hold the table lock.
func (k *Kernel) wakeup(ch Chan) {
	k.lock.Lock()
	defer k.lock.Unlock()
	k.wakeupLocked(ch)
}

// waitCond atomically releases k.lock, blocks the calling goroutine
// until the next wakeupLocked/kill broadcast (or ctx is done), and
// reacquires k.lock before returning — the genuine-blocking half of
// §4.6's sleep, used by Wait/Waitx where the calling goroutine really
// does represent a parent's syscall context parked waiting for a child.
// Precondition: k.lock held.
func (k *Kernel) waitCond(ctx context.Context) {
	if ctx.Done() == nil {
		k.cond.Wait()
		return
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			k.lock.Lock()
			k.cond.Broadcast()
			k.lock.Unlock()
		case <-done:
		}
	}()
	k.cond.Wait()
	close(done)
}
