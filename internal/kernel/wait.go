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

// reapLocked frees a zombie child's resources and returns its slot to
// UNUSED (§4.5). Precondition: k.lock held, child.State == Zombie.
func (k *Kernel) reapLocked(child *Proc) {
	kfree(child.Stack)
	freevm(child.Space)
	k.indexDelete(child.PID)
	pid := child.PID
	*child = Proc{}
	child.State = Unused
	child.CurQ = defaultCurQ(k.policy)
	_ = pid
}

// Wait blocks the caller (representing parent's own wait() syscall)
// until one of parent's children becomes a ZOMBIE, reaps it, and
// returns its pid (§4.5). Returns ErrNoChildren if parent has none,
// living or zombie, or if parent is killed while blocked.
func (k *Kernel) Wait(ctx context.Context, parent PID) (PID, error) {
	k.lock.Lock()
	defer k.lock.Unlock()

	for {
		pp := k.findLocked(parent)
		if pp == nil {
			return 0, ErrUnknownPID
		}
		haveChildren := false
		for i := range k.procs {
			c := &k.procs[i]
			if c.State == Unused || c.Parent != pp {
				continue
			}
			haveChildren = true
			if c.State == Zombie {
				pid := c.PID
				k.reapLocked(c)
				return pid, nil
			}
		}
		if !haveChildren || pp.Killed {
			return 0, ErrNoChildren
		}
		k.sleep(pp, Chan(parent))
		k.waitCond(ctx)
		if ctx.Err() != nil {
			pp.State = Runnable
			pp.WaitChan = 0
			return 0, ctx.Err()
		}
	}
}

// WaitxResult is waitx's accounting payload (§4.5, supplemented from
// original_source/proc.c's waitx): the reaped child's pid plus the two
// derived timings the original prints via wait_stat.
type WaitxResult struct {
	PID   PID
	WTime Tick // etime - ctime - rtime, +1 corrected (§4.5).
	RTime Tick
}

// Waitx is Wait with the additional run-time/wait-time accounting the
// supplemented waitx syscall reports (§4.5, SUPPLEMENTED FEATURES).
func (k *Kernel) Waitx(ctx context.Context, parent PID) (WaitxResult, error) {
	k.lock.Lock()
	defer k.lock.Unlock()

	for {
		pp := k.findLocked(parent)
		if pp == nil {
			return WaitxResult{}, ErrUnknownPID
		}
		haveChildren := false
		for i := range k.procs {
			c := &k.procs[i]
			if c.State == Unused || c.Parent != pp {
				continue
			}
			haveChildren = true
			if c.State == Zombie {
				res := WaitxResult{
					PID:   c.PID,
					WTime: c.ETime - c.CTime - c.RTime + 1,
					RTime: c.RTime,
				}
				k.reapLocked(c)
				return res, nil
			}
		}
		if !haveChildren || pp.Killed {
			return WaitxResult{}, ErrNoChildren
		}
		k.sleep(pp, Chan(parent))
		k.waitCond(ctx)
		if ctx.Err() != nil {
			pp.State = Runnable
			pp.WaitChan = 0
			return WaitxResult{}, ctx.Err()
		}
	}
}
