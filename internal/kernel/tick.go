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

// Tick is the timer-interrupt handler (§4.9): it advances the global
// tick, bumps RTime (once per tick, guarded by TickFlag) for whichever
// slot is RUNNING, bumps TmpWTime for every other non-UNUSED slot, and
// under MLFQ ages and promotes processes that have waited past
// k.ageCutoff ticks.
func (k *Kernel) Tick() Tick {
	k.lock.Lock()
	defer k.lock.Unlock()

	k.tick++
	now := k.tick

	for i := range k.procs {
		p := &k.procs[i]
		if p.State == Unused {
			continue
		}
		if p.State == Running {
			if p.TickFlag != now {
				p.TickFlag = now
				p.RTime++
				p.TmpWTime = 0
				if k.policy == MLFQ {
					p.QTicks[p.CurQ]++
					p.sliceUsed++
				}
			}
			continue
		}
		p.TmpWTime++
		if k.policy == MLFQ && p.CurQ > 0 && p.TmpWTime > k.ageCutoff {
			p.CurQ--
			p.TmpWTime = 0
			p.sliceUsed = 0
			k.queues[p.CurQ].largestPosition++
			p.PositionPriority = k.queues[p.CurQ].largestPosition
			if k.tracer != nil {
				k.tracer.emit(p.PID, p.CurQ, now, TraceAging)
			}
		}
	}
	return k.tick
}
