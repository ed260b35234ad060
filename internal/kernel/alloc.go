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

// trampolineEIP is the placeholder return address allocate lays a fresh
// context down with, standing in for "return into the fork-return
// trampoline on first scheduling" (§4.2, §3 "tf, context").
const trampolineEIP uintptr = 0xf01d

// allocate finds an UNUSED slot, claims it as EMBRYO, and gives it a
// pid and kernel stack (§4.2). It releases the table lock before
// calling kalloc, matching the original's rationale: stack allocation
// may block and must not happen under the spinlock. On stack-allocation
// failure the slot is rolled back to UNUSED and ErrNoMemory returned.
func (k *Kernel) allocate(name string) (*Proc, error) {
	k.lock.Lock()
	var p *Proc
	slot := -1
	for i := range k.procs {
		if k.procs[i].State == Unused {
			p = &k.procs[i]
			slot = i
			break
		}
	}
	if p == nil {
		k.lock.Unlock()
		return nil, ErrNoFreeSlot
	}
	p.State = Embryo
	p.PID = k.nextPID
	k.nextPID++
	k.lock.Unlock()

	stack, err := kalloc(DefaultStackPages)
	if err != nil {
		k.lock.Lock()
		p.State = Unused
		k.lock.Unlock()
		return nil, ErrNoMemory
	}

	k.lock.Lock()
	defer k.lock.Unlock()

	p.Stack = stack
	p.Context = &execContext{eip: trampolineEIP}
	p.Name = name
	p.resetAccounting(k.tick)
	if k.policy == MLFQ {
		p.CurQ = 0
		k.queues[0].largestPosition++
		p.PositionPriority = k.queues[0].largestPosition
	} else {
		p.CurQ = -1
	}
	k.indexInsert(p.PID, slot)
	if k.tracer != nil {
		k.tracer.emit(p.PID, p.CurQ, k.tick, TraceInit)
	}
	return p, nil
}
