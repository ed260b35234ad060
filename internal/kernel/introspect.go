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
	"fmt"
	"strings"

	"github.com/google/btree"
)

// eventRingSize bounds the supplemented scheduling-trace ring buffer
// (SPEC_FULL.md, "procdump tick-window scheduling-trace line").
const eventRingSize = 64

type schedEvent struct {
	Tick Tick
	Kind string
}

// eventRing is a fixed-size circular buffer of recent scheduling
// events for one process, surfaced by procdetails.
type eventRing struct {
	buf   [eventRingSize]schedEvent
	head  int
	count int
}

func (r *eventRing) reset() { *r = eventRing{} }

func (r *eventRing) push(e schedEvent) {
	r.buf[r.head] = e
	r.head = (r.head + 1) % eventRingSize
	if r.count < eventRingSize {
		r.count++
	}
}

// recent returns events oldest-first.
func (r *eventRing) recent() []schedEvent {
	out := make([]schedEvent, 0, r.count)
	start := (r.head - r.count + eventRingSize) % eventRingSize
	for i := 0; i < r.count; i++ {
		out = append(out, r.buf[(start+i)%eventRingSize])
	}
	return out
}

// pidItem indexes a slot by pid in the kernel's btree (DOMAIN STACK:
// google/btree backs the sorted-by-pid view procdump prints;
// procdetails looks its pid up with findLocked's linear scan, and the
// scheduler's own pick_next still does the linear,
// table-order scan §4.8 specifies, so invariants and tie-breaks are
// unaffected by this secondary index).
type pidItem struct {
	pid  PID
	slot int
}

func (a pidItem) Less(than btree.Item) bool {
	return a.pid < than.(pidItem).pid
}

// indexInsert records a newly allocated slot in the pid index (§4.2).
func (k *Kernel) indexInsert(pid PID, slot int) {
	k.index.ReplaceOrInsert(pidItem{pid: pid, slot: slot})
}

// indexDelete removes a reaped slot's pid from the index (§4.5).
func (k *Kernel) indexDelete(pid PID) {
	k.index.Delete(pidItem{pid: pid})
}

// ProcSnapshot is a point-in-time copy of one slot's
// introspection-relevant fields, returned by Procdetails, which takes
// it under the table lock.
type ProcSnapshot struct {
	PID      PID
	State    State
	Priority int
	RTime    Tick
	TmpWTime Tick
	NRun     int
	CurQ     int
	QTicks   [NumQueues]Tick
	Recent   []schedEvent
}

// Procdump is the best-effort, lock-free introspection dump (§4.11):
// it may run from a context where taking the table lock is unsafe
// (e.g. adjacent to a panic), so it never writes and tolerates a torn
// read of in-flight mutations. Output is ordered by pid via the btree
// index rather than raw table order, matching the original's ps-like
// presentation.
func (k *Kernel) Procdump() string {
	var b strings.Builder
	k.index.Ascend(func(item btree.Item) bool {
		pi := item.(pidItem)
		p := &k.procs[pi.slot]
		if p.State == Unused {
			return true
		}
		fmt.Fprintf(&b, "%d %s %d rtime=%d wtime=%d n_run=%d cur_q=%d\n",
			p.PID, p.State, p.Priority, p.RTime, p.TmpWTime, p.NRun, p.CurQ)
		return true
	})
	return b.String()
}

// Procdetails is the locked, per-process detail dump (§4.11): unlike
// Procdump it takes the table lock and so is safe to call concurrently
// with scheduling, but must never be called from a context already
// holding the lock (e.g. from inside a policy's pick_next).
func (k *Kernel) Procdetails(pid PID) (ProcSnapshot, error) {
	k.lock.Lock()
	defer k.lock.Unlock()

	p := k.findLocked(pid)
	if p == nil {
		return ProcSnapshot{}, ErrUnknownPID
	}
	return ProcSnapshot{
		PID:      p.PID,
		State:    p.State,
		Priority: p.Priority,
		RTime:    p.RTime,
		TmpWTime: p.TmpWTime,
		NRun:     p.NRun,
		CurQ:     p.CurQ,
		QTicks:   p.QTicks,
		Recent:   p.events.recent(),
	}, nil
}

// QueueSnapshot returns the pids currently queued at each MLFQ level,
// in (cur_q, position_priority) order (SPEC_FULL.md, "cps / ready-queue
// dump"). Returns five empty slices under any non-MLFQ policy.
func (k *Kernel) QueueSnapshot() [NumQueues][]PID {
	k.lock.Lock()
	defer k.lock.Unlock()

	var out [NumQueues][]PID
	if k.policy != MLFQ {
		return out
	}
	type entry struct {
		pid PID
		pos int64
	}
	var byQ [NumQueues][]entry
	for i := range k.procs {
		p := &k.procs[i]
		if p.State == Unused || p.CurQ < 0 {
			continue
		}
		byQ[p.CurQ] = append(byQ[p.CurQ], entry{p.PID, p.PositionPriority})
	}
	for q := 0; q < NumQueues; q++ {
		es := byQ[q]
		for i := 1; i < len(es); i++ {
			for j := i; j > 0 && es[j].pos < es[j-1].pos; j-- {
				es[j], es[j-1] = es[j-1], es[j]
			}
		}
		for _, e := range es {
			out[q] = append(out[q], e.pid)
		}
	}
	return out
}
