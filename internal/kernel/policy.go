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

import "fmt"

// Policy is a tagged enumeration standing in for the original kernel's
// build-time #ifdef selection among RR/FCFS/PBS/MLFQ (§4.8, §9
// "Dispatch polymorphism for policies"). Exactly one is active for the
// lifetime of a Kernel.
type Policy int

const (
	// RR is Round-Robin: first RUNNABLE slot in table order, scanning
	// circularly from just after the slot last dispatched, preemptive
	// on every tick.
	RR Policy = iota
	// FCFS is First-Come-First-Served: argmin(ctime) over RUNNABLE
	// slots, non-preemptive.
	FCFS
	// PBS is Priority-Based Scheduling: argmin(priority) over RUNNABLE
	// slots, preemptive on tick.
	PBS
	// MLFQ is the Multi-Level Feedback Queue: argmin lexicographically
	// over (cur_q, position_priority).
	MLFQ
)

// String names the policy the way config files and CLI flags spell it.
func (p Policy) String() string {
	switch p {
	case RR:
		return "RR"
	case FCFS:
		return "FCFS"
	case PBS:
		return "PBS"
	case MLFQ:
		return "MLFQ"
	default:
		return "UNKNOWN"
	}
}

// ParsePolicy maps a config/flag string onto a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "RR":
		return RR, nil
	case "FCFS":
		return FCFS, nil
	case "PBS":
		return PBS, nil
	case "MLFQ":
		return MLFQ, nil
	default:
		return 0, fmt.Errorf("procsched: unknown policy %q", s)
	}
}

// queueMeta is the per-MLFQ-queue metadata of §3: a monotonically
// increasing source of FIFO positions. One exists per queue level.
type queueMeta struct {
	largestPosition int64
}

// timesliceCutoff returns 2^level ticks (§3).
func timesliceCutoff(level int) Tick {
	return Tick(1) << uint(level)
}

// pickNext selects the next candidate to run under the table lock
// (§4.8). It returns nil if no slot is RUNNABLE. Under FCFS, PBS and
// MLFQ ties are broken by table order (ascending slot index); RR has
// no key to tie on and takes the first RUNNABLE slot after rrCursor.
func (k *Kernel) pickNext() *Proc {
	switch k.policy {
	case RR:
		return k.pickFirstRunnable()
	case FCFS:
		return k.pickArgmin(func(p *Proc) int64 { return int64(p.CTime) })
	case PBS:
		return k.pickArgmin(func(p *Proc) int64 { return int64(p.Priority) })
	case MLFQ:
		return k.pickMLFQ()
	default:
		kpanic("pickNext: unknown policy %v", k.policy)
		return nil
	}
}

// pickFirstRunnable implements RR (§4.8): a circular scan resuming just
// after the slot last dispatched, so every RUNNABLE slot gets a turn
// once per lap instead of the lowest-index one monopolizing the CPU.
func (k *Kernel) pickFirstRunnable() *Proc {
	n := len(k.procs)
	for step := 1; step <= n; step++ {
		i := (k.rrCursor + step) % n
		if k.procs[i].State == Runnable {
			k.rrCursor = i
			return &k.procs[i]
		}
	}
	return nil
}

// pickArgmin implements FCFS and PBS: the RUNNABLE slot minimizing key,
// ties broken by table order (§4.8).
func (k *Kernel) pickArgmin(key func(*Proc) int64) *Proc {
	var best *Proc
	var bestKey int64
	for i := range k.procs {
		p := &k.procs[i]
		if p.State != Runnable {
			continue
		}
		kv := key(p)
		if best == nil || kv < bestKey {
			best, bestKey = p, kv
		}
	}
	return best
}

// pickMLFQ implements MLFQ's lexicographic (cur_q, position_priority)
// argmin (§4.8).
func (k *Kernel) pickMLFQ() *Proc {
	var best *Proc
	for i := range k.procs {
		p := &k.procs[i]
		if p.State != Runnable {
			continue
		}
		if best == nil ||
			p.CurQ < best.CurQ ||
			(p.CurQ == best.CurQ && p.PositionPriority < best.PositionPriority) {
			best = p
		}
	}
	return best
}
