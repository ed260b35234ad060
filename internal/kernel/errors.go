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
	"errors"
	"fmt"
)

// Resource-exhaustion and invalid-argument errors (§7): these are the
// only failures a caller at the syscall boundary is expected to handle.
// Anything else that would violate a kernel invariant is a programmer
// error and panics instead (see kpanic below).
var (
	// ErrNoFreeSlot is returned by allocate when the process table is
	// full.
	ErrNoFreeSlot = errors.New("procsched: no free slot")

	// ErrNoMemory is returned when the simulated kernel stack or
	// address space cannot be allocated.
	ErrNoMemory = errors.New("procsched: out of memory")

	// ErrNoChildren is returned by wait/waitx when the caller has no
	// children, living or zombie.
	ErrNoChildren = errors.New("procsched: no children")

	// ErrUnknownPID is returned by kill and set_priority when no
	// non-UNUSED slot matches the given pid.
	ErrUnknownPID = errors.New("procsched: unknown pid")

	// ErrKilled names the killed-caller condition of §4.5. Nothing in
	// this package returns it: Wait and Waitx report a caller that is
	// killed while waiting as ErrNoChildren.
	ErrKilled = errors.New("procsched: killed")
)

// kpanic reports a broken kernel invariant (§7 "Programmer error"):
// sleep without a lock, scheduling a RUNNING process, entering the
// scheduler with interrupts enabled, mismatched lock depth, init
// exiting, or any other condition the table-lock discipline assumes
// can never happen. These never return: whoever calls kpanic forfeits
// the CPU, matching the original kernel's assertion panics.
func kpanic(format string, args ...any) {
	panic(fmt.Sprintf(format, args...))
}
