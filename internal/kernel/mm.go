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

// Package kernel treats the memory subsystem as an external collaborator
// with a narrow contract (§6): setupkvm, inituvm, allocuvm, deallocuvm,
// copyuvm, freevm, switchuvm, switchkvm, kalloc/kfree. This file gives
// those a minimal concrete shape so that fork and exit have something
// real to call, without the core ever introspecting a page table.
package kernel

import (
	"fmt"

	"github.com/mohae/deepcopy"
)

// DefaultStackPages is the simulated kernel-stack size, in pages, handed
// out by kalloc on allocate (§4.2).
const DefaultStackPages = 2

// KernelStack stands in for the per-process kernel stack (§3, "kstack").
// The real kernel lays it out to return into a fork-return trampoline;
// here it is just sized memory with that intent recorded.
type KernelStack struct {
	Pages int
}

// kalloc simulates the page-granular physical allocator (§6). It never
// fails in this teaching kernel (there is no real backing memory to
// exhaust) but keeps the call boundary the real kernel has, so that a
// future bounded allocator can be dropped in without touching fork/exit.
func kalloc(pages int) (*KernelStack, error) {
	if pages <= 0 {
		return nil, fmt.Errorf("kalloc: invalid page count %d", pages)
	}
	return &KernelStack{Pages: pages}, nil
}

// kfree releases a kernel stack. Idempotent, mirroring the real
// allocator's tolerance for freeing a nil/already-freed stack during
// rollback (§4.2, §4.3).
func kfree(s *KernelStack) {}

// AddressSpace is the simulated page directory (§3, "pgdir"): a flat
// map of page number to contents, plus a watermark recording the
// process's current break (for the supplemented growproc feature).
type AddressSpace struct {
	Pages map[int][]byte
	Break int
}

// setupkvm lays out the kernel portion of a fresh address space (§6).
func setupkvm() *AddressSpace {
	return &AddressSpace{Pages: make(map[int][]byte)}
}

// initImage stands in for the original's embedded _binary_initcode_start
// blob that userinit maps into init's address space (proc.c:173-175):
// this teaching kernel has no assembled user binary to embed, just the
// bytes inituvm needs to size the initial break.
var initImage = []byte("procsched-init")

// inituvm maps the initial user image into a freshly set-up address
// space (§6), used by InitProcess's userinit-equivalent setup.
func inituvm(a *AddressSpace, image []byte) {
	a.Pages[0] = append([]byte(nil), image...)
	a.Break = len(image)
}

// allocuvm grows a user address space by delta bytes, the supplemented
// growproc operation (SPEC_FULL.md). Returns the new break.
func allocuvm(a *AddressSpace, delta int) (int, error) {
	if delta < 0 {
		return 0, fmt.Errorf("allocuvm: negative growth %d", delta)
	}
	a.Break += delta
	return a.Break, nil
}

// deallocuvm shrinks a user address space by delta bytes (§6).
func deallocuvm(a *AddressSpace, delta int) (int, error) {
	if delta < 0 || delta > a.Break {
		return 0, fmt.Errorf("deallocuvm: invalid shrink %d", delta)
	}
	a.Break -= delta
	return a.Break, nil
}

// Resize implements the supplemented growproc operation directly on an
// address space; positive delta grows, negative shrinks.
func (a *AddressSpace) Resize(delta int) error {
	if delta >= 0 {
		_, err := allocuvm(a, delta)
		return err
	}
	_, err := deallocuvm(a, -delta)
	return err
}

// copyuvm duplicates a parent's address space for fork (§4.3, §6).
// Uses deepcopy the same way the rest of the domain stack leans on
// third-party helpers rather than hand-rolled recursive copies: a
// process's page map can hold arbitrarily nested structures by the
// time user code has mapped shared segments, and deepcopy.Copy already
// handles maps-of-slices correctly.
func copyuvm(parent *AddressSpace) (*AddressSpace, error) {
	if parent == nil {
		return nil, fmt.Errorf("copyuvm: nil parent address space")
	}
	copied, ok := deepcopy.Copy(parent).(*AddressSpace)
	if !ok {
		return nil, fmt.Errorf("copyuvm: deep copy produced unexpected type")
	}
	return copied, nil
}

// freevm releases an address space's pages (§6), called on reap.
func freevm(a *AddressSpace) {
	if a == nil {
		return
	}
	for k := range a.Pages {
		delete(a.Pages, k)
	}
}

// switchuvm and switchkvm are the address-space-switch half of the
// context-switch boundary (§6, §9): switching into a process's user
// address space, and back to the kernel's own, respectively. Neither
// does anything observable in a simulation with no MMU, but the call
// sites in context_switch.go's runOne exercise them so the contract
// stays visible.
func switchuvm(*AddressSpace) {}
func switchkvm()              {}
