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

// Growproc implements the supplemented growproc syscall (SPEC_FULL.md,
// SUPPLEMENTED FEATURES): it grows self's address space by delta bytes
// if delta is positive, shrinks it if negative, and returns the break
// the space had before the change. Like sleepSelf and Exit, it is
// Workload-facing and acquires the table lock itself, mirroring
// proc.c's growproc reading and updating curproc->sz under no lock of
// its own but through switchuvm's address-space boundary.
func (k *Kernel) Growproc(self *Proc, delta int) (int, error) {
	k.lock.Lock()
	defer k.lock.Unlock()

	old := self.Space.Break
	if err := self.Space.Resize(delta); err != nil {
		return 0, err
	}
	return old, nil
}
