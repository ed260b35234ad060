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

// Fork duplicates parent into a new RUNNABLE child (§4.3). workload
// overrides the child's simulated program; pass nil to have the child
// inherit the parent's, matching real fork's "child resumes the same
// code" semantics. On any failure the claimed slot and stack are rolled
// back and released.
func (k *Kernel) Fork(parentPID PID, workload Workload) (PID, error) {
	k.lock.Lock()
	parent := k.findLocked(parentPID)
	if parent == nil {
		k.lock.Unlock()
		return 0, ErrUnknownPID
	}
	parentSpace := parent.Space
	parentName := parent.Name
	parentWorkload := parent.Workload
	k.lock.Unlock()

	child, err := k.allocate(parentName)
	if err != nil {
		return 0, err
	}

	childSpace, err := copyuvm(parentSpace)
	if err != nil {
		k.lock.Lock()
		kfree(child.Stack)
		child.State = Unused
		k.indexDelete(child.PID)
		k.lock.Unlock()
		return 0, ErrNoMemory
	}

	k.lock.Lock()
	defer k.lock.Unlock()
	child.Space = childSpace
	child.Parent = parent
	if workload != nil {
		child.Workload = workload
	} else {
		child.Workload = parentWorkload
	}
	child.State = Runnable
	return child.PID, nil
}
