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

// SetPriority implements set_priority (§4.10): clamps newPriority into
// [0, 100], writes it under the table lock, and returns the priority it
// replaced. Returns -1 and ErrUnknownPID if pid names no live slot.
func (k *Kernel) SetPriority(newPriority int, pid PID) (int, error) {
	if newPriority < 0 {
		newPriority = 0
	} else if newPriority > 100 {
		newPriority = 100
	}

	k.lock.Lock()
	defer k.lock.Unlock()

	p := k.findLocked(pid)
	if p == nil {
		return -1, ErrUnknownPID
	}
	old := p.Priority
	p.Priority = newPriority
	return old, nil
}
