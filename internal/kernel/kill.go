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

// Kill marks pid killed (§4.7). It does not itself terminate anything —
// that is the trap layer's job, checked the next time the process
// returns from a system call or is about to resume in user mode (§9,
// "assumed to be provided"). If the target is SLEEPING it is woken so
// it can observe the flag and unwind instead of blocking forever.
func (k *Kernel) Kill(pid PID) error {
	k.lock.Lock()
	defer k.lock.Unlock()

	p := k.findLocked(pid)
	if p == nil {
		return ErrUnknownPID
	}
	p.Killed = true
	if p.State == Sleeping {
		p.State = Runnable
		p.WaitChan = 0
		k.cond.Broadcast()
	}
	return nil
}
