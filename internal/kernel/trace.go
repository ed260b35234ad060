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
	"os"

	"github.com/gofrs/flock"
)

// TraceEvent is one of the bonus-flag MLFQ trace events (§6).
type TraceEvent string

const (
	// TraceInit is emitted when a process first enters queue 0.
	TraceInit TraceEvent = "Init"
	// TraceExit is emitted when a process exits.
	TraceExit TraceEvent = "Exit"
	// TraceAging is emitted when aging promotes a process.
	TraceAging TraceEvent = "Aging"
	// TraceIO is emitted when a process blocks itself through sleepSelf.
	TraceIO TraceEvent = "IO"
)

// mlfqTracer appends "pid,cur_q,tick,event" CSV lines to a file for
// offline analysis (§6, "Optional bonus flag"). Multiple CPU goroutines
// may demote/promote/re-queue processes concurrently, so appends are
// guarded by a file lock the same way a second procctl process sharing
// the log would need to coordinate, rather than by an in-process mutex
// alone.
type mlfqTracer struct {
	path string
	lock *flock.Flock
}

func newMLFQTracer(path string) (*mlfqTracer, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("procsched: opening trace file %q: %w", path, err)
	}
	f.Close()
	return &mlfqTracer{path: path, lock: flock.New(path + ".lock")}, nil
}

func (t *mlfqTracer) emit(pid PID, curQ int, tick Tick, event TraceEvent) {
	if t == nil {
		return
	}
	if err := t.lock.Lock(); err != nil {
		return
	}
	defer t.lock.Unlock()

	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "%d,%d,%d,%s\n", pid, curQ, tick, event)
}
