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

// Package kernel treats the file system as an external collaborator
// with a narrow contract (§6): filedup, fileclose, idup, iput, namei,
// and the begin_op/end_op journal bracket that exit uses to release
// the current directory. This file models just that bracket.
package kernel

import (
	"context"
	"time"

	"github.com/cenkalti/backoff"
)

// journal simulates the file system's journaling layer. A real
// begin_op/end_op pair blocks while the log has no space; this teaching
// stand-in never blocks. endOp wraps its commit in a bounded
// constant-backoff retry the way runsc/sandbox/sandbox.go wraps a flaky
// external call, but the simulated commit always succeeds on its first
// attempt, so no retry ever happens.
type journal struct {
	// attempts counts end_op commit attempts, one per endOp call.
	attempts int
}

func newJournal() *journal { return &journal{} }

// beginOp marks the start of a filesystem transaction (§6). No-op here;
// kept symmetrical with endOp for readability at call sites.
func (j *journal) beginOp() {}

// endOp commits a filesystem transaction, retrying with a constant
// backoff the way the sandbox retries a flaky syscall, bounded so a
// permanently wedged journal still surfaces as an error rather than
// hanging exit forever.
func (j *journal) endOp(ctx context.Context) error {
	op := func() error {
		j.attempts++
		return nil // the simulated journal always commits at once.
	}
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), 3), ctx)
	return backoff.Retry(op, b)
}
