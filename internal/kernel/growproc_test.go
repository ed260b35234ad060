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

import "testing"

func TestGrowprocGrowsAndReportsPriorBreak(t *testing.T) {
	k := newTestKernel(t, "RR")
	init := mustInit(t, k, noop)
	child, err := k.Fork(init, noop)
	if err != nil {
		t.Fatalf("Fork: %v", err)
	}
	p := k.findLockedUnsafe(child)

	before := p.Space.Break
	old, err := k.Growproc(p, 64)
	if err != nil {
		t.Fatalf("Growproc: %v", err)
	}
	if old != before {
		t.Fatalf("Growproc returned prior break %d, want %d", old, before)
	}
	if p.Space.Break != before+64 {
		t.Fatalf("break = %d after growing by 64, want %d", p.Space.Break, before+64)
	}
}

func TestGrowprocShrinksAndRejectsUnderflow(t *testing.T) {
	k := newTestKernel(t, "RR")
	init := mustInit(t, k, noop)
	child, err := k.Fork(init, noop)
	if err != nil {
		t.Fatalf("Fork: %v", err)
	}
	p := k.findLockedUnsafe(child)

	if _, err := k.Growproc(p, 32); err != nil {
		t.Fatalf("Growproc grow: %v", err)
	}
	sized := p.Space.Break

	old, err := k.Growproc(p, -16)
	if err != nil {
		t.Fatalf("Growproc shrink: %v", err)
	}
	if old != sized {
		t.Fatalf("Growproc returned prior break %d, want %d", old, sized)
	}
	if p.Space.Break != sized-16 {
		t.Fatalf("break = %d after shrinking by 16, want %d", p.Space.Break, sized-16)
	}

	if _, err := k.Growproc(p, -(p.Space.Break + 1)); err == nil {
		t.Fatalf("Growproc shrink past zero break should have failed")
	}
}
