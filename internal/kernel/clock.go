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
	"context"

	"golang.org/x/time/rate"
)

// runClock paces the simulated timer interrupt (§4.9, GLOSSARY "Tick")
// at the given rate, invoking Tick once per interval until ctx is
// cancelled. It is the "run" demo harness's stand-in for real hardware
// timer interrupts; tests that need deterministic tick control call
// Tick directly instead of starting a clock.
func (k *Kernel) runClock(ctx context.Context, ticksPerSecond float64) error {
	lim := rate.NewLimiter(rate.Limit(ticksPerSecond), 1)
	for {
		if err := lim.Wait(ctx); err != nil {
			return ctx.Err()
		}
		k.Tick()
	}
}
