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

package main

import (
	"fmt"

	"github.com/go-kernel-lab/procsched/internal/kernel"
)

// bootDemo builds a Kernel under the given policy with init plus a
// handful of forked children whose workloads spin for a few ticks and
// then exit, the same shape of program a shell demo against a real
// kernel would fork (SPEC_FULL.md, DOMAIN STACK, "run demo harness").
func bootDemo(policy string, nChildren int) (*kernel.Kernel, error) {
	cfg := kernel.DefaultConfig()
	cfg.Policy = policy
	cfg.NumCPUs = 2
	cfg.TableSize = 16

	k, err := kernel.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("procctl: booting demo kernel: %w", err)
	}

	initPID, err := k.InitProcess("init", func(*kernel.Kernel, *kernel.Proc) {})
	if err != nil {
		return nil, fmt.Errorf("procctl: allocating init: %w", err)
	}

	for i := 0; i < nChildren; i++ {
		budget := 3 + i
		_, err := k.Fork(initPID, func(kk *kernel.Kernel, self *kernel.Proc) {
			if self.NRun == 1 {
				// Grow the simulated heap a little on first residency,
				// the way a demo user program touching sbrk would, so
				// growproc gets exercised by the live demo path too.
				kk.Growproc(self, 16)
			}
			if int(self.RTime) >= budget {
				kk.Exit(self)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("procctl: forking demo child %d: %w", i, err)
		}
	}
	return k, nil
}
