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
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/google/subcommands"

	"github.com/go-kernel-lab/procsched/internal/kernel"
)

// setPriorityCmd reproduces the original setPriority.c user program's
// argument contract exactly (SUPPLEMENTED FEATURES): argv[1] is the new
// priority, argv[2] is the target pid, both must be non-negative
// integers, and the syscall's previous value is printed on success.
// Since procctl has no persistent daemon, it demonstrates the syscall
// against a freshly booted demo kernel rather than a live one.
type setPriorityCmd struct {
	policy string
}

func (*setPriorityCmd) Name() string     { return "setpriority" }
func (*setPriorityCmd) Synopsis() string { return "change a demo process's PBS priority" }
func (*setPriorityCmd) Usage() string {
	return "setpriority <priority> <pid> - set a process's priority, printing the old one\n"
}

func (c *setPriorityCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.policy, "policy", "PBS", "scheduling policy for the demo kernel booted to host pid")
}

func (c *setPriorityCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Print(c.Usage())
		return subcommands.ExitUsageError
	}

	priority, err := strconv.Atoi(f.Arg(0))
	if err != nil || priority < 0 {
		fmt.Println("setpriority: priority must be a non-negative integer")
		return subcommands.ExitUsageError
	}
	pidArg, err := strconv.Atoi(f.Arg(1))
	if err != nil || pidArg < 0 {
		fmt.Println("setpriority: pid must be a non-negative integer")
		return subcommands.ExitUsageError
	}

	k, err := bootDemo(c.policy, 3)
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}

	old, err := k.SetPriority(priority, kernel.PID(pidArg))
	if err != nil {
		fmt.Printf("setpriority: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("old priority of pid %d was %d\n", pidArg, old)
	return subcommands.ExitSuccess
}
