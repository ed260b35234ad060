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

// Binary procctl is a small demonstration and debugging front-end for
// the procsched teaching kernel: it boots an in-process Kernel, runs a
// handful of demo workloads through it, and exercises the same
// introspection and priority syscalls a shell running against a real
// kernel would use (§4.10, §4.11). There is no daemon and no IPC: every
// subcommand boots its own short-lived Kernel, the way a unit test
// would, since this package has no persistence story of its own.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	"github.com/go-kernel-lab/procsched/internal/klog"
)

func main() {
	flag.Parse()
	if err := klog.SetLevel("info"); err != nil {
		panic(err)
	}

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&setPriorityCmd{}, "")
	subcommands.Register(&procdumpCmd{}, "")
	subcommands.Register(&procdetailsCmd{}, "")
	subcommands.Register(&runCmd{}, "")

	os.Exit(int(subcommands.Execute(context.Background())))
}
