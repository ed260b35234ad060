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

// procdetailsCmd prints the locked, per-process detail view (§4.11)
// including the recent-events ring, for one pid in a freshly booted
// demo kernel.
type procdetailsCmd struct {
	policy string
	ticks  int
}

func (*procdetailsCmd) Name() string     { return "procdetails" }
func (*procdetailsCmd) Synopsis() string { return "print one demo process's full accounting detail" }
func (*procdetailsCmd) Usage() string    { return "procdetails [-policy P] [-ticks N] <pid>\n" }

func (c *procdetailsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.policy, "policy", "RR", "scheduling policy to demo")
	f.IntVar(&c.ticks, "ticks", 5, "number of timer ticks to simulate first")
}

func (c *procdetailsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Print(c.Usage())
		return subcommands.ExitUsageError
	}
	pid, err := strconv.Atoi(f.Arg(0))
	if err != nil {
		fmt.Println("procdetails: pid must be an integer")
		return subcommands.ExitUsageError
	}

	k, err := bootDemo(c.policy, 4)
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}
	for i := 0; i < c.ticks; i++ {
		k.Tick()
	}

	snap, err := k.Procdetails(kernel.PID(pid))
	if err != nil {
		fmt.Printf("procdetails: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("pid=%d state=%s priority=%d rtime=%d tmp_wtime=%d n_run=%d cur_q=%d q=%v\n",
		snap.PID, snap.State, snap.Priority, snap.RTime, snap.TmpWTime, snap.NRun, snap.CurQ, snap.QTicks)
	for _, e := range snap.Recent {
		fmt.Printf("  tick=%d %s\n", e.Tick, e.Kind)
	}
	return subcommands.ExitSuccess
}
