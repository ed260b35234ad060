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

	"github.com/google/subcommands"
)

// procdumpCmd boots a demo kernel, ticks it a few times, and prints the
// lock-free procdump view (§4.11, SUPPLEMENTED FEATURES).
type procdumpCmd struct {
	policy string
	ticks  int
}

func (*procdumpCmd) Name() string     { return "procdump" }
func (*procdumpCmd) Synopsis() string { return "print a ps-like dump of a demo kernel's process table" }
func (*procdumpCmd) Usage() string    { return "procdump [-policy P] [-ticks N]\n" }

func (c *procdumpCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.policy, "policy", "RR", "scheduling policy to demo (RR, FCFS, PBS, MLFQ)")
	f.IntVar(&c.ticks, "ticks", 5, "number of timer ticks to simulate before dumping")
}

func (c *procdumpCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	k, err := bootDemo(c.policy, 4)
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}
	for i := 0; i < c.ticks; i++ {
		k.Tick()
	}
	fmt.Print(k.Procdump())
	return subcommands.ExitSuccess
}
