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

	"github.com/BurntSushi/toml"
)

// Config is the kernel's boot-time configuration (SPEC_FULL.md, AMBIENT
// STACK / "Configuration"). It replaces the original kernel's
// compile-time #ifdef policy selection and NPROC constant with a TOML
// file read once at startup, the same way runsc/config loads a Config
// struct from flags before booting the sentry.
type Config struct {
	// NumCPUs is the number of per-CPU scheduler-loop goroutines to run
	// (§4.8, §5).
	NumCPUs int `toml:"num_cpus"`

	// TableSize is the fixed process-table capacity (§4.1).
	TableSize int `toml:"table_size"`

	// Policy selects exactly one of RR/FCFS/PBS/MLFQ (§4.8, §9).
	Policy string `toml:"policy"`

	// AgeCutoff overrides the default MLFQ aging threshold of 200
	// ticks (§4.9); zero means "use the default".
	AgeCutoff int `toml:"age_cutoff"`

	// TraceCSVPath, if non-empty, enables the optional MLFQ bonus CSV
	// trace (§6) at this path.
	TraceCSVPath string `toml:"trace_csv_path"`
}

// DefaultConfig matches the original kernel's compiled-in defaults: a
// handful of CPUs, a 64-slot table, round-robin, no trace.
func DefaultConfig() Config {
	return Config{
		NumCPUs:   4,
		TableSize: 64,
		Policy:    "RR",
		AgeCutoff: AgeCutoff,
	}
}

// LoadConfig decodes a TOML config file, filling in any field left at
// its zero value from DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("procsched: loading config %q: %w", path, err)
	}
	if cfg.AgeCutoff == 0 {
		cfg.AgeCutoff = AgeCutoff
	}
	return cfg, nil
}

// Validate checks that a decoded Config describes a buildable kernel.
func (c Config) Validate() error {
	if c.NumCPUs <= 0 {
		return fmt.Errorf("procsched: num_cpus must be positive, got %d", c.NumCPUs)
	}
	if c.TableSize <= 0 {
		return fmt.Errorf("procsched: table_size must be positive, got %d", c.TableSize)
	}
	if _, err := ParsePolicy(c.Policy); err != nil {
		return err
	}
	return nil
}
