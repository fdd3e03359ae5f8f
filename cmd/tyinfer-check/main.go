// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Binary tyinfer-check runs a batch of subtyping/equality/subregion
// scenarios described in a TOML file against the inference core and reports
// which ones hold, the way mangle-lint batch-checks a list of source files.
// tyinfer-check owns no parser for a real source language; its TOML
// scenarios describe types directly, in the small prefix syntax documented
// in -help.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"

	"codeberg.org/TauCeti/tyinfer/diag"
	"codeberg.org/TauCeti/tyinfer/infer"
	"codeberg.org/TauCeti/tyinfer/region"
	"codeberg.org/TauCeti/tyinfer/types"
	"codeberg.org/TauCeti/tyinfer/typesyntax"
)

var (
	format = flag.String("format", "text", "output format: text or json")
)

// config is the TOML scenario file's shape.
type config struct {
	Scenario []scenarioSpec `toml:"scenario"`
}

type scenarioSpec struct {
	Name string `toml:"name"`
	Kind string `toml:"kind"` // "subtype", "equal", or "subregion"
	A    string `toml:"a"`
	B    string `toml:"b"`
	Want bool   `toml:"want"`
}

type result struct {
	Name string `json:"name"`
	Pass bool   `json:"pass"`
	Err  string `json:"error,omitempty"`
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tyinfer-check [flags] <scenarios.toml>\n\n")
		fmt.Fprintf(os.Stderr, "Runs subtyping/equality/subregion scenarios against the inference core.\n\n")
		fmt.Fprintf(os.Stderr, "Each [[scenario]] table has a name, a kind (subtype|equal|subregion),\n")
		fmt.Fprintf(os.Stderr, "type expressions a and b in the prefix syntax typesyntax.ParseType accepts\n")
		fmt.Fprintf(os.Stderr, "(bool, str, i<width>, box<T>, vec<T>, (T,U), fn(T)->U, ?<id>), and\n")
		fmt.Fprintf(os.Stderr, "the expected outcome want.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if len(flag.Args()) != 1 {
		flag.Usage()
		os.Exit(2)
	}

	var cfg config
	if _, err := toml.DecodeFile(flag.Args()[0], &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "tyinfer-check: %v\n", err)
		os.Exit(2)
	}

	results, failures := runScenarios(cfg.Scenario)

	switch *format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			fmt.Fprintf(os.Stderr, "tyinfer-check: %v\n", err)
			os.Exit(2)
		}
	default:
		for _, r := range results {
			status := "PASS"
			if !r.Pass {
				status = "FAIL"
			}
			if r.Err != "" {
				fmt.Printf("%s  %s (%s)\n", status, r.Name, r.Err)
			} else {
				fmt.Printf("%s  %s\n", status, r.Name)
			}
		}
	}

	if failures > 0 {
		os.Exit(1)
	}
}

func runScenarios(specs []scenarioSpec) ([]result, int) {
	tc := types.NewInternContext()
	oracle := region.NewScopeTree()
	var aggErr error

	results := make([]result, 0, len(specs))
	failures := 0
	for _, spec := range specs {
		ctx := infer.NewCtx(tc, oracle, diag.BugFunc(diag.NewGlogSink()))
		r, err := runScenario(ctx, spec)
		if err != nil {
			aggErr = multierr.Append(aggErr, fmt.Errorf("%s: %w", spec.Name, err))
		}
		if !r.Pass {
			failures++
		}
		results = append(results, r)
	}
	if aggErr != nil {
		for _, e := range multierr.Errors(aggErr) {
			fmt.Fprintf(os.Stderr, "tyinfer-check: %v\n", e)
		}
	}
	return results, failures
}

func runScenario(ctx *infer.Ctx, spec scenarioSpec) (result, error) {
	if spec.Kind == "subregion" {
		ra, err := typesyntax.ParseRegion(spec.A)
		if err != nil {
			return result{Name: spec.Name, Err: err.Error()}, err
		}
		rb, err := typesyntax.ParseRegion(spec.B)
		if err != nil {
			return result{Name: spec.Name, Err: err.Error()}, err
		}
		holds := ctx.MakeSubregion(ra, rb) == nil
		return result{Name: spec.Name, Pass: holds == spec.Want}, nil
	}

	a, err := typesyntax.ParseType(ctx, spec.A)
	if err != nil {
		return result{Name: spec.Name, Err: err.Error()}, err
	}
	b, err := typesyntax.ParseType(ctx, spec.B)
	if err != nil {
		return result{Name: spec.Name, Err: err.Error()}, err
	}

	var holds bool
	switch spec.Kind {
	case "subtype":
		holds = ctx.MakeSubtype(a, b) == nil
	case "equal":
		holds = ctx.MakeEqual(a, b) == nil
	default:
		err := fmt.Errorf("unknown scenario kind %q", spec.Kind)
		return result{Name: spec.Name, Err: err.Error()}, err
	}

	return result{Name: spec.Name, Pass: holds == spec.Want}, nil
}
