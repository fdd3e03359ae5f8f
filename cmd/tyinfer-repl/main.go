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

// Binary tyinfer-repl is an interactive front-end onto one inference
// session, for poking at the combiners by hand the way the mangle
// interpreter lets you poke at the Datalog evaluator one rule at a time.
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"codeberg.org/TauCeti/tyinfer/diag"
	"codeberg.org/TauCeti/tyinfer/infer"
	"codeberg.org/TauCeti/tyinfer/region"
	"codeberg.org/TauCeti/tyinfer/types"
	"codeberg.org/TauCeti/tyinfer/typesyntax"
)

const prompt = "ty> "

func main() {
	rl, err := readline.New(prompt)
	if err != nil {
		fmt.Printf("tyinfer-repl: %v\n", err)
		return
	}
	defer rl.Close()

	tc := types.NewInternContext()
	oracle := region.NewScopeTree()
	ctx := infer.NewCtx(tc, oracle, diag.BugFunc(diag.NewGlogSink()))

	fmt.Println("tyinfer-repl: type expressions in the syntax documented by `:help`.")
	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return
		}
		if err != nil {
			fmt.Printf("tyinfer-repl: %v\n", err)
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		readline.AddHistory(line)
		if !dispatch(ctx, line) {
			return
		}
	}
}

// dispatch runs one REPL command and reports whether the REPL should keep
// reading (false means :quit was entered).
func dispatch(ctx *infer.Ctx, line string) bool {
	fields := strings.Fields(line)
	cmd := fields[0]
	rest := strings.TrimSpace(strings.TrimPrefix(line, cmd))

	switch cmd {
	case ":quit", ":q":
		return false

	case ":help", ":h":
		printHelp()

	case ":vars":
		fmt.Printf("%d type variable(s), %d region variable(s) allocated\n", ctx.TyVarCount(), ctx.RegionVarCount())

	case "sub":
		a, b, ok := splitTwo(rest)
		if !ok {
			fmt.Println("usage: sub <A> <B>")
			break
		}
		runTys(ctx, a, b, ctx.MakeSubtype, "%s <: %s")

	case "eq":
		a, b, ok := splitTwo(rest)
		if !ok {
			fmt.Println("usage: eq <A> <B>")
			break
		}
		runTys(ctx, a, b, ctx.MakeEqual, "%s == %s")

	case "subregion":
		a, b, ok := splitTwo(rest)
		if !ok {
			fmt.Println("usage: subregion <'r1> <'r2>")
			break
		}
		ra, err := typesyntax.ParseRegion(a)
		if err != nil {
			fmt.Printf("error parsing %q: %v\n", a, err)
			break
		}
		rb, err := typesyntax.ParseRegion(b)
		if err != nil {
			fmt.Printf("error parsing %q: %v\n", b, err)
			break
		}
		if err := ctx.MakeSubregion(ra, rb); err != nil {
			fmt.Printf("%s <: %s: %v\n", a, b, err)
		} else {
			fmt.Printf("%s <: %s: ok\n", a, b)
		}

	case "assign":
		a, b, ok := splitTwo(rest)
		if !ok {
			fmt.Println("usage: assign <exprTy> <target>")
			break
		}
		exprTy, err := typesyntax.ParseType(ctx, a)
		if err != nil {
			fmt.Printf("error parsing %q: %v\n", a, err)
			break
		}
		target, err := typesyntax.ParseType(ctx, b)
		if err != nil {
			fmt.Printf("error parsing %q: %v\n", b, err)
			break
		}
		if err := ctx.MakeAssignable(0, types.BorrowScope{}, exprTy, target); err != nil {
			fmt.Printf("%s assignable to %s: %v\n", a, b, err)
		} else {
			fmt.Printf("%s assignable to %s: ok\n", a, b)
		}

	case "resolve":
		t, err := typesyntax.ParseType(ctx, rest)
		if err != nil {
			fmt.Printf("error parsing %q: %v\n", rest, err)
			break
		}
		resolved, err := ctx.ResolveDeep(t)
		if err != nil {
			fmt.Printf("resolve %s: %v\n", rest, err)
			break
		}
		fmt.Printf("%s resolves to %s\n", rest, resolved)

	default:
		fmt.Printf("unrecognized command %q; try :help\n", cmd)
	}
	return true
}

func runTys(ctx *infer.Ctx, a, b string, post func(a, b types.Type) error, format string) {
	ta, err := typesyntax.ParseType(ctx, a)
	if err != nil {
		fmt.Printf("error parsing %q: %v\n", a, err)
		return
	}
	tb, err := typesyntax.ParseType(ctx, b)
	if err != nil {
		fmt.Printf("error parsing %q: %v\n", b, err)
		return
	}
	label := fmt.Sprintf(format, a, b)
	if err := post(ta, tb); err != nil {
		fmt.Printf("%s: %v\n", label, err)
		return
	}
	fmt.Printf("%s: ok\n", label)
}

func splitTwo(s string) (string, string, bool) {
	depth := 0
	for i, r := range s {
		switch r {
		case '(', '<':
			depth++
		case ')':
			depth--
		case '>':
			if i == 0 || s[i-1] != '-' {
				depth--
			}
		case ' ':
			left, right := strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
			if depth == 0 && !strings.HasSuffix(left, "->") && !strings.HasPrefix(right, "->") {
				return left, right, true
			}
		}
	}
	return "", "", false
}

func printHelp() {
	fmt.Print(`commands:
  sub <A> <B>         post A <: B
  eq <A> <B>          post A == B
  subregion <'r1> <'r2>  post 'r1 <: 'r2
  assign <A> <B>      check assignability of A into B
  resolve <A>         deep-resolve A's variables against current bounds
  :vars               show variable counts
  :help               this message
  :quit               exit

type syntax: bool | str | bot | i<width> | ?<id> | box<T> | vec<T> |
             (T, U, ...) | fn(T, U) -> R
region syntax: 'static | 'scope<id>
`)
}
