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

// Package typesyntax is a small prefix-notation reader for types.Type and
// types.Region values, shared by the tyinfer-check and tyinfer-repl
// binaries. The core itself owns no surface syntax (see types.Type.String);
// this package exists purely so the two command-line tools don't
// each invent their own incompatible scenario notation.
package typesyntax

import (
	"fmt"
	"strconv"
	"strings"

	"codeberg.org/TauCeti/tyinfer/infer"
	"codeberg.org/TauCeti/tyinfer/types"
)

// ParseType reads the grammar:
//
//	bool | str | bot | i<width> | ?<id> | box<T> | vec<T> |
//	(T, U, ...) | fn(T, U) -> R
//
// Fresh type variables (?<id>) are allocated through ctx so they
// participate in the same variable store whatever constraint the caller
// posts next is checked against; repeated uses of the same id within one
// ParseType call resolve to the same variable.
func ParseType(ctx *infer.Ctx, src string) (types.Type, error) {
	p := &parser{s: strings.TrimSpace(src), ctx: ctx, vars: map[string]types.Type{}}
	t, err := p.parseExpr()
	if err != nil {
		return types.Type{}, err
	}
	p.skipSpace()
	if p.pos != len(p.s) {
		return types.Type{}, fmt.Errorf("trailing input at %q", p.s[p.pos:])
	}
	return t, nil
}

// ParseRegion reads the grammar: 'static | 'scope<id>.
func ParseRegion(src string) (types.Region, error) {
	s := strings.TrimSpace(src)
	if s == "'static" {
		return types.Static, nil
	}
	if strings.HasPrefix(s, "'scope") {
		id, err := strconv.Atoi(strings.TrimPrefix(s, "'scope"))
		if err != nil {
			return types.Region{}, fmt.Errorf("bad scope region %q: %w", s, err)
		}
		return types.NewScope(types.ScopeID(id)), nil
	}
	return types.Region{}, fmt.Errorf("unrecognized region %q", s)
}

type parser struct {
	s    string
	pos  int
	ctx  *infer.Ctx
	vars map[string]types.Type
}

func (p *parser) skipSpace() {
	for p.pos < len(p.s) && (p.s[p.pos] == ' ' || p.s[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func (p *parser) consume(b byte) error {
	if p.peek() != b {
		return fmt.Errorf("expected %q at %q", b, p.s[p.pos:])
	}
	p.pos++
	return nil
}

func (p *parser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			p.pos++
			continue
		}
		break
	}
	return p.s[start:p.pos]
}

func (p *parser) parseExpr() (types.Type, error) {
	switch p.peek() {
	case '?':
		p.pos++
		name := p.ident()
		if t, ok := p.vars[name]; ok {
			return t, nil
		}
		t := p.ctx.FreshTyVar()
		p.vars[name] = t
		return t, nil
	case '(':
		return p.parseTuple()
	}

	name := p.ident()
	switch name {
	case "bool":
		return types.Bool, nil
	case "str":
		return types.Str, nil
	case "bot":
		return types.Bot, nil
	case "box":
		inner, err := p.parseAngleBracketed()
		if err != nil {
			return types.Type{}, err
		}
		return types.NewBox(types.Mt{Ty: inner, Mutbl: types.Imm}), nil
	case "vec":
		inner, err := p.parseAngleBracketed()
		if err != nil {
			return types.Type{}, err
		}
		return types.NewVec(inner), nil
	case "fn":
		return p.parseFn()
	default:
		if strings.HasPrefix(name, "i") {
			width, err := strconv.Atoi(strings.TrimPrefix(name, "i"))
			if err == nil {
				return types.Int(width), nil
			}
		}
		return types.Type{}, fmt.Errorf("unrecognized type token %q", name)
	}
}

func (p *parser) parseAngleBracketed() (types.Type, error) {
	if err := p.consume('<'); err != nil {
		return types.Type{}, err
	}
	inner, err := p.parseExpr()
	if err != nil {
		return types.Type{}, err
	}
	if err := p.consume('>'); err != nil {
		return types.Type{}, err
	}
	return inner, nil
}

func (p *parser) parseTuple() (types.Type, error) {
	if err := p.consume('('); err != nil {
		return types.Type{}, err
	}
	var elems []types.Type
	for p.peek() != ')' {
		e, err := p.parseExpr()
		if err != nil {
			return types.Type{}, err
		}
		elems = append(elems, e)
		if p.peek() == ',' {
			p.pos++
		}
	}
	if err := p.consume(')'); err != nil {
		return types.Type{}, err
	}
	return types.NewTup(elems...), nil
}

func (p *parser) parseFn() (types.Type, error) {
	if err := p.consume('('); err != nil {
		return types.Type{}, err
	}
	var args []types.Type
	for p.peek() != ')' {
		a, err := p.parseExpr()
		if err != nil {
			return types.Type{}, err
		}
		args = append(args, a)
		if p.peek() == ',' {
			p.pos++
		}
	}
	if err := p.consume(')'); err != nil {
		return types.Type{}, err
	}
	if err := p.consume('-'); err != nil {
		return types.Type{}, err
	}
	if err := p.consume('>'); err != nil {
		return types.Type{}, err
	}
	ret, err := p.parseExpr()
	if err != nil {
		return types.Type{}, err
	}
	return types.NewFn(0, args, ret, 0), nil
}
