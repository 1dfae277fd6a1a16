// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

// Package preset maps human-readable permission bundles to bitsets.
// Presets are defined by small expressions over permission names, e.g.
// "Enter | Leave | PlaceBlocks" or "All & ~Explosion", and can be
// loaded from YAML files alongside the built-in set.
package preset

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/samber/oops"

	"github.com/areaguard/areaguard/internal/area"
)

// exprLexer tokenizes preset expressions. A dedicated lexer keeps the
// operator set closed; the default scanner would accept stray runes.
var exprLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[a-zA-Z_]\w*`},
	{Name: "Punct", Pattern: `[|&~()]`},
	{Name: "whitespace", Pattern: `\s+`},
})

// expression is the root grammar node: a union of terms.
//
// Grammar: term ( "|" term )*
type expression struct {
	Pos   lexer.Position `parser:""`
	First *term          `parser:"@@"`
	Rest  []*term        `parser:"('|' @@)*"`
}

// term is an intersection of factors.
type term struct {
	First *factor   `parser:"@@"`
	Rest  []*factor `parser:"('&' @@)*"`
}

// factor is a permission name, a complement, or a parenthesized expression.
type factor struct {
	Complement *factor     `parser:"  '~' @@"`
	Group      *expression `parser:"| '(' @@ ')'"`
	Name       string      `parser:"| @Ident"`
}

var exprParser *participle.Parser[expression]

func init() {
	var err error
	exprParser, err = participle.Build[expression](
		participle.Lexer(exprLexer),
	)
	if err != nil {
		panic(fmt.Sprintf("failed to build preset expression parser: %v", err))
	}
}

// Compile parses a preset expression and evaluates it to a permission
// bitset. Unknown permission names are reported with their position.
func Compile(src string) (area.Permission, error) {
	expr, err := exprParser.ParseString("", src)
	if err != nil {
		return 0, oops.Wrapf(err, "parsing preset expression")
	}
	return evalExpression(expr)
}

func evalExpression(e *expression) (area.Permission, error) {
	p, err := evalTerm(e.First)
	if err != nil {
		return 0, err
	}
	for _, t := range e.Rest {
		q, err := evalTerm(t)
		if err != nil {
			return 0, err
		}
		p |= q
	}
	return p, nil
}

func evalTerm(t *term) (area.Permission, error) {
	p, err := evalFactor(t.First)
	if err != nil {
		return 0, err
	}
	for _, f := range t.Rest {
		q, err := evalFactor(f)
		if err != nil {
			return 0, err
		}
		p &= q
	}
	return p, nil
}

func evalFactor(f *factor) (area.Permission, error) {
	switch {
	case f.Complement != nil:
		p, err := evalFactor(f.Complement)
		if err != nil {
			return 0, err
		}
		return ^p, nil
	case f.Group != nil:
		return evalExpression(f.Group)
	default:
		return resolveName(f.Name)
	}
}

// resolveName maps an identifier to a permission bitset. The aggregate
// names All, None and Default are accepted alongside single bits.
func resolveName(name string) (area.Permission, error) {
	switch strings.ToLower(name) {
	case "all":
		return area.PermAll, nil
	case "none":
		return area.PermNone, nil
	case "default":
		return area.PermDefault, nil
	}
	p, ok := area.PermissionByName(name)
	if !ok {
		return 0, fmt.Errorf("unknown permission %q", name)
	}
	return p, nil
}
