// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package pep508

import (
	"fmt"
	"strings"

	"github.com/datawire/shippinglabel/pkg/python/pep440"
)

// A Marker is a parsed environment marker expression; the part of a
// requirement after the ";".
type Marker struct {
	expr markerExpr
}

// ParseMarker parses an environment marker expression, such as
//
//	python_version >= "3.6" and os_name == "posix"
func ParseMarker(str string) (*Marker, error) {
	p := &parser{input: str}
	expr, err := p.parseMarkerOr()
	if err == nil {
		p.skipSpace()
		if !p.eof() {
			err = fmt.Errorf("unexpected text at position %d: %q", p.pos, p.input[p.pos:])
		}
	}
	if err != nil {
		return nil, fmt.Errorf("pep508.ParseMarker: invalid marker: %q: %w", str, err)
	}
	return &Marker{expr: expr}, nil
}

// Evaluate reports whether the marker holds in the given environment (see
// DefaultEnvironment).  Referencing a variable that the environment does not
// define is an error, as is a non-version comparison with an operator that
// strings do not support.
func (m *Marker) Evaluate(env map[string]string) (bool, error) {
	return m.expr.evaluate(env)
}

// String renders the marker in normal form: single spaces around operators
// and keywords, string literals quoted with '"'.
func (m *Marker) String() string {
	var sb strings.Builder
	m.expr.writeTo(&sb)
	return sb.String()
}

type markerExpr interface {
	evaluate(env map[string]string) (bool, error)
	writeTo(sb *strings.Builder)
}

// A markerOr is a chain of "or"-joined operands.  All operands are evaluated
// even once the answer is settled, so that a reference to an undefined
// variable is an error no matter where it sits.
type markerOr []markerExpr

func (e markerOr) evaluate(env map[string]string) (bool, error) {
	ret := false
	for _, operand := range e {
		val, err := operand.evaluate(env)
		if err != nil {
			return false, err
		}
		ret = ret || val
	}
	return ret, nil
}

func (e markerOr) writeTo(sb *strings.Builder) {
	for i, operand := range e {
		if i > 0 {
			sb.WriteString(" or ")
		}
		operand.writeTo(sb)
	}
}

// A markerAnd is a chain of "and"-joined operands.
type markerAnd []markerExpr

func (e markerAnd) evaluate(env map[string]string) (bool, error) {
	ret := true
	for _, operand := range e {
		val, err := operand.evaluate(env)
		if err != nil {
			return false, err
		}
		ret = ret && val
	}
	return ret, nil
}

func (e markerAnd) writeTo(sb *strings.Builder) {
	for i, operand := range e {
		if i > 0 {
			sb.WriteString(" and ")
		}
		// "and" binds tighter than "or", so an "or" operand needs parens.
		if group, ok := operand.(markerOr); ok {
			sb.WriteByte('(')
			group.writeTo(sb)
			sb.WriteByte(')')
		} else {
			operand.writeTo(sb)
		}
	}
}

// A markerValue is one side of a comparison: either an environment variable
// name or a quoted string literal.
type markerValue struct {
	variable string
	literal  string
	isVar    bool
}

func (v markerValue) resolve(env map[string]string) (string, error) {
	if !v.isVar {
		return v.literal, nil
	}
	val, ok := env[v.variable]
	if !ok {
		return "", fmt.Errorf("undefined environment variable: %q", v.variable)
	}
	return val, nil
}

func (v markerValue) writeTo(sb *strings.Builder) {
	if v.isVar {
		sb.WriteString(v.variable)
	} else {
		sb.WriteByte('"')
		sb.WriteString(v.literal)
		sb.WriteByte('"')
	}
}

type markerCompare struct {
	lhs markerValue
	op  string
	rhs markerValue
}

func (e markerCompare) evaluate(env map[string]string) (bool, error) {
	lhs, err := e.lhs.resolve(env)
	if err != nil {
		return false, err
	}
	rhs, err := e.rhs.resolve(env)
	if err != nil {
		return false, err
	}
	switch e.op {
	case "in":
		return strings.Contains(rhs, lhs), nil
	case "not in":
		return !strings.Contains(rhs, lhs), nil
	case "===":
		return lhs == rhs, nil
	}
	if match, ok := versionCompare(lhs, e.op, rhs); ok {
		return match, nil
	}
	return stringCompare(lhs, e.op, rhs)
}

func (e markerCompare) writeTo(sb *strings.Builder) {
	e.lhs.writeTo(sb)
	sb.WriteByte(' ')
	sb.WriteString(e.op)
	sb.WriteByte(' ')
	e.rhs.writeTo(sb)
}

// versionCompare applies the PEP 440 comparison algorithm when both operands
// are parseable versions (with a ".*" suffix permitted on the right side of
// "==" and "!="); ok is false when they are not, in which case the
// comparison falls back to plain string semantics.
func versionCompare(lhs, op, rhs string) (match, ok bool) {
	var clause pep440.SpecifierClause
	switch op {
	case "~=":
		clause.Op = pep440.CmpOpCompatible
	case "==":
		clause.Op = pep440.CmpOpEQ
	case "!=":
		clause.Op = pep440.CmpOpNE
	case "<=":
		clause.Op = pep440.CmpOpLE
	case ">=":
		clause.Op = pep440.CmpOpGE
	case "<":
		clause.Op = pep440.CmpOpLT
	case ">":
		clause.Op = pep440.CmpOpGT
	default:
		return false, false
	}
	if strings.HasSuffix(rhs, ".*") {
		switch clause.Op {
		case pep440.CmpOpEQ:
			clause.Op = pep440.CmpOpPrefixEQ
		case pep440.CmpOpNE:
			clause.Op = pep440.CmpOpPrefixNE
		default:
			return false, false
		}
		rhs = strings.TrimSuffix(rhs, ".*")
	}
	rhsVer, err := pep440.ParseVersion(rhs)
	if err != nil {
		return false, false
	}
	if clause.Op == pep440.CmpOpCompatible && len(rhsVer.Release) < 2 {
		return false, false
	}
	lhsVer, err := pep440.ParseVersion(lhs)
	if err != nil {
		return false, false
	}
	clause.Version = *rhsVer
	return clause.Match(*lhsVer), true
}

// stringCompare applies Python string comparison semantics.
func stringCompare(lhs, op, rhs string) (bool, error) {
	switch op {
	case "<":
		return lhs < rhs, nil
	case "<=":
		return lhs <= rhs, nil
	case "==":
		return lhs == rhs, nil
	case "!=":
		return lhs != rhs, nil
	case ">=":
		return lhs >= rhs, nil
	case ">":
		return lhs > rhs, nil
	default:
		return false, fmt.Errorf("undefined comparison: %q %s %q", lhs, op, rhs)
	}
}

// markerVariables maps accepted variable spellings to canonical names; the
// dotted spellings are the PEP 345 names that PEP 508 grandfathers in.
//
//nolint:gochecknoglobals // Would be 'const'.
var markerVariables = map[string]string{
	"os_name":                        "os_name",
	"sys_platform":                   "sys_platform",
	"platform_machine":               "platform_machine",
	"platform_python_implementation": "platform_python_implementation",
	"platform_release":               "platform_release",
	"platform_system":                "platform_system",
	"platform_version":               "platform_version",
	"python_version":                 "python_version",
	"python_full_version":            "python_full_version",
	"implementation_name":            "implementation_name",
	"implementation_version":         "implementation_version",
	"extra":                          "extra",

	"os.name":                        "os_name",
	"sys.platform":                   "sys_platform",
	"platform.version":               "platform_version",
	"platform.machine":               "platform_machine",
	"platform.python_implementation": "platform_python_implementation",
	"python_implementation":          "platform_python_implementation",
}

// DefaultEnvironment returns the marker variables for a nominal CPython
// target; adjust individual entries as needed.  It does not define "extra";
// use EnvironmentWithExtra for that.
func DefaultEnvironment() map[string]string {
	return map[string]string{
		"implementation_name":            "cpython",
		"implementation_version":         "3.9.9",
		"os_name":                        "posix",
		"platform_machine":               "x86_64",
		"platform_python_implementation": "CPython",
		"platform_release":               "",
		"platform_system":                "Linux",
		"platform_version":               "",
		"python_full_version":            "3.9.9",
		"python_version":                 "3.9",
		"sys_platform":                   "linux",
	}
}

// EnvironmentWithExtra is DefaultEnvironment plus the "extra" variable.
func EnvironmentWithExtra(extra string) map[string]string {
	env := DefaultEnvironment()
	env["extra"] = extra
	return env
}

func (p *parser) parseMarkerOr() (markerExpr, error) {
	operand, err := p.parseMarkerAnd()
	if err != nil {
		return nil, err
	}
	operands := []markerExpr{operand}
	for {
		mark := p.pos
		p.skipSpace()
		if !p.takeKeyword("or") {
			p.pos = mark
			break
		}
		operand, err := p.parseMarkerAnd()
		if err != nil {
			return nil, err
		}
		operands = append(operands, operand)
	}
	if len(operands) == 1 {
		return operands[0], nil
	}
	return markerOr(operands), nil
}

func (p *parser) parseMarkerAnd() (markerExpr, error) {
	operand, err := p.parseMarkerExpr()
	if err != nil {
		return nil, err
	}
	operands := []markerExpr{operand}
	for {
		mark := p.pos
		p.skipSpace()
		if !p.takeKeyword("and") {
			p.pos = mark
			break
		}
		operand, err := p.parseMarkerExpr()
		if err != nil {
			return nil, err
		}
		operands = append(operands, operand)
	}
	if len(operands) == 1 {
		return operands[0], nil
	}
	return markerAnd(operands), nil
}

func (p *parser) parseMarkerExpr() (markerExpr, error) {
	p.skipSpace()
	if p.take("(") {
		expr, err := p.parseMarkerOr()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if !p.take(")") {
			return nil, fmt.Errorf("expected ')' at position %d", p.pos)
		}
		return expr, nil
	}
	lhs, err := p.parseMarkerValue()
	if err != nil {
		return nil, err
	}
	op, err := p.parseMarkerOp()
	if err != nil {
		return nil, err
	}
	rhs, err := p.parseMarkerValue()
	if err != nil {
		return nil, err
	}
	return markerCompare{lhs: lhs, op: op, rhs: rhs}, nil
}

func (p *parser) parseMarkerValue() (markerValue, error) {
	p.skipSpace()
	if quote := p.peek(); quote == '\'' || quote == '"' {
		p.pos++
		end := strings.IndexByte(p.input[p.pos:], quote)
		if end < 0 {
			return markerValue{}, fmt.Errorf("unterminated string literal at position %d", p.pos-1)
		}
		lit := p.input[p.pos : p.pos+end]
		p.pos += end + 1
		return markerValue{literal: lit}, nil
	}
	start := p.pos
	for !p.eof() && isIdentChar(p.peek()) {
		p.pos++
	}
	name := p.input[start:p.pos]
	if name == "" {
		return markerValue{}, fmt.Errorf("expected a variable or quoted string at position %d", start)
	}
	canonical, ok := markerVariables[name]
	if !ok {
		return markerValue{}, fmt.Errorf("unknown environment variable %q at position %d", name, start)
	}
	return markerValue{variable: canonical, isVar: true}, nil
}

func (p *parser) parseMarkerOp() (string, error) {
	p.skipSpace()
	for _, op := range []string{"===", "==", "~=", "!=", "<=", ">=", "<", ">"} {
		if p.take(op) {
			return op, nil
		}
	}
	if p.takeKeyword("in") {
		return "in", nil
	}
	if p.takeKeyword("not") {
		p.skipSpace()
		if !p.takeKeyword("in") {
			return "", fmt.Errorf("expected 'in' at position %d", p.pos)
		}
		return "not in", nil
	}
	return "", fmt.Errorf("expected a comparison operator at position %d", p.pos)
}
