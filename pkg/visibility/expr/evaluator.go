package expr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formvalidator/pkg/model"
	"github.com/goliatone/go-formvalidator/pkg/visibility"
)

// Program is a compiled visibility rule.
//
// Supported syntax:
// - identifiers: `dirty`, `touched`, `submitted` and their negations
//   `pristine`, `untouched` (`submited` is accepted as an alias)
// - comparisons against booleans: `dirty == true`, `submitted != false`
// - boolean composition: `!a`, `a && b`, `a || b`, parentheses
type Program struct {
	rule string
	root exprNode
}

// Compile parses rule. An empty rule compiles to a program that always
// returns true.
func Compile(rule string) (*Program, error) {
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return &Program{}, nil
	}

	tokens, err := tokenize(trimmed)
	if err != nil {
		return nil, err
	}
	root, err := parseExpression(tokens)
	if err != nil {
		return nil, err
	}
	return &Program{rule: trimmed, root: root}, nil
}

// MustCompile panics when rule does not compile.
func MustCompile(rule string) *Program {
	program, err := Compile(rule)
	if err != nil {
		panic(err)
	}
	return program
}

// String returns the source rule.
func (p *Program) String() string {
	if p == nil {
		return ""
	}
	return p.rule
}

// Eval runs the program against state.
func (p *Program) Eval(state model.State) bool {
	if p == nil || p.root == nil {
		return true
	}
	return p.root.eval(state)
}

// Policy exposes the program as a visibility.Policy.
func (p *Program) Policy() visibility.Policy {
	return p.Eval
}

// Policy compiles rule straight into a visibility.Policy.
func Policy(rule string) (visibility.Policy, error) {
	program, err := Compile(rule)
	if err != nil {
		return nil, err
	}
	return program.Policy(), nil
}

type tokenKind int

const (
	tokenIdentifier tokenKind = iota
	tokenBool
	tokenEq
	tokenNeq
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	raw  string
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0

	pair := func(want byte) bool {
		return i+1 < len(input) && input[i+1] == want
	}

	for i < len(input) {
		ch := input[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case ch == '(':
			tokens = append(tokens, token{kind: tokenLParen, raw: "("})
			i++
		case ch == ')':
			tokens = append(tokens, token{kind: tokenRParen, raw: ")"})
			i++
		case ch == '!':
			if pair('=') {
				tokens = append(tokens, token{kind: tokenNeq, raw: "!="})
				i += 2
				continue
			}
			tokens = append(tokens, token{kind: tokenNot, raw: "!"})
			i++
		case ch == '=':
			if !pair('=') {
				return nil, errors.New("visibility/expr: unexpected '='; use '=='")
			}
			tokens = append(tokens, token{kind: tokenEq, raw: "=="})
			i += 2
		case ch == '&':
			if !pair('&') {
				return nil, errors.New("visibility/expr: unexpected '&'; use '&&'")
			}
			tokens = append(tokens, token{kind: tokenAnd, raw: "&&"})
			i += 2
		case ch == '|':
			if !pair('|') {
				return nil, errors.New("visibility/expr: unexpected '|'; use '||'")
			}
			tokens = append(tokens, token{kind: tokenOr, raw: "||"})
			i += 2
		case isIdentByte(ch):
			start := i
			for i < len(input) && isIdentByte(input[i]) {
				i++
			}
			raw := strings.ToLower(input[start:i])
			if raw == "true" || raw == "false" {
				tokens = append(tokens, token{kind: tokenBool, raw: raw})
				continue
			}
			tokens = append(tokens, token{kind: tokenIdentifier, raw: raw})
		default:
			return nil, fmt.Errorf("visibility/expr: unexpected character %q", ch)
		}
	}
	return tokens, nil
}

func isIdentByte(ch byte) bool {
	return ch == '_' || ch == '.' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}

type exprNode interface {
	eval(state model.State) bool
}

type exprOr struct{ left, right exprNode }

func (n exprOr) eval(state model.State) bool { return n.left.eval(state) || n.right.eval(state) }

type exprAnd struct{ left, right exprNode }

func (n exprAnd) eval(state model.State) bool { return n.left.eval(state) && n.right.eval(state) }

type exprNot struct{ inner exprNode }

func (n exprNot) eval(state model.State) bool { return !n.inner.eval(state) }

type exprFlag struct {
	read func(model.State) bool
}

func (n exprFlag) eval(state model.State) bool { return n.read(state) }

type exprCompare struct {
	flag exprFlag
	want bool
	eq   bool
}

func (n exprCompare) eval(state model.State) bool {
	got := n.flag.eval(state)
	if n.eq {
		return got == n.want
	}
	return got != n.want
}

var flags = map[string]func(model.State) bool{
	"dirty":     func(s model.State) bool { return s.Dirty },
	"pristine":  func(s model.State) bool { return !s.Dirty },
	"touched":   func(s model.State) bool { return s.Touched },
	"untouched": func(s model.State) bool { return !s.Touched },
	"submitted": func(s model.State) bool { return s.Submitted },
	"submited":  func(s model.State) bool { return s.Submitted },
}

type tokenStream struct {
	tokens []token
	pos    int
}

func parseExpression(tokens []token) (exprNode, error) {
	stream := &tokenStream{tokens: tokens}
	node, err := parseOr(stream)
	if err != nil {
		return nil, err
	}
	if stream.pos < len(stream.tokens) {
		return nil, fmt.Errorf("visibility/expr: unexpected token %q", stream.tokens[stream.pos].raw)
	}
	return node, nil
}

func parseOr(stream *tokenStream) (exprNode, error) {
	left, err := parseAnd(stream)
	if err != nil {
		return nil, err
	}
	for stream.match(tokenOr) {
		right, err := parseAnd(stream)
		if err != nil {
			return nil, err
		}
		left = exprOr{left: left, right: right}
	}
	return left, nil
}

func parseAnd(stream *tokenStream) (exprNode, error) {
	left, err := parseUnary(stream)
	if err != nil {
		return nil, err
	}
	for stream.match(tokenAnd) {
		right, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		left = exprAnd{left: left, right: right}
	}
	return left, nil
}

func parseUnary(stream *tokenStream) (exprNode, error) {
	if stream.match(tokenNot) {
		inner, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		return exprNot{inner: inner}, nil
	}
	return parsePrimary(stream)
}

func parsePrimary(stream *tokenStream) (exprNode, error) {
	if stream.match(tokenLParen) {
		inner, err := parseOr(stream)
		if err != nil {
			return nil, err
		}
		if !stream.match(tokenRParen) {
			return nil, errors.New("visibility/expr: missing closing ')'")
		}
		return inner, nil
	}

	if lit, ok := stream.consume(tokenBool); ok {
		value := lit.raw == "true"
		return exprFlag{read: func(model.State) bool { return value }}, nil
	}

	ident, ok := stream.consume(tokenIdentifier)
	if !ok {
		if stream.pos >= len(stream.tokens) {
			return nil, errors.New("visibility/expr: empty expression")
		}
		return nil, fmt.Errorf("visibility/expr: expected identifier, got %q", stream.tokens[stream.pos].raw)
	}
	read, known := flags[ident.raw]
	if !known {
		return nil, fmt.Errorf("visibility/expr: unknown identifier %q", ident.raw)
	}
	flag := exprFlag{read: read}

	for _, op := range []tokenKind{tokenEq, tokenNeq} {
		if !stream.match(op) {
			continue
		}
		lit, ok := stream.consume(tokenBool)
		if !ok {
			return nil, errors.New("visibility/expr: expected true or false after comparison")
		}
		return exprCompare{flag: flag, want: lit.raw == "true", eq: op == tokenEq}, nil
	}
	return flag, nil
}

func (s *tokenStream) match(kind tokenKind) bool {
	if s.pos >= len(s.tokens) || s.tokens[s.pos].kind != kind {
		return false
	}
	s.pos++
	return true
}

func (s *tokenStream) consume(kind tokenKind) (token, bool) {
	if s.pos >= len(s.tokens) || s.tokens[s.pos].kind != kind {
		return token{}, false
	}
	out := s.tokens[s.pos]
	s.pos++
	return out, true
}
