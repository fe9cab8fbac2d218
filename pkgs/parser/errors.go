package parser

import (
	"fmt"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	cerrors "github.com/aledsdavies/pyjs/pkgs/errors"
	"github.com/aledsdavies/pyjs/pkgs/lexer"
	"github.com/aledsdavies/pyjs/pkgs/scope"
)

const maxSuggestions = 3

// syntaxError reports an unexpected token at a grammar decision point
func (p *parser) syntaxError(reason string, tok lexer.Token) error {
	if tok.Kind == lexer.EOF && reason == "invalid syntax" {
		reason = "unexpected EOF while parsing"
	}
	return cerrors.NewSyntaxError(reason, tok.Text(), tok.Line, tok.Column).
		WithContext("kind", tok.Kind.String())
}

// expectedError reports a missing token
func (p *parser) expectedError(what string) error {
	return p.syntaxError(fmt.Sprintf("expected %s", what), p.cur)
}

// indentationError reports a missing NEWLINE, INDENT or DEDENT
func (p *parser) indentationError(reason string) error {
	return cerrors.NewIndentationError(reason, p.cur.Text(), p.cur.Line, p.cur.Column)
}

// disabledError reports a construct turned off by policy
func (p *parser) disabledError(construct string, policy scope.Policy) error {
	return cerrors.NewCompilationError(construct+" is disabled").
		At(p.cur.Line, p.cur.Column).
		WithContext("rule", policy.String())
}

// nameError reports a read of an undeclared name, suggesting close
// matches among the visible names.
func (p *parser) nameError(tok lexer.Token, sc *scope.Scope) error {
	err := cerrors.NewNameError(tok.Literal, tok.Line, tok.Column)
	if matches := findClosestMatches(tok.Literal, sc.Names()); len(matches) > 0 {
		err.WithSuggestions(matches...)
	}
	return err
}

// findClosestMatches ranks candidates by fuzzy match, then by edit
// distance for names the fuzzy subsequence search misses (typos).
func findClosestMatches(target string, candidates []string) []string {
	if len(candidates) == 0 {
		return nil
	}

	ranks := fuzzy.RankFindFold(target, candidates)
	sort.Sort(ranks)

	seen := make(map[string]bool)
	var out []string
	for _, r := range ranks {
		if !seen[r.Target] {
			seen[r.Target] = true
			out = append(out, r.Target)
		}
	}

	type near struct {
		name string
		dist int
	}
	var typos []near
	limit := len(target) / 3
	if limit < 1 {
		limit = 1
	}
	for _, c := range candidates {
		if seen[c] {
			continue
		}
		if d := fuzzy.LevenshteinDistance(target, c); d <= limit {
			typos = append(typos, near{c, d})
		}
	}
	sort.SliceStable(typos, func(i, j int) bool { return typos[i].dist < typos[j].dist })
	for _, t := range typos {
		out = append(out, t.name)
	}

	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}
