// Package parser implements the lossless, panic-mode-recovering
// recursive-descent parser spec.md §4 describes: it turns a source
// view's bytes directly into a flat tree.Tree, with no separate
// tokenization pass.
//
// Each grammar production is a try* method following the same
// protocol: open a node, attempt to recognize the production, and
// either close it on success, abandon it (rolling back both the tree
// and the read position) on a hard failure that consumed nothing, or,
// once committed, report a diagnostic and recover locally by skipping
// to the next skip boundary before closing the node anyway. Unlike the
// teacher's LALR parser, which unwinds failed alternatives with
// panic/recover across frames, recovery here never crosses a try*
// call: each production that commits handles its own failure.
//
// Grounded on original_source/src/dil/parser.c for the production set
// and dispatch order, translated into the tree/Builder model in
// tree.go and builder.go.
package parser

import (
	"github.com/nihei9/dil/source"
	"github.com/nihei9/dil/tree"
)

// Parser drives one parse of a source view into a tree.
type Parser struct {
	src *source.Source
	b   *tree.Builder
	pos int
}

// Parse parses src's bytes into a fresh tree.Tree, reporting any
// diagnostics onto src as it goes. It never returns an error: a
// syntactically broken source still yields a tree, just one that the
// caller should not try to generate code from (check src.Errors).
func Parse(src *source.Source) *tree.Tree {
	t := tree.New(src.Bytes)
	p := &Parser{src: src, b: tree.NewBuilder(t), pos: 0}
	p.parseRoot()
	return t
}

// parseRoot implements `root ::= skip* statement* end-of-input`. Any
// bytes left over once no further statement can be recognized are
// reported as one file-level diagnostic, distinct from the
// production-scoped ones.
func (p *Parser) parseRoot() {
	t := p.b.Tree()
	for {
		p.skip()
		if p.atEOF() {
			break
		}
		if !p.tryStatement() {
			break
		}
	}
	if !p.atEOF() {
		p.src.Errorf(source.Slice{First: p.pos, Last: len(p.src.Bytes)}, synErrTrailingGarbage)
		p.pos = len(p.src.Bytes)
	}
	t.SetLast(0, len(p.src.Bytes))
}

// open appends a new node of sym starting at the current position and
// pushes it as the active parent.
func (p *Parser) open(sym tree.Symbol) int {
	i := p.b.Add(tree.Node{Symbol: sym, Slice: tree.Slice{First: p.pos}})
	p.b.Push(i)
	return i
}

// abandon rolls back a speculative production that failed before
// consuming anything: the read position returns to the node's start,
// and the node itself is removed from the tree.
func (p *Parser) abandon(idx int) {
	p.pos = p.b.Tree().At(idx).Slice.First
	p.b.Pop()
	p.b.RemoveLast()
}

// close finishes a successfully (or recovered) parsed production.
func (p *Parser) close(idx int) {
	p.b.Tree().SetLast(idx, p.pos)
	p.b.Pop()
}

// recover skips forward past the byte(s) that broke a committed
// production, stopping at the next skip boundary (whitespace, a "//"
// comment, or end of input), then closes the node anyway so the
// caller can keep parsing subsequent statements.
func (p *Parser) recover(idx int) {
	for !p.atEOF() && !p.atSkipBoundary() {
		p.pos++
	}
	p.close(idx)
}

func (p *Parser) atSkipBoundary() bool {
	b, _ := p.peek()
	if isWhitespaceByte(b) {
		return true
	}
	if b == '/' && p.pos+1 < len(p.src.Bytes) && p.src.Bytes[p.pos+1] == '/' {
		return true
	}
	return false
}

// failExpected reports that a single, specific terminal was required
// but not found, and recovers.
func (p *Parser) failExpected(idx int, literal string) {
	sym := p.b.Tree().At(idx).Symbol
	slice := source.Slice{First: p.pos, Last: p.pos + 1}
	if p.atEOF() {
		slice.Last = slice.First
	}
	p.src.Errorf(slice, synErrExpectedFmt, literal, sym)
	p.recover(idx)
}

// failUnexpected reports that an entire sub-production (a pattern, an
// alternative, a unit, a set) was required but nothing recognizable
// started at the current position, and recovers.
func (p *Parser) failUnexpected(idx int) {
	sym := p.b.Tree().At(idx).Symbol
	slice := source.Slice{First: p.pos, Last: p.pos + 1}
	if p.atEOF() {
		slice.Last = slice.First
	}
	p.src.Errorf(slice, synErrUnexpectedFmt, sym)
	p.recover(idx)
}

// failEscaped reports the one diagnostic with its own fixed wording
// (spec.md §9's open question on malformed escapes), naming the
// enclosing Set/String rather than Escaped itself.
func (p *Parser) failEscaped(idx int, context tree.Symbol) {
	slice := source.Slice{First: p.pos, Last: p.pos + 1}
	if p.atEOF() {
		slice.Last = slice.First
	}
	p.src.Errorf(slice, synErrEscapedFmt, context)
	p.recover(idx)
}

// skip consumes a maximal run of whitespace and comments, matching
// `skip ::= whitespace | comment` applied zero or more times.
func (p *Parser) skip() {
	for p.skipOne() {
	}
}

func (p *Parser) skipOne() bool {
	if p.skipWhitespace() {
		return true
	}
	return p.skipComment()
}

func (p *Parser) skipWhitespace() bool {
	start := p.pos
	for !p.atEOF() {
		b, _ := p.peek()
		if !isWhitespaceByte(b) {
			break
		}
		p.pos++
	}
	return p.pos > start
}

// skipComment consumes a "//" line comment up to and including its
// terminating newline, or up to end of input if the file ends first.
func (p *Parser) skipComment() bool {
	if p.pos+1 >= len(p.src.Bytes) || p.src.Bytes[p.pos] != '/' || p.src.Bytes[p.pos+1] != '/' {
		return false
	}
	p.pos += 2
	for !p.atEOF() {
		b, _ := p.peek()
		p.pos++
		if b == '\n' {
			break
		}
	}
	return true
}

// tryStatement implements the root's statement dispatch, in the order
// spec.md §4.3 fixes: Output, then Start, then Skip, then Rule.
func (p *Parser) tryStatement() bool {
	if p.tryOutput() {
		return true
	}
	if p.tryStart() {
		return true
	}
	if p.trySkipDirective() {
		return true
	}
	return p.tryRule()
}

// output ::= "output" skip+ string skip* ";"
//
// The skip after the keyword is not enforced: a string directly after
// "output" is accepted.
func (p *Parser) tryOutput() bool {
	idx := p.open(tree.Output)
	if !p.matchLiteral("output") {
		p.abandon(idx)
		return false
	}
	p.skip()
	if !p.tryString() {
		p.failUnexpected(idx)
		return true
	}
	p.skip()
	if !p.matchChar(';') {
		p.failExpected(idx, ";")
		return true
	}
	p.close(idx)
	return true
}

// start-dir ::= "start" skip+ pattern skip* ";"
//
// The skip after the keyword is not enforced: a pattern directly after
// "start" is accepted.
func (p *Parser) tryStart() bool {
	idx := p.open(tree.Start)
	if !p.matchLiteral("start") {
		p.abandon(idx)
		return false
	}
	p.skip()
	if !p.tryPattern() {
		p.failUnexpected(idx)
		return true
	}
	p.skip()
	if !p.matchChar(';') {
		p.failExpected(idx, ";")
		return true
	}
	p.close(idx)
	return true
}

// skip-dir ::= "skip" (skip+ pattern)? skip* ";"
//
// The skip before the pattern is not enforced: a pattern directly after
// "skip" is accepted.
func (p *Parser) trySkipDirective() bool {
	idx := p.open(tree.Skip)
	if !p.matchLiteral("skip") {
		p.abandon(idx)
		return false
	}
	p.skip()
	p.tryPattern() // optional: absence is not an error
	p.skip()
	if !p.matchChar(';') {
		p.failExpected(idx, ";")
		return true
	}
	p.close(idx)
	return true
}

// rule ::= identifier skip* "=" skip* pattern skip* ";"
func (p *Parser) tryRule() bool {
	idx := p.open(tree.Rule)
	if !p.tryIdentifier() {
		p.abandon(idx)
		return false
	}
	p.skip()
	if !p.matchChar('=') {
		p.failExpected(idx, "=")
		return true
	}
	p.skip()
	if !p.tryPattern() {
		p.failUnexpected(idx)
		return true
	}
	p.skip()
	if !p.matchChar(';') {
		p.failExpected(idx, ";")
		return true
	}
	p.close(idx)
	return true
}

// pattern ::= alternative (skip* "|" skip* alternative)*
func (p *Parser) tryPattern() bool {
	idx := p.open(tree.Pattern)
	if !p.tryAlternative() {
		p.abandon(idx)
		return false
	}
	for {
		save := p.pos
		p.skip()
		if !p.matchChar('|') {
			p.pos = save
			break
		}
		p.skip()
		if !p.tryAlternative() {
			p.failUnexpected(idx)
			return true
		}
	}
	p.close(idx)
	return true
}

// alternative ::= unit (skip+ unit)*
//
// The skip between units is not enforced: units written back to back
// (e.g. 'a''b') are accepted as separate units.
func (p *Parser) tryAlternative() bool {
	idx := p.open(tree.Alternative)
	if !p.tryUnit() {
		p.abandon(idx)
		return false
	}
	for {
		save := p.pos
		p.skip()
		if !p.tryUnit() {
			p.pos = save
			break
		}
	}
	p.close(idx)
	return true
}

// tryUnit implements unit dispatch in the fixed order spec.md §4.3
// names: Set, NotSet, String, Reference, Group, FixedTimes, OneOrMore,
// ZeroOrMore, Optional. Every alternative starts with a distinct
// leading byte, so ordering does not affect which one matches — only
// which is tried first.
func (p *Parser) tryUnit() bool {
	switch {
	case p.trySet():
		return true
	case p.tryNotSet():
		return true
	case p.tryString():
		return true
	case p.tryReference():
		return true
	case p.tryGroup():
		return true
	case p.tryFixedTimes():
		return true
	case p.tryOneOrMore():
		return true
	case p.tryZeroOrMore():
		return true
	case p.tryOptional():
		return true
	}
	return false
}

// group ::= "(" skip* pattern (skip+ pattern)* skip* ")"
func (p *Parser) tryGroup() bool {
	idx := p.open(tree.Group)
	if !p.matchChar('(') {
		p.abandon(idx)
		return false
	}
	p.skip()
	if !p.tryPattern() {
		p.failUnexpected(idx)
		return true
	}
	for {
		save := p.pos
		p.skip()
		if !p.tryPattern() {
			p.pos = save
			break
		}
	}
	p.skip()
	if !p.matchChar(')') {
		p.failExpected(idx, ")")
		return true
	}
	p.close(idx)
	return true
}

// fixed-times ::= number skip* unit
func (p *Parser) tryFixedTimes() bool {
	idx := p.open(tree.FixedTimes)
	if !p.tryNumber() {
		p.abandon(idx)
		return false
	}
	p.skip()
	if !p.tryUnit() {
		p.failUnexpected(idx)
		return true
	}
	p.close(idx)
	return true
}

// one-or-more ::= "+" skip* unit
func (p *Parser) tryOneOrMore() bool {
	idx := p.open(tree.OneOrMore)
	if !p.matchChar('+') {
		p.abandon(idx)
		return false
	}
	p.skip()
	if !p.tryUnit() {
		p.failUnexpected(idx)
		return true
	}
	p.close(idx)
	return true
}

// zero-or-more ::= "*" skip* unit
func (p *Parser) tryZeroOrMore() bool {
	idx := p.open(tree.ZeroOrMore)
	if !p.matchChar('*') {
		p.abandon(idx)
		return false
	}
	p.skip()
	if !p.tryUnit() {
		p.failUnexpected(idx)
		return true
	}
	p.close(idx)
	return true
}

// optional ::= "?" skip* unit
func (p *Parser) tryOptional() bool {
	idx := p.open(tree.Optional)
	if !p.matchChar('?') {
		p.abandon(idx)
		return false
	}
	p.skip()
	if !p.tryUnit() {
		p.failUnexpected(idx)
		return true
	}
	p.close(idx)
	return true
}

// set ::= "'" (escaped ("~" escaped)?)* "'"
func (p *Parser) trySet() bool {
	idx := p.open(tree.Set)
	if !p.matchChar('\'') {
		p.abandon(idx)
		return false
	}
	for p.tryEscapedIn(tree.Set) {
		if p.matchChar('~') {
			if !p.tryEscapedIn(tree.Set) {
				p.failEscaped(idx, tree.Set)
				return true
			}
		}
	}
	if !p.matchChar('\'') {
		p.failExpected(idx, "'")
		return true
	}
	p.close(idx)
	return true
}

// not-set ::= "!" set
func (p *Parser) tryNotSet() bool {
	idx := p.open(tree.NotSet)
	if !p.matchChar('!') {
		p.abandon(idx)
		return false
	}
	if !p.trySet() {
		p.failUnexpected(idx)
		return true
	}
	p.close(idx)
	return true
}

// string ::= '"' (escaped)* '"'
func (p *Parser) tryString() bool {
	idx := p.open(tree.String)
	if !p.matchChar('"') {
		p.abandon(idx)
		return false
	}
	for p.tryEscapedIn(tree.String) {
	}
	if !p.matchChar('"') {
		p.failExpected(idx, "\"")
		return true
	}
	p.close(idx)
	return true
}

// escaped ::= "\\" (hex-digit{2} | one-of("tn\\'~\"")) | any-char-outside("\\", "'", "\"", "~")
//
// context names the enclosing Set or String, used only to word the
// malformed-escape diagnostic the way spec.md §9 fixes it.
func (p *Parser) tryEscapedIn(context tree.Symbol) bool {
	idx := p.open(tree.Escaped)
	if p.matchChar('\\') {
		if p.matchPred(isHexDigit) {
			if !p.matchPred(isHexDigit) {
				p.failEscaped(idx, context)
				return true
			}
			p.close(idx)
			return true
		}
		if p.matchOneOf("tn\\'~\"") {
			p.close(idx)
			return true
		}
		p.failEscaped(idx, context)
		return true
	}
	if p.matchNoneOf("\\'\"~") {
		p.close(idx)
		return true
	}
	p.abandon(idx)
	return false
}

// identifier ::= upper (letter)*
func (p *Parser) tryIdentifier() bool {
	idx := p.open(tree.Identifier)
	if !p.matchPred(isUpper) {
		p.abandon(idx)
		return false
	}
	for p.matchPred(isLetter) {
	}
	p.close(idx)
	return true
}

// reference ::= identifier
func (p *Parser) tryReference() bool {
	idx := p.open(tree.Reference)
	if !p.tryIdentifier() {
		p.abandon(idx)
		return false
	}
	p.close(idx)
	return true
}

// number ::= nonzero-digit (digit)*
func (p *Parser) tryNumber() bool {
	idx := p.open(tree.Number)
	if !p.matchPred(isNonZeroDigit) {
		p.abandon(idx)
		return false
	}
	for p.matchPred(isDigit) {
	}
	p.close(idx)
	return true
}
