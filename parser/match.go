package parser

// Low-level terminal matchers. Each either consumes a fixed number of
// bytes and appends a tree.Terminal leaf recording exactly what was
// consumed, or consumes nothing and returns false. Grounded on
// original_source/src/dil/parser.c's match_char/match_set/match_literal
// family, translated from pointer arithmetic to byte-offset slicing.

import "github.com/nihei9/dil/tree"

func (p *Parser) atEOF() bool {
	return p.pos >= len(p.src.Bytes)
}

func (p *Parser) peek() (byte, bool) {
	if p.atEOF() {
		return 0, false
	}
	return p.src.Bytes[p.pos], true
}

// terminal appends a Terminal leaf spanning [first, p.pos).
func (p *Parser) terminal(first int) {
	p.b.Add(tree.Node{Symbol: tree.Terminal, Slice: tree.Slice{First: first, Last: p.pos}})
}

// matchChar consumes the current byte if it equals c.
func (p *Parser) matchChar(c byte) bool {
	b, ok := p.peek()
	if !ok || b != c {
		return false
	}
	first := p.pos
	p.pos++
	p.terminal(first)
	return true
}

// matchPred consumes the current byte if pred accepts it.
func (p *Parser) matchPred(pred func(byte) bool) bool {
	b, ok := p.peek()
	if !ok || !pred(b) {
		return false
	}
	first := p.pos
	p.pos++
	p.terminal(first)
	return true
}

// matchOneOf consumes the current byte if it appears in set.
func (p *Parser) matchOneOf(set string) bool {
	return p.matchPred(func(b byte) bool {
		for i := 0; i < len(set); i++ {
			if set[i] == b {
				return true
			}
		}
		return false
	})
}

// matchNoneOf consumes the current byte if it does NOT appear in excl.
func (p *Parser) matchNoneOf(excl string) bool {
	return p.matchPred(func(b byte) bool {
		for i := 0; i < len(excl); i++ {
			if excl[i] == b {
				return false
			}
		}
		return true
	})
}

// matchLiteral consumes the exact byte sequence lit, or nothing.
func (p *Parser) matchLiteral(lit string) bool {
	if len(p.src.Bytes)-p.pos < len(lit) {
		return false
	}
	if string(p.src.Bytes[p.pos:p.pos+len(lit)]) != lit {
		return false
	}
	first := p.pos
	p.pos += len(lit)
	p.terminal(first)
	return true
}

func isWhitespaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n'
}

func isUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

func isLower(b byte) bool {
	return b >= 'a' && b <= 'z'
}

func isLetter(b byte) bool {
	return isUpper(b) || isLower(b)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isNonZeroDigit(b byte) bool {
	return b >= '1' && b <= '9'
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
