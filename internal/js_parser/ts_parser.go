// This file contains code for skipping over TypeScript annotations. Types are
// never parsed into the AST. The lowering pass never looks inside them, so
// only their source range is kept and the printer drops them.

package js_parser

import (
	"github.com/evanw/classvars/internal/js_lexer"
	"github.com/evanw/classvars/internal/logger"
)

func isGreaterThanToken(t js_lexer.T) bool {
	switch t {
	case js_lexer.TGreaterThan, js_lexer.TGreaterThanEquals,
		js_lexer.TGreaterThanGreaterThan, js_lexer.TGreaterThanGreaterThanEquals,
		js_lexer.TGreaterThanGreaterThanGreaterThan, js_lexer.TGreaterThanGreaterThanGreaterThanEquals:
		return true
	}
	return false
}

// Brackets are balanced while skipping. At the top level, the type ends at
// the first token that can't continue it: "=", ",", ";", a closing bracket,
// or a token on a new line. Return types also end at "{" because that's the
// start of the function body.
func (p *parser) skipTypeScriptType(stopAtOpenBrace bool) logger.Range {
	start := p.lexer.Loc()
	end := start.Start
	depth := 0

	for {
		if depth == 0 {
			consumed := end > start.Start
			switch p.lexer.Token {
			case js_lexer.TEquals, js_lexer.TComma, js_lexer.TSemicolon, js_lexer.TEndOfFile,
				js_lexer.TCloseParen, js_lexer.TCloseBracket, js_lexer.TCloseBrace:
				if !consumed {
					p.lexer.Unexpected()
				}
				return logger.Range{Loc: start, Len: end - start.Start}

			case js_lexer.TOpenBrace:
				if consumed && stopAtOpenBrace {
					return logger.Range{Loc: start, Len: end - start.Start}
				}
			}
			if consumed && p.lexer.HasNewlineBefore {
				break
			}
		}

		switch token := p.lexer.Token; {
		case token == js_lexer.TEndOfFile:
			p.lexer.Unexpected()

		case token == js_lexer.TOpenParen || token == js_lexer.TOpenBracket ||
			token == js_lexer.TOpenBrace || token == js_lexer.TLessThan:
			depth++

		case token == js_lexer.TCloseParen || token == js_lexer.TCloseBracket || token == js_lexer.TCloseBrace:
			if depth == 0 {
				p.lexer.Unexpected()
			}
			depth--

		case isGreaterThanToken(token):
			if depth == 0 {
				p.lexer.Unexpected()
			}

			// This may split ">>" into ">" and ">"
			end = p.lexer.Loc().Start + 1
			p.lexer.ExpectGreaterThan()
			depth--
			continue
		}

		end = p.lexer.Range().End()
		p.lexer.Next()
	}

	return logger.Range{Loc: start, Len: end - start.Start}
}

// Skips "<...>" after a class name or in an "extends" clause
func (p *parser) skipTypeScriptTypeArguments() {
	p.lexer.Expect(js_lexer.TLessThan)
	depth := 1

	for depth > 0 {
		switch token := p.lexer.Token; {
		case token == js_lexer.TEndOfFile:
			p.lexer.Unexpected()

		case token == js_lexer.TLessThan:
			depth++
			p.lexer.Next()

		case isGreaterThanToken(token):
			p.lexer.ExpectGreaterThan()
			depth--

		default:
			p.lexer.Next()
		}
	}
}
