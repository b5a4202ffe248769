package js_lexer

// The lexer converts a source file to a stream of tokens. The lexer is not
// run to completion before the parser is started. Instead, the parser calls
// "Next" repeatedly as it parses the file.
//
// Only the subset of JavaScript that the instance variable transform needs is
// supported. Notably there are no template literals and no regular
// expression literals, so "/" is always division.

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/evanw/classvars/internal/js_ast"
	"github.com/evanw/classvars/internal/logger"
)

type T uint

// If you add a new token, remember to add it to "tokenToString" too
const (
	TEndOfFile T = iota

	// Literals
	TNumericLiteral // Contents are in lexer.Number (float64)
	TStringLiteral  // Contents are in lexer.StringLiteral (string)

	// Punctuation
	TAmpersand
	TAmpersandAmpersand
	TAsterisk
	TAsteriskAsterisk
	TAt
	TBar
	TBarBar
	TCaret
	TCloseBrace
	TCloseBracket
	TCloseParen
	TColon
	TColonColon
	TComma
	TDot
	TDotDotDot
	TEqualsEquals
	TEqualsEqualsEquals
	TEqualsGreaterThan
	TExclamation
	TExclamationEquals
	TExclamationEqualsEquals
	TGreaterThan
	TGreaterThanEquals
	TGreaterThanGreaterThan
	TGreaterThanGreaterThanGreaterThan
	TLessThan
	TLessThanEquals
	TLessThanLessThan
	TMinus
	TMinusMinus
	TOpenBrace
	TOpenBracket
	TOpenParen
	TPercent
	TPlus
	TPlusPlus
	TQuestion
	TQuestionQuestion
	TSemicolon
	TSlash
	TTilde

	// Assignments
	TAmpersandAmpersandEquals
	TAmpersandEquals
	TAsteriskAsteriskEquals
	TAsteriskEquals
	TBarBarEquals
	TBarEquals
	TCaretEquals
	TEquals
	TGreaterThanGreaterThanEquals
	TGreaterThanGreaterThanGreaterThanEquals
	TLessThanLessThanEquals
	TMinusEquals
	TPercentEquals
	TPlusEquals
	TQuestionQuestionEquals
	TSlashEquals

	// Identifiers
	TIdentifier // Contents are in lexer.Identifier (string)

	// Reserved words
	TBreak
	TCase
	TCatch
	TClass
	TConst
	TContinue
	TDebugger
	TDefault
	TDelete
	TDo
	TElse
	TEnum
	TExport
	TExtends
	TFalse
	TFinally
	TFor
	TFunction
	TIf
	TImport
	TIn
	TInstanceof
	TNew
	TNull
	TReturn
	TSuper
	TSwitch
	TThis
	TThrow
	TTrue
	TTry
	TTypeof
	TVar
	TVoid
	TWhile
	TWith
)

var Keywords = map[string]T{
	"break":      TBreak,
	"case":       TCase,
	"catch":      TCatch,
	"class":      TClass,
	"const":      TConst,
	"continue":   TContinue,
	"debugger":   TDebugger,
	"default":    TDefault,
	"delete":     TDelete,
	"do":         TDo,
	"else":       TElse,
	"enum":       TEnum,
	"export":     TExport,
	"extends":    TExtends,
	"false":      TFalse,
	"finally":    TFinally,
	"for":        TFor,
	"function":   TFunction,
	"if":         TIf,
	"import":     TImport,
	"in":         TIn,
	"instanceof": TInstanceof,
	"new":        TNew,
	"null":       TNull,
	"return":     TReturn,
	"super":      TSuper,
	"switch":     TSwitch,
	"this":       TThis,
	"throw":      TThrow,
	"true":       TTrue,
	"try":        TTry,
	"typeof":     TTypeof,
	"var":        TVar,
	"void":       TVoid,
	"while":      TWhile,
	"with":       TWith,
}

var tokenToString = map[T]string{
	TEndOfFile:      "end of file",
	TNumericLiteral: "number",
	TStringLiteral:  "string",

	TAmpersand:                         "\"&\"",
	TAmpersandAmpersand:                "\"&&\"",
	TAsterisk:                          "\"*\"",
	TAsteriskAsterisk:                  "\"**\"",
	TAt:                                "\"@\"",
	TBar:                               "\"|\"",
	TBarBar:                            "\"||\"",
	TCaret:                             "\"^\"",
	TCloseBrace:                        "\"}\"",
	TCloseBracket:                      "\"]\"",
	TCloseParen:                        "\")\"",
	TColon:                             "\":\"",
	TColonColon:                        "\"::\"",
	TComma:                             "\",\"",
	TDot:                               "\".\"",
	TDotDotDot:                         "\"...\"",
	TEqualsEquals:                      "\"==\"",
	TEqualsEqualsEquals:                "\"===\"",
	TEqualsGreaterThan:                 "\"=>\"",
	TExclamation:                       "\"!\"",
	TExclamationEquals:                 "\"!=\"",
	TExclamationEqualsEquals:           "\"!==\"",
	TGreaterThan:                       "\">\"",
	TGreaterThanEquals:                 "\">=\"",
	TGreaterThanGreaterThan:            "\">>\"",
	TGreaterThanGreaterThanGreaterThan: "\">>>\"",
	TLessThan:                          "\"<\"",
	TLessThanEquals:                    "\"<=\"",
	TLessThanLessThan:                  "\"<<\"",
	TMinus:                             "\"-\"",
	TMinusMinus:                        "\"--\"",
	TOpenBrace:                         "\"{\"",
	TOpenBracket:                       "\"[\"",
	TOpenParen:                         "\"(\"",
	TPercent:                           "\"%\"",
	TPlus:                              "\"+\"",
	TPlusPlus:                          "\"++\"",
	TQuestion:                          "\"?\"",
	TQuestionQuestion:                  "\"??\"",
	TSemicolon:                         "\";\"",
	TSlash:                             "\"/\"",
	TTilde:                             "\"~\"",

	TAmpersandAmpersandEquals:                "\"&&=\"",
	TAmpersandEquals:                         "\"&=\"",
	TAsteriskAsteriskEquals:                  "\"**=\"",
	TAsteriskEquals:                          "\"*=\"",
	TBarBarEquals:                            "\"||=\"",
	TBarEquals:                               "\"|=\"",
	TCaretEquals:                             "\"^=\"",
	TEquals:                                  "\"=\"",
	TGreaterThanGreaterThanEquals:            "\">>=\"",
	TGreaterThanGreaterThanGreaterThanEquals: "\">>>=\"",
	TLessThanLessThanEquals:                  "\"<<=\"",
	TMinusEquals:                             "\"-=\"",
	TPercentEquals:                           "\"%=\"",
	TPlusEquals:                              "\"+=\"",
	TQuestionQuestionEquals:                  "\"??=\"",
	TSlashEquals:                             "\"/=\"",

	TIdentifier: "identifier",
}

func init() {
	for text, t := range Keywords {
		tokenToString[t] = fmt.Sprintf("%q", text)
	}
}

type Lexer struct {
	log              logger.Log
	source           logger.Source
	current          int
	start            int
	end              int
	Token            T
	HasNewlineBefore bool
	codePoint        rune
	StringLiteral    string
	Identifier       string
	Number           float64
}

type LexerPanic struct{}

func NewLexer(log logger.Log, source logger.Source) Lexer {
	lexer := Lexer{
		log:    log,
		source: source,
	}
	lexer.step()
	lexer.Next()
	return lexer
}

func (lexer *Lexer) Loc() logger.Loc {
	return logger.Loc{Start: int32(lexer.start)}
}

func (lexer *Lexer) Range() logger.Range {
	return logger.Range{Loc: logger.Loc{Start: int32(lexer.start)}, Len: int32(lexer.end - lexer.start)}
}

func (lexer *Lexer) Raw() string {
	return lexer.source.Contents[lexer.start:lexer.end]
}

func (lexer *Lexer) IsIdentifierOrKeyword() bool {
	return lexer.Token >= TIdentifier
}

func (lexer *Lexer) IsContextualKeyword(text string) bool {
	return lexer.Token == TIdentifier && lexer.Raw() == text
}

func (lexer *Lexer) SyntaxError() {
	loc := logger.Loc{Start: int32(lexer.end)}
	message := "Unexpected end of file"
	if lexer.end < len(lexer.source.Contents) {
		c, _ := utf8.DecodeRuneInString(lexer.source.Contents[lexer.end:])
		if c < 0x20 {
			message = fmt.Sprintf("Syntax error \"\\x%02X\"", c)
		} else if c >= 0x80 {
			message = fmt.Sprintf("Syntax error \"\\u{%x}\"", c)
		} else if c != '"' {
			message = fmt.Sprintf("Syntax error \"%c\"", c)
		} else {
			message = "Syntax error '\"'"
		}
	}
	lexer.addError(loc, message)
	panic(LexerPanic{})
}

func (lexer *Lexer) ExpectedString(text string) {
	found := fmt.Sprintf("%q", lexer.Raw())
	if lexer.start == len(lexer.source.Contents) {
		found = "end of file"
	}
	lexer.addRangeError(lexer.Range(), fmt.Sprintf("Expected %s but found %s", text, found))
	panic(LexerPanic{})
}

func (lexer *Lexer) Expected(token T) {
	if text, ok := tokenToString[token]; ok {
		lexer.ExpectedString(text)
	} else {
		lexer.Unexpected()
	}
}

func (lexer *Lexer) Unexpected() {
	found := fmt.Sprintf("%q", lexer.Raw())
	if lexer.start == len(lexer.source.Contents) {
		found = "end of file"
	}
	lexer.addRangeError(lexer.Range(), fmt.Sprintf("Unexpected %s", found))
	panic(LexerPanic{})
}

func (lexer *Lexer) Expect(token T) {
	if lexer.Token != token {
		lexer.Expected(token)
	}
	lexer.Next()
}

func (lexer *Lexer) ExpectOrInsertSemicolon() {
	if lexer.Token == TSemicolon || (!lexer.HasNewlineBefore &&
		lexer.Token != TCloseBrace && lexer.Token != TEndOfFile) {
		lexer.Expect(TSemicolon)
	}
}

// This parses a single ">" token. If that is the first part of a longer token,
// this function splits off the first ">" and leaves the remainder of the
// current token as another, smaller token. For example, ">>" becomes ">".
// This is used when skipping over type arguments such as "Array<Array<T>>".
func (lexer *Lexer) ExpectGreaterThan() {
	switch lexer.Token {
	case TGreaterThan:
		lexer.Next()

	case TGreaterThanEquals:
		lexer.Token = TEquals
		lexer.start++

	case TGreaterThanGreaterThan:
		lexer.Token = TGreaterThan
		lexer.start++

	case TGreaterThanGreaterThanEquals:
		lexer.Token = TGreaterThanEquals
		lexer.start++

	case TGreaterThanGreaterThanGreaterThan:
		lexer.Token = TGreaterThanGreaterThan
		lexer.start++

	case TGreaterThanGreaterThanGreaterThanEquals:
		lexer.Token = TGreaterThanGreaterThanEquals
		lexer.start++

	default:
		lexer.Expected(TGreaterThan)
	}
}

func (lexer *Lexer) Next() {
	lexer.HasNewlineBefore = lexer.end == 0

	for {
		lexer.start = lexer.end
		lexer.Token = 0

		switch lexer.codePoint {
		case -1: // This indicates the end of the file
			lexer.Token = TEndOfFile

		case '\r', '\n', 0x2028, 0x2029:
			lexer.step()
			lexer.HasNewlineBefore = true
			continue

		case '\t', ' ':
			lexer.step()
			continue

		case '(':
			lexer.step()
			lexer.Token = TOpenParen

		case ')':
			lexer.step()
			lexer.Token = TCloseParen

		case '[':
			lexer.step()
			lexer.Token = TOpenBracket

		case ']':
			lexer.step()
			lexer.Token = TCloseBracket

		case '{':
			lexer.step()
			lexer.Token = TOpenBrace

		case '}':
			lexer.step()
			lexer.Token = TCloseBrace

		case ',':
			lexer.step()
			lexer.Token = TComma

		case ':':
			// ':' or '::'
			lexer.step()
			if lexer.codePoint == ':' {
				lexer.step()
				lexer.Token = TColonColon
			} else {
				lexer.Token = TColon
			}

		case ';':
			lexer.step()
			lexer.Token = TSemicolon

		case '@':
			lexer.step()
			lexer.Token = TAt

		case '~':
			lexer.step()
			lexer.Token = TTilde

		case '?':
			// '?' or '??' or '??='
			lexer.step()
			if lexer.codePoint == '?' {
				lexer.step()
				if lexer.codePoint == '=' {
					lexer.step()
					lexer.Token = TQuestionQuestionEquals
				} else {
					lexer.Token = TQuestionQuestion
				}
			} else {
				lexer.Token = TQuestion
			}

		case '%':
			// '%' or '%='
			lexer.step()
			if lexer.codePoint == '=' {
				lexer.step()
				lexer.Token = TPercentEquals
			} else {
				lexer.Token = TPercent
			}

		case '&':
			// '&' or '&=' or '&&' or '&&='
			lexer.step()
			switch lexer.codePoint {
			case '=':
				lexer.step()
				lexer.Token = TAmpersandEquals
			case '&':
				lexer.step()
				if lexer.codePoint == '=' {
					lexer.step()
					lexer.Token = TAmpersandAmpersandEquals
				} else {
					lexer.Token = TAmpersandAmpersand
				}
			default:
				lexer.Token = TAmpersand
			}

		case '|':
			// '|' or '|=' or '||' or '||='
			lexer.step()
			switch lexer.codePoint {
			case '=':
				lexer.step()
				lexer.Token = TBarEquals
			case '|':
				lexer.step()
				if lexer.codePoint == '=' {
					lexer.step()
					lexer.Token = TBarBarEquals
				} else {
					lexer.Token = TBarBar
				}
			default:
				lexer.Token = TBar
			}

		case '^':
			// '^' or '^='
			lexer.step()
			if lexer.codePoint == '=' {
				lexer.step()
				lexer.Token = TCaretEquals
			} else {
				lexer.Token = TCaret
			}

		case '+':
			// '+' or '+=' or '++'
			lexer.step()
			switch lexer.codePoint {
			case '=':
				lexer.step()
				lexer.Token = TPlusEquals
			case '+':
				lexer.step()
				lexer.Token = TPlusPlus
			default:
				lexer.Token = TPlus
			}

		case '-':
			// '-' or '-=' or '--'
			lexer.step()
			switch lexer.codePoint {
			case '=':
				lexer.step()
				lexer.Token = TMinusEquals
			case '-':
				lexer.step()
				lexer.Token = TMinusMinus
			default:
				lexer.Token = TMinus
			}

		case '*':
			// '*' or '*=' or '**' or '**='
			lexer.step()
			switch lexer.codePoint {
			case '=':
				lexer.step()
				lexer.Token = TAsteriskEquals
			case '*':
				lexer.step()
				if lexer.codePoint == '=' {
					lexer.step()
					lexer.Token = TAsteriskAsteriskEquals
				} else {
					lexer.Token = TAsteriskAsterisk
				}
			default:
				lexer.Token = TAsterisk
			}

		case '/':
			// '/' or '/=' or '//' or '/* ... */'
			lexer.step()
			switch lexer.codePoint {
			case '=':
				lexer.step()
				lexer.Token = TSlashEquals

			case '/':
			singleLineComment:
				for {
					lexer.step()
					switch lexer.codePoint {
					case '\r', '\n', 0x2028, 0x2029, -1:
						break singleLineComment
					}
				}
				continue

			case '*':
				lexer.step()
				startRange := lexer.Range()
			multiLineComment:
				for {
					switch lexer.codePoint {
					case '*':
						lexer.step()
						if lexer.codePoint == '/' {
							lexer.step()
							break multiLineComment
						}

					case '\r', '\n', 0x2028, 0x2029:
						lexer.step()
						lexer.HasNewlineBefore = true

					case -1: // This indicates the end of the file
						lexer.start = lexer.end
						lexer.addError(startRange.Loc, "Expected \"*/\" to terminate multi-line comment")
						panic(LexerPanic{})

					default:
						lexer.step()
					}
				}
				continue

			default:
				lexer.Token = TSlash
			}

		case '=':
			// '=' or '=>' or '==' or '==='
			lexer.step()
			switch lexer.codePoint {
			case '>':
				lexer.step()
				lexer.Token = TEqualsGreaterThan
			case '=':
				lexer.step()
				if lexer.codePoint == '=' {
					lexer.step()
					lexer.Token = TEqualsEqualsEquals
				} else {
					lexer.Token = TEqualsEquals
				}
			default:
				lexer.Token = TEquals
			}

		case '<':
			// '<' or '<<' or '<=' or '<<='
			lexer.step()
			switch lexer.codePoint {
			case '=':
				lexer.step()
				lexer.Token = TLessThanEquals
			case '<':
				lexer.step()
				if lexer.codePoint == '=' {
					lexer.step()
					lexer.Token = TLessThanLessThanEquals
				} else {
					lexer.Token = TLessThanLessThan
				}
			default:
				lexer.Token = TLessThan
			}

		case '>':
			// '>' or '>>' or '>>>' or '>=' or '>>=' or '>>>='
			lexer.step()
			switch lexer.codePoint {
			case '=':
				lexer.step()
				lexer.Token = TGreaterThanEquals
			case '>':
				lexer.step()
				switch lexer.codePoint {
				case '=':
					lexer.step()
					lexer.Token = TGreaterThanGreaterThanEquals
				case '>':
					lexer.step()
					if lexer.codePoint == '=' {
						lexer.step()
						lexer.Token = TGreaterThanGreaterThanGreaterThanEquals
					} else {
						lexer.Token = TGreaterThanGreaterThanGreaterThan
					}
				default:
					lexer.Token = TGreaterThanGreaterThan
				}
			default:
				lexer.Token = TGreaterThan
			}

		case '!':
			// '!' or '!=' or '!=='
			lexer.step()
			if lexer.codePoint == '=' {
				lexer.step()
				if lexer.codePoint == '=' {
					lexer.step()
					lexer.Token = TExclamationEqualsEquals
				} else {
					lexer.Token = TExclamationEquals
				}
			} else {
				lexer.Token = TExclamation
			}

		case '\'', '"':
			lexer.parseStringLiteral()

		case '`':
			lexer.addRangeError(logger.Range{Loc: lexer.Loc(), Len: 1}, "Template literals are not supported")
			panic(LexerPanic{})

		case '.', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			lexer.parseNumericLiteralOrDot()

		default:
			if js_ast.IsWhitespace(lexer.codePoint) {
				lexer.step()
				continue
			}

			if js_ast.IsIdentifierStart(lexer.codePoint) {
				lexer.step()
				for js_ast.IsIdentifierContinue(lexer.codePoint) {
					lexer.step()
				}
				if lexer.codePoint == '\\' {
					lexer.SyntaxError()
				}
				lexer.Identifier = lexer.Raw()
				if keyword, ok := Keywords[lexer.Identifier]; ok {
					lexer.Token = keyword
				} else {
					lexer.Token = TIdentifier
				}
				break
			}

			lexer.SyntaxError()
		}

		return
	}
}

func (lexer *Lexer) parseStringLiteral() {
	quote := lexer.codePoint
	needsDecode := false
	lexer.step()

	for {
		switch lexer.codePoint {
		case '\\':
			needsDecode = true
			lexer.step()

			// Handle Windows CRLF
			if lexer.codePoint == '\r' {
				lexer.step()
				if lexer.codePoint == '\n' {
					lexer.step()
				}
				continue
			}

		case -1: // This indicates the end of the file
			lexer.addRangeError(logger.Range{Loc: lexer.Loc(), Len: 1}, "Unterminated string literal")
			panic(LexerPanic{})

		case '\r', '\n':
			lexer.addRangeError(logger.Range{Loc: lexer.Loc(), Len: 1}, "Unterminated string literal")
			panic(LexerPanic{})

		case quote:
			lexer.step()
			text := lexer.source.Contents[lexer.start+1 : lexer.end-1]
			if needsDecode {
				text = lexer.decodeEscapeSequences(lexer.start+1, text)
			}
			lexer.StringLiteral = text
			lexer.Token = TStringLiteral
			return
		}
		lexer.step()
	}
}

func (lexer *Lexer) decodeEscapeSequences(start int, text string) string {
	decoded := strings.Builder{}
	var pendingHighSurrogate rune
	flushSurrogate := func() {
		if pendingHighSurrogate != 0 {
			decoded.WriteRune(utf8.RuneError)
			pendingHighSurrogate = 0
		}
	}
	writeCodeUnit := func(c rune) {
		if c >= 0xD800 && c <= 0xDBFF {
			flushSurrogate()
			pendingHighSurrogate = c
			return
		}
		if c >= 0xDC00 && c <= 0xDFFF {
			if pendingHighSurrogate != 0 {
				decoded.WriteRune(utf16.DecodeRune(pendingHighSurrogate, c))
				pendingHighSurrogate = 0
			} else {
				decoded.WriteRune(utf8.RuneError)
			}
			return
		}
		flushSurrogate()
		decoded.WriteRune(c)
	}

	i := 0
	for i < len(text) {
		c, width := utf8.DecodeRuneInString(text[i:])
		i += width

		if c != '\\' {
			writeCodeUnit(c)
			continue
		}

		c2, width2 := utf8.DecodeRuneInString(text[i:])
		i += width2

		switch c2 {
		case 'b':
			writeCodeUnit('\b')
		case 'f':
			writeCodeUnit('\f')
		case 'n':
			writeCodeUnit('\n')
		case 'r':
			writeCodeUnit('\r')
		case 't':
			writeCodeUnit('\t')
		case 'v':
			writeCodeUnit('\v')
		case '0':
			writeCodeUnit(0)

		case '\r', '\n', 0x2028, 0x2029:
			// Line continuation
			if c2 == '\r' && i < len(text) && text[i] == '\n' {
				i++
			}

		case 'x':
			// "\xFF"
			if i+2 > len(text) {
				lexer.addEscapeError(start+i-2, "Invalid escape sequence")
			}
			value, err := strconv.ParseUint(text[i:i+2], 16, 8)
			if err != nil {
				lexer.addEscapeError(start+i-2, "Invalid escape sequence")
			}
			writeCodeUnit(rune(value))
			i += 2

		case 'u':
			// "\uFFFF" or "\u{10FFFF}"
			if i < len(text) && text[i] == '{' {
				end := strings.IndexByte(text[i:], '}')
				if end < 0 {
					lexer.addEscapeError(start+i-2, "Invalid escape sequence")
				}
				value, err := strconv.ParseUint(text[i+1:i+end], 16, 32)
				if err != nil || value > 0x10FFFF {
					lexer.addEscapeError(start+i-2, "Invalid escape sequence")
				}
				writeCodeUnit(rune(value))
				i += end + 1
			} else {
				if i+4 > len(text) {
					lexer.addEscapeError(start+i-2, "Invalid escape sequence")
				}
				value, err := strconv.ParseUint(text[i:i+4], 16, 16)
				if err != nil {
					lexer.addEscapeError(start+i-2, "Invalid escape sequence")
				}
				writeCodeUnit(rune(value))
				i += 4
			}

		default:
			writeCodeUnit(c2)
		}
	}

	flushSurrogate()
	return decoded.String()
}

func (lexer *Lexer) addEscapeError(offset int, text string) {
	lexer.addRangeError(logger.Range{Loc: logger.Loc{Start: int32(offset)}, Len: 2}, text)
	panic(LexerPanic{})
}

func (lexer *Lexer) parseNumericLiteralOrDot() {
	// Number or dot
	first := lexer.codePoint
	lexer.step()

	// Dot without a digit after it
	if first == '.' && (lexer.codePoint < '0' || lexer.codePoint > '9') {
		// "..."
		if lexer.codePoint == '.' &&
			lexer.current < len(lexer.source.Contents) &&
			lexer.source.Contents[lexer.current] == '.' {
			lexer.step()
			lexer.step()
			lexer.Token = TDotDotDot
			return
		}

		// "."
		lexer.Token = TDot
		return
	}

	lexer.Token = TNumericLiteral
	base := 0

	// Check for binary, octal, or hexadecimal literal
	if first == '0' {
		switch lexer.codePoint {
		case 'b', 'B':
			base = 2
		case 'o', 'O':
			base = 8
		case 'x', 'X':
			base = 16
		}
	}

	if base != 0 {
		lexer.step()
		for isDigitInBase(lexer.codePoint, base) || lexer.codePoint == '_' {
			lexer.step()
		}
		text := strings.ReplaceAll(lexer.Raw()[2:], "_", "")
		value, err := strconv.ParseUint(text, base, 64)
		if err != nil {
			lexer.SyntaxError()
		}
		lexer.Number = float64(value)
	} else {
		// Floating-point literal
		hasDotOrExponent := first == '.'
		for (lexer.codePoint >= '0' && lexer.codePoint <= '9') || lexer.codePoint == '_' {
			lexer.step()
		}
		if lexer.codePoint == '.' && !hasDotOrExponent {
			hasDotOrExponent = true
			lexer.step()
			for (lexer.codePoint >= '0' && lexer.codePoint <= '9') || lexer.codePoint == '_' {
				lexer.step()
			}
		}
		if lexer.codePoint == 'e' || lexer.codePoint == 'E' {
			lexer.step()
			if lexer.codePoint == '+' || lexer.codePoint == '-' {
				lexer.step()
			}
			if lexer.codePoint < '0' || lexer.codePoint > '9' {
				lexer.SyntaxError()
			}
			for (lexer.codePoint >= '0' && lexer.codePoint <= '9') || lexer.codePoint == '_' {
				lexer.step()
			}
		}
		text := strings.ReplaceAll(lexer.Raw(), "_", "")
		value, err := strconv.ParseFloat(text, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			lexer.SyntaxError()
		}
		lexer.Number = value
	}

	// An identifier can't immediately follow a number
	if js_ast.IsIdentifierStart(lexer.codePoint) {
		lexer.SyntaxError()
	}
}

func isDigitInBase(c rune, base int) bool {
	switch base {
	case 2:
		return c == '0' || c == '1'
	case 8:
		return c >= '0' && c <= '7'
	default:
		return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
	}
}

func (lexer *Lexer) step() {
	codePoint, width := utf8.DecodeRuneInString(lexer.source.Contents[lexer.current:])

	// Use -1 to indicate the end of the file
	if width == 0 {
		codePoint = -1
	}

	lexer.codePoint = codePoint
	lexer.end = lexer.current
	lexer.current += width
}

func (lexer *Lexer) addError(loc logger.Loc, text string) {
	lexer.log.AddError(&lexer.source, loc, text)
}

func (lexer *Lexer) addRangeError(r logger.Range, text string) {
	lexer.log.AddRangeError(&lexer.source, r, text)
}
