package lexer

import (
	"fmt"
	"strconv"
	"strings"
)

// Error reports a scanning failure with the line it occurred on.
type Error struct {
	Line    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("lex error at line %d: %s", e.Line, e.Message)
}

// keywords maps lower-cased identifier spellings to keyword token types.
var keywords = map[string]TokenType{
	"and":    TokenAnd,
	"or":     TokenOr,
	"if":     TokenIf,
	"else":   TokenElse,
	"true":   TokenTrue,
	"false":  TokenFalse,
	"nil":    TokenNil,
	"for":    TokenFor,
	"while":  TokenWhile,
	"fn":     TokenFn,
	"let":    TokenLet,
	"return": TokenReturn,
	"print":  TokenPrint,
}

// Lexer converts source text into a token sequence in a single left-to-right
// pass with one character of lookahead (two for numeric literals).
type Lexer struct {
	source  string
	tokens  []Token
	start   int
	current int
	line    int
}

// New returns a lexer over the given source text.
func New(source string) *Lexer {
	return &Lexer{source: source, line: 1}
}

// Scan tokenizes the entire source. The result is always terminated by an EOF
// token. On any invalid character or unterminated string the whole scan fails
// with an *Error; no partial token sequence is returned.
func Scan(source string) ([]Token, error) {
	return New(source).Scan()
}

// Scan runs the scanner to completion.
func (l *Lexer) Scan() ([]Token, error) {
	for !l.atEnd() {
		l.start = l.current
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
	l.tokens = append(l.tokens, Token{Type: TokenEOF, Line: l.line})
	return l.tokens, nil
}

func (l *Lexer) scanToken() error {
	ch := l.advance()
	switch ch {
	case '(':
		l.add(TokenLeftParen)
	case ')':
		l.add(TokenRightParen)
	case '{':
		l.add(TokenLeftBrace)
	case '}':
		l.add(TokenRightBrace)
	case ',':
		l.add(TokenComma)
	case ';':
		l.add(TokenSemicolon)
	case '+':
		l.add(TokenPlus)
	case '-':
		l.add(TokenMinus)
	case '*':
		l.add(TokenStar)
	case '/':
		if l.match('/') {
			for l.peek() != '\n' && !l.atEnd() {
				l.advance()
			}
		} else {
			l.add(TokenSlash)
		}
	case '!':
		if l.match('=') {
			l.add(TokenBangEqual)
		} else {
			l.add(TokenBang)
		}
	case '=':
		if l.match('=') {
			l.add(TokenEqualEqual)
		} else {
			l.add(TokenEqual)
		}
	case '<':
		if l.match('=') {
			l.add(TokenLessEqual)
		} else {
			l.add(TokenLess)
		}
	case '>':
		if l.match('=') {
			l.add(TokenGreaterEqual)
		} else {
			l.add(TokenGreater)
		}
	case ' ', '\t', '\r':
		// Whitespace carries no token.
	case '\n':
		l.line++
	case '"':
		return l.scanString()
	default:
		if isDigit(ch) {
			l.scanNumber()
			return nil
		}
		if isAlpha(ch) {
			l.scanIdentifier()
			return nil
		}
		return &Error{Line: l.line, Message: fmt.Sprintf("unexpected character %q", ch)}
	}
	return nil
}

func (l *Lexer) scanString() error {
	for l.peek() != '"' && !l.atEnd() {
		if l.peek() == '\n' {
			l.line++
		}
		l.advance()
	}
	if l.atEnd() {
		return &Error{Line: l.line, Message: "unterminated string"}
	}
	l.advance() // closing quote

	// Literal value excludes the delimiters; no escape processing.
	value := l.source[l.start+1 : l.current-1]
	l.addLiteral(TokenString, value)
	return nil
}

func (l *Lexer) scanNumber() {
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	value, _ := strconv.ParseFloat(l.source[l.start:l.current], 64)
	l.addLiteral(TokenNumber, value)
}

func (l *Lexer) scanIdentifier() {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}
	lexeme := l.source[l.start:l.current]
	// Keywords match case-insensitively.
	if kind, ok := keywords[strings.ToLower(lexeme)]; ok {
		l.add(kind)
		return
	}
	l.add(TokenIdentifier)
}

func (l *Lexer) add(kind TokenType) {
	l.addLiteral(kind, nil)
}

func (l *Lexer) addLiteral(kind TokenType, literal any) {
	l.tokens = append(l.tokens, Token{
		Type:    kind,
		Lexeme:  l.source[l.start:l.current],
		Literal: literal,
		Line:    l.line,
	})
}

func (l *Lexer) advance() byte {
	ch := l.source[l.current]
	l.current++
	return ch
}

func (l *Lexer) match(expected byte) bool {
	if l.atEnd() || l.source[l.current] != expected {
		return false
	}
	l.current++
	return true
}

func (l *Lexer) peek() byte {
	if l.atEnd() {
		return 0
	}
	return l.source[l.current]
}

func (l *Lexer) peekNext() byte {
	if l.current+1 >= len(l.source) {
		return 0
	}
	return l.source[l.current+1]
}

func (l *Lexer) atEnd() bool {
	return l.current >= len(l.source)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isAlphaNumeric(ch byte) bool {
	return isAlpha(ch) || isDigit(ch)
}
