package lexer

import "fmt"

// TokenType identifies the lexical category of a token.
type TokenType int

const (
	// Single-character tokens.
	TokenLeftParen TokenType = iota
	TokenRightParen
	TokenLeftBrace
	TokenRightBrace
	TokenComma
	TokenSemicolon
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash

	// One- or two-character tokens.
	TokenBang
	TokenBangEqual
	TokenEqual
	TokenEqualEqual
	TokenGreater
	TokenGreaterEqual
	TokenLess
	TokenLessEqual

	// Literals.
	TokenIdentifier
	TokenString
	TokenNumber

	// Keywords.
	TokenAnd
	TokenOr
	TokenIf
	TokenElse
	TokenTrue
	TokenFalse
	TokenNil
	TokenFor
	TokenWhile
	TokenFn
	TokenLet
	TokenReturn
	TokenPrint

	TokenEOF
)

func (t TokenType) String() string {
	switch t {
	case TokenLeftParen:
		return "("
	case TokenRightParen:
		return ")"
	case TokenLeftBrace:
		return "{"
	case TokenRightBrace:
		return "}"
	case TokenComma:
		return ","
	case TokenSemicolon:
		return ";"
	case TokenPlus:
		return "+"
	case TokenMinus:
		return "-"
	case TokenStar:
		return "*"
	case TokenSlash:
		return "/"
	case TokenBang:
		return "!"
	case TokenBangEqual:
		return "!="
	case TokenEqual:
		return "="
	case TokenEqualEqual:
		return "=="
	case TokenGreater:
		return ">"
	case TokenGreaterEqual:
		return ">="
	case TokenLess:
		return "<"
	case TokenLessEqual:
		return "<="
	case TokenIdentifier:
		return "identifier"
	case TokenString:
		return "string"
	case TokenNumber:
		return "number"
	case TokenAnd:
		return "and"
	case TokenOr:
		return "or"
	case TokenIf:
		return "if"
	case TokenElse:
		return "else"
	case TokenTrue:
		return "true"
	case TokenFalse:
		return "false"
	case TokenNil:
		return "nil"
	case TokenFor:
		return "for"
	case TokenWhile:
		return "while"
	case TokenFn:
		return "fn"
	case TokenLet:
		return "let"
	case TokenReturn:
		return "return"
	case TokenPrint:
		return "print"
	case TokenEOF:
		return "eof"
	default:
		return fmt.Sprintf("token(%d)", int(t))
	}
}

// Token is the smallest lexical unit. The scanner produces them; the parser
// consumes them read-only.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal any
	Line    int
}

func (t Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%s %q %v", t.Type, t.Lexeme, t.Literal)
	}
	return fmt.Sprintf("%s %q", t.Type, t.Lexeme)
}
