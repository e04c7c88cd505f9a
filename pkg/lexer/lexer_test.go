package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func tokenTypes(tokens []Token) []TokenType {
	kinds := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Type
	}
	return kinds
}

func TestScanOperatorsAndPunctuation(t *testing.T) {
	tokens, err := Scan("( ) { } , ; + - * / ! != = == > >= < <=")
	require.NoError(t, err)
	require.Equal(t, []TokenType{
		TokenLeftParen, TokenRightParen, TokenLeftBrace, TokenRightBrace,
		TokenComma, TokenSemicolon, TokenPlus, TokenMinus, TokenStar, TokenSlash,
		TokenBang, TokenBangEqual, TokenEqual, TokenEqualEqual,
		TokenGreater, TokenGreaterEqual, TokenLess, TokenLessEqual,
		TokenEOF,
	}, tokenTypes(tokens))
}

func TestScanAlwaysEndsWithEOF(t *testing.T) {
	tokens, err := Scan("")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	require.Equal(t, TokenEOF, tokens[0].Type)
}

func TestScanNumberLiterals(t *testing.T) {
	tokens, err := Scan("42 3.14")
	require.NoError(t, err)
	require.Equal(t, 42.0, tokens[0].Literal)
	require.Equal(t, 3.14, tokens[1].Literal)
}

func TestScanNumberWithoutFractionAfterDot(t *testing.T) {
	// "1." scans as the number 1 followed by an unexpected '.'.
	_, err := Scan("1.;")
	require.Error(t, err)
	lexErr := &Error{}
	require.ErrorAs(t, err, &lexErr)
	require.Contains(t, lexErr.Message, "unexpected character")
}

func TestScanStringLiteral(t *testing.T) {
	tokens, err := Scan(`"hello world"`)
	require.NoError(t, err)
	require.Equal(t, TokenString, tokens[0].Type)
	require.Equal(t, "hello world", tokens[0].Literal)
	require.Equal(t, `"hello world"`, tokens[0].Lexeme)
}

func TestScanStringTracksEmbeddedNewlines(t *testing.T) {
	tokens, err := Scan("\"a\nb\" x")
	require.NoError(t, err)
	require.Equal(t, "a\nb", tokens[0].Literal)
	require.Equal(t, 2, tokens[1].Line)
}

func TestScanUnterminatedString(t *testing.T) {
	_, err := Scan("\"oops")
	require.Error(t, err)
	lexErr := &Error{}
	require.ErrorAs(t, err, &lexErr)
	require.Contains(t, lexErr.Message, "unterminated string")
	require.Equal(t, 1, lexErr.Line)
}

func TestScanUnexpectedCharacter(t *testing.T) {
	_, err := Scan("let x = 1;\n@")
	require.Error(t, err)
	lexErr := &Error{}
	require.ErrorAs(t, err, &lexErr)
	require.Equal(t, 2, lexErr.Line)
}

func TestScanKeywordsCaseInsensitive(t *testing.T) {
	tokens, err := Scan("let LET Let while WHILE fn FN return TRUE nil")
	require.NoError(t, err)
	require.Equal(t, []TokenType{
		TokenLet, TokenLet, TokenLet,
		TokenWhile, TokenWhile,
		TokenFn, TokenFn,
		TokenReturn, TokenTrue, TokenNil,
		TokenEOF,
	}, tokenTypes(tokens))
}

func TestScanIdentifiers(t *testing.T) {
	tokens, err := Scan("foo _bar baz2 letter")
	require.NoError(t, err)
	for _, tok := range tokens[:4] {
		require.Equal(t, TokenIdentifier, tok.Type, "lexeme %q", tok.Lexeme)
	}
	require.Equal(t, "letter", tokens[3].Lexeme)
}

func TestScanLineComments(t *testing.T) {
	tokens, err := Scan("let x = 1; // trailing comment\n// whole-line comment\nx;")
	require.NoError(t, err)
	require.Equal(t, []TokenType{
		TokenLet, TokenIdentifier, TokenEqual, TokenNumber, TokenSemicolon,
		TokenIdentifier, TokenSemicolon,
		TokenEOF,
	}, tokenTypes(tokens))
	require.Equal(t, 3, tokens[5].Line)
}

func TestScanIsDeterministic(t *testing.T) {
	source := `let x = 5; fn add(a, b) { return a + b; } print(add(x, 10));`
	first, err := Scan(source)
	require.NoError(t, err)
	second, err := Scan(source)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
