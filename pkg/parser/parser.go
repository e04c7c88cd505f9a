// Package parser turns a token sequence into Flint AST statements via
// recursive descent with an operator-precedence ladder. The first grammar
// violation aborts the whole parse; there is no error recovery.
package parser

import (
	"fmt"

	"flint/interpreter-go/pkg/ast"
	"flint/interpreter-go/pkg/lexer"
)

// maxCallArity caps parameter and argument lists.
const maxCallArity = 255

// Error reports the first grammar violation encountered.
type Error struct {
	Line    int
	Lexeme  string
	Message string
}

func (e *Error) Error() string {
	where := e.Lexeme
	if where == "" {
		where = "end"
	}
	return fmt.Sprintf("parse error at line %d near %q: %s", e.Line, where, e.Message)
}

// Parser consumes a scanned token sequence and produces top-level statements.
type Parser struct {
	tokens  []lexer.Token
	current int
}

// New returns a parser over the given tokens. The sequence must be
// EOF-terminated, as produced by the lexer.
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse builds the statement sequence for a whole source unit.
func Parse(tokens []lexer.Token) ([]ast.Statement, error) {
	return New(tokens).Parse()
}

// Parse consumes every token up to EOF.
func (p *Parser) Parse() ([]ast.Statement, error) {
	var statements []ast.Statement
	for !p.atEnd() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}

// Token cursor helpers.

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() lexer.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) atEnd() bool {
	return p.peek().Type == lexer.TokenEOF
}

func (p *Parser) advance() lexer.Token {
	if !p.atEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(kind lexer.TokenType) bool {
	if p.atEnd() {
		return kind == lexer.TokenEOF
	}
	return p.peek().Type == kind
}

func (p *Parser) match(kinds ...lexer.TokenType) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(kind lexer.TokenType, message string) (lexer.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return lexer.Token{}, p.errorAt(p.peek(), message)
}

func (p *Parser) errorAt(tok lexer.Token, message string) *Error {
	return &Error{Line: tok.Line, Lexeme: tok.Lexeme, Message: message}
}
