package parser

import (
	"flint/interpreter-go/pkg/ast"
	"flint/interpreter-go/pkg/lexer"
)

func (p *Parser) declaration() (ast.Statement, error) {
	switch {
	case p.match(lexer.TokenLet):
		return p.varDeclaration()
	case p.match(lexer.TokenFn):
		return p.functionDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) varDeclaration() (ast.Statement, error) {
	name, err := p.consume(lexer.TokenIdentifier, "expected variable name")
	if err != nil {
		return nil, err
	}

	var initializer ast.Expression
	if p.match(lexer.TokenEqual) {
		initializer, err = p.expression()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(lexer.TokenSemicolon, "expected ';' after variable declaration"); err != nil {
		return nil, err
	}
	return ast.NewVariableDeclaration(identFromToken(name), initializer), nil
}

func (p *Parser) functionDeclaration() (ast.Statement, error) {
	name, err := p.consume(lexer.TokenIdentifier, "expected function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TokenLeftParen, "expected '(' after function name"); err != nil {
		return nil, err
	}

	var params []*ast.Identifier
	if !p.check(lexer.TokenRightParen) {
		for {
			if len(params) >= maxCallArity {
				return nil, p.errorAt(p.peek(), "can't have more than 255 parameters")
			}
			param, err := p.consume(lexer.TokenIdentifier, "expected parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, identFromToken(param))
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	if _, err := p.consume(lexer.TokenRightParen, "expected ')' after parameters"); err != nil {
		return nil, err
	}

	if _, err := p.consume(lexer.TokenLeftBrace, "expected '{' before function body"); err != nil {
		return nil, err
	}
	body, err := p.blockBody()
	if err != nil {
		return nil, err
	}
	return ast.NewFunctionDeclaration(identFromToken(name), params, body), nil
}

func (p *Parser) statement() (ast.Statement, error) {
	switch {
	case p.match(lexer.TokenIf):
		return p.ifStatement()
	case p.match(lexer.TokenWhile):
		return p.whileStatement()
	case p.match(lexer.TokenFor):
		return p.forStatement()
	case p.match(lexer.TokenPrint):
		return p.printStatement()
	case p.match(lexer.TokenReturn):
		return p.returnStatement()
	case p.match(lexer.TokenLeftBrace):
		body, err := p.blockBody()
		if err != nil {
			return nil, err
		}
		return ast.NewBlockStatement(body), nil
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) ifStatement() (ast.Statement, error) {
	if _, err := p.consume(lexer.TokenLeftParen, "expected '(' after 'if'"); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TokenRightParen, "expected ')' after if condition"); err != nil {
		return nil, err
	}

	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	var alternative ast.Statement
	if p.match(lexer.TokenElse) {
		alternative, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewIfStatement(condition, then, alternative), nil
}

func (p *Parser) whileStatement() (ast.Statement, error) {
	if _, err := p.consume(lexer.TokenLeftParen, "expected '(' after 'while'"); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TokenRightParen, "expected ')' after while condition"); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return ast.NewWhileStatement(condition, body), nil
}

// forStatement desugars `for (init; cond; incr) body` into
// { init; while (cond) { body; incr; } }. A missing condition becomes a
// literal true, so the loop runs until something transfers control out.
func (p *Parser) forStatement() (ast.Statement, error) {
	if _, err := p.consume(lexer.TokenLeftParen, "expected '(' after 'for'"); err != nil {
		return nil, err
	}

	var initializer ast.Statement
	var err error
	switch {
	case p.match(lexer.TokenSemicolon):
		initializer = nil
	case p.match(lexer.TokenLet):
		initializer, err = p.varDeclaration()
		if err != nil {
			return nil, err
		}
	default:
		initializer, err = p.expressionStatement()
		if err != nil {
			return nil, err
		}
	}

	var condition ast.Expression
	if !p.check(lexer.TokenSemicolon) {
		condition, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(lexer.TokenSemicolon, "expected ';' after for condition"); err != nil {
		return nil, err
	}

	var increment ast.Expression
	if !p.check(lexer.TokenRightParen) {
		increment, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(lexer.TokenRightParen, "expected ')' after for clauses"); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if increment != nil {
		body = ast.NewBlockStatement([]ast.Statement{body, ast.NewExpressionStatement(increment)})
	}
	if condition == nil {
		condition = ast.NewBooleanLiteral(true)
	}
	var loop ast.Statement = ast.NewWhileStatement(condition, body)
	if initializer != nil {
		loop = ast.NewBlockStatement([]ast.Statement{initializer, loop})
	}
	return loop, nil
}

func (p *Parser) printStatement() (ast.Statement, error) {
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TokenSemicolon, "expected ';' after print value"); err != nil {
		return nil, err
	}
	return ast.NewPrintStatement(value), nil
}

func (p *Parser) returnStatement() (ast.Statement, error) {
	keyword := p.previous()
	var value ast.Expression
	if !p.check(lexer.TokenSemicolon) {
		var err error
		value, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(lexer.TokenSemicolon, "expected ';' after return value"); err != nil {
		return nil, err
	}
	return ast.NewReturnStatement(value, keyword.Line), nil
}

// blockBody parses statements until the closing brace; the opening brace has
// already been consumed.
func (p *Parser) blockBody() ([]ast.Statement, error) {
	var body []ast.Statement
	for !p.check(lexer.TokenRightBrace) && !p.atEnd() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	if _, err := p.consume(lexer.TokenRightBrace, "expected '}' after block"); err != nil {
		return nil, err
	}
	return body, nil
}

func (p *Parser) expressionStatement() (ast.Statement, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TokenSemicolon, "expected ';' after expression"); err != nil {
		return nil, err
	}
	return ast.NewExpressionStatement(expr), nil
}

func identFromToken(tok lexer.Token) *ast.Identifier {
	return ast.NewIdentifier(tok.Lexeme, tok.Line)
}
