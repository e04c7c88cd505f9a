package parser

import (
	"flint/interpreter-go/pkg/ast"
	"flint/interpreter-go/pkg/lexer"
)

func (p *Parser) expression() (ast.Expression, error) {
	return p.assignment()
}

// assignment is right-associative; everything below it folds left.
func (p *Parser) assignment() (ast.Expression, error) {
	expr, err := p.logicOr()
	if err != nil {
		return nil, err
	}

	if p.match(lexer.TokenEqual) {
		equals := p.previous()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}
		target, ok := expr.(*ast.Identifier)
		if !ok {
			return nil, p.errorAt(equals, "invalid assignment target")
		}
		return ast.NewAssignmentExpression(target, value), nil
	}
	return expr, nil
}

func (p *Parser) logicOr() (ast.Expression, error) {
	expr, err := p.logicAnd()
	if err != nil {
		return nil, err
	}
	for p.match(lexer.TokenOr) {
		right, err := p.logicAnd()
		if err != nil {
			return nil, err
		}
		expr = ast.NewLogicalExpression("or", expr, right)
	}
	return expr, nil
}

func (p *Parser) logicAnd() (ast.Expression, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(lexer.TokenAnd) {
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = ast.NewLogicalExpression("and", expr, right)
	}
	return expr, nil
}

func (p *Parser) equality() (ast.Expression, error) {
	expr, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.match(lexer.TokenEqualEqual, lexer.TokenBangEqual) {
		op := p.previous()
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		expr = ast.NewBinaryExpression(op.Lexeme, expr, right, op.Line)
	}
	return expr, nil
}

func (p *Parser) comparison() (ast.Expression, error) {
	expr, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.match(lexer.TokenGreater, lexer.TokenGreaterEqual, lexer.TokenLess, lexer.TokenLessEqual) {
		op := p.previous()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		expr = ast.NewBinaryExpression(op.Lexeme, expr, right, op.Line)
	}
	return expr, nil
}

func (p *Parser) term() (ast.Expression, error) {
	expr, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.match(lexer.TokenPlus, lexer.TokenMinus) {
		op := p.previous()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		expr = ast.NewBinaryExpression(op.Lexeme, expr, right, op.Line)
	}
	return expr, nil
}

func (p *Parser) factor() (ast.Expression, error) {
	expr, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.match(lexer.TokenStar, lexer.TokenSlash) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		expr = ast.NewBinaryExpression(op.Lexeme, expr, right, op.Line)
	}
	return expr, nil
}

func (p *Parser) unary() (ast.Expression, error) {
	if p.match(lexer.TokenBang, lexer.TokenMinus) {
		op := p.previous()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpression(op.Lexeme, operand, op.Line), nil
	}
	return p.call()
}

// call handles chained invocations: f(1)(2) parses as Call(Call(f, 1), 2).
func (p *Parser) call() (ast.Expression, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.match(lexer.TokenLeftParen) {
		expr, err = p.finishCall(expr)
		if err != nil {
			return nil, err
		}
	}
	return expr, nil
}

func (p *Parser) finishCall(callee ast.Expression) (ast.Expression, error) {
	paren := p.previous()
	var arguments []ast.Expression
	if !p.check(lexer.TokenRightParen) {
		for {
			if len(arguments) >= maxCallArity {
				return nil, p.errorAt(p.peek(), "can't have more than 255 arguments")
			}
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			arguments = append(arguments, arg)
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	if _, err := p.consume(lexer.TokenRightParen, "expected ')' after arguments"); err != nil {
		return nil, err
	}
	return ast.NewCallExpression(callee, arguments, paren.Line), nil
}

func (p *Parser) primary() (ast.Expression, error) {
	switch {
	case p.match(lexer.TokenNumber):
		return ast.NewNumberLiteral(p.previous().Literal.(float64)), nil
	case p.match(lexer.TokenString):
		return ast.NewStringLiteral(p.previous().Literal.(string)), nil
	case p.match(lexer.TokenTrue):
		return ast.NewBooleanLiteral(true), nil
	case p.match(lexer.TokenFalse):
		return ast.NewBooleanLiteral(false), nil
	case p.match(lexer.TokenNil):
		return ast.NewNilLiteral(), nil
	case p.match(lexer.TokenIdentifier):
		return identFromToken(p.previous()), nil
	case p.match(lexer.TokenLeftParen):
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(lexer.TokenRightParen, "expected ')' after expression"); err != nil {
			return nil, err
		}
		return ast.NewGroupingExpression(inner), nil
	default:
		return nil, p.errorAt(p.peek(), "expected expression")
	}
}
