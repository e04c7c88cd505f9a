package ast

// Compact construction helpers, used heavily by tests.

func ID(name string) *Identifier {
	return NewIdentifier(name, 0)
}

func Num(value float64) *NumberLiteral {
	return NewNumberLiteral(value)
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

func Nil() *NilLiteral {
	return NewNilLiteral()
}

func Assign(target *Identifier, value Expression) *AssignmentExpression {
	return NewAssignmentExpression(target, value)
}

func Bin(operator string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(operator, left, right, 0)
}

func Un(operator string, operand Expression) *UnaryExpression {
	return NewUnaryExpression(operator, operand, 0)
}

func Logic(operator string, left, right Expression) *LogicalExpression {
	return NewLogicalExpression(operator, left, right)
}

func Call(callee Expression, arguments ...Expression) *CallExpression {
	return NewCallExpression(callee, arguments, 0)
}

func Group(inner Expression) *GroupingExpression {
	return NewGroupingExpression(inner)
}

func Let(name string, initializer Expression) *VariableDeclaration {
	return NewVariableDeclaration(ID(name), initializer)
}

func Fn(name string, params []string, body ...Statement) *FunctionDeclaration {
	ids := make([]*Identifier, len(params))
	for i, p := range params {
		ids[i] = ID(p)
	}
	return NewFunctionDeclaration(ID(name), ids, body)
}

func ExprStmt(expr Expression) *ExpressionStatement {
	return NewExpressionStatement(expr)
}

func Print(expr Expression) *PrintStatement {
	return NewPrintStatement(expr)
}

func Ret(argument Expression) *ReturnStatement {
	return NewReturnStatement(argument, 0)
}

func If(condition Expression, then, alternative Statement) *IfStatement {
	return NewIfStatement(condition, then, alternative)
}

func While(condition Expression, body Statement) *WhileStatement {
	return NewWhileStatement(condition, body)
}

func Block(body ...Statement) *BlockStatement {
	return NewBlockStatement(body)
}
