package interpreter

import (
	"fmt"

	"flint/interpreter-go/pkg/ast"
	"flint/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evalExpression(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.NumberLiteral:
		return runtime.NumberValue{Val: n.Value}, nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.NilLiteral:
		return runtime.NilValue{}, nil
	case *ast.Identifier:
		value, err := env.Get(n.Name)
		if err != nil {
			return nil, withLine(err, n.Line)
		}
		return value, nil
	case *ast.AssignmentExpression:
		return i.evalAssignment(n, env)
	case *ast.GroupingExpression:
		return i.evalExpression(n.Inner, env)
	case *ast.UnaryExpression:
		return i.evalUnary(n, env)
	case *ast.BinaryExpression:
		return i.evalBinary(n, env)
	case *ast.LogicalExpression:
		return i.evalLogical(n, env)
	case *ast.CallExpression:
		return i.evalCall(n, env)
	default:
		return nil, fmt.Errorf("unsupported expression type: %s", n.NodeType())
	}
}

// evalAssignment mutates the nearest enclosing binding; the assigned value is
// also the expression's result.
func (i *Interpreter) evalAssignment(node *ast.AssignmentExpression, env *runtime.Environment) (runtime.Value, error) {
	value, err := i.evalExpression(node.Value, env)
	if err != nil {
		return nil, err
	}
	if err := env.Assign(node.Target.Name, value); err != nil {
		return nil, withLine(err, node.Target.Line)
	}
	return value, nil
}

func (i *Interpreter) evalUnary(node *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	operand, err := i.evalExpression(node.Operand, env)
	if err != nil {
		return nil, err
	}
	switch node.Operator {
	case "-":
		num, ok := operand.(runtime.NumberValue)
		if !ok {
			return nil, runtime.Errorf(node.Line, "operand must be a number")
		}
		return runtime.NumberValue{Val: -num.Val}, nil
	case "!":
		return runtime.BoolValue{Val: !runtime.Truthy(operand)}, nil
	default:
		return nil, runtime.Errorf(node.Line, "unknown unary operator %q", node.Operator)
	}
}

func (i *Interpreter) evalBinary(node *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evalExpression(node.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evalExpression(node.Right, env)
	if err != nil {
		return nil, err
	}

	switch node.Operator {
	case "+":
		return evalAdd(left, right, node.Line)
	case "-", "*", "/":
		ln, lok := left.(runtime.NumberValue)
		rn, rok := right.(runtime.NumberValue)
		if !lok || !rok {
			return nil, runtime.Errorf(node.Line, "operands must be numbers")
		}
		switch node.Operator {
		case "-":
			return runtime.NumberValue{Val: ln.Val - rn.Val}, nil
		case "*":
			return runtime.NumberValue{Val: ln.Val * rn.Val}, nil
		default:
			if rn.Val == 0 {
				return nil, runtime.Errorf(node.Line, "division by zero")
			}
			return runtime.NumberValue{Val: ln.Val / rn.Val}, nil
		}
	case ">", ">=", "<", "<=":
		ln, lok := left.(runtime.NumberValue)
		rn, rok := right.(runtime.NumberValue)
		if !lok || !rok {
			return nil, runtime.Errorf(node.Line, "operands must be numbers")
		}
		var result bool
		switch node.Operator {
		case ">":
			result = ln.Val > rn.Val
		case ">=":
			result = ln.Val >= rn.Val
		case "<":
			result = ln.Val < rn.Val
		default:
			result = ln.Val <= rn.Val
		}
		return runtime.BoolValue{Val: result}, nil
	case "==":
		return runtime.BoolValue{Val: runtime.Equal(left, right)}, nil
	case "!=":
		return runtime.BoolValue{Val: !runtime.Equal(left, right)}, nil
	default:
		return nil, runtime.Errorf(node.Line, "unknown binary operator %q", node.Operator)
	}
}

// evalAdd overloads "+": numeric addition when both sides are numbers,
// otherwise string concatenation when at least one side is a string.
func evalAdd(left, right runtime.Value, line int) (runtime.Value, error) {
	if ln, ok := left.(runtime.NumberValue); ok {
		if rn, ok := right.(runtime.NumberValue); ok {
			return runtime.NumberValue{Val: ln.Val + rn.Val}, nil
		}
	}
	if left.Kind() == runtime.KindString || right.Kind() == runtime.KindString {
		return runtime.StringValue{Val: left.Display() + right.Display()}, nil
	}
	return nil, runtime.Errorf(line, "operands must be two numbers or one must be a string")
}

// evalLogical short-circuits: the untouched left value is the result when it
// decides the outcome.
func (i *Interpreter) evalLogical(node *ast.LogicalExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evalExpression(node.Left, env)
	if err != nil {
		return nil, err
	}
	if node.Operator == "or" {
		if runtime.Truthy(left) {
			return left, nil
		}
	} else {
		if !runtime.Truthy(left) {
			return left, nil
		}
	}
	return i.evalExpression(node.Right, env)
}

func (i *Interpreter) evalCall(node *ast.CallExpression, env *runtime.Environment) (runtime.Value, error) {
	callee, err := i.evalExpression(node.Callee, env)
	if err != nil {
		return nil, err
	}
	fn, ok := callee.(*runtime.FunctionValue)
	if !ok {
		return nil, runtime.Errorf(node.Line, "can only call functions")
	}

	args := make([]runtime.Value, 0, len(node.Arguments))
	for _, argExpr := range node.Arguments {
		arg, err := i.evalExpression(argExpr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	if len(args) != fn.Arity() {
		return nil, runtime.Errorf(node.Line, "expected %d arguments but got %d", fn.Arity(), len(args))
	}

	// The call frame's parent is the closure environment, not the caller's.
	frame := runtime.NewEnvironment(fn.Closure)
	for idx, param := range fn.Params {
		frame.Define(param.Name, args[idx])
	}

	sig, err := i.execBlock(fn.Body, frame)
	if err != nil {
		return nil, err
	}
	if sig.kind == signalReturn {
		return sig.value, nil
	}
	return runtime.NilValue{}, nil
}

// withLine stamps a line onto runtime errors raised by the environment, which
// has no source position of its own.
func withLine(err error, line int) error {
	if rerr, ok := err.(*runtime.Error); ok && rerr.Line == 0 {
		return runtime.Errorf(line, "%s", rerr.Message)
	}
	return err
}
