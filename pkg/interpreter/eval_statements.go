package interpreter

import (
	"fmt"

	"flint/interpreter-go/pkg/ast"
	"flint/interpreter-go/pkg/runtime"
)

func (i *Interpreter) execStatement(node ast.Statement, env *runtime.Environment) (signal, error) {
	switch n := node.(type) {
	case *ast.VariableDeclaration:
		return i.execVariableDeclaration(n, env)
	case *ast.FunctionDeclaration:
		return i.execFunctionDeclaration(n, env)
	case *ast.ExpressionStatement:
		_, err := i.evalExpression(n.Expr, env)
		return signalNormal, err
	case *ast.PrintStatement:
		return i.execPrintStatement(n, env)
	case *ast.ReturnStatement:
		return i.execReturnStatement(n, env)
	case *ast.IfStatement:
		return i.execIfStatement(n, env)
	case *ast.WhileStatement:
		return i.execWhileStatement(n, env)
	case *ast.BlockStatement:
		return i.execBlock(n.Body, runtime.NewEnvironment(env))
	default:
		return signalNormal, fmt.Errorf("unsupported statement type: %s", n.NodeType())
	}
}

func (i *Interpreter) execVariableDeclaration(decl *ast.VariableDeclaration, env *runtime.Environment) (signal, error) {
	var value runtime.Value = runtime.NilValue{}
	if decl.Initializer != nil {
		var err error
		value, err = i.evalExpression(decl.Initializer, env)
		if err != nil {
			return signalNormal, err
		}
	}
	env.Define(decl.Name.Name, value)
	return signalNormal, nil
}

// execFunctionDeclaration captures the declaration environment by reference,
// so the function sees later mutations of enclosing bindings and can call
// itself through its own name.
func (i *Interpreter) execFunctionDeclaration(decl *ast.FunctionDeclaration, env *runtime.Environment) (signal, error) {
	fn := &runtime.FunctionValue{
		Name:    decl.Name.Name,
		Params:  decl.Params,
		Body:    decl.Body,
		Closure: env,
	}
	env.Define(decl.Name.Name, fn)
	return signalNormal, nil
}

func (i *Interpreter) execPrintStatement(stmt *ast.PrintStatement, env *runtime.Environment) (signal, error) {
	value, err := i.evalExpression(stmt.Expr, env)
	if err != nil {
		return signalNormal, err
	}
	fmt.Fprintln(i.out, value.Display())
	return signalNormal, nil
}

func (i *Interpreter) execReturnStatement(stmt *ast.ReturnStatement, env *runtime.Environment) (signal, error) {
	var value runtime.Value = runtime.NilValue{}
	if stmt.Argument != nil {
		var err error
		value, err = i.evalExpression(stmt.Argument, env)
		if err != nil {
			return signalNormal, err
		}
	}
	return signal{kind: signalReturn, value: value, line: stmt.Line}, nil
}

func (i *Interpreter) execIfStatement(stmt *ast.IfStatement, env *runtime.Environment) (signal, error) {
	cond, err := i.evalExpression(stmt.Condition, env)
	if err != nil {
		return signalNormal, err
	}
	if runtime.Truthy(cond) {
		return i.execStatement(stmt.Then, env)
	}
	if stmt.Else != nil {
		return i.execStatement(stmt.Else, env)
	}
	return signalNormal, nil
}

func (i *Interpreter) execWhileStatement(stmt *ast.WhileStatement, env *runtime.Environment) (signal, error) {
	for {
		cond, err := i.evalExpression(stmt.Condition, env)
		if err != nil {
			return signalNormal, err
		}
		if !runtime.Truthy(cond) {
			return signalNormal, nil
		}
		sig, err := i.execStatement(stmt.Body, env)
		if err != nil {
			return signalNormal, err
		}
		if sig.kind == signalReturn {
			return sig, nil
		}
	}
}

// execBlock runs statements against the given scope, stopping at the first
// error or return signal.
func (i *Interpreter) execBlock(body []ast.Statement, scope *runtime.Environment) (signal, error) {
	for _, stmt := range body {
		sig, err := i.execStatement(stmt, scope)
		if err != nil {
			return signalNormal, err
		}
		if sig.kind == signalReturn {
			return sig, nil
		}
	}
	return signalNormal, nil
}
