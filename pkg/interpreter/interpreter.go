// Package interpreter walks Flint AST statements and evaluates them against a
// chain of lexical environments. The current environment is threaded through
// every evaluation call as an explicit parameter, never held in mutable
// interpreter state, so a failed evaluation can never strand the interpreter
// in an inner scope.
package interpreter

import (
	"io"
	"os"

	"flint/interpreter-go/pkg/ast"
	"flint/interpreter-go/pkg/runtime"
)

// Interpreter drives evaluation of Flint AST nodes.
type Interpreter struct {
	global *runtime.Environment
	out    io.Writer
}

// New returns an interpreter with an empty global environment, printing to
// stdout.
func New() *Interpreter {
	return &Interpreter{
		global: runtime.NewEnvironment(nil),
		out:    os.Stdout,
	}
}

// SetOutput redirects print statement output, mainly for tests.
func (i *Interpreter) SetOutput(w io.Writer) {
	i.out = w
}

// GlobalEnvironment returns the interpreter's global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// Run executes each top-level statement against the global environment. The
// first runtime error stops execution; output printed before the failing
// statement remains written. A top-level return is reported as an error.
func (i *Interpreter) Run(program []ast.Statement) error {
	for _, stmt := range program {
		sig, err := i.execStatement(stmt, i.global)
		if err != nil {
			return err
		}
		if sig.kind == signalReturn {
			return runtime.Errorf(sig.line, "return outside function")
		}
	}
	return nil
}

// signal is the typed result of statement execution: either normal
// completion or a return travelling up to the nearest call frame. Block and
// loop execution check it after every inner statement and propagate a return
// without running further statements.
type signal struct {
	kind  signalKind
	value runtime.Value
	line  int
}

type signalKind int

const (
	signalNone signalKind = iota
	signalReturn
)

var signalNormal = signal{kind: signalNone}
