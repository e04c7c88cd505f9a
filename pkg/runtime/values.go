package runtime

import (
	"fmt"
	"strconv"

	"flint/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNumber Kind = iota
	KindBool
	KindString
	KindNil
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindNil:
		return "nil"
	case KindFunction:
		return "function"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is the interface satisfied by every Flint runtime value.
type Value interface {
	Kind() Kind
	Display() string
}

type NumberValue struct {
	Val float64
}

func (NumberValue) Kind() Kind { return KindNumber }

// Display renders the shortest text that round-trips the float, so `15`
// prints as "15" rather than "15.000000".
func (v NumberValue) Display() string {
	return strconv.FormatFloat(v.Val, 'g', -1, 64)
}

type BoolValue struct {
	Val bool
}

func (BoolValue) Kind() Kind { return KindBool }

func (v BoolValue) Display() string {
	if v.Val {
		return "true"
	}
	return "false"
}

type StringValue struct {
	Val string
}

func (StringValue) Kind() Kind { return KindString }

func (v StringValue) Display() string { return v.Val }

type NilValue struct{}

func (NilValue) Kind() Kind { return KindNil }

func (NilValue) Display() string { return "nil" }

// FunctionValue pairs a function declaration with the environment that was
// active at its declaration site. The closure reference keeps that
// environment alive for as long as the value is reachable.
type FunctionValue struct {
	Name    string
	Params  []*ast.Identifier
	Body    []ast.Statement
	Closure *Environment
}

func (*FunctionValue) Kind() Kind { return KindFunction }

func (f *FunctionValue) Display() string {
	return fmt.Sprintf("<fn %s>", f.Name)
}

func (f *FunctionValue) Arity() int { return len(f.Params) }

// Truthy maps any value to a boolean: nil is falsy, a bool is itself, and
// everything else (including 0 and "") is truthy.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case NilValue:
		return false
	case BoolValue:
		return val.Val
	default:
		return true
	}
}

// Equal implements value equality. Values of different kinds are never equal;
// nil equals only nil; functions compare by identity.
func Equal(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case NumberValue:
		return av.Val == b.(NumberValue).Val
	case BoolValue:
		return av.Val == b.(BoolValue).Val
	case StringValue:
		return av.Val == b.(StringValue).Val
	case NilValue:
		return true
	case *FunctionValue:
		return av == b.(*FunctionValue)
	default:
		return false
	}
}
