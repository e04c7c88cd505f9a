package interpreter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"flint/interpreter-go/pkg/ast"
	"flint/interpreter-go/pkg/lexer"
	"flint/interpreter-go/pkg/parser"
	"flint/interpreter-go/pkg/runtime"
)

// runSource executes a whole source unit and returns the printed lines.
func runSource(t *testing.T, source string) []string {
	t.Helper()
	lines, err := tryRunSource(t, source)
	require.NoError(t, err)
	return lines
}

// tryRunSource is runSource without the success requirement; already-printed
// lines are returned alongside the error.
func tryRunSource(t *testing.T, source string) ([]string, error) {
	t.Helper()
	tokens, err := lexer.Scan(source)
	require.NoError(t, err)
	program, err := parser.Parse(tokens)
	require.NoError(t, err)

	var buf bytes.Buffer
	interp := New()
	interp.SetOutput(&buf)
	runErr := interp.Run(program)

	out := strings.TrimSuffix(buf.String(), "\n")
	if out == "" {
		return nil, runErr
	}
	return strings.Split(out, "\n"), runErr
}

func requireRuntimeError(t *testing.T, err error, fragment string) {
	t.Helper()
	require.Error(t, err)
	rerr := &runtime.Error{}
	require.ErrorAs(t, err, &rerr)
	require.Contains(t, rerr.Message, fragment)
}

func TestFunctionCallScenario(t *testing.T) {
	lines := runSource(t, `let x = 5; let y = 10; fn add(a, b) { return a + b; } print(add(x, y));`)
	require.Equal(t, []string{"15"}, lines)
}

func TestWhileLoopScenario(t *testing.T) {
	lines := runSource(t, `let i = 0; while (i < 3) { print(i); i = i + 1; }`)
	require.Equal(t, []string{"0", "1", "2"}, lines)
}

func TestForLoopScenario(t *testing.T) {
	lines := runSource(t, `for (let j = 0; j < 3; j = j + 1) { print(j); }`)
	require.Equal(t, []string{"0", "1", "2"}, lines)
}

func TestPlusConcatenatesWithStrings(t *testing.T) {
	lines := runSource(t, `print(1 + "x");`)
	require.Equal(t, []string{"1x"}, lines)

	lines = runSource(t, `print("x" + 1);`)
	require.Equal(t, []string{"x1"}, lines)
}

func TestMinusRejectsStrings(t *testing.T) {
	_, err := tryRunSource(t, `print(1 - "x");`)
	requireRuntimeError(t, err, "operands must be numbers")
}

func TestPlusRejectsMixedNonStrings(t *testing.T) {
	_, err := tryRunSource(t, `print(1 + true);`)
	requireRuntimeError(t, err, "operands must be two numbers or one must be a string")
}

func TestUndefinedVariableProducesNoOutput(t *testing.T) {
	lines, err := tryRunSource(t, `print(undeclared);`)
	requireRuntimeError(t, err, "undefined variable")
	require.Empty(t, lines)
}

func TestOutputBeforeFailureRemains(t *testing.T) {
	lines, err := tryRunSource(t, `print(1); print(undeclared); print(2);`)
	requireRuntimeError(t, err, "undefined variable")
	require.Equal(t, []string{"1"}, lines)
}

func TestDivisionByZero(t *testing.T) {
	_, err := tryRunSource(t, `print(1 / 0);`)
	requireRuntimeError(t, err, "division by zero")
}

func TestShortCircuitSkipsPoisonedRight(t *testing.T) {
	lines := runSource(t, `print(false and (1 / 0)); print(true or (1 / 0));`)
	require.Equal(t, []string{"false", "true"}, lines)
}

func TestLogicalOperatorsReturnOperands(t *testing.T) {
	lines := runSource(t, `print(nil or "fallback"); print(1 and 2); print(nil and 2);`)
	require.Equal(t, []string{"fallback", "2", "nil"}, lines)
}

func TestTruthinessRules(t *testing.T) {
	lines := runSource(t, `
		if (0) print("zero truthy");
		if ("") print("empty truthy");
		if (nil) print("unreachable"); else print("nil falsy");
		print(nil == nil);
		print(nil == 0);
	`)
	require.Equal(t, []string{"zero truthy", "empty truthy", "nil falsy", "true", "false"}, lines)
}

func TestBlockScoping(t *testing.T) {
	lines, err := tryRunSource(t, `
		{
			let inner = 1;
			print(inner);
		}
		print(inner);
	`)
	requireRuntimeError(t, err, "undefined variable 'inner'")
	require.Equal(t, []string{"1"}, lines)
}

func TestShadowingLeavesOuterIntact(t *testing.T) {
	lines := runSource(t, `
		let x = "outer";
		{
			let x = "inner";
			print(x);
		}
		print(x);
	`)
	require.Equal(t, []string{"inner", "outer"}, lines)
}

func TestAssignmentReachesEnclosingScope(t *testing.T) {
	lines := runSource(t, `
		let x = "before";
		{
			x = "after";
		}
		print(x);
	`)
	require.Equal(t, []string{"after"}, lines)
}

func TestAssignmentIsAnExpression(t *testing.T) {
	lines := runSource(t, `let x = 1; print(x = 2); print(x);`)
	require.Equal(t, []string{"2", "2"}, lines)
}

func TestClosureCapturesEnvironmentByReference(t *testing.T) {
	lines := runSource(t, `
		let counter = 0;
		fn bump() { counter = counter + 1; return counter; }
		counter = 10;
		print(bump());
		print(bump());
	`)
	require.Equal(t, []string{"11", "12"}, lines)
}

func TestClosureKeepsEnvironmentAlive(t *testing.T) {
	lines := runSource(t, `
		fn makeCounter() {
			let count = 0;
			fn tick() { count = count + 1; return count; }
			return tick;
		}
		let c = makeCounter();
		print(c());
		print(c());
	`)
	require.Equal(t, []string{"1", "2"}, lines)
}

func TestDirectRecursion(t *testing.T) {
	lines := runSource(t, `
		fn fib(n) {
			if (n < 2) return n;
			return fib(n - 1) + fib(n - 2);
		}
		print(fib(10));
	`)
	require.Equal(t, []string{"55"}, lines)
}

func TestMutualRecursion(t *testing.T) {
	lines := runSource(t, `
		fn isEven(n) {
			if (n == 0) return true;
			return isOdd(n - 1);
		}
		fn isOdd(n) {
			if (n == 0) return false;
			return isEven(n - 1);
		}
		print(isEven(8));
		print(isOdd(8));
	`)
	require.Equal(t, []string{"true", "false"}, lines)
}

func TestReturnUnwindsNestedBlocks(t *testing.T) {
	lines := runSource(t, `
		fn find() {
			let i = 0;
			while (true) {
				{
					if (i == 2) { return i; }
				}
				i = i + 1;
			}
		}
		print(find());
	`)
	require.Equal(t, []string{"2"}, lines)
}

func TestFunctionWithoutReturnYieldsNil(t *testing.T) {
	lines := runSource(t, `fn noop() { } print(noop());`)
	require.Equal(t, []string{"nil"}, lines)
}

func TestBareReturnYieldsNil(t *testing.T) {
	lines := runSource(t, `fn f() { return; } print(f());`)
	require.Equal(t, []string{"nil"}, lines)
}

func TestTopLevelReturnIsAnError(t *testing.T) {
	_, err := tryRunSource(t, `return 1;`)
	requireRuntimeError(t, err, "return outside function")
}

func TestCallingNonFunction(t *testing.T) {
	_, err := tryRunSource(t, `let x = 3; x();`)
	requireRuntimeError(t, err, "can only call functions")
}

func TestArityMismatch(t *testing.T) {
	_, err := tryRunSource(t, `fn two(a, b) { return a; } two(1);`)
	requireRuntimeError(t, err, "expected 2 arguments but got 1")
}

func TestUnaryOperators(t *testing.T) {
	lines := runSource(t, `print(-3); print(!nil); print(!0); print(!!true);`)
	require.Equal(t, []string{"-3", "true", "false", "true"}, lines)
}

func TestUnaryMinusRequiresNumber(t *testing.T) {
	_, err := tryRunSource(t, `print(-"x");`)
	requireRuntimeError(t, err, "operand must be a number")
}

func TestComparisonsRequireNumbers(t *testing.T) {
	_, err := tryRunSource(t, `print("a" < "b");`)
	requireRuntimeError(t, err, "operands must be numbers")
}

func TestRuntimeErrorCarriesLine(t *testing.T) {
	_, err := tryRunSource(t, "let a = 1;\nlet b = 2;\nprint(a - \"x\");")
	rerr := &runtime.Error{}
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, 3, rerr.Line)
}

func TestPrintRendersFunctionTag(t *testing.T) {
	lines := runSource(t, `fn greet() { } print(greet);`)
	require.Equal(t, []string{"<fn greet>"}, lines)
}

func TestRunBuiltProgramDirectly(t *testing.T) {
	// The interpreter also accepts programs assembled without the parser.
	var buf bytes.Buffer
	interp := New()
	interp.SetOutput(&buf)

	program := []ast.Statement{
		ast.Let("x", ast.Num(2)),
		ast.Print(ast.Bin("*", ast.ID("x"), ast.Num(21))),
	}
	require.NoError(t, interp.Run(program))
	require.Equal(t, "42\n", buf.String())
}

func TestGlobalEnvironmentVisibleAfterRun(t *testing.T) {
	var buf bytes.Buffer
	interp := New()
	interp.SetOutput(&buf)

	program := []ast.Statement{ast.Let("answer", ast.Num(42))}
	require.NoError(t, interp.Run(program))

	val, err := interp.GlobalEnvironment().Get("answer")
	require.NoError(t, err)
	require.Equal(t, runtime.NumberValue{Val: 42}, val)
}
