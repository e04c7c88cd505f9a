package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefineAndGet(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("x", NumberValue{Val: 1})
	val, err := env.Get("x")
	require.NoError(t, err)
	require.Equal(t, NumberValue{Val: 1}, val)
}

func TestGetWalksParentChain(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("x", StringValue{Val: "outer"})
	inner := NewEnvironment(NewEnvironment(global))

	val, err := inner.Get("x")
	require.NoError(t, err)
	require.Equal(t, StringValue{Val: "outer"}, val)
}

func TestGetUndefined(t *testing.T) {
	env := NewEnvironment(nil)
	_, err := env.Get("missing")
	require.Error(t, err)
	require.Contains(t, err.Error(), "undefined variable 'missing'")
}

func TestDefineShadowsWithoutMutatingParent(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("x", NumberValue{Val: 1})
	inner := NewEnvironment(global)
	inner.Define("x", NumberValue{Val: 2})

	innerVal, err := inner.Get("x")
	require.NoError(t, err)
	require.Equal(t, NumberValue{Val: 2}, innerVal)

	outerVal, err := global.Get("x")
	require.NoError(t, err)
	require.Equal(t, NumberValue{Val: 1}, outerVal)
}

func TestAssignMutatesNearestEnclosingBinding(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("x", NumberValue{Val: 1})
	inner := NewEnvironment(global)

	require.NoError(t, inner.Assign("x", NumberValue{Val: 9}))

	val, err := global.Get("x")
	require.NoError(t, err)
	require.Equal(t, NumberValue{Val: 9}, val)
	// Assignment does not create a binding in the inner scope.
	require.Empty(t, inner.Snapshot())
}

func TestAssignNeverCreatesBindings(t *testing.T) {
	env := NewEnvironment(NewEnvironment(nil))
	err := env.Assign("ghost", NilValue{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "undefined variable 'ghost'")
}

func TestTruthiness(t *testing.T) {
	require.False(t, Truthy(NilValue{}))
	require.False(t, Truthy(BoolValue{Val: false}))
	require.True(t, Truthy(BoolValue{Val: true}))
	require.True(t, Truthy(NumberValue{Val: 0}))
	require.True(t, Truthy(StringValue{Val: ""}))
	require.True(t, Truthy(&FunctionValue{Name: "f"}))
}

func TestEquality(t *testing.T) {
	require.True(t, Equal(NilValue{}, NilValue{}))
	require.False(t, Equal(NilValue{}, NumberValue{Val: 0}))
	require.True(t, Equal(NumberValue{Val: 2}, NumberValue{Val: 2}))
	require.False(t, Equal(NumberValue{Val: 2}, StringValue{Val: "2"}))
	require.True(t, Equal(StringValue{Val: "a"}, StringValue{Val: "a"}))
	require.False(t, Equal(BoolValue{Val: true}, NumberValue{Val: 1}))

	fn := &FunctionValue{Name: "f"}
	require.True(t, Equal(fn, fn))
	require.False(t, Equal(fn, &FunctionValue{Name: "f"}))
}

func TestNumberDisplayUsesShortestForm(t *testing.T) {
	require.Equal(t, "15", NumberValue{Val: 15}.Display())
	require.Equal(t, "3.14", NumberValue{Val: 3.14}.Display())
	require.Equal(t, "-0.5", NumberValue{Val: -0.5}.Display())
}

func TestFunctionDisplay(t *testing.T) {
	fn := &FunctionValue{Name: "add"}
	require.Equal(t, "<fn add>", fn.Display())
}
