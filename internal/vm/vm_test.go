package vm_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waavs-go/pslang/internal/name"
	"github.com/waavs-go/pslang/internal/object"
	"github.com/waavs-go/pslang/internal/vm"
)

func run(t *testing.T, src string) *vm.VM {
	t.Helper()
	m := vm.New()
	var out strings.Builder
	m.Out = &out
	err := m.RunSource([]byte(src))
	require.NoError(t, err, "output so far: %s", out.String())
	return m
}

func TestArithmetic(t *testing.T) {
	m := run(t, "1 2 add")
	require.Len(t, m.Operand, 1)
	assert.Equal(t, int32(3), m.Operand[0].Int)
}

func TestDefAndLookup(t *testing.T) {
	var out strings.Builder
	m := vm.New()
	m.Out = &out
	require.NoError(t, m.RunSource([]byte("/x 42 def x")))
	require.Len(t, m.Operand, 1)
	assert.Equal(t, int32(42), m.Operand[0].Int)
}

func TestForLoopAccumulatesViaPrint(t *testing.T) {
	var out strings.Builder
	m := vm.New()
	m.Out = &out
	require.NoError(t, m.RunSource([]byte("0 1 3 { = } for")))
	assert.Equal(t, "0\n1\n2\n3\n", out.String())
}

func TestStoppedCatchesStop(t *testing.T) {
	var out strings.Builder
	m := vm.New()
	m.Out = &out
	require.NoError(t, m.RunSource([]byte("{ 1 stop 2 } stopped =")))
	// "2" never pushed, "stopped" leaves a boolean true on the stack,
	// consumed by "=".
	assert.Equal(t, "true\n", out.String())
	assert.Len(t, m.Operand, 1) // the "1" pushed before "stop" remains
	assert.Equal(t, int32(1), m.Operand[0].Int)
}

func TestKnownOnUserDict(t *testing.T) {
	var out strings.Builder
	m := vm.New()
	m.Out = &out
	require.NoError(t, m.RunSource([]byte("/x 1 def currentdict /x known =")))
	assert.Equal(t, "true\n", out.String())
}

func TestArrayRoll(t *testing.T) {
	m := run(t, "1 2 3 3 1 roll")
	require.Len(t, m.Operand, 3)
	assert.Equal(t, int32(3), m.Operand[0].Int)
	assert.Equal(t, int32(1), m.Operand[1].Int)
	assert.Equal(t, int32(2), m.Operand[2].Int)
}

func TestDictBeginEnd(t *testing.T) {
	m := run(t, "/d 4 dict def d begin /y 7 def end d /y get")
	require.Len(t, m.Operand, 1)
	assert.Equal(t, int32(7), m.Operand[0].Int)
}

func TestStringWidthWithoutSinkFailsGracefully(t *testing.T) {
	m := vm.New()
	var out strings.Builder
	m.Out = &out
	require.NoError(t, m.RunSource([]byte("(hi) stringwidth")))
	assert.True(t, m.Stopped(), "stringwidth without a Sink must raise ioerror, not panic")
}

func TestPathBBoxOfRectangle(t *testing.T) {
	m := run(t, "newpath 10 10 moveto 0 90 rlineto 90 0 rlineto 0 -90 rlineto closepath pathbbox")
	require.Len(t, m.Operand, 4)
	x0, ok := m.Operand[0].AsReal()
	require.True(t, ok)
	y0, ok := m.Operand[1].AsReal()
	require.True(t, ok)
	x1, ok := m.Operand[2].AsReal()
	require.True(t, ok)
	y1, ok := m.Operand[3].AsReal()
	require.True(t, ok)
	assert.Equal(t, float64(10), x0)
	assert.Equal(t, float64(10), y0)
	assert.Equal(t, float64(100), x1)
	assert.Equal(t, float64(100), y1)
}

func TestSaveRestoreUnwindsDictStack(t *testing.T) {
	m := vm.New()
	var out strings.Builder
	m.Out = &out
	src := "/s save def /d 2 dict def d begin /x 1 def countdictstack s restore countdictstack"
	require.NoError(t, m.RunSource([]byte(src)))
	require.Len(t, m.Operand, 2)
	withBegin := m.Operand[0].Int
	afterRestore := m.Operand[1].Int
	assert.Equal(t, withBegin-1, afterRestore, "restore must pop the dict frame pushed by the unmatched begin")
}

func TestUnhandledErrorRecordsErrorState(t *testing.T) {
	m := vm.New()
	var out strings.Builder
	m.Out = &out
	require.NoError(t, m.RunSource([]byte("(not a number) 1 add")))
	gotNewError, ok := m.ErrorState.Get(name.Intern("newerror"))
	require.True(t, ok)
	assert.Equal(t, true, gotNewError.Bool)
	assert.True(t, m.Stopped(), "an unhandled error routed to its default errordict entry requests a stop")
}

func TestTraceRecordsOperatorNames(t *testing.T) {
	m := vm.New()
	var out, trace strings.Builder
	m.Out = &out
	m.Trace = &trace
	require.NoError(t, m.RunSource([]byte("1 2 add")))
	assert.Contains(t, trace.String(), "add")
}

func TestFormatRoundTrip(t *testing.T) {
	m := run(t, "3.5")
	require.Len(t, m.Operand, 1)
	assert.Equal(t, "3.5", object.Format(m.Operand[0]))
}
