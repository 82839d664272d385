package perrors_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/waavs-go/pslang/perrors"
)

func TestErrorMessageIncludesKindAndOp(t *testing.T) {
	err := perrors.New(perrors.TypeCheck, "add")
	assert.Equal(t, "typecheck in add", err.Error())
}

func TestNewfFormatsMessage(t *testing.T) {
	err := perrors.Newf(perrors.IOError, "file", "open %s failed", "a.ps")
	assert.Equal(t, "ioerror in file: open a.ps failed", err.Error())
}

func TestWithOperandsAppendsStack(t *testing.T) {
	err := perrors.New(perrors.RangeCheck, "get").WithOperands([]string{"1", "(abc)"})
	assert.Equal(t, "rangecheck in get operand stack: 1 (abc)", err.Error())
}

func TestAsMatchesKind(t *testing.T) {
	var err error = perrors.New(perrors.Undefined, "x")
	assert.True(t, perrors.As(err, perrors.Undefined))
	assert.False(t, perrors.As(err, perrors.TypeCheck))
}

func TestAsFalseForNonPSError(t *testing.T) {
	assert.False(t, perrors.As(assert.AnError, perrors.TypeCheck))
}
