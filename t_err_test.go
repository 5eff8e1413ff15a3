package sqlb

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Benchmark_errf(b *testing.B) {
	for range b.N {
		_ = errf(`error %v`, `message`)
	}
}

func TestErr_formatting(t *testing.T) {
	test := func(src Err, exp string) {
		t.Helper()
		assert.Equal(t, exp, src.Error())
		assert.Equal(t, exp, fmt.Sprintf(`%v`, src))
	}

	test(Err{}, ``)
	test(Err{While: `doing some operation`}, `[sqlb] error while doing some operation`)
	test(Err{Cause: errors.New(`some cause`)}, `[sqlb] error: some cause`)

	test(
		Err{Code: ErrCodeMissingArgument, While: `doing some operation`, Cause: errors.New(`some cause`)},
		`[sqlb] MissingArgument while doing some operation: some cause`,
	)
}

func TestErr_Is(t *testing.T) {
	assert.True(t, errors.Is(ErrInvalidInput, ErrInvalidInput))
	assert.False(t, errors.Is(ErrInvalidInput, ErrMissingArgument))

	err := errInvalidInput(`parsing`, io.ErrUnexpectedEOF)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.False(t, errors.Is(err, ErrUnknownField))

	wrapped := fmt.Errorf(`outer: %w`, errMissingNamed(`one`))
	assert.True(t, errors.Is(wrapped, ErrMissingArgument))
	assert.Contains(t, wrapped.Error(), `missing named argument "one"`)

	var target Err
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, ErrCodeMissingArgument, target.Code)
}

func TestErr_helpers(t *testing.T) {
	assert.Equal(
		t,
		`[sqlb] OrdinalOutOfBounds while rendering: ordinal parameter $3 exceeds argument count 2`,
		errOrdinalOutOfBounds(`rendering`, 3, 2).Error(),
	)

	assert.Equal(
		t,
		`[sqlb] UnusedArgument while building SQL expression: unused ordinal argument "$2" (index 1)`,
		errUnusedOrdinal(2).Error(),
	)

	assert.Equal(
		t,
		`[sqlb] UnknownField while scanning: no DB field corresponding to "email" in type sqlb.Person`,
		errUnknownField(`scanning`, `email`, `sqlb.Person`).Error(),
	)
}
