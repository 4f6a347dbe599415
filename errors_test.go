package saltsearch

import (
	"errors"
	"testing"

	"github.com/hupe1980/saltsearch/experiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))

	plain := errors.New("boom")
	assert.Same(t, plain, translateError(plain))

	fe := &experiment.FieldError{Field: "executions", Value: 0, Reason: "must be at least 1"}
	err := translateError(fe)
	var ic *ErrInvalidConfig
	require.ErrorAs(t, err, &ic)
	assert.Equal(t, "executions", ic.Field)
	assert.ErrorIs(t, err, fe)
	assert.Contains(t, err.Error(), "must be at least 1")

	joined := translateError(errors.Join(fe, &experiment.FieldError{Field: "target", Value: `""`}))
	var got []string
	for _, e := range joined.(interface{ Unwrap() []error }).Unwrap() {
		require.ErrorAs(t, e, &ic)
		got = append(got, ic.Field)
	}
	assert.Equal(t, []string{"executions", "target"}, got)
}

func TestErrInvalidConfig_NoCause(t *testing.T) {
	err := &ErrInvalidConfig{Field: "format", Value: "xml"}
	assert.Equal(t, "invalid config format: xml", err.Error())
	assert.NoError(t, errors.Unwrap(err))
}
