package parley_test

import (
	"testing"

	"github.com/fwojciec/parley"
	"github.com/stretchr/testify/assert"
)

func TestExecutorFunc_Post(t *testing.T) {
	t.Parallel()
	var ran bool
	var e parley.Executor = parley.ExecutorFunc(func(fn func()) { fn() })
	e.Post(func() { ran = true })
	assert.True(t, ran)
}
