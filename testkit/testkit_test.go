package testkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recoverValue(t *testing.T, fn func()) any {
	t.Helper()
	var recovered any
	func() {
		defer func() { recovered = recover() }()
		fn()
	}()
	return recovered
}

func TestAssertPanicsOnFalse(t *testing.T) {
	assert.Nil(t, recoverValue(t, func() { Assert(true, "fine") }))

	r := recoverValue(t, func() { Assert(false, "broken") })
	failure, ok := r.(*AssertionError)
	require.True(t, ok, "expected *AssertionError, got %T", r)
	assert.Equal(t, "broken", failure.Error())
}

func TestAssertfFormatsMessage(t *testing.T) {
	r := recoverValue(t, func() { Assertf(false, "want %d, got %d", 1, 2) })
	failure, ok := r.(*AssertionError)
	require.True(t, ok)
	assert.Equal(t, "want 1, got 2", failure.Msg)
}

func TestEqual(t *testing.T) {
	assert.Nil(t, recoverValue(t, func() { Equal([]int{1, 2}, []int{1, 2}) }))

	r := recoverValue(t, func() { Equal(1, 2) })
	failure, ok := r.(*AssertionError)
	require.True(t, ok)
	assert.Contains(t, failure.Msg, "not equal")
}

func TestSkipNow(t *testing.T) {
	r := recoverValue(t, func() { SkipNow("maintenance window") })
	sk, ok := r.(*SkipError)
	require.True(t, ok)
	assert.Equal(t, "SkipTest: maintenance window", sk.Error())
}

func TestSkipMarkerCarriesReason(t *testing.T) {
	marked := Skip("flaky")
	r := recoverValue(t, func() { marked() })
	sk, ok := r.(*SkipError)
	require.True(t, ok)
	assert.Equal(t, "flaky", sk.Reason)
}

func TestSymbolsExported(t *testing.T) {
	pkg, ok := Symbols["github.com/ethereum-optimism/infra/op-harness/testkit/testkit"]
	require.True(t, ok)
	for _, name := range []string{"Skip", "SkipNow", "Assert", "Assertf", "Equal", "Fail"} {
		assert.Contains(t, pkg, name)
	}
}
