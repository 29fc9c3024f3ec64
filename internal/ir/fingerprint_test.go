package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFragmentFingerprint_Stable(t *testing.T) {
	sql := "SUM(CASE WHEN (\"stat_type\" = ?) THEN \"count\" ELSE 0 END)"
	params := []any{"a"}

	first, err := FragmentFingerprint(sql, params)
	require.NoError(t, err)
	second, err := FragmentFingerprint(sql, params)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64) // hex-encoded SHA-256
}

func TestFragmentFingerprint_SensitiveToParams(t *testing.T) {
	sql := "COUNT(CASE WHEN (\"x\" = ?) THEN 1 ELSE NULL END)"

	a := MustFragmentFingerprint(sql, []any{"a"})
	b := MustFragmentFingerprint(sql, []any{"b"})
	assert.NotEqual(t, a, b)

	// Param order matters: positional binding means [a b] != [b a].
	ab := MustFragmentFingerprint(sql, []any{"a", "b"})
	ba := MustFragmentFingerprint(sql, []any{"b", "a"})
	assert.NotEqual(t, ab, ba)
}

func TestFragmentFingerprint_RejectsFloatParams(t *testing.T) {
	_, err := FragmentFingerprint("SELECT 1", []any{1.5})
	require.Error(t, err)
}

func TestRunFingerprint_DomainSeparated(t *testing.T) {
	frag := MustFragmentFingerprint("SELECT 1", nil)
	run := RunFingerprint("monthly", frag)
	assert.Len(t, run, 64)
	assert.NotEqual(t, frag, run)
	assert.Equal(t, run, RunFingerprint("monthly", frag))
	assert.NotEqual(t, run, RunFingerprint("weekly", frag))
}
