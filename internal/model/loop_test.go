package model_test

import (
	"testing"

	"github.com/boundedmc/bmc/internal/model"
	"github.com/stretchr/testify/require"
)

func TestParseLoopSentinels(t *testing.T) {
	t.Parallel()

	l, err := model.ParseLoop("X", 10)
	require.NoError(t, err)
	require.Equal(t, model.NoLoop, l)

	l, err = model.ParseLoop("*", 10)
	require.NoError(t, err)
	require.Equal(t, model.AllLoops, l)
}

func TestParseLoopAbsoluteAndRelative(t *testing.T) {
	t.Parallel()

	l, err := model.ParseLoop("3", 10)
	require.NoError(t, err)
	require.EqualValues(t, 3, l)

	l, err = model.ParseLoop("-1", 10)
	require.NoError(t, err)
	require.EqualValues(t, 9, l, "negative values are relative to k: l_abs = k + l_rel")
}

func TestParseLoopOutOfRange(t *testing.T) {
	t.Parallel()

	_, err := model.ParseLoop("10", 10)
	require.Error(t, err)

	_, err = model.ParseLoop("-11", 10)
	require.Error(t, err)
}

func TestParseLoopInvalidString(t *testing.T) {
	t.Parallel()

	_, err := model.ParseLoop("not-a-number", 10)
	require.Error(t, err)
}
