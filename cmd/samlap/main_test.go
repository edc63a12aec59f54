package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	root := newRootCommand()

	cmd, _, err := root.Find([]string{"jobs", "trigger"})
	require.NoError(t, err)
	assert.Equal(t, "trigger", cmd.Name())
	assert.NotNil(t, cmd.Flags().Lookup("keep-cache"))
	assert.NotNil(t, cmd.InheritedFlags().Lookup("json"))

	cmd, _, err = root.Find([]string{"jobs", "stats"})
	require.NoError(t, err)
	assert.Equal(t, "stats", cmd.Name())
}

func TestStatsRejectsArguments(t *testing.T) {
	root := newRootCommand()
	root.SetArgs([]string{"jobs", "stats", "extra"})
	assert.Error(t, root.Execute())
}

func TestExitCodeUnwraps(t *testing.T) {
	err := error(exitCode(2))
	var code exitCode
	require.True(t, errors.As(err, &code))
	assert.Equal(t, exitCode(2), code)
	assert.Equal(t, "exit status 2", err.Error())
}
