package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunUnknownCommand(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer

	code := run([]string{"headerctl", "bogus"}, &out, &errOut)
	require.Equal(t, 1, code)
	require.Contains(t, errOut.String(), "unknown command")
}

func TestRunNoArgsPrintsUsage(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer

	code := run([]string{"headerctl"}, &out, &errOut)
	require.Equal(t, 1, code)
	require.Contains(t, out.String(), "Usage: headerctl")
}

func TestCreateRequiresFileFlag(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer

	code := run([]string{"headerctl", "create"}, &out, &errOut)
	require.Equal(t, 1, code)
	require.Contains(t, errOut.String(), "--file is required")
}

func TestInspectRequiresFileFlag(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer

	code := run([]string{"headerctl", "inspect"}, &out, &errOut)
	require.Equal(t, 1, code)
	require.Contains(t, errOut.String(), "--file is required")
}
