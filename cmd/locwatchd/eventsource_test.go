package main

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kestrelfs/iosvault/internal/watcher"
)

func TestJSONLinesEventSourceDecodesKnownKinds(t *testing.T) {
	t.Parallel()

	input := strings.NewReader(`
{"kind":"create_file","paths":["/root/a"]}
{"kind":"modify_content","paths":["/root/a"]}
`)

	src := NewJSONLinesEventSource(input)

	first, err := src.Next()
	require.NoError(t, err)
	require.Equal(t, watcher.KindCreateFile, first.Kind)
	require.Equal(t, []string{"/root/a"}, first.Paths)

	second, err := src.Next()
	require.NoError(t, err)
	require.Equal(t, watcher.KindModifyContent, second.Kind)

	_, err = src.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestJSONLinesEventSourceRejectsUnknownKind(t *testing.T) {
	t.Parallel()

	src := NewJSONLinesEventSource(strings.NewReader(`{"kind":"bogus","paths":["/x"]}` + "\n"))

	_, err := src.Next()
	require.Error(t, err)
}
