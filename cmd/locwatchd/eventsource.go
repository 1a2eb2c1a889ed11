package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/kestrelfs/iosvault/internal/watcher"
)

// EventSource produces filesystem events for a Handler to consume. Schema
// v1's scope stops at the coalescing engine itself (spec.md §1/§6
// non-goals): locwatchd never talks to FSEvents or any other OS-level
// watch API directly, so this interface is the seam a real daemon would
// implement against, and JSONLinesEventSource is the only one this module
// ships (locwatchd reads it from stdin).
type EventSource interface {
	Next() (watcher.Event, error)
}

// jsonEvent is the wire shape for one line of JSONLinesEventSource input:
// {"kind": "modify_content", "paths": ["/a/b.txt"]}
type jsonEvent struct {
	Kind  string   `json:"kind"`
	Paths []string `json:"paths"`
}

var kindNames = map[string]watcher.Kind{
	"create_folder":       watcher.KindCreateFolder,
	"create_file":         watcher.KindCreateFile,
	"modify_content":      watcher.KindModifyContent,
	"modify_write_time":   watcher.KindModifyWriteTime,
	"modify_extended":     watcher.KindModifyExtended,
	"modify_metadata_any": watcher.KindModifyMetadataAny,
	"modify_name_any":     watcher.KindModifyNameAny,
	"other":               watcher.KindOther,
}

// JSONLinesEventSource reads one JSON-encoded event per line from r.
type JSONLinesEventSource struct {
	scanner *bufio.Scanner
}

// NewJSONLinesEventSource wraps r.
func NewJSONLinesEventSource(r io.Reader) *JSONLinesEventSource {
	return &JSONLinesEventSource{scanner: bufio.NewScanner(r)}
}

// Next returns the next event, or io.EOF once r is exhausted.
func (s *JSONLinesEventSource) Next() (watcher.Event, error) {
	for s.scanner.Scan() {
		line := s.scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var je jsonEvent
		if err := json.Unmarshal(line, &je); err != nil {
			return watcher.Event{}, fmt.Errorf("locwatchd: decode event line: %w", err)
		}

		kind, ok := kindNames[je.Kind]
		if !ok {
			return watcher.Event{}, fmt.Errorf("locwatchd: unknown event kind %q", je.Kind)
		}

		return watcher.Event{Kind: kind, Paths: je.Paths}, nil
	}

	if err := s.scanner.Err(); err != nil {
		return watcher.Event{}, fmt.Errorf("locwatchd: scan events: %w", err)
	}

	return watcher.Event{}, io.EOF
}
