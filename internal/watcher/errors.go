package watcher

import "errors"

// errEmptyEvent guards the §6 contract that paths is always non-empty;
// seeing it means an upstream event source is broken, not something the
// coalescer can recover from.
var errEmptyEvent = errors.New("watcher: event has no paths")
