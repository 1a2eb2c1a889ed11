package watcher_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kestrelfs/iosvault/internal/fs"
	"github.com/kestrelfs/iosvault/internal/librarybridge"
	"github.com/kestrelfs/iosvault/internal/watcher"
)

const testLocationID int64 = 1

func newTestHandler(t *testing.T) (*watcher.Handler, *fs.Fake, *librarybridge.InMemory, *watcher.FakeClock) {
	t.Helper()

	clock := watcher.NewFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	fakeFS := fs.NewFake()
	bridge := librarybridge.NewInMemory(map[int64]string{testLocationID: "/root"})
	h := watcher.New(testLocationID, bridge, fakeFS, clock, nil)

	return h, fakeFS, bridge, clock
}

func drainInvalidations(bridge *librarybridge.InMemory) int {
	count := 0

	for {
		select {
		case <-bridge.Invalidations():
			count++
		default:
			return count
		}
	}
}

// Scenario 1 (spec.md §8): burst write collapses to exactly one update.
func TestBurstWriteCoalescesToSingleUpdate(t *testing.T) {
	t.Parallel()

	h, fakeFS, bridge, clock := newTestHandler(t)
	ctx := context.Background()

	fakeFS.SetStat("/root/a", fs.FakeInfo{NameVal: "a", InodeVal: 1})

	require.NoError(t, bridge.CreateFile(ctx, testLocationID, "/root/a", fs.FakeInfo{NameVal: "a", InodeVal: 1}))

	require.NoError(t, h.HandleEvent(ctx, watcher.Event{Kind: watcher.KindCreateFile, Paths: []string{"/root/a"}}))
	clock.Advance(50 * time.Millisecond)
	require.NoError(t, h.HandleEvent(ctx, watcher.Event{Kind: watcher.KindModifyContent, Paths: []string{"/root/a"}}))
	clock.Advance(50 * time.Millisecond)
	require.NoError(t, h.HandleEvent(ctx, watcher.Event{Kind: watcher.KindModifyContent, Paths: []string{"/root/a"}}))

	for i := 0; i < 6; i++ {
		clock.Advance(100 * time.Millisecond)
		h.Tick(ctx)
	}

	require.Equal(t, 1, drainInvalidations(bridge))
}

// Scenario 2 (spec.md §8): rename pairing, new half arrives first.
func TestRenameNewFirst(t *testing.T) {
	t.Parallel()

	h, fakeFS, bridge, clock := newTestHandler(t)
	ctx := context.Background()

	fakeFS.SetStat("/root/dst", fs.FakeInfo{NameVal: "dst", InodeVal: 42})
	require.NoError(t, bridge.CreateFile(ctx, testLocationID, "/root/src", fs.FakeInfo{NameVal: "src", InodeVal: 42}))
	fakeFS.Remove("/root/src") // filesystem no longer has it

	require.NoError(t, h.HandleEvent(ctx, watcher.Event{Kind: watcher.KindOther, Paths: []string{"/root/dst"}}))

	clock.Advance(30 * time.Millisecond)

	require.NoError(t, h.HandleEvent(ctx, watcher.Event{Kind: watcher.KindOther, Paths: []string{"/root/src"}}))

	exists, err := bridge.CheckFilePathExists(ctx, testLocationID, "/root/dst", false)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = bridge.CheckFilePathExists(ctx, testLocationID, "/root/src", false)
	require.NoError(t, err)
	require.False(t, exists)
}

// Scenario 3 (spec.md §8): rename pairing, old half arrives first.
func TestRenameOldFirst(t *testing.T) {
	t.Parallel()

	h, fakeFS, bridge, clock := newTestHandler(t)
	ctx := context.Background()

	require.NoError(t, bridge.CreateFile(ctx, testLocationID, "/root/src", fs.FakeInfo{NameVal: "src", InodeVal: 42}))
	fakeFS.SetStat("/root/dst", fs.FakeInfo{NameVal: "dst", InodeVal: 42})

	require.NoError(t, h.HandleEvent(ctx, watcher.Event{Kind: watcher.KindOther, Paths: []string{"/root/src"}}))

	clock.Advance(30 * time.Millisecond)

	require.NoError(t, h.HandleEvent(ctx, watcher.Event{Kind: watcher.KindOther, Paths: []string{"/root/dst"}}))

	exists, err := bridge.CheckFilePathExists(ctx, testLocationID, "/root/dst", false)
	require.NoError(t, err)
	require.True(t, exists)
}

// Scenario 4 (spec.md §8): unpaired new half becomes a genuine creation.
func TestUnpairedNewHalfBecomesCreate(t *testing.T) {
	t.Parallel()

	h, fakeFS, bridge, clock := newTestHandler(t)
	ctx := context.Background()

	fakeFS.SetStat("/root/dst", fs.FakeInfo{NameVal: "dst", InodeVal: 42})

	require.NoError(t, h.HandleEvent(ctx, watcher.Event{Kind: watcher.KindOther, Paths: []string{"/root/dst"}}))

	clock.Advance(150 * time.Millisecond)
	h.Tick(ctx)

	exists, err := bridge.CheckFilePathExists(ctx, testLocationID, "/root/dst", false)
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, 1, drainInvalidations(bridge))
}

// Scenario 5 (spec.md §8): a file written every 200ms for 12s still gets its
// first update between 10.0s and 10.2s after the first event fired.
func TestLongWriteEvictsViaReincidentWindow(t *testing.T) {
	t.Parallel()

	h, fakeFS, bridge, clock := newTestHandler(t)
	ctx := context.Background()

	fakeFS.SetStat("/root/db", fs.FakeInfo{NameVal: "db", InodeVal: 7})
	require.NoError(t, bridge.CreateFile(ctx, testLocationID, "/root/db", fs.FakeInfo{NameVal: "db", InodeVal: 7}))

	elapsed := time.Duration(0)
	invalidations := 0
	firstUpdateAt := time.Duration(-1)

	for elapsed < 12*time.Second {
		require.NoError(t, h.HandleEvent(ctx, watcher.Event{Kind: watcher.KindModifyContent, Paths: []string{"/root/db"}}))
		clock.Advance(200 * time.Millisecond)
		elapsed += 200 * time.Millisecond
		h.Tick(ctx)

		n := drainInvalidations(bridge)
		if n > 0 && firstUpdateAt < 0 {
			firstUpdateAt = elapsed
		}

		invalidations += n
	}

	require.GreaterOrEqual(t, invalidations, 1)
	require.GreaterOrEqual(t, firstUpdateAt, 10*time.Second)
	require.LessOrEqual(t, firstUpdateAt, 10*time.Second+200*time.Millisecond)
}

// Scenario 6 (spec.md §8): iOS delete signal removes in-event.
func TestDeleteSignalRemovesImmediately(t *testing.T) {
	t.Parallel()

	h, _, bridge, _ := newTestHandler(t)
	ctx := context.Background()

	require.NoError(t, bridge.CreateFile(ctx, testLocationID, "/root/gone", fs.FakeInfo{NameVal: "gone", InodeVal: 9}))

	require.NoError(t, h.HandleEvent(ctx, watcher.Event{Kind: watcher.KindModifyMetadataAny, Paths: []string{"/root/gone"}}))

	exists, err := bridge.CheckFilePathExists(ctx, testLocationID, "/root/gone", false)
	require.NoError(t, err)
	require.False(t, exists)
}
