package librarybridge_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/kestrelfs/iosvault/internal/fs"
	"github.com/kestrelfs/iosvault/internal/librarybridge"
)

const testLocation int64 = 1

func TestCreateFileThenExtractInode(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	bridge := librarybridge.NewInMemory(map[int64]string{testLocation: "/root"})

	info := fs.FakeInfo{NameVal: "a", InodeVal: 7}
	require.NoError(t, bridge.CreateFile(ctx, testLocation, "/root/a", info))

	inode, err := bridge.ExtractInodeFromPath(ctx, testLocation, "/root/a")
	require.NoError(t, err)
	require.Equal(t, uint64(7), inode)
}

func TestRenamePreservesInodeIdentity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	bridge := librarybridge.NewInMemory(map[int64]string{testLocation: "/root"})

	info := fs.FakeInfo{NameVal: "a", InodeVal: 7}
	require.NoError(t, bridge.CreateFile(ctx, testLocation, "/root/a", info))

	before, err := bridge.ExtractInodeFromPath(ctx, testLocation, "/root/a")
	require.NoError(t, err)

	require.NoError(t, bridge.Rename(ctx, testLocation, "/root/b", "/root/a", fs.FakeInfo{NameVal: "b", InodeVal: 7}))

	after, err := bridge.ExtractInodeFromPath(ctx, testLocation, "/root/b")
	require.NoError(t, err)

	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("inode changed across rename (-before +after):\n%s", diff)
	}

	_, err = bridge.ExtractInodeFromPath(ctx, testLocation, "/root/a")
	require.ErrorIs(t, err, librarybridge.ErrPathNotTracked)
}

func TestRenameFolderNameJoinsNewNameUnderOldParent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	bridge := librarybridge.NewInMemory(map[int64]string{testLocation: "/root"})

	require.NoError(t, bridge.CreateDir(ctx, testLocation, "/root/old-name", fs.FakeInfo{NameVal: "old-name", InodeVal: 3, ModeVal: os.ModeDir}))

	require.NoError(t, bridge.RenameFolderName(ctx, testLocation, 3, "new-name"))

	exists, err := bridge.CheckFilePathExists(ctx, testLocation, "/root/new-name", true)
	require.NoError(t, err)
	require.True(t, exists)

	stillOld, err := bridge.CheckFilePathExists(ctx, testLocation, "/root/old-name", true)
	require.NoError(t, err)
	require.False(t, stillOld)
}
