package docstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newICloudHome creates a home directory with iCloud Drive enabled
func newICloudHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	root, _ := syncRootPath("darwin", home)
	require.NoError(t, os.MkdirAll(root, 0o755))
	return home
}

func TestResolveContainer(t *testing.T) {
	home := newICloudHome(t)
	store := New(Options{Platform: "darwin", HomeDir: home})

	dir, ok := store.ResolveContainer()
	require.True(t, ok)
	assert.Equal(t, filepath.Join(home, "Library", "Mobile Documents", "com~apple~CloudDocs", "Subly"), dir)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestResolveContainer_SyncRootMissing(t *testing.T) {
	home := t.TempDir()
	store := New(Options{Platform: "darwin", HomeDir: home})

	dir, ok := store.ResolveContainer()
	assert.False(t, ok)
	assert.Empty(t, dir)

	_, err := os.Stat(filepath.Join(home, "Library"))
	assert.True(t, os.IsNotExist(err), "resolution must not create the sync root")
}

func TestResolveContainer_FolderCannotBeCreated(t *testing.T) {
	home := newICloudHome(t)
	root, _ := syncRootPath("darwin", home)
	// A regular file where the app folder should be
	require.NoError(t, os.WriteFile(filepath.Join(root, AppFolder), []byte("x"), 0o644))

	_, ok := New(Options{Platform: "darwin", HomeDir: home}).ResolveContainer()
	assert.False(t, ok)
}

func TestResolveContainer_ReflectsLaterChanges(t *testing.T) {
	home := t.TempDir()
	store := New(Options{Platform: "darwin", HomeDir: home})

	_, ok := store.ResolveContainer()
	require.False(t, ok)

	root, _ := syncRootPath("darwin", home)
	require.NoError(t, os.MkdirAll(root, 0o755))

	_, ok = store.ResolveContainer()
	assert.True(t, ok, "enabling the sync service must be picked up without restart")
}

func TestUnsupportedPlatform(t *testing.T) {
	for _, platform := range []string{"linux", "windows", "android", "freebsd"} {
		t.Run(platform, func(t *testing.T) {
			// Even with a macOS-shaped home the convention does not apply
			store := New(Options{Platform: platform, HomeDir: newICloudHome(t)})

			_, ok := store.ResolveContainer()
			assert.False(t, ok)

			for _, name := range []string{"a.json", "missing.json", "", "../x"} {
				err := store.Write(name, "x")
				assert.ErrorIs(t, err, ErrUnavailable)

				contents, found, err := store.Read(name)
				assert.ErrorIs(t, err, ErrUnavailable)
				assert.False(t, found)
				assert.Empty(t, contents)
			}
		})
	}
}

func TestReadMissingDocument(t *testing.T) {
	store := New(Options{Platform: "darwin", HomeDir: newICloudHome(t)})

	contents, found, err := store.Read("missing.json")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, contents)
}

func TestWriteReadRoundTrip(t *testing.T) {
	store := New(Options{Platform: "darwin", HomeDir: newICloudHome(t)})

	require.NoError(t, store.Write("a.json", "x"))

	contents, found, err := store.Read("a.json")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "x", contents)

	// Last writer wins
	require.NoError(t, store.Write("a.json", `{"v":2}`))
	contents, _, err = store.Read("a.json")
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, contents)
}

func TestUnavailableDiffersFromAbsent(t *testing.T) {
	unavailable := New(Options{Platform: "darwin", HomeDir: t.TempDir()})
	available := New(Options{Platform: "darwin", HomeDir: newICloudHome(t)})

	_, _, errUnavailable := unavailable.Read("doc.json")
	_, found, errAbsent := available.Read("doc.json")

	assert.ErrorIs(t, errUnavailable, ErrUnavailable)
	assert.NoError(t, errAbsent)
	assert.False(t, found)
}

func TestWrite_FilesystemErrorIsReturned(t *testing.T) {
	store := New(Options{Platform: "darwin", HomeDir: newICloudHome(t)})

	err := store.Write(filepath.Join("no-such-dir", "a.json"), "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnavailable)
	assert.True(t, os.IsNotExist(err))
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("darwin"))
	assert.False(t, Supported("linux"))
	assert.False(t, Supported("windows"))
}
