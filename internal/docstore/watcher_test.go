package docstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_Unavailable(t *testing.T) {
	store := New(Options{Platform: "linux", HomeDir: t.TempDir()})

	events, err := store.NewWatcher().Watch(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Nil(t, events)
}

func TestWatch_ReportsDocumentChanges(t *testing.T) {
	store := New(Options{Platform: "darwin", HomeDir: newICloudHome(t)})
	dir, ok := store.ResolveContainer()
	require.True(t, ok)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := store.NewWatcher()
	w.SetDebounceTime(20 * time.Millisecond)
	events, err := w.Watch(ctx)
	require.NoError(t, err)

	// Written by "another device"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "subly-sync.json"), []byte("{}"), 0o644))

	select {
	case ev := <-events:
		assert.Equal(t, "subly-sync.json", ev.Name)
		assert.Contains(t, []Op{OpCreated, OpWritten}, ev.Op)
	case <-time.After(5 * time.Second):
		t.Fatal("no document event received")
	}

	cancel()
	require.Eventually(t, func() bool {
		_, open := <-events
		return !open
	}, 5*time.Second, 10*time.Millisecond)
}

func TestTranslateOp(t *testing.T) {
	tests := []struct {
		in   fsnotify.Op
		want Op
		keep bool
	}{
		{fsnotify.Create, OpCreated, true},
		{fsnotify.Write, OpWritten, true},
		{fsnotify.Create | fsnotify.Write, OpWritten, true},
		{fsnotify.Remove, OpRemoved, true},
		{fsnotify.Rename, OpRenamed, true},
		{fsnotify.Chmod, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			got, keep := translateOp(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.keep, keep)
		})
	}
}
