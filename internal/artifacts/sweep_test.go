package artifacts

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/inkblot-io/inkblot/pkg/lifecycle"
	"github.com/inkblot-io/inkblot/pkg/storage"
)

func newSweepRepo(t *testing.T) (*repo, storage.System, string) {
	t.Helper()

	dir := t.TempDir()
	store, err := storage.New(&storage.Config{BasePath: dir}, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("storage.New() failed: %v", err)
	}

	lc := lifecycle.New()
	if err := store.Start(lc); err != nil {
		t.Fatalf("storage.Start() failed: %v", err)
	}
	lc.WaitForStartup()

	r := &repo{
		storage:   store,
		logger:    slog.New(slog.DiscardHandler),
		retention: time.Hour,
	}
	return r, store, dir
}

func ageBlob(t *testing.T, dir, key string) {
	t.Helper()

	old := time.Now().Add(-2 * time.Hour)
	path := filepath.Join(dir, filepath.FromSlash(key))
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("Chtimes() failed: %v", err)
	}
}

func TestReapOrphans_SkipsOwnedBlobs(t *testing.T) {
	r, store, dir := newSweepRepo(t)
	ctx := context.Background()

	ownedKey := "artifacts/doc-a/page-0.png"
	orphanKey := "artifacts/doc-b/page-0.png"
	store.Store(ctx, ownedKey, []byte("owned"))
	store.Store(ctx, orphanKey, []byte("orphan"))
	ageBlob(t, dir, ownedKey)
	ageBlob(t, dir, orphanKey)

	reaped := r.reapOrphans(ctx, time.Now().Add(-time.Hour), map[string]bool{ownedKey: true})

	if reaped != 1 {
		t.Errorf("reaped = %d, want 1", reaped)
	}

	if _, err := store.Retrieve(ctx, ownedKey); err != nil {
		t.Errorf("owned blob removed: %v", err)
	}

	if _, err := store.Retrieve(ctx, orphanKey); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("orphan blob error = %v, want ErrNotFound", err)
	}
}

func TestReapOrphans_FreshBlobsUntouched(t *testing.T) {
	r, store, dir := newSweepRepo(t)
	ctx := context.Background()

	agedKey := "artifacts/doc-a/old.png"
	freshKey := "artifacts/doc-a/new.png"
	store.Store(ctx, agedKey, []byte("old"))
	store.Store(ctx, freshKey, []byte("new"))
	ageBlob(t, dir, agedKey)

	reaped := r.reapOrphans(ctx, time.Now().Add(-time.Hour), nil)

	if reaped != 1 {
		t.Errorf("reaped = %d, want 1", reaped)
	}

	if _, err := store.Retrieve(ctx, freshKey); err != nil {
		t.Errorf("fresh blob removed: %v", err)
	}
}
