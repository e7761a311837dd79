package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/po-extract/internal/common"
	"github.com/joseph-ayodele/po-extract/internal/entity"
	"github.com/joseph-ayodele/po-extract/internal/pipeline"
)

type fakeProcessor struct {
	mu   sync.Mutex
	seen []string
}

func (f *fakeProcessor) ProcessFile(_ context.Context, path string, _ bool) (pipeline.Outcome, error) {
	f.mu.Lock()
	f.seen = append(f.seen, filepath.Base(path))
	f.mu.Unlock()
	switch filepath.Base(path) {
	case "broken.pdf":
		return pipeline.Outcome{}, errors.New("corrupt pdf")
	case "dup.txt":
		return pipeline.Outcome{RunID: uuid.New(), Reused: true, Result: entity.ParseResult{Items: []entity.LineItem{{Description: "x"}}}}, nil
	case "empty.xlsx":
		return pipeline.Outcome{RunID: uuid.New(), NeedsReview: true}, nil
	}
	return pipeline.Outcome{RunID: uuid.New()}, nil
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
}

func TestAllowedExtAndHidden(t *testing.T) {
	assert.True(t, AllowedExt(".PDF"))
	assert.True(t, AllowedExt("xlsm"))
	assert.True(t, AllowedExt(".xls"))
	assert.False(t, AllowedExt(".png"))
	assert.False(t, AllowedExt(""))

	assert.True(t, IsHidden("/tmp/.cache"))
	assert.False(t, IsHidden("/tmp/po.pdf"))
	assert.False(t, IsHidden("."))
}

func TestProcessDirectory(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.pdf"))
	touch(t, filepath.Join(root, "sub", "dup.txt"))
	touch(t, filepath.Join(root, "sub", "empty.xlsx"))
	touch(t, filepath.Join(root, "broken.pdf"))
	touch(t, filepath.Join(root, "notes.docx"))
	touch(t, filepath.Join(root, ".hidden", "secret.pdf"))

	proc := &fakeProcessor{}
	results, stats, err := ProcessDirectory(context.Background(), proc, root, true, false, nil)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"a.pdf", "dup.txt", "empty.xlsx", "broken.pdf"}, proc.seen)
	assert.Len(t, results, 4)
	assert.Equal(t, uint32(4), stats.Matched)
	assert.Equal(t, uint32(3), stats.Succeeded)
	assert.Equal(t, uint32(1), stats.Failed)
	assert.Equal(t, uint32(1), stats.Reused)
	assert.Equal(t, uint32(1), stats.NeedsReview)

	for _, r := range results {
		if filepath.Base(r.Path) == "broken.pdf" {
			assert.Equal(t, "corrupt pdf", r.Err)
		}
		if filepath.Base(r.Path) == "dup.txt" {
			assert.Equal(t, 1, r.Items)
		}
	}
}

func TestWalk(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "b.xls"))
	touch(t, filepath.Join(root, "a", "po.txt"))
	touch(t, filepath.Join(root, "readme.md"))
	touch(t, filepath.Join(root, ".git", "x.pdf"))

	paths, err := Walk(root, true)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a", "po.txt"), filepath.Join(root, "b.xls")}, paths)

	_, err = Walk(filepath.Join(root, "missing"), true)
	assert.Error(t, err)
}

func TestProcessDirectory_IncludesHiddenWhenAsked(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, ".hidden", "secret.pdf"))

	proc := &fakeProcessor{}
	_, stats, err := ProcessDirectory(context.Background(), proc, root, false, false, nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), stats.Matched)
}

func TestProcessDirectory_RequiresRoot(t *testing.T) {
	_, _, err := ProcessDirectory(context.Background(), &fakeProcessor{}, "  ", true, false, nil)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestStartWatcher_RequiresRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{})
	assert.Error(t, err)
}

func TestStartWatcher_InitialScanAndEvents(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "existing.pdf"))
	touch(t, filepath.Join(root, "ignore.png"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := StartWatcher(ctx, WatchConfig{
		Roots:       []string{root},
		InitialScan: true,
		Debounce:    20 * time.Millisecond,
	})
	require.NoError(t, err)

	select {
	case p := <-events:
		assert.Equal(t, "existing.pdf", filepath.Base(p))
	case <-time.After(2 * time.Second):
		t.Fatal("initial scan did not emit existing file")
	}

	touch(t, filepath.Join(root, "new.txt"))
	select {
	case p := <-events:
		assert.Equal(t, "new.txt", filepath.Base(p))
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not emit new file")
	}

	cancel()
	require.Eventually(t, func() bool {
		_, ok := <-events
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
}
