package sink

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// DIRECTORY SINK
// =============================================================================

func TestDirSink_Deliver(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	s := NewDirSink(dir, zerolog.Nop())

	err := s.Deliver(context.Background(), []byte("a,b"), "loans_2024-03-01.csv", "text/csv;charset=utf-8;")
	require.NoError(t, err)

	body, err := os.ReadFile(filepath.Join(dir, "loans_2024-03-01.csv"))
	require.NoError(t, err)
	assert.Equal(t, "a,b", string(body))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary files left behind")
}

func TestDirSink_OverwritesAndStripsPaths(t *testing.T) {
	dir := t.TempDir()
	s := NewDirSink(dir, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, s.Deliver(ctx, []byte("one"), "../escape.txt", "text/plain"))
	require.NoError(t, s.Deliver(ctx, []byte("two"), "../escape.txt", "text/plain"))

	body, err := os.ReadFile(filepath.Join(dir, "escape.txt"))
	require.NoError(t, err)
	assert.Equal(t, "two", string(body))
	assert.Equal(t, dir, s.Dir())
}

func TestDirSink_Errors(t *testing.T) {
	dir := t.TempDir()
	s := NewDirSink(dir, zerolog.Nop())

	err := s.Deliver(context.Background(), []byte("x"), "", "text/plain")
	assert.ErrorIs(t, err, ErrEmptyFilename)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = s.Deliver(ctx, []byte("x"), "a.txt", "text/plain")
	assert.ErrorIs(t, err, context.Canceled)

	// A directory in the way makes the rename fail; the temporary file must
	// still be cleaned up.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "taken"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "taken", "keep"), nil, 0644))
	err = s.Deliver(context.Background(), []byte("x"), "taken", "text/plain")
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".part"), e.Name())
	}
}

// =============================================================================
// RECORDER
// =============================================================================

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	ctx := context.Background()

	_, ok := r.Last()
	assert.False(t, ok)

	content := []byte("payload")
	require.NoError(t, r.Deliver(ctx, content, "f.json", "application/json"))
	content[0] = 'X'

	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, "payload", string(last.Content), "content is copied")
	assert.Equal(t, "f.json", last.Filename)

	assert.ErrorIs(t, r.Deliver(ctx, nil, "", "x"), ErrEmptyFilename)

	w := r.Open(ctx)
	require.NotNil(t, w)
	require.NoError(t, w.Write("<html></html>"))
	assert.Equal(t, []string{"<html></html>"}, r.Documents())

	r.Blocked = true
	assert.Nil(t, r.Open(ctx))
}

func TestRecorder_Concurrent(t *testing.T) {
	r := NewRecorder()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Deliver(ctx, []byte("x"), "f.csv", "text/csv")
		}()
	}
	wg.Wait()

	assert.Len(t, r.Deliveries(), 50)
}

// =============================================================================
// PRESENTERS
// =============================================================================

func TestFilePresenter(t *testing.T) {
	dir := t.TempDir()
	p := NewFilePresenter(dir, zerolog.Nop())

	w := p.Open(context.Background())
	require.NotNil(t, w)
	require.NoError(t, w.Write("<p>doc</p>"))

	matches, err := filepath.Glob(filepath.Join(dir, "print_*.html"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	body, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Equal(t, "<p>doc</p>", string(body))
}

func TestBrowserPresenter_NoOpener(t *testing.T) {
	p := NewBrowserPresenter(t.TempDir(), zerolog.Nop())
	p.lookPath = func(string) (string, error) { return "", errors.New("not found") }

	assert.Nil(t, p.Open(context.Background()))
}

func TestBrowserPresenter_Opens(t *testing.T) {
	if name, _ := openerCommand(); name == "" {
		t.Skip("no opener on this platform")
	}

	dir := t.TempDir()
	p := NewBrowserPresenter(dir, zerolog.Nop())

	var gotArgs []string
	p.lookPath = func(name string) (string, error) { return name, nil }
	p.command = func(_ string, args ...string) *exec.Cmd {
		gotArgs = args
		// Re-run the test binary with no matching tests; it exits at once.
		return exec.Command(os.Args[0], "-test.run=^$")
	}

	w := p.Open(context.Background())
	require.NotNil(t, w)
	require.NoError(t, w.Write("<p>doc</p>"))

	require.NotEmpty(t, gotArgs)
	path := gotArgs[len(gotArgs)-1]
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "print_"))
}
