package session

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/oxcstats/soldierstats/internal/parser"
	"github.com/oxcstats/soldierstats/internal/savefile"
	"github.com/oxcstats/soldierstats/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samplePath = filepath.Join("..", "parser", "testdata", "sample.sav")

type fakeArchiver struct {
	mu    sync.Mutex
	snaps []*core.Snapshot
	err   error
}

func (f *fakeArchiver) StoreSnapshot(_ context.Context, snap *core.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snaps = append(f.snaps, snap)
	return f.err
}

type fakeRecorder struct {
	calls int
	took  time.Duration
}

func (f *fakeRecorder) RecordLoad(_ context.Context, _ *core.Snapshot, took time.Duration) error {
	f.calls++
	f.took = took
	return nil
}

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := NewStore(parser.NewParser(slog.Default(), true), slog.Default(), opts...)
	require.NoError(t, err)
	return s
}

func TestStore_EmptyUntilLoaded(t *testing.T) {
	s := newTestStore(t)
	assert.Nil(t, s.Current())
	assert.Nil(t, s.LogAttrs())
}

func TestStore_Load(t *testing.T) {
	archiver := &fakeArchiver{}
	recorder := &fakeRecorder{}
	s := newTestStore(t, WithArchiver(archiver), WithRecorder(recorder))

	snap, err := s.Load(context.Background(), samplePath)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Same(t, snap, s.Current())
	assert.Len(t, snap.Roster, 6)

	require.Len(t, archiver.snaps, 1)
	assert.Same(t, snap, archiver.snaps[0])
	assert.Equal(t, 1, recorder.calls)
	assert.Positive(t, recorder.took)

	attrs := s.LogAttrs()
	require.Len(t, attrs, 1)
	assert.Equal(t, "Sample Campaign", attrs[0].Value.String())
}

func TestStore_FailedLoadKeepsPrevious(t *testing.T) {
	archiver := &fakeArchiver{}
	s := newTestStore(t, WithArchiver(archiver))

	first, err := s.Load(context.Background(), samplePath)
	require.NoError(t, err)

	broken := filepath.Join(t.TempDir(), "broken.sav")
	require.NoError(t, os.WriteFile(broken, []byte("difficulty: 1\n"), 0644))

	_, err = s.Load(context.Background(), broken)
	var formatErr *savefile.FormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, 1, formatErr.Count)

	assert.Same(t, first, s.Current())
	assert.Len(t, archiver.snaps, 1)
}

func TestStore_ReloadReplacesWholeSnapshot(t *testing.T) {
	s := newTestStore(t)

	first, err := s.Load(context.Background(), samplePath)
	require.NoError(t, err)
	second, err := s.Load(context.Background(), samplePath)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Same(t, second, s.Current())
	// the old snapshot is untouched by the reload
	assert.Len(t, first.Roster, 6)
	assert.Equal(t, first.Roster, second.Roster)
}

func TestStore_ArchiverFailureDoesNotRollBack(t *testing.T) {
	s := newTestStore(t, WithArchiver(&fakeArchiver{err: errors.New("disk full")}))

	snap, err := s.Load(context.Background(), samplePath)
	require.NoError(t, err)
	assert.Same(t, snap, s.Current())
}

func TestStore_ConcurrentReaders(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Load(context.Background(), samplePath)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				snap := s.Current()
				assert.Len(t, snap.MissionParticipants(102), 4)
			}
		}()
	}

	for i := 0; i < 3; i++ {
		_, err := s.Load(context.Background(), samplePath)
		require.NoError(t, err)
	}
	wg.Wait()
}

func TestStore_DebugDump(t *testing.T) {
	dump := filepath.Join(t.TempDir(), "debug", "data.json")
	s := newTestStore(t, WithDebugDump(dump))

	_, err := s.Load(context.Background(), samplePath)
	require.NoError(t, err)

	data, err := os.ReadFile(dump)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"difficulty":2`)
}
