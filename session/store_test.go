package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/m3rciful/tunebot/media"
)

func tracks(n int) []media.Track {
	out := make([]media.Track, n)
	for i := range out {
		out[i] = media.Track{ID: string(rune('a' + i)), Title: "track"}
	}
	return out
}

func TestPutReplacesPriorSession(t *testing.T) {
	s := NewStore(time.Minute, 5)

	s.Put(1, "first", tracks(12))
	_, _, err := s.MutatePage(1, 1)
	require.NoError(t, err)

	sess := s.Put(1, "second", tracks(3))
	require.Equal(t, "second", sess.Query)
	require.Equal(t, 0, sess.Page)

	got, ok := s.Get(1)
	require.True(t, ok)
	require.Equal(t, "second", got.Query)
	require.Len(t, got.Tracks, 3)
	require.Equal(t, 0, got.Page)
}

func TestMutatePageClamps(t *testing.T) {
	s := NewStore(time.Minute, 5)
	s.Put(7, "q", tracks(12)) // pages 0..2

	sess, moved, err := s.MutatePage(7, -1)
	require.NoError(t, err)
	require.False(t, moved)
	require.Equal(t, 0, sess.Page)

	for i := 0; i < 2; i++ {
		sess, moved, err = s.MutatePage(7, 1)
		require.NoError(t, err)
		require.True(t, moved)
	}
	require.Equal(t, 2, sess.Page)

	sess, moved, err = s.MutatePage(7, 1)
	require.NoError(t, err)
	require.False(t, moved)
	require.Equal(t, 2, sess.Page)

	sess, moved, err = s.MutatePage(7, -5)
	require.NoError(t, err)
	require.True(t, moved)
	require.Equal(t, 0, sess.Page)
}

func TestMutatePageMissingSession(t *testing.T) {
	s := NewStore(time.Minute, 5)
	_, _, err := s.MutatePage(42, 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestExpiry(t *testing.T) {
	s := NewStore(10*time.Millisecond, 5)
	s.Put(9, "q", tracks(2))

	_, ok := s.Get(9)
	require.True(t, ok)

	time.Sleep(25 * time.Millisecond)

	_, ok = s.Get(9)
	require.False(t, ok)
	_, _, err := s.MutatePage(9, 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSweepRemovesOnlyStale(t *testing.T) {
	s := NewStore(20*time.Millisecond, 5)
	s.Put(1, "old", tracks(1))
	time.Sleep(30 * time.Millisecond)
	s.Put(2, "fresh", tracks(1))

	require.Equal(t, 1, s.sweep())
	require.Equal(t, 1, s.Len())

	_, ok := s.Get(2)
	require.True(t, ok)
}

func TestSinglePageNeverAdvances(t *testing.T) {
	s := NewStore(time.Minute, 5)
	s.Put(3, "q", tracks(4))

	sess, moved, err := s.MutatePage(3, 1)
	require.NoError(t, err)
	require.False(t, moved)
	require.Equal(t, 0, sess.Page)
}
