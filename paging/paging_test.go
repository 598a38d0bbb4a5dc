package paging

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/m3rciful/tunebot/media"
)

func trackList(n int) []media.Track {
	out := make([]media.Track, n)
	for i := range out {
		out[i] = media.Track{ID: SelectToken(i), Title: "t"}
	}
	return out
}

func TestSliceWindows(t *testing.T) {
	tracks := trackList(12)

	p0 := Slice(tracks, 0, 5)
	require.Len(t, p0.Items, 5)
	require.Equal(t, 0, p0.Items[0].Index)
	require.False(t, p0.HasPrev)
	require.True(t, p0.HasNext)

	p1 := Slice(tracks, 1, 5)
	require.Len(t, p1.Items, 5)
	require.Equal(t, 5, p1.Items[0].Index)
	require.True(t, p1.HasPrev)
	require.True(t, p1.HasNext)

	p2 := Slice(tracks, 2, 5)
	require.Len(t, p2.Items, 2)
	require.Equal(t, 10, p2.Items[0].Index)
	require.Equal(t, 11, p2.Items[1].Index)
	require.True(t, p2.HasPrev)
	require.False(t, p2.HasNext)
}

func TestSliceExactMultiple(t *testing.T) {
	tracks := trackList(10)

	last := Slice(tracks, 1, 5)
	require.Len(t, last.Items, 5)
	require.False(t, last.HasNext)

	// Page 2 would be empty; the window clamps back to the last real page.
	clamped := Slice(tracks, 2, 5)
	require.Equal(t, 1, clamped.Number)
	require.Len(t, clamped.Items, 5)
}

func TestSliceClampsNegativeAndEmpty(t *testing.T) {
	tracks := trackList(3)

	neg := Slice(tracks, -4, 5)
	require.Equal(t, 0, neg.Number)
	require.Len(t, neg.Items, 3)
	require.False(t, neg.HasPrev)
	require.False(t, neg.HasNext)

	empty := Slice(nil, 0, 5)
	require.Empty(t, empty.Items)
	require.False(t, empty.HasPrev)
	require.False(t, empty.HasNext)
}

func TestSelectTokenRoundTrip(t *testing.T) {
	for _, index := range []int{0, 3, 19} {
		token := SelectToken(index)
		got, ok := ParseSelect(token)
		require.True(t, ok, token)
		require.Equal(t, index, got)
	}
}

func TestParseSelectRejectsGarbage(t *testing.T) {
	for _, token := range []string{"next", "prev", "select_", "select_x", "select_-1", "pick_2"} {
		_, ok := ParseSelect(token)
		require.False(t, ok, token)
	}
}
