package bot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/m3rciful/tunebot/media"
	"github.com/m3rciful/tunebot/paging"
)

func pageTracks(n int) []media.Track {
	out := make([]media.Track, n)
	for i := range out {
		out[i] = media.Track{ID: "id", Title: "Title"}
	}
	return out
}

func TestResultsHeaderIsOneBased(t *testing.T) {
	require.Equal(t, "🎬 Results for 'lofi beats' (Page 1)", resultsHeader("lofi beats", 0))
	require.Equal(t, "🎬 Results for 'lofi beats' (Page 3)", resultsHeader("lofi beats", 2))
}

func TestResultsKeyboardTokens(t *testing.T) {
	page := paging.Slice(pageTracks(12), 1, 5)
	markup := resultsKeyboard(page)

	rows := markup.InlineKeyboard
	require.Len(t, rows, 6) // five titles plus the nav row

	for i := 0; i < 5; i++ {
		require.Len(t, rows[i], 1)
		require.Equal(t, paging.SelectToken(5+i), rows[i][0].Data)
	}

	nav := rows[5]
	require.Len(t, nav, 2)
	require.Equal(t, paging.TokenPrev, nav[0].Data)
	require.Equal(t, paging.TokenNext, nav[1].Data)
}

func TestResultsKeyboardEdges(t *testing.T) {
	first := resultsKeyboard(paging.Slice(pageTracks(12), 0, 5))
	nav := first.InlineKeyboard[len(first.InlineKeyboard)-1]
	require.Len(t, nav, 1)
	require.Equal(t, paging.TokenNext, nav[0].Data)

	last := resultsKeyboard(paging.Slice(pageTracks(12), 2, 5))
	nav = last.InlineKeyboard[len(last.InlineKeyboard)-1]
	require.Len(t, nav, 1)
	require.Equal(t, paging.TokenPrev, nav[0].Data)

	single := resultsKeyboard(paging.Slice(pageTracks(3), 0, 5))
	require.Len(t, single.InlineKeyboard, 3) // no nav row at all
}

func TestResultsKeyboardTruncatesTitles(t *testing.T) {
	long := media.Track{ID: "id", Title: strings.Repeat("я", 80)}
	page := paging.Slice([]media.Track{long}, 0, 5)
	markup := resultsKeyboard(page)

	label := markup.InlineKeyboard[0][0].Text
	require.Equal(t, titleButtonLimit, len([]rune(label)))
}

func TestProgressTextTruncates(t *testing.T) {
	long := strings.Repeat("x", 100)
	text := progressText(long)
	require.Equal(t, "🎧 Downloading audio for: "+strings.Repeat("x", titleProgressLimit), text)
}

func TestTruncRunes(t *testing.T) {
	require.Equal(t, "abc", truncRunes("abc", 50))
	require.Equal(t, "аб", truncRunes("абвг", 2))
	require.Equal(t, "", truncRunes("abc", 0))
}
