package media

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/tunebot/core/config"
)

func TestParseSearchDump(t *testing.T) {
	data := []byte(`{
		"entries": [
			{"id": "aaa", "title": "First", "url": "https://www.youtube.com/watch?v=aaa"},
			{"id": "", "title": "dropped"},
			{"id": "bbb", "title": ""},
			{"id": "ccc", "title": "Third", "url": ""}
		]
	}`)

	tracks := parseSearchDump(data, 20)
	require.Len(t, tracks, 3)

	require.Equal(t, "aaa", tracks[0].ID)
	require.Equal(t, "First", tracks[0].Title)

	require.Equal(t, "No Title", tracks[1].Title)
	require.Equal(t, WatchURL("bbb"), tracks[1].WatchURL)

	require.Equal(t, WatchURL("ccc"), tracks[2].WatchURL)
}

func TestParseSearchDumpLimit(t *testing.T) {
	data := []byte(`{"entries": [{"id": "a"}, {"id": "b"}, {"id": "c"}]}`)
	tracks := parseSearchDump(data, 2)
	require.Len(t, tracks, 2)
}

func TestParseSearchDumpGarbage(t *testing.T) {
	require.Nil(t, parseSearchDump([]byte("not json"), 20))
	require.Empty(t, parseSearchDump([]byte(`{"entries": []}`), 20))
}

func TestDiscardRefusesOutsideDownloadDir(t *testing.T) {
	dir := t.TempDir()
	e := NewEngine(coreconfig.MediaConfig{DownloadDir: filepath.Join(dir, "downloads")})

	outside := filepath.Join(dir, "elsewhere", "song.mp3")
	require.NoError(t, os.MkdirAll(filepath.Dir(outside), 0o755))
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	require.Error(t, e.Discard(outside))
	_, err := os.Stat(outside)
	require.NoError(t, err)
}

func TestDiscardRelativeDownloadDir(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { require.NoError(t, os.Chdir(cwd)) }()

	e := NewEngine(coreconfig.MediaConfig{DownloadDir: "downloads"})

	scratch := filepath.Join(dir, "downloads", "job-7")
	require.NoError(t, os.MkdirAll(scratch, 0o755))
	path := filepath.Join(scratch, "song.mp3")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	// yt-dlp reports absolute paths even when download_dir is relative.
	require.NoError(t, e.Discard(path))
	_, err = os.Stat(scratch)
	require.True(t, os.IsNotExist(err))
}

func TestDiscardRemovesScratchDir(t *testing.T) {
	dir := t.TempDir()
	downloadDir := filepath.Join(dir, "downloads")
	e := NewEngine(coreconfig.MediaConfig{DownloadDir: downloadDir})

	scratch := filepath.Join(downloadDir, "job-1")
	require.NoError(t, os.MkdirAll(scratch, 0o755))
	path := filepath.Join(scratch, "song.mp3")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	require.NoError(t, e.Discard(path))
	_, err := os.Stat(scratch)
	require.True(t, os.IsNotExist(err))
}
