package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/m3rciful/tunebot/media"
	"github.com/m3rciful/tunebot/storage"
)

type fakeFetcher struct {
	path      string
	fetchErr  error
	discarded []string
}

func (f *fakeFetcher) Fetch(_ context.Context, _ media.Track) (string, error) {
	if f.fetchErr != nil {
		return "", f.fetchErr
	}
	return f.path, nil
}

func (f *fakeFetcher) Discard(path string) error {
	f.discarded = append(f.discarded, path)
	return nil
}

func TestDeliverTrackDelivered(t *testing.T) {
	f := &fakeFetcher{path: "downloads/x/song.mp3"}
	app := NewApp(nil, nil, f, nil, nil)

	var sent []string
	var notices []string
	status := app.deliverTrack(context.Background(), 1, "q", media.Track{ID: "abc", Title: "Song"}, deliverIO{
		sendAudio: func(path string) error {
			sent = append(sent, path)
			return nil
		},
		notify: func(text string) error {
			notices = append(notices, text)
			return nil
		},
	})

	require.Equal(t, storage.StatusDelivered, status)
	require.Equal(t, []string{"downloads/x/song.mp3"}, sent)
	require.Empty(t, notices)
	require.Equal(t, []string{"downloads/x/song.mp3"}, f.discarded)
}

func TestDeliverTrackDownloadFailed(t *testing.T) {
	f := &fakeFetcher{fetchErr: errors.New("extractor broke")}
	app := NewApp(nil, nil, f, nil, nil)

	var notices []string
	status := app.deliverTrack(context.Background(), 1, "q", media.Track{ID: "abc"}, deliverIO{
		sendAudio: func(string) error {
			t.Fatal("sendAudio must not run when the fetch fails")
			return nil
		},
		notify: func(text string) error {
			notices = append(notices, text)
			return nil
		},
	})

	require.Equal(t, storage.StatusDownloadFailed, status)
	require.Equal(t, []string{msgDownloadFailed}, notices)
	require.Empty(t, f.discarded)
}

func TestDeliverTrackSendFailedStillDiscards(t *testing.T) {
	f := &fakeFetcher{path: "downloads/y/song.mp3"}
	app := NewApp(nil, nil, f, nil, nil)

	var notices []string
	status := app.deliverTrack(context.Background(), 1, "q", media.Track{ID: "abc"}, deliverIO{
		sendAudio: func(string) error {
			return errors.New("upload timed out")
		},
		notify: func(text string) error {
			notices = append(notices, text)
			return nil
		},
	})

	require.Equal(t, storage.StatusSendFailed, status)
	require.Equal(t, []string{msgSendFailed}, notices)
	require.Equal(t, []string{"downloads/y/song.mp3"}, f.discarded)
}
