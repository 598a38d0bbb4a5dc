package bot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/tunebot/media"
	"github.com/m3rciful/tunebot/session"
)

// stubContext satisfies the handful of tele.Context methods the selection
// handler touches. Anything else panics, which is what we want.
type stubContext struct {
	tele.Context

	user   *tele.User
	chat   *tele.Chat
	data   string
	store  map[string]interface{}
	edited []string
	sent   []interface{}
}

func newStubContext(userID int64, callbackData string) *stubContext {
	return &stubContext{
		user:  &tele.User{ID: userID},
		chat:  &tele.Chat{ID: userID},
		data:  callbackData,
		store: map[string]interface{}{},
	}
}

func (s *stubContext) Update() tele.Update { return tele.Update{ID: 1} }
func (s *stubContext) Sender() *tele.User  { return s.user }
func (s *stubContext) Chat() *tele.Chat    { return s.chat }

func (s *stubContext) Callback() *tele.Callback {
	return &tele.Callback{Data: s.data}
}

func (s *stubContext) Get(key string) interface{}    { return s.store[key] }
func (s *stubContext) Set(key string, v interface{}) { s.store[key] = v }

func (s *stubContext) EditOrSend(what interface{}, _ ...interface{}) error {
	if text, ok := what.(string); ok {
		s.edited = append(s.edited, text)
	}
	return nil
}

func (s *stubContext) Send(what interface{}, _ ...interface{}) error {
	s.sent = append(s.sent, what)
	return nil
}

// guardFetcher fails the test the moment Fetch runs.
type guardFetcher struct {
	t *testing.T
}

func (g *guardFetcher) Fetch(context.Context, media.Track) (string, error) {
	g.t.Error("fetch must not run without a live session")
	return "", nil
}

func (g *guardFetcher) Discard(string) error { return nil }

func TestSelectWithoutSessionShortCircuits(t *testing.T) {
	sessions := session.NewStore(time.Minute, 5)
	app := NewApp(nil, nil, &guardFetcher{t: t}, sessions, nil)

	c := newStubContext(42, "select_0")
	require.NoError(t, app.handleSelect(c))

	require.Equal(t, []string{msgExpired}, c.edited)
	require.Empty(t, c.sent)
}

func TestSelectStaleIndexShortCircuits(t *testing.T) {
	sessions := session.NewStore(time.Minute, 5)
	app := NewApp(nil, nil, &guardFetcher{t: t}, sessions, nil)

	sessions.Put(42, "query", []media.Track{
		{ID: "a", Title: "First"},
		{ID: "b", Title: "Second"},
	})

	// The button came from a longer result list that has since been
	// replaced.
	c := newStubContext(42, "select_9")
	require.NoError(t, app.handleSelect(c))

	require.Equal(t, []string{msgExpired}, c.edited)
	require.Empty(t, c.sent)
}

func TestSelectDeliversChosenTrack(t *testing.T) {
	sessions := session.NewStore(time.Minute, 5)
	f := &fakeFetcher{path: "downloads/z/song.mp3"}
	app := NewApp(nil, nil, f, sessions, nil)

	sessions.Put(42, "query", []media.Track{
		{ID: "a", Title: "First"},
		{ID: "b", Title: "Second"},
	})

	c := newStubContext(42, "select_1")
	require.NoError(t, app.handleSelect(c))

	require.Equal(t, []string{progressText("Second")}, c.edited)
	require.Len(t, c.sent, 1)
	audio, ok := c.sent[0].(*tele.Audio)
	require.True(t, ok)
	require.Equal(t, "Second", audio.Title)
	require.Equal(t, []string{"downloads/z/song.mp3"}, f.discarded)
}
