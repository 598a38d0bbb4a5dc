// Package bot implements the chat-facing behaviour: search, paginated
// result lists, and audio delivery.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"
	"log/slog"

	coreconfig "github.com/m3rciful/tunebot/core/config"
	"github.com/m3rciful/tunebot/core/logger"
	tg "github.com/m3rciful/tunebot/core/telegram"
	"github.com/m3rciful/tunebot/core/telegram/callbacks"
	"github.com/m3rciful/tunebot/core/telegram/commands"
	"github.com/m3rciful/tunebot/core/telegram/helpers"
	"github.com/m3rciful/tunebot/media"
	"github.com/m3rciful/tunebot/metrics"
	"github.com/m3rciful/tunebot/paging"
	"github.com/m3rciful/tunebot/session"
	"github.com/m3rciful/tunebot/storage"
)

// statusSessionExpired labels selections that never reached the fetch stage
// because the session was gone. It is counted but not written to history.
const statusSessionExpired = "session_expired"

// App bundles the bot's dependencies. History is optional; when nil the
// /history and /stats commands are not registered.
type App struct {
	cfg      *coreconfig.Config
	searcher media.Searcher
	fetcher  media.Fetcher
	sessions *session.Store
	history  *storage.Downloads
}

// NewApp wires the bot behaviour onto its dependencies.
func NewApp(cfg *coreconfig.Config, searcher media.Searcher, fetcher media.Fetcher, sessions *session.Store, history *storage.Downloads) *App {
	return &App{
		cfg:      cfg,
		searcher: searcher,
		fetcher:  fetcher,
		sessions: sessions,
		history:  history,
	}
}

// Register binds all commands, callbacks, and the free-text fallback.
func (a *App) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Start the bot",
	})
	if a.history != nil {
		reg.RegisterCommand("/history", commands.Command{
			Handler:     a.handleHistory,
			Description: "Show your recent downloads",
		})
		reg.RegisterCommand("/stats", commands.Command{
			Handler:     a.handleStats,
			Description: "Delivery totals",
			AdminOnly:   true,
			Hidden:      true,
		})
	}

	reg.SetTextFallback(a.handleSearch)

	_ = reg.RegisterCallback(paging.TokenNext, a.pageHandler(+1))
	_ = reg.RegisterCallback(paging.TokenPrev, a.pageHandler(-1))
	_ = reg.RegisterCallbackPrefix(paging.SelectPrefix, a.handleSelect)
}

func (a *App) handleStart(c tele.Context) error {
	return helpers.SendText(c, msgWelcome)
}

// handleSearch runs a free-text query and replaces the user's session with
// the fresh result list.
func (a *App) handleSearch(c tele.Context) error {
	query := strings.TrimSpace(c.Text())
	if query == "" {
		return nil
	}

	ctx := helpers.BuildContext(c)
	userID := c.Sender().ID

	tracks, err := a.searcher.Search(ctx, query)
	if err != nil {
		logger.Warn(ctx, "media", "search.error",
			slog.String("query", logger.SanitizeLimit(query, 128)),
			slog.String("err", err.Error()),
		)
		tracks = nil
	}
	if len(tracks) == 0 {
		metrics.SearchesTotal.WithLabelValues("empty").Inc()
		return helpers.SendText(c, msgNoResults)
	}
	metrics.SearchesTotal.WithLabelValues("ok").Inc()

	sess := a.sessions.Put(userID, query, tracks)
	page := paging.Slice(sess.Tracks, sess.Page, a.sessions.PageSize())
	return helpers.SendKeyboard(c, resultsHeader(sess.Query, page.Number), resultsKeyboard(page))
}

// pageHandler flips the result list forward or back. A clamped press on the
// edge sends the no-more notice instead of re-rendering the same page.
func (a *App) pageHandler(delta int) tele.HandlerFunc {
	return func(c tele.Context) error {
		userID := c.Sender().ID

		sess, moved, err := a.sessions.MutatePage(userID, delta)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				return helpers.EditOrSend(c, msgExpired)
			}
			return err
		}
		if !moved {
			return helpers.SendText(c, msgNoMore)
		}

		page := paging.Slice(sess.Tracks, sess.Page, a.sessions.PageSize())
		return helpers.EditOrSend(c, resultsHeader(sess.Query, page.Number), resultsKeyboard(page))
	}
}

// handleSelect resolves the chosen track and runs the delivery workflow.
// The audio upload is synchronous so the file is not removed mid-send.
func (a *App) handleSelect(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	userID := c.Sender().ID

	index, ok := paging.ParseSelect(callbacks.Token(c))
	if !ok {
		return helpers.EditOrSend(c, msgExpired)
	}

	sess, ok := a.sessions.Get(userID)
	if !ok {
		metrics.DownloadsTotal.WithLabelValues(statusSessionExpired).Inc()
		return helpers.EditOrSend(c, msgExpired)
	}
	if index >= len(sess.Tracks) {
		// The session was replaced by a shorter result list since the
		// button was rendered.
		metrics.DownloadsTotal.WithLabelValues(statusSessionExpired).Inc()
		return helpers.EditOrSend(c, msgExpired)
	}
	track := sess.Tracks[index]

	if err := helpers.EditOrSend(c, progressText(track.Title)); err != nil {
		logger.Warn(ctx, "tg", "delivery.progress_edit_failed",
			slog.String("err", err.Error()),
		)
	}

	status := a.deliverTrack(ctx, userID, sess.Query, track, deliverIO{
		sendAudio: func(path string) error {
			audio := &tele.Audio{
				File:  tele.FromDisk(path),
				Title: track.Title,
			}
			return c.Send(audio)
		},
		notify: func(text string) error {
			return helpers.SendText(c, text)
		},
	})

	logger.Info(ctx, "tg", "delivery.done",
		slog.String("status", status),
		slog.String("track_id", track.ID),
	)
	return nil
}

func (a *App) handleHistory(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	userID := c.Sender().ID

	recs, err := a.history.RecentByUser(ctx, userID, 10)
	if err != nil {
		logger.Error(ctx, "db", "history.list_failed",
			slog.String("err", err.Error()),
		)
		return helpers.SendText(c, "History is unavailable right now.")
	}
	if len(recs) == 0 {
		return helpers.SendText(c, "No downloads yet. Send me a song name to get started.")
	}

	var b strings.Builder
	b.WriteString("Your recent downloads:\n")
	for _, rec := range recs {
		fmt.Fprintf(&b, "• %s — %s\n", truncRunes(rec.Title, titleButtonLimit), rec.Status)
	}
	return helpers.SendText(c, strings.TrimRight(b.String(), "\n"))
}

func (a *App) handleStats(c tele.Context) error {
	ctx := helpers.BuildContext(c)

	counts, err := a.history.CountByStatus(ctx)
	if err != nil {
		logger.Error(ctx, "db", "stats.count_failed",
			slog.String("err", err.Error()),
		)
		return helpers.SendText(c, "Stats are unavailable right now.")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Active sessions: %d\n", a.sessions.Len())
	if len(counts) == 0 {
		b.WriteString("No deliveries recorded yet.")
		return helpers.SendText(c, b.String())
	}
	b.WriteString("Delivery totals:\n")
	for _, sc := range counts {
		fmt.Fprintf(&b, "%s: %d\n", sc.Status, sc.Count)
	}
	return helpers.SendText(c, strings.TrimRight(b.String(), "\n"))
}

// recordHistory persists a delivery outcome on a best-effort basis.
func (a *App) recordHistory(ctx context.Context, rec storage.Download) {
	if a.history == nil {
		return
	}
	insertCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := a.history.Insert(insertCtx, rec); err != nil {
		logger.Warn(ctx, "db", "history.insert_failed",
			slog.String("err", err.Error()),
		)
	}
}
