package bot

import (
	"context"
	"time"

	"log/slog"

	"github.com/m3rciful/tunebot/core/logger"
	"github.com/m3rciful/tunebot/media"
	"github.com/m3rciful/tunebot/metrics"
	"github.com/m3rciful/tunebot/storage"
)

// deliverIO carries the chat-side effects of a delivery so the workflow
// itself stays independent of the transport.
type deliverIO struct {
	sendAudio func(path string) error
	notify    func(text string) error
}

// deliverTrack fetches the track, uploads the audio, records the outcome,
// and always discards the produced file. Returns the terminal status label.
func (a *App) deliverTrack(ctx context.Context, userID int64, query string, track media.Track, io deliverIO) string {
	start := time.Now()

	path, err := a.fetcher.Fetch(ctx, track)
	if err != nil {
		logger.Error(ctx, "media", "fetch.failed",
			slog.String("track_id", track.ID),
			slog.String("err", err.Error()),
		)
		if nerr := io.notify(msgDownloadFailed); nerr != nil {
			logger.Warn(ctx, "tg", "delivery.notify_failed",
				slog.String("err", nerr.Error()),
			)
		}
		return a.finishDelivery(ctx, userID, query, track, storage.StatusDownloadFailed, start)
	}
	defer func() {
		if derr := a.fetcher.Discard(path); derr != nil {
			logger.Warn(ctx, "media", "discard.failed",
				slog.String("path", path),
				slog.String("err", derr.Error()),
			)
		}
	}()

	if err := io.sendAudio(path); err != nil {
		logger.Error(ctx, "tg", "delivery.send_failed",
			slog.String("track_id", track.ID),
			slog.String("err", err.Error()),
		)
		if nerr := io.notify(msgSendFailed); nerr != nil {
			logger.Warn(ctx, "tg", "delivery.notify_failed",
				slog.String("err", nerr.Error()),
			)
		}
		return a.finishDelivery(ctx, userID, query, track, storage.StatusSendFailed, start)
	}

	return a.finishDelivery(ctx, userID, query, track, storage.StatusDelivered, start)
}

func (a *App) finishDelivery(ctx context.Context, userID int64, query string, track media.Track, status string, start time.Time) string {
	metrics.DownloadsTotal.WithLabelValues(status).Inc()
	metrics.DownloadDuration.Observe(time.Since(start).Seconds())
	a.recordHistory(ctx, storage.Download{
		UserID:  userID,
		Query:   query,
		TrackID: track.ID,
		Title:   track.Title,
		Status:  status,
	})
	return status
}
