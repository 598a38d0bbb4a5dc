package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lrstanley/go-ytdlp"

	coreconfig "github.com/m3rciful/tunebot/core/config"
	"github.com/m3rciful/tunebot/core/logger"
	"log/slog"
)

const searchTimeout = 30 * time.Second

// Engine implements Searcher and Fetcher on top of yt-dlp.
type Engine struct {
	cfg coreconfig.MediaConfig
}

// NewEngine builds an Engine from media configuration.
func NewEngine(cfg coreconfig.MediaConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Install makes sure a yt-dlp binary is available, downloading it if needed.
func (e *Engine) Install(ctx context.Context) error {
	if _, err := ytdlp.Install(ctx, nil); err != nil {
		return fmt.Errorf("media: yt-dlp install: %w", err)
	}
	return nil
}

// Search runs a flat ytsearch extraction and returns at most the configured
// number of tracks in the engine's relevance order. Engine failures are
// logged and reported as an empty result, never as an error.
func (e *Engine) Search(ctx context.Context, query string) ([]Track, error) {
	searchCtx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	start := time.Now()
	cmd := ytdlp.New().
		SkipDownload().
		FlatPlaylist().
		DumpSingleJSON().
		NoWarnings().
		Quiet()
	if e.cfg.CookieFile != "" {
		cmd = cmd.Cookies(e.cfg.CookieFile)
	}

	target := fmt.Sprintf("ytsearch%d:%s", e.cfg.SearchLimit, query)
	res, err := cmd.Run(searchCtx, target)
	if err != nil {
		logger.MEDIA.Warn("search failed",
			slog.String("event", "search"),
			slog.String("query", logger.SanitizeLimit(query, 128)),
			slog.Duration("duration", logger.Took(start)),
			slog.String("err", err.Error()),
		)
		return nil, nil
	}

	tracks := parseSearchDump([]byte(res.Stdout), e.cfg.SearchLimit)
	logger.MEDIA.Info("search done",
		slog.String("event", "search"),
		slog.String("query", logger.SanitizeLimit(query, 128)),
		slog.Int("count", len(tracks)),
		slog.Duration("duration", logger.Took(start)),
	)
	return tracks, nil
}

type searchDump struct {
	Entries []searchEntry `json:"entries"`
}

type searchEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// parseSearchDump extracts tracks from a --dump-single-json flat playlist.
// Entries without an id are skipped; order is preserved.
func parseSearchDump(data []byte, limit int) []Track {
	var dump searchDump
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil
	}
	tracks := make([]Track, 0, len(dump.Entries))
	for _, entry := range dump.Entries {
		if entry.ID == "" {
			continue
		}
		title := entry.Title
		if title == "" {
			title = "No Title"
		}
		url := entry.URL
		if url == "" {
			url = WatchURL(entry.ID)
		}
		tracks = append(tracks, Track{ID: entry.ID, Title: title, WatchURL: url})
		if limit > 0 && len(tracks) == limit {
			break
		}
	}
	return tracks
}

// Fetch downloads the track's best audio and transcodes it to the configured
// container. The returned path is the file yt-dlp actually produced after
// post-processing, so container-extension mismatches cannot occur. On any
// failure the scratch directory is removed before returning.
func (e *Engine) Fetch(ctx context.Context, track Track) (string, error) {
	attempts := e.cfg.FetchRetries + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}

		path, err := e.fetchOnce(ctx, track, attempt)
		if err == nil {
			return path, nil
		}
		lastErr = err
		if errors.Is(err, context.Canceled) {
			break
		}
	}

	return "", &FetchError{URL: track.WatchURL, Err: lastErr}
}

func (e *Engine) fetchOnce(ctx context.Context, track Track, attempt int) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, time.Duration(e.cfg.FetchTimeoutSeconds)*time.Second)
	defer cancel()

	workdir := filepath.Join(e.cfg.DownloadDir, uuid.NewString())
	if err := os.MkdirAll(workdir, 0o755); err != nil {
		return "", fmt.Errorf("create workdir: %w", err)
	}

	start := time.Now()
	cmd := ytdlp.New().
		Format("bestaudio/best").
		ExtractAudio().
		AudioFormat(e.cfg.AudioFormat).
		AudioQuality(e.cfg.AudioQuality).
		NoPlaylist().
		Output(filepath.Join(workdir, "%(title)s.%(ext)s")).
		Print("after_move:filepath").
		NoWarnings().
		Quiet()
	if e.cfg.CookieFile != "" {
		cmd = cmd.Cookies(e.cfg.CookieFile)
	}

	res, err := cmd.Run(attemptCtx, track.WatchURL)
	if err != nil {
		_ = os.RemoveAll(workdir)
		logger.MEDIA.Warn("download failed",
			slog.String("event", "download"),
			slog.String("track_id", track.ID),
			slog.Int("attempt", attempt),
			slog.Duration("duration", logger.Took(start)),
			slog.String("err", err.Error()),
		)
		return "", err
	}

	path := resolveProducedPath(res.Stdout, workdir)
	if path == "" {
		_ = os.RemoveAll(workdir)
		return "", fmt.Errorf("no output file produced")
	}
	if _, err := os.Stat(path); err != nil {
		_ = os.RemoveAll(workdir)
		return "", fmt.Errorf("output file missing: %w", err)
	}

	logger.MEDIA.Info("download done",
		slog.String("event", "download"),
		slog.String("track_id", track.ID),
		slog.Int("attempt", attempt),
		slog.Duration("duration", logger.Took(start)),
	)
	return path, nil
}

// resolveProducedPath picks the final post-processed file path. yt-dlp
// reports it via the after_move:filepath print; if that is missing for some
// reason, fall back to the single file left in the scratch directory.
func resolveProducedPath(stdout, workdir string) string {
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if _, err := os.Stat(line); err == nil {
			return line
		}
	}

	entries, err := os.ReadDir(workdir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		return filepath.Join(workdir, entry.Name())
	}
	return ""
}

// Discard removes the fetched file along with its scratch directory. Paths
// outside the configured download dir are refused. Both sides are made
// absolute first, so a relative download_dir still matches the absolute
// paths yt-dlp reports.
func (e *Engine) Discard(path string) error {
	if path == "" {
		return nil
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("media: resolve %s: %w", path, err)
	}
	root, err := filepath.Abs(e.cfg.DownloadDir)
	if err != nil {
		return fmt.Errorf("media: resolve %s: %w", e.cfg.DownloadDir, err)
	}
	dir := filepath.Dir(absPath)
	if dir == root {
		return os.Remove(absPath)
	}
	if !strings.HasPrefix(dir, root+string(filepath.Separator)) {
		return fmt.Errorf("media: refusing to remove %s outside %s", dir, root)
	}
	return os.RemoveAll(dir)
}
