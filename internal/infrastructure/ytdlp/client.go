// Package ytdlp adapts the yt-dlp binary to the media extractor contract
package ytdlp

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/rs/zerolog"

	"github.com/Conte777/tubedrop/config"
	"github.com/Conte777/tubedrop/internal/domain/media/entities"
	pkgerrors "github.com/Conte777/tubedrop/pkg/errors"
)

// ProgressFrequency is how often yt-dlp progress is sampled
const ProgressFrequency = 500 * time.Millisecond

// DropRecorder counts progress events dropped on a full channel
type DropRecorder interface {
	RecordDroppedProgressEvent()
}

// Client runs yt-dlp for metadata queries and downloads
type Client struct {
	executable string
	drops      DropRecorder
	logger     zerolog.Logger
}

// NewClient creates a new yt-dlp client. drops may be nil.
func NewClient(cfg *config.YtDlpConfig, drops DropRecorder, logger zerolog.Logger) *Client {
	return &Client{
		executable: cfg.Path,
		drops:      drops,
		logger:     logger.With().Str("component", "ytdlp").Logger(),
	}
}

func (c *Client) command() *ytdlp.Command {
	cmd := ytdlp.New().NoPlaylist()
	if c.executable != "" {
		cmd.SetExecutable(c.executable)
	}
	return cmd
}

// FetchInfo queries metadata without downloading anything
func (c *Client) FetchInfo(ctx context.Context, url string) (*entities.MediaInfo, error) {
	c.logger.Debug().Str("url", url).Msg("Fetching media info")

	result, err := c.command().
		SkipDownload().
		DumpJSON().
		Run(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp metadata query failed: %w", err)
	}

	info, err := extractedInfo(result, url)
	if err != nil {
		return nil, err
	}

	media := toMediaInfo(info)

	c.logger.Debug().
		Str("url", url).
		Str("title", media.Title).
		Int("formats", len(media.Formats)).
		Msg("Media info fetched")

	return media, nil
}

// Download downloads (and for audio transcodes) url into req.OutputDir.
// Downloading progress that does not fit the channel is dropped; the
// finished event waits for room.
func (c *Client) Download(ctx context.Context, req entities.DownloadRequest, progress chan<- entities.ProgressEvent) (*entities.DownloadResult, error) {
	cmd := c.command().
		Format(req.FormatSelector).
		Output(filepath.Join(req.OutputDir, "%(title)s.%(ext)s")).
		DumpJSON().
		NoSimulate()

	if req.Kind == entities.KindAudio {
		cmd.ExtractAudio().
			AudioFormat(req.AudioCodec).
			AudioQuality(req.AudioQuality)
	}

	if progress != nil {
		// -j implies quiet; progress must be requested explicitly
		cmd.Progress().ProgressFunc(ProgressFrequency, func(update ytdlp.ProgressUpdate) {
			ev, ok := toProgressEvent(update)
			if !ok {
				return
			}
			c.publish(ctx, progress, ev)
		})
	}

	c.logger.Info().
		Str("url", req.URL).
		Str("kind", string(req.Kind)).
		Str("format", req.FormatSelector).
		Msg("Starting yt-dlp download")

	result, err := cmd.Run(ctx, req.URL)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp download failed: %w", err)
	}

	info, err := extractedInfo(result, req.URL)
	if err != nil {
		return nil, err
	}

	return &entities.DownloadResult{
		FilePath: outputPath(info),
		Title:    deref(info.Title),
	}, nil
}

func (c *Client) publish(ctx context.Context, progress chan<- entities.ProgressEvent, ev entities.ProgressEvent) {
	if ev.Status == entities.ProgressFinished {
		select {
		case progress <- ev:
		case <-ctx.Done():
		}
		return
	}

	select {
	case progress <- ev:
	default:
		if c.drops != nil {
			c.drops.RecordDroppedProgressEvent()
		}
		c.logger.Debug().Str("status", string(ev.Status)).Msg("Progress event dropped")
	}
}

func toProgressEvent(update ytdlp.ProgressUpdate) (entities.ProgressEvent, bool) {
	var status entities.ProgressStatus

	switch update.Status {
	case ytdlp.ProgressStatusDownloading:
		status = entities.ProgressDownloading
	case ytdlp.ProgressStatusFinished:
		status = entities.ProgressFinished
	default:
		return entities.ProgressEvent{}, false
	}

	return entities.ProgressEvent{
		Status:          status,
		DownloadedBytes: int64(update.DownloadedBytes),
		TotalBytes:      int64(update.TotalBytes),
	}, true
}

// extractedInfo returns the last info object yt-dlp printed
func extractedInfo(result *ytdlp.Result, url string) (*ytdlp.ExtractedInfo, error) {
	infos, err := result.GetExtractedInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp output: %w", err)
	}
	if len(infos) == 0 {
		return nil, pkgerrors.NewUnavailableErrorf("yt-dlp printed no info for %s", url)
	}

	return infos[len(infos)-1], nil
}

// outputPath prefers the final filename over the template one.
// Audio extraction renames the file afterwards; callers fix the extension.
func outputPath(info *ytdlp.ExtractedInfo) string {
	if path := deref(info.Filename); path != "" {
		return path
	}
	return deref(info.AltFilename)
}

func toMediaInfo(info *ytdlp.ExtractedInfo) *entities.MediaInfo {
	out := &entities.MediaInfo{
		Title:   deref(info.Title),
		Formats: make([]entities.EncodingDescriptor, 0, len(info.Formats)),
	}

	for _, f := range info.Formats {
		if f == nil {
			continue
		}
		out.Formats = append(out.Formats, toDescriptor(f))
	}

	return out
}

func toDescriptor(f *ytdlp.ExtractedFormat) entities.EncodingDescriptor {
	d := entities.EncodingDescriptor{
		FormatID:       deref(f.FormatID),
		Container:      deref(f.Extension),
		VideoCodec:     codec(f.VCodec),
		AudioCodec:     codec(f.ACodec),
		FileSize:       toBytes(f.FileSize),
		FileSizeApprox: toBytes(f.FileSizeApprox),
	}
	if f.Height != nil {
		h := int(*f.Height)
		d.Height = &h
	}

	return d
}

// codec restores the "none" marker the library clears to nil
func codec(v *string) string {
	if v == nil {
		return "none"
	}
	return *v
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func toBytes(v *int) *int64 {
	if v == nil {
		return nil
	}
	n := int64(*v)
	return &n
}
