package business

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/Conte777/tubedrop/internal/domain/media/consts"
	"github.com/Conte777/tubedrop/internal/domain/media/dto"
	"github.com/Conte777/tubedrop/internal/domain/media/entities"
	mediaerrors "github.com/Conte777/tubedrop/internal/domain/media/errors"
	pkgerrors "github.com/Conte777/tubedrop/pkg/errors"
)

// progressBuffer bounds queued progress events; the extractor drops on overflow
const progressBuffer = 64

// Download runs one download/upload cycle for the pending URL.
// An empty formatSelector means the height-capped default for video.
func (uc *UseCase) Download(ctx context.Context, req *dto.ButtonRequest, kind entities.MediaKind, formatSelector string) error {
	if uc.sender == nil {
		return mediaerrors.ErrSenderNotSet
	}

	url, err := uc.resolveURL(req)
	if err != nil {
		uc.reportSelectionError(ctx, req, err)
		return err
	}

	return uc.runDownload(ctx, req, url, kind, formatSelector)
}

func (uc *UseCase) runDownload(ctx context.Context, req *dto.ButtonRequest, url string, kind entities.MediaKind, formatSelector string) error {
	job := &entities.DownloadJob{
		ID:             uuid.NewString(),
		Key:            req.Key(),
		Kind:           kind,
		FormatSelector: formatSelector,
		SourceURL:      url,
		Status:         req.Status(),
		State:          entities.JobStarted,
		StartedAt:      time.Now(),
	}

	log := uc.logger.With().
		Str("job_id", job.ID).
		Int64("chat_id", job.Key.ChatID).
		Str("kind", string(kind)).
		Str("format_id", formatSelector).
		Logger()

	log.Info().Msg("Download job started")

	size, err := uc.execute(ctx, job, log)
	if err != nil {
		uc.transition(job, entities.JobFailed, log)
		log.Error().Err(err).Msg("Download error")

		uc.metrics.RecordDownloadError(string(kind), pkgerrors.TypeOf(err).String())
		uc.editStatus(ctx, job.Status, consts.StatusFailed)
		uc.publish(ctx, job, err, 0, log)
		return err
	}

	duration := time.Since(job.StartedAt)
	uc.metrics.RecordDownload(string(kind), duration.Seconds(), size)
	uc.publish(ctx, job, nil, size, log)

	log.Info().
		Int64("file_size", size).
		Dur("duration", duration).
		Msg("Download job completed")

	return nil
}

// execute performs the job steps and returns the uploaded file size
func (uc *UseCase) execute(ctx context.Context, job *entities.DownloadJob, log zerolog.Logger) (int64, error) {
	if err := os.MkdirAll(uc.cfg.DownloadDir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create download dir: %w", err)
	}

	if err := uc.sender.EditText(ctx, job.Status, fmt.Sprintf(consts.StatusStarting, job.Kind)); err != nil {
		return 0, fmt.Errorf("failed to post status: %w", err)
	}
	uc.publish(ctx, job, nil, 0, log)

	result, err := uc.downloadWithProgress(ctx, job, uc.buildRequest(job), log)
	if err != nil {
		return 0, err
	}

	filePath := result.FilePath
	if job.Kind == entities.KindAudio {
		filePath = ReplaceExt(filePath, uc.cfg.AudioCodec)
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", filePath, err)
	}
	size := info.Size()

	uc.editStatus(ctx, job.Status, fmt.Sprintf(consts.StatusUploading, entities.BytesToMB(size)))
	uc.transition(job, entities.JobUploading, log)

	if err := uc.upload(ctx, job, filePath, result.Title); err != nil {
		return 0, fmt.Errorf("%w: %s: %w", mediaerrors.ErrUpload, filePath, err)
	}

	uc.transition(job, entities.JobDone, log)
	uc.editStatus(ctx, job.Status, consts.StatusDone)

	if err := os.Remove(filePath); err != nil {
		log.Warn().Err(err).Str("path", filePath).Msg("Failed to remove uploaded file")
	}

	return size, nil
}

func (uc *UseCase) buildRequest(job *entities.DownloadJob) entities.DownloadRequest {
	req := entities.DownloadRequest{
		URL:       job.SourceURL,
		Kind:      job.Kind,
		OutputDir: uc.cfg.DownloadDir,
	}

	switch job.Kind {
	case entities.KindAudio:
		req.FormatSelector = consts.BestAudioFormat
		req.AudioCodec = uc.cfg.AudioCodec
		req.AudioQuality = uc.cfg.AudioQuality
	default:
		req.FormatSelector = job.FormatSelector
		if req.FormatSelector == "" {
			req.FormatSelector = fmt.Sprintf(consts.AutoVideoFormat, uc.cfg.AutoMaxHeight)
		}
	}

	return req
}

type downloadOutcome struct {
	result *entities.DownloadResult
	err    error
}

// downloadWithProgress runs the extractor on its own goroutine and applies
// progress events to the status message until it returns
func (uc *UseCase) downloadWithProgress(
	ctx context.Context,
	job *entities.DownloadJob,
	req entities.DownloadRequest,
	log zerolog.Logger,
) (*entities.DownloadResult, error) {
	progress := make(chan entities.ProgressEvent, progressBuffer)
	done := make(chan downloadOutcome, 1)

	go func() {
		result, err := uc.extractor.Download(ctx, req, progress)
		done <- downloadOutcome{result: result, err: err}
	}()

	tracker := &progressTracker{
		limiter: rate.NewLimiter(rate.Every(uc.cfg.ProgressInterval), 1),
	}

	for {
		select {
		case ev := <-progress:
			uc.applyProgress(ctx, job, ev, tracker, log)

		case out := <-done:
			for drained := false; !drained; {
				select {
				case ev := <-progress:
					uc.applyProgress(ctx, job, ev, tracker, log)
				default:
					drained = true
				}
			}

			if out.err != nil {
				return nil, fmt.Errorf("%w: %w", mediaerrors.ErrExtraction, out.err)
			}
			if out.result == nil || out.result.FilePath == "" {
				return nil, mediaerrors.ErrEmptyResult
			}

			uc.transition(job, entities.JobDownloaded, log)
			return out.result, nil
		}
	}
}

type progressTracker struct {
	limiter  *rate.Limiter
	lastText string
}

func (uc *UseCase) applyProgress(
	ctx context.Context,
	job *entities.DownloadJob,
	ev entities.ProgressEvent,
	tracker *progressTracker,
	log zerolog.Logger,
) {
	var text string

	switch ev.Status {
	case entities.ProgressDownloading:
		percent, ok := ev.Percent()
		if !ok {
			return
		}
		uc.transition(job, entities.JobDownloading, log)
		if !tracker.limiter.Allow() {
			return
		}
		text = fmt.Sprintf(consts.StatusDownloading, job.Kind, percent)

	case entities.ProgressFinished:
		uc.transition(job, entities.JobDownloaded, log)
		text = consts.StatusDownloaded

	default:
		return
	}

	if text == tracker.lastText {
		return
	}
	tracker.lastText = text
	uc.editStatus(ctx, job.Status, text)
}

func (uc *UseCase) upload(ctx context.Context, job *entities.DownloadJob, filePath, title string) error {
	if job.Kind == entities.KindAudio {
		if title == "" {
			title = consts.DefaultAudioTitle
		}
		return uc.sender.SendAudio(ctx, job.Key.ChatID, filePath, title)
	}

	if title == "" {
		title = consts.DefaultVideoTitle
	}
	return uc.sender.SendVideo(ctx, job.Key.ChatID, filePath, title)
}

// transition moves the job forward, ignoring moves the state machine forbids
func (uc *UseCase) transition(job *entities.DownloadJob, to entities.JobState, log zerolog.Logger) {
	if !job.State.CanTransition(to) {
		return
	}

	log.Debug().
		Str("from", string(job.State)).
		Str("to", string(to)).
		Msg("Job state changed")

	job.State = to
}

// editStatus edits a status message; failures are logged and never fail the job
func (uc *UseCase) editStatus(ctx context.Context, msg entities.StatusMessage, text string) {
	if err := uc.sender.EditText(ctx, msg, text); err != nil {
		uc.logger.Warn().
			Err(err).
			Int64("chat_id", msg.ChatID).
			Int("message_id", msg.MessageID).
			Msg("Failed to update status message")
	}
}

func (uc *UseCase) publish(ctx context.Context, job *entities.DownloadJob, jobErr error, size int64, log zerolog.Logger) {
	if uc.events == nil {
		return
	}

	event := dto.NewJobEvent(job)
	event.FileSize = size
	if jobErr != nil {
		event.Error = jobErr.Error()
	}

	if err := uc.events.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("state", event.State).Msg("Failed to publish job event")
	}
}

// ReplaceExt swaps the extension of path for ext (without dot)
func ReplaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + ext
}
